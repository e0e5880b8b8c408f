package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/analyzer"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/aws"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/config"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/gemini"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/handlers"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/telegram"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterWebhookRoutes(r, cfg)

	return r
}

func main() {
	cfg := config.New()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	model := gemini.NewClient(cfg.GeminiAPIKey)

	handlerCfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		CloudWatchClient: clients.CloudWatch,
		SQSClient:        clients.SQS,
		TableName:        cfg.TableName,
		MarkerTTL:        cfg.MarkerTTL,
		ConfirmationTTL:  cfg.ConfirmationTTL,
		SpendThreshold:   cfg.SpendThreshold,
		MetricsNamespace: cfg.MetricsNamespace,
		AuditQueueURL:    cfg.AuditQueueURL,
		EnableHistory:    cfg.EnableHistory,
		Analyzer:         analyzer.New(model.Classify),
		Replier:          telegram.NewClient(cfg.TelegramBotToken),
	}

	r := setupRouter(handlerCfg)

	if cfg.RunLocal {
		log.Printf("running local server on %s", cfg.ListenAddr)
		if err := r.Run(cfg.ListenAddr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
