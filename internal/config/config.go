package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, parsed from the environment.
type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`

	TableName string `env:"DYNAMODB_TABLE" envDefault:"ProcessedMessages"`

	// EnableHistory gates the query and deletion lanes; expense entry and
	// the help reply are always available.
	EnableHistory bool `env:"ENABLE_HISTORY" envDefault:"true"`

	// SpendThreshold triggers overspend warnings in expense summaries.
	SpendThreshold float64 `env:"SPEND_THRESHOLD" envDefault:"5000"`

	MarkerTTL       time.Duration `env:"MARKER_TTL" envDefault:"48h"`
	ConfirmationTTL time.Duration `env:"CONFIRMATION_TTL" envDefault:"5m"`

	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"ExpenseBot"`
	AuditQueueURL    string `env:"DELETION_AUDIT_QUEUE_URL"`

	RunLocal   bool   `env:"RUN_LOCAL"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
}

// New parses the environment into a Config. A .env file is loaded first if
// present so local runs behave like the deployed function.
func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
