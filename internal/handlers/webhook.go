package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/analyzer"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/audit"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/aws"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/deletion"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/expenses"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/format"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/idempotency"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/intent"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/metrics"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/validation"
)

// Replier sends a reply into the chat the message came from.
// *telegram.Client satisfies it.
type Replier interface {
	SendReply(ctx context.Context, chatID, replyToMessageID int64, text string) error
}

// HandlerConfig groups dependencies for the webhook handler.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	CloudWatchClient aws.CloudWatchAPI
	SQSClient        aws.SQSAPI

	TableName        string
	MarkerTTL        time.Duration
	ConfirmationTTL  time.Duration
	SpendThreshold   float64
	MetricsNamespace string
	AuditQueueURL    string
	EnableHistory    bool

	Analyzer *analyzer.Analyzer
	Replier  Replier
}

// webhook holds the wired components behind the route.
type webhook struct {
	cfg      HandlerConfig
	markers  *idempotency.Store
	expenses *expenses.Store
	manager  *deletion.Manager
	metrics  *metrics.Publisher
	audit    *audit.Publisher
	router   intent.Router
}

// RegisterWebhookRoutes registers the Telegram webhook endpoint.
func RegisterWebhookRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	expenseStore := expenses.NewStore(cfg.DynamoDBClient, cfg.TableName)
	sessions := deletion.NewSessionStore(cfg.DynamoDBClient, cfg.TableName)

	h := &webhook{
		cfg:      cfg,
		markers:  idempotency.NewStore(cfg.DynamoDBClient, cfg.TableName, cfg.MarkerTTL),
		expenses: expenseStore,
		manager:  deletion.NewManager(sessions, expenseStore, cfg.ConfirmationTTL),
		metrics:  metrics.NewPublisher(cfg.CloudWatchClient, cfg.MetricsNamespace),
		audit:    audit.NewPublisher(cfg.SQSClient, cfg.AuditQueueURL),
		router:   intent.Router{HistoryEnabled: cfg.EnableHistory},
	}

	r.POST("/webhook", func(c *gin.Context) {
		var update validation.Update
		if err := validation.BindAndValidate(c, &update, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}
		h.handle(c, update.Message)
	})
}

// handle runs the pipeline for one validated message: idempotency gate,
// routing, lane execution, reply. Replies are best-effort; the webhook
// response tells Telegram whether to retry, not the user.
func (h *webhook) handle(c *gin.Context, msg *validation.Message) {
	ctx := c.Request.Context()
	messageID := strconv.FormatInt(msg.MessageID, 10)

	first, err := h.markers.MarkIfFirst(ctx, messageID)
	if err != nil {
		// Fail open: a broken marker store must not silently drop messages.
		// The worst case is a duplicate reply, which the user can see.
		log.Printf("[webhook] idempotency check failed for %s, processing anyway: %v", messageID, err)
	} else if !first {
		log.Printf("[webhook] duplicate delivery of %s ignored", messageID)
		c.JSON(http.StatusOK, gin.H{"message": "Already processed"})
		return
	}

	username := msg.SenderName()
	text := msg.TrimmedText()

	pendingCode := ""
	if sess, err := h.manager.Live(ctx, username); err != nil {
		log.Printf("[webhook] session lookup failed for %s: %v", username, err)
	} else if sess != nil {
		pendingCode = sess.Code
	}

	decision := h.router.Route(text, pendingCode)
	h.metrics.CountIntent(ctx, decision.String())

	switch decision {
	case intent.DecisionCancel:
		h.handleCancel(c, username, msg)
	case intent.DecisionConfirm:
		h.handleConfirm(c, username, text, msg)
	case intent.DecisionDeletionRequest:
		h.handleDeletionRequest(c, username, text, msg)
	case intent.DecisionQuery:
		h.handleQuery(c, username, text, msg)
	case intent.DecisionEntry:
		h.handleEntry(c, username, text, msg)
	default:
		h.reply(ctx, msg, format.Help())
		c.JSON(http.StatusOK, gin.H{"message": "Instructions sent"})
	}
}

func (h *webhook) handleCancel(c *gin.Context, username string, msg *validation.Message) {
	ctx := c.Request.Context()
	if err := h.manager.Cancel(ctx, username); err != nil && !errors.Is(err, deletion.ErrNoSession) {
		log.Printf("[webhook] cancel failed for %s: %v", username, err)
		h.reply(ctx, msg, format.Apology())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	h.reply(ctx, msg, format.DeletionCancelled())
	c.JSON(http.StatusOK, gin.H{"message": "Deletion confirmation processed"})
}

func (h *webhook) handleConfirm(c *gin.Context, username, text string, msg *validation.Message) {
	ctx := c.Request.Context()
	code, _ := intent.ParseConfirmationCode(text)

	sess, deleted, err := h.manager.Confirm(ctx, username, code)
	if err != nil {
		// The router only routes here on a code match against a live
		// session, so any error means the store failed or the session
		// vanished mid-flight.
		log.Printf("[webhook] confirm failed for %s: %v", username, err)
		h.reply(ctx, msg, format.Apology())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.audit.RecordDeletion(ctx, audit.Event{
		Username:    username,
		Description: sess.Description,
		ExpenseIDs:  sess.ExpenseIDs,
		Deleted:     deleted,
		TotalAmount: sess.TotalAmount,
	}); err != nil {
		log.Printf("[webhook] audit publish failed for %s: %v", username, err)
	}

	h.reply(ctx, msg, format.DeletionDone(deleted, sess.Description))
	c.JSON(http.StatusOK, gin.H{"message": "Deletion confirmation processed"})
}

func (h *webhook) handleDeletionRequest(c *gin.Context, username, text string, msg *validation.Message) {
	ctx := c.Request.Context()
	scope := h.cfg.Analyzer.ExtractDeletionScope(ctx, text)

	sess, err := h.manager.Request(ctx, username, msg.Chat.ID, scope)
	switch {
	case errors.Is(err, deletion.ErrPendingExists):
		h.reply(ctx, msg, format.PendingExists(sess.Code))
	case errors.Is(err, deletion.ErrNothingToDelete):
		h.reply(ctx, msg, format.NothingToDelete())
	case err != nil:
		log.Printf("[webhook] deletion request failed for %s: %v", username, err)
		h.reply(ctx, msg, format.Apology())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	default:
		h.reply(ctx, msg, format.DeletionPrompt(sess.ExpenseCount, sess.Description, sess.TotalAmount, sess.Code))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deletion request processed"})
}

func (h *webhook) handleQuery(c *gin.Context, username, text string, msg *validation.Message) {
	ctx := c.Request.Context()
	scope := h.cfg.Analyzer.ExtractQueryScope(ctx, text)

	start := time.Now().UTC().AddDate(0, 0, -scope.Days)
	recs, err := h.expenses.ListSince(ctx, username, start)
	if err != nil {
		log.Printf("[webhook] expense listing failed for %s: %v", username, err)
		h.reply(ctx, msg, format.Apology())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	h.reply(ctx, msg, format.Summary(recs, scope, h.cfg.SpendThreshold))
	c.JSON(http.StatusOK, gin.H{"message": "Expense query processed"})
}

func (h *webhook) handleEntry(c *gin.Context, username, text string, msg *validation.Message) {
	ctx := c.Request.Context()
	extraction := h.cfg.Analyzer.AnalyzeExpense(ctx, text)

	if !extraction.Found || extraction.Amount <= 0 {
		h.reply(ctx, msg, format.Help())
		c.JSON(http.StatusOK, gin.H{"message": "Instructions sent"})
		return
	}

	rec, err := h.expenses.Put(ctx, username, extraction.Amount, extraction.Category, text)
	if err != nil {
		log.Printf("[webhook] expense put failed for %s: %v", username, err)
		h.reply(ctx, msg, format.Apology())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if rec == nil {
		h.reply(ctx, msg, format.Help())
		c.JSON(http.StatusOK, gin.H{"message": "Instructions sent"})
		return
	}

	h.reply(ctx, msg, format.EntryConfirmation(rec.Amount, rec.Category, extraction.Message))
	c.JSON(http.StatusOK, gin.H{"message": "Expense processed"})
}

// reply sends the text back into the thread. Send failures are logged only;
// a lost reply is not a reason to make Telegram redeliver the update.
func (h *webhook) reply(ctx context.Context, msg *validation.Message, text string) {
	if err := h.cfg.Replier.SendReply(ctx, msg.Chat.ID, msg.MessageID, text); err != nil {
		log.Printf("[webhook] reply to chat %d failed: %v", msg.Chat.ID, err)
	}
}
