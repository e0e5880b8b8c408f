// Package analyzer wraps the external classifier with the two prompt
// contracts the bot relies on (expense analysis and scope extraction) and
// degrades to deterministic parsing whenever the model path fails. Public
// methods never return an error: the result is always usable, and its Source
// field records whether the model or the fallback produced it.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/extract"
)

// ClassifyFunc is the external classifier capability: prompt in, raw model
// text out. High latency and failure are expected.
type ClassifyFunc func(ctx context.Context, prompt string) (string, error)

// Source records which path produced a result.
type Source int

const (
	SourceModel Source = iota
	SourceFallback
)

const (
	expenseTimeout = 10 * time.Second
	scopeTimeout   = 8 * time.Second

	defaultMessage = "Added to expenses! 💰"
)

// Extraction is the structured reading of an expense entry message.
type Extraction struct {
	Amount   float64
	Found    bool // false when no amount could be determined
	Category string
	Message  string
	Source   Source
}

// QueryScope describes the window of a history query.
type QueryScope struct {
	Days        int
	Description string
	Limit       *int // nil means show all; 1 means single-expense card
	Source      Source
}

// DeletionScope describes what a deletion request targets. Nil Days and Count
// together mean "everything".
type DeletionScope struct {
	Days        *int
	Description string
	Count       *int
	Position    string // "first", "last" or empty
	Source      Source
}

// Analyzer binds the prompt contracts to a classifier.
type Analyzer struct {
	classify ClassifyFunc
}

// New returns an Analyzer over the given classifier capability.
func New(classify ClassifyFunc) *Analyzer {
	return &Analyzer{classify: classify}
}

// jsonSpanRe grabs the first greedy {...} span from the model output; models
// habitually wrap the JSON in prose or markdown fences.
var jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)

var titleCaser = cases.Title(language.English)

// AnalyzeExpense extracts amount, category and a reply message from an
// expense entry. Any model failure degrades to the deterministic parsers.
func (a *Analyzer) AnalyzeExpense(ctx context.Context, text string) Extraction {
	res, err := a.analyzeExpenseModel(ctx, text)
	if err != nil {
		log.Printf("[analyzer] expense analysis degraded to fallback: %v", err)
		return fallbackExtraction(text)
	}
	return res
}

func (a *Analyzer) analyzeExpenseModel(ctx context.Context, text string) (Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, expenseTimeout)
	defer cancel()

	raw, err := a.classify(ctx, fmt.Sprintf("%s\n\nUser Input: %s", expensePrompt, text))
	if err != nil {
		return Extraction{}, err
	}

	span := jsonSpanRe.FindString(raw)
	if span == "" {
		return Extraction{}, fmt.Errorf("no JSON span in model response")
	}

	var payload struct {
		Amount   any    `json:"amount"`
		Category string `json:"category"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return Extraction{}, fmt.Errorf("parse model JSON: %w", err)
	}
	if payload.Amount == nil || payload.Category == "" {
		return Extraction{}, fmt.Errorf("model JSON missing amount or category")
	}

	amount, ok := coerceAmount(payload.Amount)
	if !ok || amount <= 0 {
		// The model produced garbage for the amount; re-read it from the
		// original text before giving up on the structured result.
		amount, ok = extract.Amount(text)
	}

	msg := payload.Message
	if msg == "" {
		msg = defaultMessage
	}

	return Extraction{
		Amount:   amount,
		Found:    ok && amount > 0,
		Category: titleCaser.String(payload.Category),
		Message:  msg,
		Source:   SourceModel,
	}, nil
}

// coerceAmount accepts the numeric or comma-grouped string forms the model
// returns for amounts.
func coerceAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(n, ",", "")), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var fallbackMessages = map[string]string{
	"Electronics":   "New gadget! 📱 Your electronics purchase has been logged. Enjoy your new device!",
	"Bills":         "Payment noted! 🧾 I've recorded your bill payment. Keeping your expenses organized!",
	"Food":          "Yum! 🍔 I've added your food expense to your tracker. Bon appétit!",
	"Transport":     "On the move! 🚗 I've logged your transport expense. Safe travels!",
	"Miscellaneous": "Got it! 💰 Your expense has been recorded. Thanks for keeping track!",
}

func fallbackExtraction(text string) Extraction {
	amount, found := extract.Amount(text)
	category := extract.Category(text)

	msg, ok := fallbackMessages[category]
	if !ok {
		msg = defaultMessage
	}

	return Extraction{
		Amount:   amount,
		Found:    found && amount > 0,
		Category: category,
		Message:  msg,
		Source:   SourceFallback,
	}
}

// ExtractQueryScope reads the time window and limit out of a history query.
// On any model failure it returns the fixed default: last 30 days, no limit.
func (a *Analyzer) ExtractQueryScope(ctx context.Context, query string) QueryScope {
	fallback := QueryScope{Days: 30, Description: "recent expenses", Source: SourceFallback}

	span, err := a.scopeSpan(ctx, fmt.Sprintf("%s\n\nUser query: %s", queryScopePrompt, query))
	if err != nil {
		log.Printf("[analyzer] query scope degraded to default: %v", err)
		return fallback
	}

	var payload struct {
		Days        *int   `json:"days"`
		Description string `json:"description"`
		Limit       *int   `json:"limit"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		log.Printf("[analyzer] query scope degraded to default: %v", err)
		return fallback
	}

	scope := QueryScope{Days: 30, Description: "recent expenses", Limit: payload.Limit, Source: SourceModel}
	if payload.Days != nil {
		scope.Days = *payload.Days
	}
	if payload.Description != "" {
		scope.Description = payload.Description
	}
	return scope
}

// ExtractDeletionScope reads the target of a deletion request. On any model
// failure it returns the fixed default meaning "all expenses".
func (a *Analyzer) ExtractDeletionScope(ctx context.Context, request string) DeletionScope {
	fallback := DeletionScope{Description: "all expenses", Source: SourceFallback}

	span, err := a.scopeSpan(ctx, fmt.Sprintf("%s\n\nUser request: %s", deletionScopePrompt, request))
	if err != nil {
		log.Printf("[analyzer] deletion scope degraded to default: %v", err)
		return fallback
	}

	var payload struct {
		Days        *int   `json:"days"`
		Description string `json:"description"`
		Count       *int   `json:"count"`
		Position    string `json:"position"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		log.Printf("[analyzer] deletion scope degraded to default: %v", err)
		return fallback
	}

	scope := DeletionScope{
		Days:        payload.Days,
		Description: payload.Description,
		Count:       payload.Count,
		Position:    payload.Position,
		Source:      SourceModel,
	}
	if scope.Description == "" {
		scope.Description = "specified expenses"
	}
	// A count without a position targets the most recent expenses.
	if scope.Count != nil && scope.Position == "" {
		scope.Position = "last"
	}
	return scope
}

func (a *Analyzer) scopeSpan(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, scopeTimeout)
	defer cancel()

	raw, err := a.classify(ctx, prompt)
	if err != nil {
		return "", err
	}
	span := jsonSpanRe.FindString(raw)
	if span == "" {
		return "", fmt.Errorf("no JSON span in model response")
	}
	return span, nil
}
