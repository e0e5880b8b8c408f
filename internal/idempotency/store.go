// Package idempotency guards against at-least-once webhook delivery: each
// inbound Telegram message id gets a durable marker, and only the first
// writer of the marker proceeds to act on the message.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/aws"
)

// Marker is the processed-message record. ExpiresAt is a DynamoDB TTL
// attribute so the table does not grow without bound.
type Marker struct {
	ID          string `dynamodbav:"message_id"` // MSG#<telegram message id>
	ProcessedAt string `dynamodbav:"processed_at"`
	ExpiresAt   int64  `dynamodbav:"expires_at"`
}

// MarkerID namespaces a Telegram message id away from other record kinds in
// the shared table.
func MarkerID(messageID string) string {
	return "MSG#" + messageID
}

// Store encapsulates idempotency operations against DynamoDB.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration
	nowFunc   func() time.Time
}

// NewStore returns a configured Store. ttlWindow bounds how long markers are
// retained (e.g. 48*time.Hour).
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// MarkIfFirst writes the marker with a conditional put. Returns
// (first=true, nil) when this call created the marker and the message should
// be processed; (false, nil) when the marker already existed. On store errors
// the caller decides; the handler fails open to avoid dropping messages.
func (s *Store) MarkIfFirst(ctx context.Context, messageID string) (bool, error) {
	now := s.nowFunc().UTC()
	marker := Marker{
		ID:          MarkerID(messageID),
		ProcessedAt: now.Format(time.RFC3339),
		ExpiresAt:   now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(marker)
	if err != nil {
		return false, fmt.Errorf("marshal marker: %w", err)
	}

	cond := "attribute_not_exists(message_id)"
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: &cond,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return false, nil
		}
		return false, fmt.Errorf("put marker: %w", err)
	}

	return true, nil
}
