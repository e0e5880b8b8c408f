// Package deletion implements the confirm/cancel protocol for bulk expense
// deletion. Sessions are durable records in the shared table, not process
// memory, so any worker instance can resolve a confirmation; expiry is lazy,
// checked on every lookup.
package deletion

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/aws"
)

// RecordType discriminates deletion sessions in the shared table.
const RecordType = "DELETION"

// Session is a pending deletion awaiting confirmation. ExpenseIDs is the
// candidate snapshot taken at request time; confirmation deletes exactly
// these ids, never a fresh query, so expenses recorded during the
// confirmation window are safe.
type Session struct {
	ID           string   `dynamodbav:"message_id"` // DEL#<user>
	Username     string   `dynamodbav:"username"`
	Type         string   `dynamodbav:"type"`
	Code         string   `dynamodbav:"confirmation_code"`
	ExpenseIDs   []string `dynamodbav:"expense_ids"`
	Description  string   `dynamodbav:"description"`
	ExpenseCount int      `dynamodbav:"expense_count"`
	TotalAmount  float64  `dynamodbav:"total_amount"`
	ChatID       int64    `dynamodbav:"chat_id"`
	ExpiresAt    int64    `dynamodbav:"expires_at"` // epoch seconds; TTL attribute
}

// SessionID builds the session primary key for a user. One key per user
// enforces at most one live session.
func SessionID(username string) string {
	return "DEL#" + username
}

// SessionStore reads and writes sessions in DynamoDB.
type SessionStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewSessionStore returns a configured SessionStore.
func NewSessionStore(client aws.DynamoDBAPI, tableName string) *SessionStore {
	return &SessionStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get returns the user's live session, or (nil, nil) when none exists. An
// expired session is deleted on sight and reported as absent.
func (s *SessionStore) Get(ctx context.Context, username string) (*Session, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"message_id": &types.AttributeValueMemberS{Value: SessionID(username)},
		},
		ConsistentRead: boolPtr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var sess Session
	if err := attributevalue.UnmarshalMap(out.Item, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	if s.nowFunc().Unix() > sess.ExpiresAt {
		if err := s.Delete(ctx, username); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &sess, nil
}

// Put writes a session, replacing any existing record under the same key.
func (s *SessionStore) Put(ctx context.Context, sess Session) error {
	item, err := attributevalue.MarshalMap(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Delete removes the user's session. Absence is not an error.
func (s *SessionStore) Delete(ctx context.Context, username string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"message_id": &types.AttributeValueMemberS{Value: SessionID(username)},
		},
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
