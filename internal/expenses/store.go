package expenses

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/aws"
)

// Store encapsulates expense operations against the shared DynamoDB table.
// The table has no secondary index; listings are filtered scans, which is
// acceptable at single-user-bot scale.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put persists a new expense. Non-positive amounts are never stored; they are
// logged and skipped without error. Returns the stored record.
func (s *Store) Put(ctx context.Context, username string, amount float64, category, description string) (*Record, error) {
	if amount <= 0 {
		log.Printf("[expenses] skipping expense with non-positive amount %v for user %s", amount, username)
		return nil, nil
	}

	now := s.nowFunc().UTC()
	rec := Record{
		ID:          NewID(username, now),
		Username:    username,
		Type:        RecordType,
		Timestamp:   now.Format(TimeLayout),
		Amount:      amount,
		Category:    category,
		Description: description,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal expense: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put expense: %w", err)
	}
	return &rec, nil
}

// ListSince returns the user's expenses with timestamp >= start. Zero and
// negative amounts are filtered out: this listing feeds query display.
func (s *Store) ListSince(ctx context.Context, username string, start time.Time) ([]Record, error) {
	return s.scan(ctx, username, &start, true)
}

// ListSinceForDeletion is ListSince without the positive-amount filter, so a
// cleanup can also target zero-amount artifacts.
func (s *Store) ListSinceForDeletion(ctx context.Context, username string, start time.Time) ([]Record, error) {
	return s.scan(ctx, username, &start, false)
}

// ListAll returns every expense the user has.
func (s *Store) ListAll(ctx context.Context, username string) ([]Record, error) {
	return s.scan(ctx, username, nil, false)
}

func (s *Store) scan(ctx context.Context, username string, start *time.Time, positiveOnly bool) ([]Record, error) {
	filter := "username = :u AND #type = :t"
	names := map[string]string{"#type": "type"}
	values := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberS{Value: username},
		":t": &types.AttributeValueMemberS{Value: RecordType},
	}

	if start != nil {
		filter += " AND #ts >= :st"
		names["#ts"] = "timestamp"
		values[":st"] = &types.AttributeValueMemberS{Value: start.UTC().Format(TimeLayout)}
	}
	if positiveOnly {
		filter += " AND amount > :zero"
		values[":zero"] = &types.AttributeValueMemberN{Value: "0"}
	}

	out, err := s.client.Scan(ctx, &dyn.ScanInput{
		TableName:                 &s.tableName,
		FilterExpression:          &filter,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}

	var recs []Record
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal expenses: %w", err)
	}
	return recs, nil
}

// DeleteByID removes one expense. Deleting an absent id is not an error.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"message_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}
