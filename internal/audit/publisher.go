// Package audit emits deletion events to an SQS queue so destructive actions
// leave a trail outside the table they mutate. Publishing is best-effort.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/aws"
)

// Event describes one completed bulk deletion.
type Event struct {
	Username    string   `json:"username"`
	Description string   `json:"description"`
	ExpenseIDs  []string `json:"expense_ids"`
	Deleted     int      `json:"deleted"`
	TotalAmount float64  `json:"total_amount"`
}

// Publisher wraps an SQS client and a queue URL. A zero-value queue URL
// disables publishing.
type Publisher struct {
	sqsClient aws.SQSAPI
	queueURL  string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient aws.SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		sqsClient: sqsClient,
		queueURL:  queueURL,
	}
}

// Enabled reports whether a queue is configured.
func (p *Publisher) Enabled() bool {
	return p != nil && p.sqsClient != nil && p.queueURL != ""
}

// RecordDeletion sends the deletion event as a JSON message with string
// attributes for queue-side filtering.
func (p *Publisher) RecordDeletion(ctx context.Context, ev Event) error {
	if !p.Enabled() {
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	bodyStr := string(body)

	attrs := map[string]sqstypes.MessageAttributeValue{
		"event_type": {DataType: strPtr("String"), StringValue: strPtr("expense_deletion")},
		"username":   {DataType: strPtr("String"), StringValue: &ev.Username},
		"deleted":    {DataType: strPtr("String"), StringValue: strPtr(strconv.Itoa(ev.Deleted))},
	}

	_, err = p.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          &p.queueURL,
		MessageBody:       &bodyStr,
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("send audit message: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }
