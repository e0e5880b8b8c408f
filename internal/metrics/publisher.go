// Package metrics publishes per-intent message counters. Emission is
// best-effort: a metrics failure never blocks or fails message handling.
package metrics

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/aws"
)

// Publisher wraps a CloudWatch client and a namespace.
type Publisher struct {
	client    aws.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewPublisher returns a Publisher bound to a namespace.
func NewPublisher(client aws.CloudWatchAPI, namespace string) *Publisher {
	return &Publisher{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// CountIntent records one processed message under the given intent label.
// Failures are logged and swallowed.
func (p *Publisher) CountIntent(ctx context.Context, intent string) {
	if p == nil || p.client == nil {
		return
	}

	now := p.nowFunc().UTC()
	one := 1.0
	name := "MessagesProcessed"

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &p.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Timestamp:  &now,
				Value:      &one,
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: strPtr("Intent"), Value: &intent},
				},
			},
		},
	})
	if err != nil {
		log.Printf("[metrics] put metric failed: %v", err)
	}
}

func strPtr(s string) *string { return &s }
