package handlers

import (
	"context"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamoDB backs the whole shared table for end-to-end handler tests:
// conditional puts for markers, filtered scans for expenses, plain key
// reads/writes for sessions.
type mockDynamoDB struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	// failPutPrefix makes PutItem fail for ids with this prefix.
	failPutPrefix string
}

func newMockDynamoDB() *mockDynamoDB {
	return &mockDynamoDB{items: map[string]map[string]types.AttributeValue{}}
}

func attrS(attrs map[string]types.AttributeValue, name string) string {
	s, ok := attrs[name].(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}

func attrN(attrs map[string]types.AttributeValue, name string) float64 {
	n, ok := attrs[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	v, _ := strconv.ParseFloat(n.Value, 64)
	return v
}

func (m *mockDynamoDB) idsWithPrefix(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id := range m.items {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *mockDynamoDB) PutItem(ctx context.Context, input *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	id := attrS(input.Item, "message_id")
	if m.failPutPrefix != "" && strings.HasPrefix(id, m.failPutPrefix) {
		return nil, &types.InternalServerError{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if input.ConditionExpression != nil {
		if _, exists := m.items[id]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[id] = input.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamoDB) GetItem(ctx context.Context, input *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[attrS(input.Key, "message_id")]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamoDB) Scan(ctx context.Context, input *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	values := input.ExpressionAttributeValues
	wantUser := attrS(values, ":u")
	wantType := attrS(values, ":t")
	minTS := attrS(values, ":st")
	_, positiveOnly := values[":zero"]

	out := &dyn.ScanOutput{}
	for _, item := range m.items {
		if attrS(item, "username") != wantUser || attrS(item, "type") != wantType {
			continue
		}
		if minTS != "" && attrS(item, "timestamp") < minTS {
			continue
		}
		if positiveOnly && attrN(item, "amount") <= 0 {
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (m *mockDynamoDB) DeleteItem(ctx context.Context, input *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, attrS(input.Key, "message_id"))
	return &dyn.DeleteItemOutput{}, nil
}
