package expenses

import (
	"context"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamoDB stores items by message_id and emulates the filter
// expressions the Store builds: username/type equality, optional timestamp
// lower bound, optional positive-amount check.
type mockDynamoDB struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	putErr    error
	scanErr   error
	deleteErr error
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

func (m *mockDynamoDB) PutItem(ctx context.Context, input *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[attrS(input.Item, "message_id")] = input.Item
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
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	values := input.ExpressionAttributeValues
	wantUser := attrS(values, ":u")
	wantType := attrS(values, ":t")
	minTS := attrS(values, ":st")
	_, positiveOnly := values[":zero"]
	positiveOnly = positiveOnly && strings.Contains(*input.FilterExpression, "amount > :zero")

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
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, attrS(input.Key, "message_id"))
	return &dyn.DeleteItemOutput{}, nil
}
