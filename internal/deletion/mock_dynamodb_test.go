package deletion

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamoDB is an in-memory stand-in keyed by message_id.
type mockDynamoDB struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	getErr    error
	putErr    error
	deleteErr error
}

func newMockDynamoDB() *mockDynamoDB {
	return &mockDynamoDB{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(attrs map[string]types.AttributeValue) string {
	s, ok := attrs["message_id"].(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}

func (m *mockDynamoDB) GetItem(ctx context.Context, input *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey(input.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamoDB) PutItem(ctx context.Context, input *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[itemKey(input.Item)] = input.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamoDB) DeleteItem(ctx context.Context, input *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemKey(input.Key))
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamoDB) Scan(ctx context.Context, input *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return nil, errors.New("scan not supported by mock")
}
