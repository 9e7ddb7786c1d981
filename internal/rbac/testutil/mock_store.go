package testutil

import (
	"context"
	"time"

	"journal/internal/rbac/adapter"

	"github.com/stretchr/testify/mock"
)

// MockDocumentStore is a testify mock of adapter.DocumentStore used to inject
// store failures.
type MockDocumentStore struct {
	mock.Mock
}

var _ adapter.DocumentStore = (*MockDocumentStore)(nil)

func (m *MockDocumentStore) Get(ctx context.Context, collection, id string) (*adapter.Snapshot, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adapter.Snapshot), args.Error(1)
}

func (m *MockDocumentStore) Set(ctx context.Context, collection, id string, doc any, opts adapter.SetOptions) error {
	args := m.Called(ctx, collection, id, doc, opts)
	return args.Error(0)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *MockDocumentStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	args := m.Called(ctx, collection, id, field, delta)
	return args.Error(0)
}

func (m *MockDocumentStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	args := m.Called(ctx, collection, doc)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Find(ctx context.Context, collection string, q adapter.Query) ([]*adapter.Snapshot, error) {
	args := m.Called(ctx, collection, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*adapter.Snapshot), args.Error(1)
}

func (m *MockDocumentStore) Count(ctx context.Context, collection string, where []adapter.Where) (int64, error) {
	args := m.Called(ctx, collection, where)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *MockDocumentStore) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
