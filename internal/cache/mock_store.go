package cache

import (
	"context"
	"sync"

	"github.com/bnema/chromekit/internal/domain/entity"
)

// MockExtractionStore is a hand-written, thread-safe ExtractionStore
// for cache tests.
type MockExtractionStore struct {
	mu sync.Mutex

	// Behavior configuration
	LoadAllFunc func(ctx context.Context) (map[string]*entity.ExtractedContent, error)
	PersistFunc func(ctx context.Context, content *entity.ExtractedContent) error
	DeleteFunc  func(ctx context.Context, pageURL string) error

	// Call tracking
	PersistCalls []*entity.ExtractedContent
	DeleteCalls  []string
	loadAllCalls int
}

// NewMockExtractionStore creates a mock with no-op defaults.
func NewMockExtractionStore() *MockExtractionStore {
	return &MockExtractionStore{
		LoadAllFunc: func(context.Context) (map[string]*entity.ExtractedContent, error) {
			return map[string]*entity.ExtractedContent{}, nil
		},
		PersistFunc: func(context.Context, *entity.ExtractedContent) error { return nil },
		DeleteFunc:  func(context.Context, string) error { return nil },
	}
}

func (m *MockExtractionStore) LoadAll(ctx context.Context) (map[string]*entity.ExtractedContent, error) {
	m.mu.Lock()
	m.loadAllCalls++
	m.mu.Unlock()
	return m.LoadAllFunc(ctx)
}

func (m *MockExtractionStore) Persist(ctx context.Context, content *entity.ExtractedContent) error {
	m.mu.Lock()
	m.PersistCalls = append(m.PersistCalls, content)
	m.mu.Unlock()
	return m.PersistFunc(ctx, content)
}

func (m *MockExtractionStore) Delete(ctx context.Context, pageURL string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, pageURL)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, pageURL)
}

// PersistCallCount returns how many times Persist was called.
func (m *MockExtractionStore) PersistCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PersistCalls)
}

// DeleteCallCount returns how many times Delete was called.
func (m *MockExtractionStore) DeleteCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.DeleteCalls)
}

// LoadAllCallCount returns how many times LoadAll was called.
func (m *MockExtractionStore) LoadAllCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadAllCalls
}
