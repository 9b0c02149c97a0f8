package testutil

import (
	"context"
	"sync"

	"github.com/livebingo/backend/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mu    sync.Mutex
	packs []*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.mu.Lock()
	m.packs = append(m.packs, pack)
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

// Packs returns all packs published so far.
func (m *MockPublisher) Packs() []*pubsub.Pack {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*pubsub.Pack{}, m.packs...)
}
