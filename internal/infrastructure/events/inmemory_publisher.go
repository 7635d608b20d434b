package events

import (
	"context"
	"sync"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ports"
)

var _ ports.EventPublisher = (*InMemoryPublisher)(nil)

// InMemoryPublisher records events in memory. Wired when no Kafka brokers
// are configured, and used by tests to assert on emitted events.
type InMemoryPublisher struct {
	mu     sync.Mutex
	events []any
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Publish(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *InMemoryPublisher) Events() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.events))
	copy(out, p.events)
	return out
}
