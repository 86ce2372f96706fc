package cache

import (
	"context"
	"sync"
)

// Mutation wraps a write so a presentation layer can show its progress and
// last failure.
type Mutation[In, Out any] struct {
	fn func(ctx context.Context, in In) (Out, error)

	mu      sync.Mutex
	pending int
	err     error
}

func NewMutation[In, Out any](fn func(ctx context.Context, in In) (Out, error)) *Mutation[In, Out] {
	return &Mutation[In, Out]{fn: fn}
}

func (m *Mutation[In, Out]) Execute(ctx context.Context, in In) (Out, error) {
	m.mu.Lock()
	m.pending++
	m.err = nil
	m.mu.Unlock()

	out, err := m.fn(ctx, in)

	m.mu.Lock()
	m.pending--
	m.err = err
	m.mu.Unlock()

	return out, err
}

func (m *Mutation[In, Out]) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pending > 0
}

// Err is the failure of the most recent Execute, or nil.
func (m *Mutation[In, Out]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.err
}
