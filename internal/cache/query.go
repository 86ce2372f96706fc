package cache

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// State is what a presentation layer renders for one cached read.
type State[T any] struct {
	Data      T
	IsLoading bool
	Err       error
}

// Query holds the cached result of one read.
type Query[T any] struct {
	key   Key
	fetch func(ctx context.Context) (T, error)
	group singleflight.Group

	mu       sync.Mutex
	data     T
	err      error
	fresh    bool
	inflight int
	// gen is bumped on every invalidation. A fetch only marks the holder
	// fresh when the generation it started under is still current.
	gen      uint64
	nextID   int
	watchers map[int]func(State[T])
}

func newQuery[T any](key Key, fetch func(ctx context.Context) (T, error)) *Query[T] {
	return &Query[T]{
		key:      key,
		fetch:    fetch,
		watchers: make(map[int]func(State[T])),
	}
}

func (q *Query[T]) Key() Key {
	return q.key
}

// Get returns the cached value when fresh and fetches it otherwise.
// Concurrent fetches of the same generation share one remote call.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	q.mu.Lock()
	if q.fresh {
		data := q.data
		q.mu.Unlock()

		return data, nil
	}
	q.mu.Unlock()

	return q.load(ctx)
}

// State returns a snapshot of the holder.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.stateLocked()
}

// Fresh reports whether the next Get is served from memory.
func (q *Query[T]) Fresh() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.fresh
}

// Watch calls fn on every state change until cancel is called. While at least
// one watcher exists, an invalidation triggers an immediate refetch. A stale
// holder starts fetching as soon as it is watched.
func (q *Query[T]) Watch(fn func(State[T])) (cancel func()) {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.watchers[id] = fn
	start := !q.fresh && q.inflight == 0
	q.mu.Unlock()

	if start {
		go q.load(context.Background())
	}

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()

		delete(q.watchers, id)
	}
}

// Invalidate marks the holder stale. It is what the bus calls when a
// mutation publishes this holder's key.
func (q *Query[T]) Invalidate() {
	q.mu.Lock()
	q.gen++
	q.fresh = false
	watched := len(q.watchers) > 0
	q.mu.Unlock()

	if watched {
		go q.load(context.Background())
	}
}

func (q *Query[T]) load(ctx context.Context) (T, error) {
	q.mu.Lock()
	gen := q.gen
	q.inflight++
	q.mu.Unlock()
	q.notify()

	v, err, _ := q.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		return q.fetch(ctx)
	})

	data, _ := v.(T)

	q.mu.Lock()
	q.inflight--

	current := gen == q.gen
	if current {
		q.err = err
		if err == nil {
			q.data = data
			q.fresh = true
		}
	}

	// A watched holder left stale by an outdated fetch loads again, unless
	// another load is already running.
	refetch := !current && !q.fresh && q.inflight == 0 && len(q.watchers) > 0
	q.mu.Unlock()
	q.notify()

	if refetch {
		go q.load(context.Background())
	}

	return data, err
}

func (q *Query[T]) stateLocked() State[T] {
	return State[T]{
		Data:      q.data,
		IsLoading: q.inflight > 0,
		Err:       q.err,
	}
}

func (q *Query[T]) notify() {
	q.mu.Lock()
	state := q.stateLocked()

	fns := make([]func(State[T]), 0, len(q.watchers))
	for _, fn := range q.watchers {
		fns = append(fns, fn)
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
