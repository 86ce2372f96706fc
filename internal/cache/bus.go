package cache

import "sync"

// Key identifies a cached collection: the kind of entity it holds and the
// parent scope it was read for (owner id, trip id, stop id, filter).
type Key struct {
	Entity string
	Scope  string
}

// Bus delivers entity-changed events to the holders subscribed to a key.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Key]map[int]func()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Key]map[int]func())}
}

// Subscribe registers fn for key. The returned func removes it.
func (b *Bus) Subscribe(key Key, fn func()) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	if b.subs[key] == nil {
		b.subs[key] = make(map[int]func())
	}
	b.subs[key][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		delete(b.subs[key], id)
		if len(b.subs[key]) == 0 {
			delete(b.subs, key)
		}
	}
}

// Publish notifies the subscribers of key.
func (b *Bus) Publish(key Key) {
	b.dispatch(func(k Key) bool { return k == key })
}

// PublishEntity notifies the subscribers of every scope of entity.
func (b *Bus) PublishEntity(entity string) {
	b.dispatch(func(k Key) bool { return k.Entity == entity })
}

func (b *Bus) dispatch(match func(Key) bool) {
	var fns []func()

	b.mu.Lock()
	for k, subs := range b.subs {
		if !match(k) {
			continue
		}

		for _, fn := range subs {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
