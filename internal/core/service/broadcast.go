package service

import "sync"

// broadcaster fans a value out to registered listeners. Listeners run on the
// publishing goroutine, outside the registry lock.
type broadcaster[T any] struct {
	mu        sync.Mutex
	listeners map[int]func(T)
	nextID    int
}

func (b *broadcaster[T]) subscribe(fn func(T)) func() {
	b.mu.Lock()
	if b.listeners == nil {
		b.listeners = make(map[int]func(T))
	}
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	fns := make([]func(T), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
