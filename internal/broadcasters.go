package internal

import (
	"sync"

	"golang.org/x/exp/slices"
)

// Broadcaster delivers values to any number of listener channels.
//
// AddListener returns a new buffered receive-only channel; RemoveListener unsubscribes and closes
// it; Broadcast offers a value to every subscribed channel; Close unsubscribes and closes them all.
//
// Broadcast is called from the client's worker goroutine, so it never waits for a listener. A
// listener whose buffer is full misses the value.
type Broadcaster[V any] struct {
	subscribers []channelPair[V]
	closed      bool
	lock        sync.RWMutex
}

// ListenerBufferLength is the number of values a listener can fall behind before it misses some.
const ListenerBufferLength = 10

// The receive end is kept for comparison in RemoveListener, since a chan V never equals a <-chan V.
type channelPair[V any] struct {
	sendCh    chan<- V
	receiveCh <-chan V
}

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster[V any]() *Broadcaster[V] {
	return &Broadcaster[V]{}
}

// AddListener subscribes a new listener. If the Broadcaster has been closed, the returned channel
// is already closed.
func (b *Broadcaster[V]) AddListener() <-chan V {
	ch := make(chan V, ListenerBufferLength)
	var receiveCh <-chan V = ch
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		close(ch)
		return receiveCh
	}
	b.subscribers = append(b.subscribers, channelPair[V]{sendCh: ch, receiveCh: receiveCh})
	return receiveCh
}

// RemoveListener unsubscribes and closes a channel returned by AddListener.
func (b *Broadcaster[V]) RemoveListener(ch <-chan V) {
	b.lock.Lock()
	defer b.lock.Unlock()
	for i, s := range b.subscribers {
		if s.receiveCh == ch {
			b.subscribers = slices.Delete(b.subscribers, i, i+1)
			close(s.sendCh)
			return
		}
	}
}

// HasListeners returns true if there are any current subscribers.
func (b *Broadcaster[V]) HasListeners() bool {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return len(b.subscribers) > 0
}

// Broadcast offers a value to every subscriber and returns the number of subscribers that missed it
// because their buffer was full.
func (b *Broadcaster[V]) Broadcast(value V) int {
	// The read lock is held while sending so that no channel can be closed during a send; sends
	// never block, so writers wait only briefly.
	b.lock.RLock()
	defer b.lock.RUnlock()
	missed := 0
	for _, s := range b.subscribers {
		select {
		case s.sendCh <- value:
		default:
			missed++
		}
	}
	return missed
}

// Close closes all current subscriber channels. Later calls to AddListener return closed channels.
func (b *Broadcaster[V]) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, s := range b.subscribers {
		close(s.sendCh)
	}
	b.subscribers = nil
	b.closed = true
}
