package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/collective-backend/internal/realtime"
)

// memoryBus delivers events to forwarders in the same process. It backs
// single-node deployments and tests.
type memoryBus struct {
	mu     sync.RWMutex
	subs   map[int]chan realtime.ActionEvent
	next   int
	closed bool
}

func NewMemoryBus() Bus {
	return &memoryBus{subs: map[int]chan realtime.ActionEvent{}}
}

// Publish never blocks; a forwarder whose buffer is full misses the event.
func (b *memoryBus) Publish(ctx context.Context, evt realtime.ActionEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("memory action bus closed")
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onEvt func(evt realtime.ActionEvent)) error {
	if onEvt == nil {
		return fmt.Errorf("onEvt callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("memory action bus closed")
	}
	id := b.next
	b.next++
	ch := make(chan realtime.ActionEvent, 256)
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.unsubscribe(id)
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				onEvt(evt)
			}
		}
	}()
	return nil
}

func (b *memoryBus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}
