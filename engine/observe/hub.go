// Package observe provides a small typed publish/subscribe hub.
//
// Subscribers are held by id so that Unsubscribe is O(1) and a torn-down
// component never keeps receiving values. Publish calls subscribers in
// subscription order on the caller's goroutine.
package observe

import "sort"

// Hub fans a value out to subscribers.
//
// The zero value is ready to use. Hub is not safe for concurrent use; it is
// meant to live on the frame loop like everything else in the engine.
type Hub[T any] struct {
	next uint64
	subs map[uint64]func(T)
}

// Subscription is returned by Subscribe and detaches the callback.
type Subscription struct {
	unsubscribe func()
}

// Unsubscribe detaches the callback. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
	s.unsubscribe = nil
}

// Subscribe registers fn and returns a handle that removes it again.
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	if h.subs == nil {
		h.subs = make(map[uint64]func(T))
	}
	id := h.next
	h.next++
	h.subs[id] = fn
	return &Subscription{unsubscribe: func() { delete(h.subs, id) }}
}

// Publish delivers v to every current subscriber.
func (h *Hub[T]) Publish(v T) {
	if len(h.subs) == 0 {
		return
	}
	ids := make([]uint64, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if fn, ok := h.subs[id]; ok {
			fn(v)
		}
	}
}

// Len reports the number of live subscribers.
func (h *Hub[T]) Len() int { return len(h.subs) }
