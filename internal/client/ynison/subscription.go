package ynison

import "sync"

// Subscription receives every message broadcast after it was created.
// C is closed by Unsubscribe or when the session is closed.
type Subscription struct {
	C <-chan Message

	ch      chan Message
	id      uint64
	session *Session
	done    chan struct{}
	stopped sync.Once
}

// Subscribe registers a subscriber with the given channel buffer.
// The receive loop waits for slow subscribers, so a buffer or a fast reader is advised.
func (s *Session) Subscribe(buffer int) *Subscription {
	if buffer < 0 {
		buffer = 0
	}

	sub := &Subscription{
		ch:   make(chan Message, buffer),
		done: make(chan struct{}),
	}
	sub.C = sub.ch

	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	if s.isClosed() {
		close(sub.ch)
		sub.stop()

		return sub
	}

	s.nextSubID++
	sub.id = s.nextSubID
	sub.session = s
	s.subs[sub.id] = sub

	return sub
}

// Unsubscribe stops delivery and closes C. It is safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	// Releases a broadcast blocked on this subscriber before taking the lock.
	sub.stop()

	if sub.session == nil {
		return
	}

	sub.session.subsMu.Lock()
	defer sub.session.subsMu.Unlock()

	if _, ok := sub.session.subs[sub.id]; ok {
		delete(sub.session.subs, sub.id)
		close(sub.ch)
	}
}

func (sub *Subscription) stop() {
	sub.stopped.Do(func() { close(sub.done) })
}

// broadcast delivers msg to every subscriber in turn.
// A delivery started is finished regardless of receive cancellation.
func (s *Session) broadcast(msg Message) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()

	for _, sub := range s.subs {
		select {
		case sub.ch <- msg:
		case <-sub.done:
		case <-s.done:
			return
		}
	}
}

func (s *Session) closeSubscriptions() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for id, sub := range s.subs {
		sub.stop()
		close(sub.ch)
		delete(s.subs, id)
	}
}
