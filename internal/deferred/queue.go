// Package deferred implements the ledger's deferred work index: entries keyed
// by account and scope, ordered by the time after which they may execute, and
// drained by whoever advances the ledger clock.
package deferred

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrDuplicateKey = errors.New("deferred entry already scheduled for key")
	ErrEmptyKey     = errors.New("deferred entry key is empty")
)

// Key identifies a deferred entry. Only one live entry may exist per key.
type Key struct {
	Account string
	Scope   string
}

func (k Key) String() string {
	return k.Account + "+" + k.Scope
}

// Entry is a scheduled unit of work.
type Entry[T any] struct {
	Key          Key
	ExecuteAfter time.Time
	Payload      T

	seq   uint64
	index int
}

// Queue is a min-heap of entries by ExecuteAfter, ties broken by scheduling order.
type Queue[T any] struct {
	mu    sync.Mutex
	items entryHeap[T]
	byKey map[Key]*Entry[T]
	seq   uint64
}

// NewQueue creates an empty Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{byKey: make(map[Key]*Entry[T])}
}

// Schedule adds an entry for key.
func (q *Queue[T]) Schedule(key Key, executeAfter time.Time, payload T) error {
	if key.Account == "" || key.Scope == "" {
		return ErrEmptyKey
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.byKey[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}

	q.seq++
	e := &Entry[T]{Key: key, ExecuteAfter: executeAfter, Payload: payload, seq: q.seq}
	heap.Push(&q.items, e)
	q.byKey[key] = e
	return nil
}

// Cancel removes the entry for key. It reports whether an entry was removed.
func (q *Queue[T]) Cancel(key Key) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.byKey[key]
	if !ok {
		return false
	}
	heap.Remove(&q.items, e.index)
	delete(q.byKey, key)
	return true
}

// Pop removes and returns the earliest entry whose ExecuteAfter is not after now.
func (q *Queue[T]) Pop(now time.Time) (Entry[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 || q.items[0].ExecuteAfter.After(now) {
		return Entry[T]{}, false
	}
	e := heap.Pop(&q.items).(*Entry[T])
	delete(q.byKey, e.Key)
	return *e, true
}

// Get returns the live entry for key.
func (q *Queue[T]) Get(key Key) (Entry[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.byKey[key]
	if !ok {
		return Entry[T]{}, false
	}
	return *e, true
}

// Next returns the earliest entry without removing it.
func (q *Queue[T]) Next() (Entry[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Entry[T]{}, false
	}
	return *q.items[0], true
}

// Due counts entries that would be popped at now.
func (q *Queue[T]) Due(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, e := range q.items {
		if !e.ExecuteAfter.After(now) {
			n++
		}
	}
	return n
}

// Len returns the number of live entries.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

type entryHeap[T any] []*Entry[T]

func (h entryHeap[T]) Len() int { return len(h) }

func (h entryHeap[T]) Less(i, j int) bool {
	if h[i].ExecuteAfter.Equal(h[j].ExecuteAfter) {
		return h[i].seq < h[j].seq
	}
	return h[i].ExecuteAfter.Before(h[j].ExecuteAfter)
}

func (h entryHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap[T]) Push(x any) {
	e := x.(*Entry[T])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
