package deferred

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func key(account string) Key {
	return Key{Account: account, Scope: "recovery"}
}

func TestQueue_PopInDeadlineOrder(t *testing.T) {
	q := NewQueue[string]()
	require.NoError(t, q.Schedule(key("carol"), t0.Add(3*time.Hour), "c"))
	require.NoError(t, q.Schedule(key("alice"), t0.Add(time.Hour), "a"))
	require.NoError(t, q.Schedule(key("bob"), t0.Add(2*time.Hour), "b"))

	_, ok := q.Pop(t0)
	assert.False(t, ok)
	assert.Equal(t, 0, q.Due(t0))
	assert.Equal(t, 2, q.Due(t0.Add(2*time.Hour)))

	var got []string
	for {
		e, ok := q.Pop(t0.Add(2 * time.Hour))
		if !ok {
			break
		}
		got = append(got, e.Payload)
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, q.Len())

	next, ok := q.Next()
	require.True(t, ok)
	assert.Equal(t, "c", next.Payload)
}

func TestQueue_DeadlineIsInclusive(t *testing.T) {
	q := NewQueue[int]()
	require.NoError(t, q.Schedule(key("alice"), t0, 1))

	_, ok := q.Pop(t0.Add(-time.Nanosecond))
	assert.False(t, ok)

	e, ok := q.Pop(t0)
	require.True(t, ok)
	assert.Equal(t, 1, e.Payload)
}

func TestQueue_TiesKeepSchedulingOrder(t *testing.T) {
	q := NewQueue[string]()
	require.NoError(t, q.Schedule(key("zed"), t0, "first"))
	require.NoError(t, q.Schedule(key("amy"), t0, "second"))

	e, _ := q.Pop(t0)
	assert.Equal(t, "first", e.Payload)
	e, _ = q.Pop(t0)
	assert.Equal(t, "second", e.Payload)
}

func TestQueue_OneEntryPerKey(t *testing.T) {
	q := NewQueue[int]()
	require.NoError(t, q.Schedule(key("alice"), t0, 1))

	err := q.Schedule(key("alice"), t0.Add(time.Hour), 2)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	require.NoError(t, q.Schedule(Key{Account: "alice", Scope: "other"}, t0, 3))
	assert.Equal(t, 2, q.Len())

	assert.ErrorIs(t, q.Schedule(Key{Account: "alice"}, t0, 4), ErrEmptyKey)
}

func TestQueue_Cancel(t *testing.T) {
	q := NewQueue[int]()
	require.NoError(t, q.Schedule(key("alice"), t0, 1))
	require.NoError(t, q.Schedule(key("bob"), t0.Add(time.Minute), 2))

	assert.True(t, q.Cancel(key("alice")))
	assert.False(t, q.Cancel(key("alice")))

	_, ok := q.Get(key("alice"))
	assert.False(t, ok)

	e, ok := q.Pop(t0.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, 2, e.Payload)

	// slot is free again after cancel
	require.NoError(t, q.Schedule(key("alice"), t0, 5))
	got, ok := q.Get(key("alice"))
	require.True(t, ok)
	assert.Equal(t, 5, got.Payload)
}
