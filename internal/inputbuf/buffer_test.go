package inputbuf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInOrderDelivery(t *testing.T) {
	buf := New()
	now := time.Now()

	ready := buf.Push(1, "a", now)
	require.Equal(t, []any{"a"}, ready)
	require.Equal(t, uint32(1), buf.LastProcessed())

	ready = buf.Push(2, "b", now)
	require.Equal(t, []any{"b"}, ready)
}

func TestOutOfOrderReorders(t *testing.T) {
	buf := New()
	now := time.Now()

	require.Empty(t, buf.Push(3, "c", now))
	require.Empty(t, buf.Push(2, "b", now))
	ready := buf.Push(1, "a", now)
	require.Equal(t, []any{"a", "b", "c"}, ready)
	require.Equal(t, uint32(3), buf.LastProcessed())
}

func TestDuplicateIsDropped(t *testing.T) {
	buf := New()
	now := time.Now()
	buf.Push(1, "a", now)

	ready := buf.Push(1, "a-replay", now)
	require.Empty(t, ready)
	require.Equal(t, uint64(1), buf.Stats().Duplicate)
}

func TestGapTimeoutForcesAdvance(t *testing.T) {
	buf := New()
	start := time.Now()

	require.Empty(t, buf.Push(2, "b", start))
	ready := buf.Push(3, "c", start.Add(GapTimeout+time.Millisecond))
	require.Equal(t, []any{"b", "c"}, ready)
	require.Equal(t, uint32(3), buf.LastProcessed())
	require.Equal(t, uint64(1), buf.Stats().EstimatedLoss)
}

func TestCapForcesAdvance(t *testing.T) {
	buf := New()
	now := time.Now()

	for seq := uint32(2); seq <= uint32(Cap+1); seq++ {
		buf.Push(seq, seq, now)
	}
	require.LessOrEqual(t, len(buf.pending), Cap)
	require.Greater(t, buf.LastProcessed(), uint32(0))
}
