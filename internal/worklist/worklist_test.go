package worklist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFOOrder(t *testing.T) {
	var q Queue
	require.True(t, q.Empty())

	q.Push(10)
	q.Push(20)
	q.Push(30)
	require.Equal(t, 3, q.Len())

	for _, want := range []uintptr{10, 20, 30} {
		got, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	require.True(t, q.Empty())

	_, ok := q.Pop()
	require.False(t, ok)
}

func TestQueueInterleavedPushPop(t *testing.T) {
	var q Queue
	q.Push(1)
	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uintptr(1), v)

	q.Push(2)
	q.Push(3)
	require.Equal(t, 2, q.Len())
}

func TestQueueReset(t *testing.T) {
	var q Queue
	q.Push(1)
	q.Push(2)
	q.Reset()
	require.True(t, q.Empty())
	require.Equal(t, 0, q.Len())
}
