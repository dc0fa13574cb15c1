package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_OnEmit(t *testing.T) {
	d := NewDispatcher()
	var calls []string

	require.NoError(t, d.On("drawn.a", func() { calls = append(calls, "a") }))
	require.NoError(t, d.On("drawn.b", func() { calls = append(calls, "b") }))
	require.NoError(t, d.On("moved.c", func() { calls = append(calls, "c") }))

	d.Emit("drawn")
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, 2, d.Subscribers("drawn"))
}

func TestDispatcher_ReplaceSameKey(t *testing.T) {
	d := NewDispatcher()
	var n1, n2 int

	require.NoError(t, d.On("drawn.panel", func() { n1++ }))
	require.NoError(t, d.On("drawn.panel", func() { n2++ }))

	d.Emit("drawn")
	assert.Equal(t, 0, n1)
	assert.Equal(t, 1, n2)
	assert.Equal(t, 1, d.Subscribers("drawn"))
}

func TestDispatcher_Off(t *testing.T) {
	d := NewDispatcher()
	var a, b int
	require.NoError(t, d.On("drawn.a", func() { a++ }))
	require.NoError(t, d.On("drawn.b", func() { b++ }))

	require.NoError(t, d.Off("drawn.a"))
	d.Emit("drawn")
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)

	require.NoError(t, d.Off("drawn.b"))
	assert.Equal(t, 0, d.Subscribers("drawn"))

	// Removing an unknown key is a no-op.
	require.NoError(t, d.Off("drawn.none"))
}

func TestDispatcher_InvalidKey(t *testing.T) {
	d := NewDispatcher()
	assert.Error(t, d.On(".name", func() {}))
	assert.Error(t, d.On("", func() {}))
}

func TestDispatcher_ReentrantEmitIsQueued(t *testing.T) {
	d := NewDispatcher()
	depth, maxDepth, calls := 0, 0, 0

	require.NoError(t, d.On("drawn.panel", func() {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		calls++
		if calls < 3 {
			d.Emit("drawn")
		}
		depth--
	}))

	d.Emit("drawn")
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, maxDepth)
}

func TestDispatcher_UnsubscribeDuringDispatch(t *testing.T) {
	d := NewDispatcher()
	var b int
	require.NoError(t, d.On("drawn.a", func() { _ = d.Off("drawn.b") }))
	require.NoError(t, d.On("drawn.b", func() { b++ }))

	// The snapshot taken for this delivery still includes b.
	d.Emit("drawn")
	assert.Equal(t, 1, b)

	d.Emit("drawn")
	assert.Equal(t, 1, b)
}
