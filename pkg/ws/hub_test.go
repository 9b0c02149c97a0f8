package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	hub := NewHub()

	c1, err := hub.Register("room", "c1")
	require.NoError(t, err)
	c2, err := hub.Register("room", "c2")
	require.NoError(t, err)
	other, err := hub.Register("other", "c3")
	require.NoError(t, err)

	_, err = hub.Register("room", "c1")
	require.Error(t, err)

	require.Equal(t, 2, hub.Broadcast("room", []byte("hello")))
	require.Equal(t, []byte("hello"), <-c1)
	require.Equal(t, []byte("hello"), <-c2)
	require.Empty(t, other)

	require.NoError(t, hub.Unregister("room", "c1"))
	_, ok := <-c1
	require.False(t, ok)
	require.Error(t, hub.Unregister("room", "c1"))
	require.Equal(t, 1, hub.Broadcast("room", []byte("bye")))

	hub.Close("room")
	require.Equal(t, []byte("bye"), <-c2)
	_, ok = <-c2
	require.False(t, ok)
	require.Zero(t, hub.Broadcast("room", []byte("nobody")))
}
