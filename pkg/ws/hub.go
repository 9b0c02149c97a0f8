package ws

import (
	"errors"
	"sync"

	"github.com/puzpuzpuz/xsync"
)

const channelSize = 1 << 6

// Hub dispatches broadcasted messages to the local clients of a room.
type Hub struct {
	mu    sync.Mutex
	rooms *xsync.MapOf[string, *xsync.MapOf[string, chan []byte]]
}

func NewHub() *Hub {
	return &Hub{rooms: xsync.NewMapOf[*xsync.MapOf[string, chan []byte]]()}
}

// Register subscribes clientID to the messages of room.
func (h *Hub) Register(room, clientID string) (<-chan []byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, _ := h.rooms.LoadOrStore(room, xsync.NewMapOf[chan []byte]())

	c := make(chan []byte, channelSize)
	if _, existed := clients.LoadOrStore(clientID, c); existed {
		return nil, errors.New("the client has already registered")
	}

	return c, nil
}

func (h *Hub) Unregister(room, clientID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms.Load(room)
	if !ok {
		return errors.New("the room has no client")
	}

	c, existed := clients.LoadAndDelete(clientID)
	if !existed {
		return errors.New("the client has not registered yet")
	}
	close(c)

	if clients.Size() == 0 {
		h.rooms.Delete(room)
	}

	return nil
}

// Broadcast sends msg to every client of room. Clients with a full buffer
// miss the message.
func (h *Hub) Broadcast(room string, msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms.Load(room)
	if !ok {
		return 0
	}

	sent := 0
	clients.Range(func(_ string, c chan []byte) bool {
		select {
		case c <- msg:
			sent++
		default:
		}
		return true
	})

	return sent
}

// Close unregisters every client of room.
func (h *Hub) Close(room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms.LoadAndDelete(room)
	if !ok {
		return
	}

	clients.Range(func(clientID string, c chan []byte) bool {
		close(c)
		return true
	})
}
