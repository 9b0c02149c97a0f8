package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

const bufferSize = 128

var ErrClosed = errors.New("connection is closed")

// Client pumps messages between a websocket connection and channels. R is
// closed when the connection is closed by the peer.
type Client struct {
	Conn *websocket.Conn
	R    chan []byte

	w         chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		Conn: conn,
		R:    make(chan []byte, bufferSize),
		w:    make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}

	go c.runReader()
	go c.runWriter()
	return c
}

func (c *Client) runReader() {
	defer close(c.R)

	for {
		t, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		if t == websocket.TextMessage {
			c.R <- msg
		}
	}
}

func (c *Client) runWriter() {
	for {
		select {
		case msg := <-c.w:
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			return
		}
	}
}

// Write queues msg. It never blocks on a slow peer.
func (c *Client) Write(msg []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.w <- msg:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		return errors.New("write buffer is full")
	}
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.Conn.Close()
	})

	return err
}
