// Package relay is a development signaling relay: it pairs the two
// participants of an appointment and forwards envelopes between them.
package relay

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

type ConnID string

// WSConn is an indirection over *websocket.Conn to ease testing.
type WSConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Conn is one participant's websocket inside a room.
type Conn struct {
	id     ConnID
	room   domain.CallRoomID
	client string
	conn   WSConn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
	left   atomic.Bool
}

func NewConn(room domain.CallRoomID, client string, ws WSConn, queue int) *Conn {
	return &Conn{
		id:     ConnID(uuid.NewString()),
		room:   room,
		client: client,
		conn:   ws,
		send:   make(chan []byte, queue),
	}
}

func (c *Conn) ID() ConnID              { return c.id }
func (c *Conn) Room() domain.CallRoomID { return c.room }

func (c *Conn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}
