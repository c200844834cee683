// Package signal is the websocket client side of the signaling relay.
package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dkeye/CounselCall/internal/core"
	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("signal channel closed")
	ErrKind         = errors.New("kind is not a negotiation message")
)

const writeWait = 5 * time.Second

type Options struct {
	URL   string
	Token string
	// SendQueue bounds outbound frames waiting for the writer.
	SendQueue      int
	DialTimeout    time.Duration
	InitialBackoff time.Duration
	// MaxRetry caps the total time spent redialing.
	MaxRetry time.Duration
}

// Dialer implements core.SignalDialer over gorilla/websocket.
type Dialer struct {
	opts   Options
	dialer *websocket.Dialer
}

func NewDialer(opts Options) *Dialer {
	if opts.SendQueue <= 0 {
		opts.SendQueue = 64
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 250 * time.Millisecond
	}
	return &Dialer{
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.DialTimeout,
		},
	}
}

func (d *Dialer) newBackoff(ctx context.Context) backoff.BackOff {
	ebo := backoff.NewExponentialBackOff()
	ebo.InitialInterval = d.opts.InitialBackoff
	ebo.MaxElapsedTime = d.opts.MaxRetry
	ebo.Reset()
	if d.opts.MaxRetry <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	return backoff.WithContext(ebo, ctx)
}

// Connect dials the relay for room, retrying transient failures, and
// announces this participant with join-call.
func (d *Dialer) Connect(ctx context.Context, room domain.CallRoomID) (core.SignalChannel, error) {
	endpoint, err := url.Parse(d.opts.URL)
	if err != nil {
		return nil, &core.SignalingUnavailableError{Endpoint: d.opts.URL, Err: err}
	}
	q := endpoint.Query()
	q.Set("appointmentId", string(room))
	endpoint.RawQuery = q.Encode()

	header := http.Header{}
	if d.opts.Token != "" {
		header.Set("x-auth-token", d.opts.Token)
	}

	var ws *websocket.Conn
	attempt := 0
	op := func() error {
		attempt++
		conn, resp, err := d.dialer.DialContext(ctx, endpoint.String(), header)
		if err != nil {
			log.Warn().Err(err).Str("module", "signal").Int("attempt", attempt).Msg("relay dial")
			if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(fmt.Errorf("relay refused: %s: %w", resp.Status, err))
			}
			return err
		}
		ws = conn
		return nil
	}
	if err := backoff.Retry(op, d.newBackoff(ctx)); err != nil {
		return nil, &core.SignalingUnavailableError{Endpoint: d.opts.URL, Err: err}
	}

	ch := newChannel(ws, d.opts.URL, room, d.opts.SendQueue)
	if err := ch.Announce(); err != nil {
		_ = ch.Close()
		return nil, &core.SignalingUnavailableError{Endpoint: d.opts.URL, Err: err}
	}
	ch.logger.Info().Int("attempts", attempt).Msg("joined relay")
	return ch, nil
}

// Channel is one joined room on the relay.
type Channel struct {
	ws       *websocket.Conn
	endpoint string
	room     domain.CallRoomID
	logger   zerolog.Logger

	send       chan []byte
	writerDone chan struct{}
	done       chan struct{}

	mu      sync.RWMutex
	closed  bool
	err     error
	handler func(core.Envelope)

	closeOnce sync.Once
	doneOnce  sync.Once
}

func newChannel(ws *websocket.Conn, endpoint string, room domain.CallRoomID, queue int) *Channel {
	c := &Channel{
		ws:         ws,
		endpoint:   endpoint,
		room:       room,
		logger:     log.With().Str("module", "signal").Str("room", string(room)).Logger(),
		send:       make(chan []byte, queue),
		writerDone: make(chan struct{}),
		done:       make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *Channel) Send(kind core.MessageKind, payload any) error {
	if !kind.Negotiation() {
		return fmt.Errorf("%w: %s", ErrKind, kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return c.enqueue(core.Envelope{Type: kind, AppointmentID: c.room, Payload: raw})
}

func (c *Channel) Announce() error {
	return c.enqueue(core.Envelope{Type: core.KindJoinCall, AppointmentID: c.room})
}

func (c *Channel) enqueue(env core.Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

// OnMessage sets the inbound handler and starts reading. Only the first
// handler is kept.
func (c *Channel) OnMessage(fn func(core.Envelope)) {
	c.mu.Lock()
	if c.handler != nil {
		c.mu.Unlock()
		c.logger.Warn().Msg("inbound handler already set, ignoring")
		return
	}
	c.handler = fn
	c.mu.Unlock()
	go c.readPump(fn)
}

func (c *Channel) readPump(fn func(core.Envelope)) {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if !c.isClosed() {
				c.logger.Warn().Err(err).Msg("readPump read error")
			}
			c.finish(err)
			return
		}
		var env core.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn().Err(err).Msg("bad envelope")
			continue
		}
		if env.AppointmentID != c.room {
			c.logger.Warn().Str("appointment_id", string(env.AppointmentID)).Msg("envelope for another room dropped")
			continue
		}
		fn(env)
	}
}

func (c *Channel) writePump() {
	defer close(c.writerDone)
	for data := range c.send {
		if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			c.logger.Error().Err(err).Msg("writePump set deadline")
			return
		}
		if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
			c.logger.Error().Err(err).Msg("writePump write error")
			c.finish(err)
			return
		}
	}
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// Done is closed once the relay connection is gone, lost or closed by Close.
func (c *Channel) Done() <-chan struct{} { return c.done }

// Err is ErrClosed after Close, a *core.SignalingUnavailableError after a
// lost connection, and nil while the channel is open.
func (c *Channel) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Channel) finish(cause error) {
	c.doneOnce.Do(func() {
		c.mu.Lock()
		if c.closed {
			c.err = ErrClosed
		} else {
			c.err = &core.SignalingUnavailableError{Endpoint: c.endpoint, Err: cause}
		}
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Channel) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close sends leave-call, flushes queued frames and closes the socket.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		if err := c.enqueue(core.Envelope{Type: core.KindLeaveCall, AppointmentID: c.room}); err != nil {
			c.logger.Warn().Err(err).Msg("leave-call not queued")
		}
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		select {
		case <-c.writerDone:
		case <-time.After(writeWait):
			c.logger.Warn().Msg("writer did not flush in time")
		}
		_ = c.ws.Close()
		c.finish(nil)
		c.logger.Info().Msg("left relay")
	})
	return nil
}
