package relay

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Options struct {
	SendQueue    int
	ReadLimit    int64
	PingPeriod   time.Duration
	RateLimit    int
	RateInterval time.Duration
	Policy       Policy
}

type RoomInfo struct {
	ID      domain.CallRoomID `json:"appointmentId"`
	Members int               `json:"members"`
}

// Hub owns the rooms of the relay, keyed by appointment id.
type Hub struct {
	opts    Options
	limiter *RateLimiter

	mu    sync.RWMutex
	rooms map[domain.CallRoomID]*room
}

func NewHub(opts Options) *Hub {
	if opts.SendQueue <= 0 {
		opts.SendQueue = 32
	}
	if opts.Policy == nil {
		opts.Policy = KickSlow{}
	}
	return &Hub{
		opts:    opts,
		limiter: NewRateLimiter(opts.RateLimit, opts.RateInterval),
		rooms:   make(map[domain.CallRoomID]*room),
	}
}

func (h *Hub) Join(c *Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[c.room]
	if !ok {
		r = newRoom(c.room)
		h.rooms[c.room] = r
	}
	return r.add(c)
}

// Leave removes c and drops its room once empty.
func (h *Hub) Leave(c *Conn) {
	h.limiter.Forget(c.id)
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[c.room]
	if !ok {
		return
	}
	if r.remove(c.id) == 0 {
		delete(h.rooms, c.room)
		log.Info().Str("module", "relay").Str("room", string(c.room)).Msg("room closed")
	}
}

func (h *Hub) Full(id domain.CallRoomID) bool {
	h.mu.RLock()
	r, ok := h.rooms[id]
	h.mu.RUnlock()
	return ok && r.count() >= MaxParticipants
}

// Forward relays data from c to the other participant of its room.
func (h *Hub) Forward(c *Conn, data []byte) {
	h.mu.RLock()
	r, ok := h.rooms[c.room]
	h.mu.RUnlock()
	if !ok {
		return
	}
	res := r.forward(c.id, data)
	for _, m := range res.Dropped {
		if h.opts.Policy.OnBackpressure(m) == KickMember {
			log.Warn().Str("module", "relay").Str("conn", string(m.id)).Msg("slow member kicked")
			m.Close()
		}
	}
}

func (h *Hub) List() []RoomInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]RoomInfo, 0, len(h.rooms))
	for id, r := range h.rooms {
		out = append(out, RoomInfo{ID: id, Members: r.count()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Serve joins ws to room and starts its pumps. The pumps stop when ctx is
// cancelled or the socket fails.
func (h *Hub) Serve(ctx context.Context, ws WSConn, id domain.CallRoomID, client string) (*Conn, error) {
	c := NewConn(id, client, ws, h.opts.SendQueue)
	if err := h.Join(c); err != nil {
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		_ = ws.Close()
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	go h.writePump(ctx, c)
	go func() {
		defer cancel()
		h.readPump(c)
	}()
	return c, nil
}
