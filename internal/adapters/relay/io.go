package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/CounselCall/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (h *Hub) writePump(ctx context.Context, c *Conn) {
	var ping <-chan time.Time
	if h.opts.PingPeriod > 0 {
		t := time.NewTicker(h.opts.PingPeriod)
		defer t.Stop()
		ping = t.C
	}
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "relay").Str("conn", string(c.id)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "relay").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "relay").Msg("writePump write error")
				return
			}
		case <-ping:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("module", "relay").Msg("writePump ping error")
				return
			}
		}
	}
}

func (h *Hub) readPump(c *Conn) {
	defer func() {
		if !c.left.Load() {
			h.Forward(c, leaveFrame(c))
		}
		h.Leave(c)
		c.Close()
		log.Info().Str("module", "relay").Str("conn", string(c.id)).Msg("readPump closing")
	}()

	if h.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(h.opts.ReadLimit)
	}
	if h.opts.PingPeriod > 0 {
		pongWait := h.opts.PingPeriod * 10 / 9
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "relay").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		h.handleFrame(c, data)
	}
}

// handleFrame forwards one frame to the other member. Only trickle ICE is
// rate limited; descriptions and presence always pass.
func (h *Hub) handleFrame(c *Conn, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("bad json")
		return
	}
	if env.AppointmentID != c.room {
		log.Warn().
			Str("module", "relay").
			Str("conn", string(c.id)).
			Str("appointment_id", string(env.AppointmentID)).
			Msg("frame for another room dropped")
		return
	}

	switch env.Type {
	case core.KindLeaveCall:
		c.left.Store(true)
	case core.KindICECandidate:
		if !h.limiter.Allow(c.id) {
			log.Warn().Str("module", "relay").Str("conn", string(c.id)).Msg("rate limited, candidate dropped")
			return
		}
	case core.KindJoinCall, core.KindOffer, core.KindAnswer:
	default:
		log.Warn().Str("module", "relay").Str("type", string(env.Type)).Msg("unknown signal")
		return
	}
	log.Debug().Str("module", "relay").Str("conn", string(c.id)).Str("type", string(env.Type)).Msg("forward")
	h.Forward(c, data)
}

// leaveFrame stands in for the leave-call a vanished participant never sent.
func leaveFrame(c *Conn) []byte {
	b, _ := json.Marshal(core.Envelope{Type: core.KindLeaveCall, AppointmentID: c.room})
	return b
}
