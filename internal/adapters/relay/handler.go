package relay

import (
	"context"
	"net/http"

	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades GET /api/ws/signal?appointmentId=… into a room member.
func (h *Hub) HandleSignal(ctx context.Context, c *gin.Context) {
	id := domain.CallRoomID(c.Query("appointmentId"))
	if err := id.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "appointmentId required"})
		return
	}
	if h.Full(id) {
		c.JSON(http.StatusConflict, gin.H{"error": ErrRoomFull.Error()})
		return
	}
	client := c.GetString("client_token")
	log.Info().
		Str("module", "relay").
		Str("client", client).
		Str("room", string(id)).
		Bool("auth", c.GetHeader("x-auth-token") != "").
		Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if _, err := h.Serve(ctx, ws, id, client); err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("room", string(id)).Msg("join rejected")
	}
}
