package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maelqr/ecomeet/core/logger"
	"github.com/maelqr/ecomeet/core/session"
)

// Handler upgrades HTTP requests to websocket connections and hands them to
// the session service. One handler serves every event; identity arrives in
// the first message, not in the URL.
type Handler struct {
	svc      *session.Service
	log      logger.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler. Origins are not restricted; the service sits
// behind a reverse proxy that enforces them.
func NewHandler(svc *session.Service, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop{}
	}
	return &Handler{
		svc: svc,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	if err := h.svc.HandleConnection(r.Context(), NewConn(conn)); err != nil {
		h.log.Errorf("session ended with error: %v", err)
	}
}
