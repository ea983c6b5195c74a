package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/auth"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	writeWait  = 10 * time.Second
)

// Subscriber streams the events of one participant.
type Subscriber interface {
	Subscribe(ctx context.Context, participantID string) (<-chan domain.Event, func(), error)
}

type EventsHandler struct {
	authUseCase *auth.AuthUseCase
	events      Subscriber
	upgrader    websocket.Upgrader
	log         *slog.Logger
}

// NewEventsHandler builds the websocket endpoint. Browsers do not apply CORS
// to upgrades, so the Origin header is matched against allowedOrigins here.
// Requests without an Origin header are not from a browser and pass.
func NewEventsHandler(authUseCase *auth.AuthUseCase, events Subscriber, allowedOrigins []string, log *slog.Logger) *EventsHandler {
	return &EventsHandler{
		authUseCase: authUseCase,
		events:      events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// Stream handles GET /events?token=
// @Summary Participant event stream
// @Description Websocket pushing {type, participantId, at} for the caller's own state changes
// @Tags events
// @Param token query string true "Session token"
// @Success 101
// @Failure 401 {object} ErrorResponse
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session token"})
		return
	}
	identity, err := h.authUseCase.VerifyToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid session token"})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, stop, err := h.events.Subscribe(ctx, identity.UserID)
	if err != nil {
		respondError(c, err, "failed to subscribe to events")
		return
	}
	defer stop()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Reader: only pongs and close frames are expected.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
