package live

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/auth"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/typeid"
)

type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

type Handler struct {
	hub            *Hub
	tokens         TokenValidator
	originPatterns []string
}

// NewHandler accepts websocket upgrades from the given origins, which are
// full URLs such as "http://localhost:5173".
func NewHandler(hub *Hub, tokens TokenValidator, allowedOrigins []string) *Handler {
	return &Handler{
		hub:            hub,
		tokens:         tokens,
		originPatterns: OriginPatterns(allowedOrigins),
	}
}

// OriginPatterns turns allowed origins into host patterns for websocket.Accept.
func OriginPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		} else if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}

// ServeWS subscribes the caller to a drawing. Browsers cannot set headers
// on websocket requests, so the token comes from the query string.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	drawingID := mux.Vars(r)["drawingId"]
	if err := typeid.Validate(drawingID, typeid.PrefixDrawing); err != nil {
		http.Error(w, "drawing not found", http.StatusNotFound)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, claims.Subject, drawingID, uuid.New().String())
	ctx := r.Context()
	go client.WritePump(ctx)
	h.hub.Join(ctx, client)
	client.ReadPump(ctx)
}
