package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/net/websocket"
	"golang.org/x/time/rate"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

// wsFrame is the only frame shape the chat channel speaks, in both
// directions: {type: "chat"|"chat_response"|"error", message: string}.
type wsFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ChatWebSocket serves the /ws chat channel. Each inbound chat frame triggers
// one independent AI call and exactly one reply frame; frames are processed
// as they arrive, so a slow AI response stalls only that frame's reply. A
// per-connection limiter keeps a chatty client from hammering the provider.
//
// golang.org/x/net/websocket's default origin check 403s when Origin doesn't
// match Host; the dashboard is served from another origin, so accept any.
func (h *Handler) ChatWebSocket(w http.ResponseWriter, r *http.Request) {
	wsServer := websocket.Server{
		Handshake: func(cfg *websocket.Config, req *http.Request) error {
			return nil
		},
		Handler: func(c *websocket.Conn) {
			log.Printf("[ChatWS] connect remote=%s", r.RemoteAddr)
			defer log.Printf("[ChatWS] disconnect remote=%s", r.RemoteAddr)

			limiter := rate.NewLimiter(rate.Limit(1), 3)

			for {
				var raw string
				if err := websocket.Message.Receive(c, &raw); err != nil {
					return
				}

				var frame wsFrame
				if err := json.Unmarshal([]byte(raw), &frame); err != nil {
					h.sendFrame(c, wsFrame{Type: "error", Message: "Failed to process message"})
					continue
				}
				if frame.Type != "chat" {
					continue
				}

				if err := limiter.Wait(r.Context()); err != nil {
					return
				}

				reply, err := h.ai.Chat(r.Context(), []models.ChatMessage{{Role: "user", Content: frame.Message}})
				if err != nil {
					log.Printf("[ChatWS] provider error remote=%s err=%v", r.RemoteAddr, err)
					h.sendFrame(c, wsFrame{Type: "error", Message: "Failed to process message"})
					continue
				}
				h.sendFrame(c, wsFrame{Type: "chat_response", Message: reply})
			}
		},
	}

	wsServer.ServeHTTP(w, r)
}

func (h *Handler) sendFrame(c *websocket.Conn, frame wsFrame) {
	b, err := json.Marshal(frame)
	if err != nil {
		log.Printf("[ChatWS] marshal error: %v", err)
		return
	}
	if err := websocket.Message.Send(c, string(b)); err != nil {
		log.Printf("[ChatWS] send error: %v", err)
	}
}
