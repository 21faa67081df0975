package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"catalog-go/internal/progress"
)

// Websocket keepalive
const (
	pingInterval = 25 * time.Second
	// pongWait must exceed pingInterval so an idle stream is not dropped.
	pongWait  = 35 * time.Second
	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// streamEvents upgrades to a websocket and writes every ProgressUpdate as a
// JSON text message until the client goes away or the broadcaster closes.
// A client_id query parameter restricts the stream to that client's jobs.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	clientID := r.URL.Query().Get("client_id")
	updates, cancel := s.events.Subscribe(progress.DefaultBuffer)
	defer cancel()

	s.logger.Debug("event subscriber connected", "remote", r.RemoteAddr, "client_id", clientID)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The read loop only services control frames; it ends when the client
	// closes or stops answering pings.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !isExpectedClose(err) {
					s.logger.Debug("event subscriber read error", "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			if clientID != "" && update.ClientID != clientID {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(update); err != nil {
				s.logger.Debug("event subscriber write error", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			s.logger.Debug("event subscriber disconnected", "remote", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		}
	}
}

func isExpectedClose(err error) bool {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		switch ce.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived:
			return true
		}
	}
	return false
}
