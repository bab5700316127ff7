package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"

	"progress-tracker-go/internal/logger"
	"progress-tracker-go/internal/services"
)

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	sample := services.SampleHealth(r.Context(), s.Store, s.Images.Dir)
	status := http.StatusOK
	if sample.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, sample)
}

// EntriesSocket streams entry change events until the client goes away.
// Incoming messages are read and discarded.
func (s *Server) EntriesSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: s.allowedOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	s.Hub.Add(conn)
	defer func() {
		s.Hub.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// allowedOrigin accepts any origin while CORS is unrestricted and the
// configured ones otherwise.
func (s *Server) allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.Config.CorsOrigins) == 0 {
		return true
	}
	for _, allowed := range s.Config.CorsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
