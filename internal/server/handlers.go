package server

import (
	"net/http"

	"github.com/aristath/oracles/internal/api"
)

// handleNotFound answers unknown paths with a JSON error instead of chi's
// plain text body
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, r, s.log, http.StatusNotFound, api.M{
		"error": "Not found",
		"path":  r.URL.Path,
		"hint":  "GET / lists every endpoint and its price",
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, r, s.log, http.StatusMethodNotAllowed, api.M{
		"error":  "Method not allowed",
		"method": r.Method,
	})
}
