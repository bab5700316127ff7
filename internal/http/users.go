package httpapi

import (
	"net/http"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/validation"
)

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Tracker.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	WriteJSON(w, http.StatusOK, users)
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	user, err := s.Tracker.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	src, err := decodeObject(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Request body must be a JSON object")
		return
	}
	input, err := validation.ParseUser(src)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	user, err := s.Tracker.CreateUser(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}
