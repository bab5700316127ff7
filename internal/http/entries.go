package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

// entryHandlers binds one entry family's service calls to HTTP. The same
// parse step serves JSON bodies and form posts.
type entryHandlers[P any, E any] struct {
	category models.Category
	label    string
	dated    bool
	// bodyLimit caps multipart form bodies; zero leaves them unbounded.
	bodyLimit int64
	parse     func(validation.Source) (P, error)
	list      func(context.Context, store.Filter) ([]E, error)
	get       func(context.Context, int64) (E, error)
	create    func(context.Context, P) (E, error)
	update    func(context.Context, int64, P) (E, error)
	remove    func(context.Context, int64) error
	// attach, when set, lets form posts carry a file. It may fill patch
	// and returns a function undoing its side effects.
	attach func(*http.Request, *P) (func(), error)
}

func (h entryHandlers[P, E]) mount(api chi.Router) {
	api.Get("/", h.List)
	api.Post("/", h.Create)
	api.Get("/{entryId}", h.Get)
	api.Put("/{entryId}", h.Update)
	api.Delete("/{entryId}", h.Delete)
}

func (h entryHandlers[P, E]) List(w http.ResponseWriter, r *http.Request) {
	filter, errs := listFilter(r, h.dated)
	if len(errs) > 0 {
		writeInvalid(w, errs)
		return
	}
	items, err := h.list(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []E{}
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h entryHandlers[P, E]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	entry, err := h.get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

func (h entryHandlers[P, E]) Create(w http.ResponseWriter, r *http.Request) {
	src, err := decodeObject(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Request body must be a JSON object")
		return
	}
	patch, err := h.parse(src)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	entry, err := h.create(r.Context(), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

func (h entryHandlers[P, E]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	src, err := decodeObject(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Request body must be a JSON object")
		return
	}
	patch, err := h.parse(src)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	entry, err := h.update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

func (h entryHandlers[P, E]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	if err := h.remove(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("%s entry deleted", h.label)})
}
