package httpapi

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"progress-tracker-go/internal/services"
	"progress-tracker-go/internal/validation"
)

// multipartOverhead is the room left for ordinary form fields next to an
// image of the maximum upload size.
const multipartOverhead = 1 << 20

// mountForms registers the browser form endpoints. Successful posts
// redirect to the family's list; failures answer 422 with every field
// error.
func (h entryHandlers[P, E]) mountForms(web chi.Router) {
	web.Route("/"+string(h.category), func(forms chi.Router) {
		forms.Get("/", h.List)
		forms.Post("/add", h.FormAdd)
		forms.Post("/edit/{entryId}", h.FormEdit)
		forms.Post("/delete/{entryId}", h.FormDelete)
	})
}

func (h entryHandlers[P, E]) listPath() string {
	return "/web/" + string(h.category)
}

func (h entryHandlers[P, E]) formPatch(w http.ResponseWriter, r *http.Request) (P, func(), bool) {
	var patch P
	undo := func() {}
	if err := parseForm(w, r, h.bodyLimit); err != nil {
		writeServiceError(w, r, err)
		return patch, undo, false
	}
	patch, err := h.parse(validation.FormSource(r.PostForm))
	if err != nil {
		writeServiceError(w, r, err)
		return patch, undo, false
	}
	if h.attach != nil {
		if undo, err = h.attach(r, &patch); err != nil {
			writeServiceError(w, r, err)
			return patch, func() {}, false
		}
	}
	return patch, undo, true
}

func (h entryHandlers[P, E]) FormAdd(w http.ResponseWriter, r *http.Request) {
	patch, undo, ok := h.formPatch(w, r)
	if !ok {
		return
	}
	if _, err := h.create(r.Context(), patch); err != nil {
		undo()
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
}

func (h entryHandlers[P, E]) FormEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	patch, undo, ok := h.formPatch(w, r)
	if !ok {
		return
	}
	if _, err := h.update(r.Context(), id, patch); err != nil {
		undo()
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
}

func (h entryHandlers[P, E]) FormDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	if err := h.remove(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
}

// parseForm reads an urlencoded or multipart body. limit caps the whole
// body; zero means the default form limit.
func parseForm(w http.ResponseWriter, r *http.Request, limit int64) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return services.ErrInvalidInput("Malformed form body", nil)
		}
		return nil
	}
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.ErrFileUpload("File too large")
		}
		return services.ErrInvalidInput("Malformed form body", nil)
	}
	return nil
}
