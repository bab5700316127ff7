package httpapi

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"

	"progress-tracker-go/internal/logger"
	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/services"
)

type UploadImageResponse struct {
	services.StoredImage
	Message string `json:"message"`
}

func uploadFrom(header *multipart.FileHeader, file multipart.File) services.Upload {
	return services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

// UploadImage stores a file without linking it to an entry. The caller
// passes the returned pair on a later create or update.
func (s *Server) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, s.Images.MaxSize); err != nil {
		writeServiceError(w, r, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, string(services.KindFileUpload), "No file uploaded")
		return
	}
	defer file.Close()
	stored, err := s.Images.Save(uploadFrom(header, file))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, UploadImageResponse{StoredImage: stored, Message: "Image uploaded successfully"})
}

// AttachImage stores a file and links it to an existing drawing entry,
// replacing any previous image.
func (s *Server) AttachImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	if err := parseForm(w, r, s.Images.MaxSize); err != nil {
		writeServiceError(w, r, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, string(services.KindFileUpload), "No file uploaded")
		return
	}
	defer file.Close()
	entry, err := s.Tracker.AttachDrawingImage(r.Context(), id, uploadFrom(header, file))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

// attachFormImage saves the optional "image" part of a drawing form. An
// empty file input counts as no image.
func (s *Server) attachFormImage(r *http.Request, patch *models.DrawingPatch) (func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return noop, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return noop, nil
	}
	if err != nil {
		return noop, services.ErrFileUpload("Could not read the uploaded image")
	}
	defer file.Close()
	if header.Filename == "" && header.Size == 0 {
		return noop, nil
	}
	stored, err := s.Images.Save(uploadFrom(header, file))
	if err != nil {
		return noop, err
	}
	patch.ImageURL = &stored.URL
	patch.ImageFilename = &stored.Filename
	return func() {
		if err := s.Images.Delete(stored.Filename); err != nil {
			logger.Warn("image cleanup failed", "file", stored.Filename, "err", err)
		}
	}, nil
}

// ServeUpload serves stored images under the public URL prefix.
func (s *Server) ServeUpload(w http.ResponseWriter, r *http.Request) {
	path, ok := s.Images.Path(chiWildcard(r))
	if !ok {
		WriteError(w, http.StatusNotFound, string(services.KindNotFound), "Not found")
		return
	}
	file, err := os.Open(path)
	if err != nil {
		WriteError(w, http.StatusNotFound, string(services.KindNotFound), "Not found")
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		WriteError(w, http.StatusNotFound, string(services.KindNotFound), "Not found")
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
