package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/disk"

	"progress-tracker-go/internal/logger"
)

const maxSanitizedName = 100

var (
	AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// Upload is one incoming file. Size is the size the client declared, or
// -1 when unknown.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type StoredImage struct {
	URL      string `json:"image_url"`
	Filename string `json:"image_filename"`
}

// ImageStore keeps uploaded images in a flat directory under generated
// names and serves them under URLPrefix.
type ImageStore struct {
	Dir          string
	URLPrefix    string
	MaxSize      int64
	MinFreeBytes uint64
	// FreeSpace reports available bytes on the volume holding path.
	FreeSpace func(path string) (uint64, error)
}

func NewImageStore(dir, urlPrefix string, maxSize int64, minFreeBytes uint64) *ImageStore {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &ImageStore{
		Dir:          dir,
		URLPrefix:    urlPrefix,
		MaxSize:      maxSize,
		MinFreeBytes: minFreeBytes,
		FreeSpace:    diskFree,
	}
}

func diskFree(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

func (s *ImageStore) EnsureDir() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Save validates and writes upload under a fresh uuid name that keeps only
// the lower-cased original extension.
func (s *ImageStore) Save(upload Upload) (StoredImage, error) {
	if !strings.HasPrefix(strings.ToLower(upload.ContentType), "image/") {
		return StoredImage{}, ErrFileUpload(fmt.Sprintf("File must be an image, got content type %q", upload.ContentType))
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedExtension(ext) {
		return StoredImage{}, ErrFileUpload(fmt.Sprintf("File extension %q not allowed; allowed: %s", ext, strings.Join(AllowedImageExtensions, ", ")))
	}
	if upload.Size > s.MaxSize {
		return StoredImage{}, ErrFileUpload(fmt.Sprintf("File too large: %d bytes exceeds the %d byte limit", upload.Size, s.MaxSize))
	}
	if err := s.EnsureDir(); err != nil {
		return StoredImage{}, ErrFileStorage("Could not prepare upload directory")
	}
	if err := s.checkFreeSpace(upload.Size); err != nil {
		return StoredImage{}, err
	}

	name := uuid.NewString() + ext
	target := filepath.Join(s.Dir, name)
	file, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return StoredImage{}, ErrFileStorage("Could not create image file")
	}
	written, err := io.Copy(file, io.LimitReader(upload.Body, s.MaxSize+1))
	closeErr := file.Close()
	switch {
	case err != nil || closeErr != nil:
		_ = os.Remove(target)
		return StoredImage{}, ErrFileStorage("Could not write image file")
	case written > s.MaxSize:
		_ = os.Remove(target)
		return StoredImage{}, ErrFileUpload(fmt.Sprintf("File too large: exceeds the %d byte limit", s.MaxSize))
	case written == 0:
		_ = os.Remove(target)
		return StoredImage{}, ErrFileUpload("File is empty")
	}

	logger.Info("image stored", "original", SanitizeFilename(upload.Filename), "stored", name, "bytes", written)
	return StoredImage{URL: s.URLPrefix + name, Filename: name}, nil
}

func (s *ImageStore) checkFreeSpace(size int64) error {
	if s.MinFreeBytes == 0 || s.FreeSpace == nil {
		return nil
	}
	free, err := s.FreeSpace(s.Dir)
	if err != nil {
		logger.Warn("free space check failed", "dir", s.Dir, "err", err)
		return nil
	}
	need := s.MinFreeBytes
	if size > 0 {
		need += uint64(size)
	}
	if free < need {
		return ErrFileStorage("Not enough disk space to store the image")
	}
	return nil
}

// Delete removes a stored image. A file that is already gone is not an error.
func (s *ImageStore) Delete(filename string) error {
	path, ok := s.Path(filename)
	if !ok {
		return fmt.Errorf("refusing to delete %q", filename)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether filename names a regular file in Dir.
func (s *ImageStore) Exists(filename string) bool {
	path, ok := s.Path(filename)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Path resolves a stored filename inside Dir. Names carrying a directory
// component are rejected.
func (s *ImageStore) Path(filename string) (string, bool) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", false
	}
	return filepath.Join(s.Dir, filename), true
}

func allowedExtension(ext string) bool {
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// SanitizeFilename reduces name to [a-zA-Z0-9._-] and caps its length. The
// result is only used in logs.
func SanitizeFilename(name string) string {
	safe := unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(safe) <= maxSanitizedName {
		return safe
	}
	ext := filepath.Ext(safe)
	if len(ext) > 10 {
		ext = ""
	}
	return safe[:90] + ext
}
