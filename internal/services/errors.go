package services

import (
	"errors"
	"fmt"
	"net/http"

	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindInvalidInput ErrorKind = "invalid_input"
	KindConflict     ErrorKind = "conflict"
	KindFileUpload   ErrorKind = "file_upload"
)

type ServiceError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string]string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg}
}

func ErrInvalidInput(msg string, fields map[string]string) error {
	return ServiceError{Kind: KindInvalidInput, Status: http.StatusUnprocessableEntity, Message: msg, Fields: fields}
}

func ErrConflict(msg string) error {
	return ServiceError{Kind: KindConflict, Status: http.StatusConflict, Message: msg}
}

// ErrFileUpload rejects an upload the client can fix.
func ErrFileUpload(msg string) error {
	return ServiceError{Kind: KindFileUpload, Status: http.StatusBadRequest, Message: msg}
}

// ErrFileStorage reports a server-side failure while saving an upload.
func ErrFileStorage(msg string) error {
	return ServiceError{Kind: KindFileUpload, Status: http.StatusInternalServerError, Message: msg}
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// invalid turns collected field errors into an InvalidInput error and
// passes anything else through.
func invalid(err error) error {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return ErrInvalidInput("Validation Error", fields)
	}
	return err
}

// fromStore maps store sentinels onto the service taxonomy.
func fromStore(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound(notFound)
	case errors.Is(err, store.ErrDuplicate):
		return ErrConflict(err.Error())
	}
	return err
}

// IsKind reports whether err is a ServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se ServiceError
	return errors.As(err, &se) && se.Kind == kind
}
