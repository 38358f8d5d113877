package bridge

import (
	"errors"

	"github.com/ViniZap4/gestor360/domain"
)

// Error codes carried across the bridge.
const (
	CodeNotFound     = "not_found"
	CodeValidation   = "validation"
	CodeConflict     = "conflict"
	CodeNotSupported = "not_supported"
	CodeInternal     = "internal"
)

// RemoteError is a host-side failure as seen by the invoking side.
type RemoteError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap maps the code back to its domain sentinel.
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case CodeNotFound:
		return domain.ErrNotFound
	case CodeValidation:
		if len(e.Fields) > 0 {
			return &domain.ValidationError{Fields: e.Fields}
		}
		return domain.ErrValidation
	case CodeConflict:
		return domain.ErrConflict
	case CodeNotSupported:
		return domain.ErrNotSupported
	}
	return nil
}

func toRemote(err error) *RemoteError {
	remote := &RemoteError{Code: CodeInternal, Message: err.Error()}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		remote.Code = CodeValidation
		remote.Fields = verr.Fields
	case errors.Is(err, domain.ErrValidation):
		remote.Code = CodeValidation
	case errors.Is(err, domain.ErrNotFound):
		remote.Code = CodeNotFound
	case errors.Is(err, domain.ErrConflict):
		remote.Code = CodeConflict
	case errors.Is(err, domain.ErrNotSupported):
		remote.Code = CodeNotSupported
	}
	return remote
}
