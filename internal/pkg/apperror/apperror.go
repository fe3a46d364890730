package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers and the HTTP layer can react without
// string matching.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindDataAccess        Kind = "data_access"
	KindCompletionAuth    Kind = "completion_auth"
	KindCompletionQuota   Kind = "completion_quota"
	KindCompletionNetwork Kind = "completion_network"
	KindCompletionEmpty   Kind = "completion_empty"
	KindPersist           Kind = "persist"
	KindValidation        Kind = "validation"
	KindUnauthorized      Kind = "unauthorized"
	KindInternal          Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// KindOf returns the kind of err, or KindInternal when err carries no kind.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err (or anything it wraps) has the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code the API responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return 404
	case KindValidation:
		return 400
	case KindUnauthorized:
		return 401
	case KindCompletionAuth, KindCompletionQuota, KindCompletionNetwork, KindCompletionEmpty:
		return 502
	default:
		return 500
	}
}
