package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an Error for the HTTP layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindAuth
	KindForbidden
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

// Error is the single error type returned by the services. Two Errors match
// under errors.Is when their Codes are equal, so callers compare against the
// package sentinels.
type Error struct {
	Kind    Kind
	Code    string
	Field   string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + e.Fields[k]
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

var (
	ErrInvalidCredentials = &Error{Kind: KindAuth, Code: "invalid_credentials", Message: "Invalid credentials"}
	ErrInvalidToken       = &Error{Kind: KindAuth, Code: "invalid_token", Message: "Invalid or expired token"}
	ErrForbidden          = &Error{Kind: KindForbidden, Code: "forbidden", Message: "Insufficient permissions"}
	ErrDuplicateIdentity  = &Error{Kind: KindConflict, Code: "duplicate_identity", Field: "username", Message: "Username or email already exists"}
	ErrDuplicateSerial    = &Error{Kind: KindConflict, Code: "duplicate_serial", Field: "serial_number", Message: "Serial number already exists"}
	ErrEmptyVariantSet    = &Error{Kind: KindValidation, Code: "empty_variant_set", Field: "variants", Message: "At least one variant is required"}
	ErrInvalidVariant     = &Error{Kind: KindValidation, Code: "invalid_variant", Field: "variants", Message: "Invalid variant data"}
	ErrInvalidImage       = &Error{Kind: KindValidation, Code: "invalid_image", Field: "image", Message: "Only JPEG, PNG and WebP images up to the size limit are allowed"}
	ErrProductNotFound    = &Error{Kind: KindNotFound, Code: "product_not_found", Message: "Product not found"}
	ErrItemNotFound       = &Error{Kind: KindNotFound, Code: "item_not_found", Message: "Item not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "User not found"}
)

// detail returns a copy of sentinel carrying a more specific message.
func detail(sentinel *Error, message string) *Error {
	e := *sentinel
	e.Message = message
	return &e
}

// invalid builds a validation error from field messages.
func invalid(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: "validation", Message: "Validation failed", Fields: fields}
}

// storageErr wraps an unexpected persistence failure.
func storageErr(op string, err error) *Error {
	return &Error{Kind: KindStorage, Code: "storage", Message: op, Err: err}
}

// KindOf returns the Kind of err, or KindStorage for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}
