// Package errors renders back-office failures as RFC 7807 problem documents.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is the application/problem+json body returned by every failing endpoint.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail == "" {
		return p.Title
	}
	return p.Title + ": " + p.Detail
}

// WithDetail returns a copy carrying detail.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with key set in the extensions object.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem type URIs matched by clients.
const (
	TypeBadRequest  = "/problems/bad-request"
	TypeValidation  = "/problems/validation-error"
	TypeNotFound    = "/problems/not-found"
	TypeConflict    = "/problems/invalid-transition"
	TypeUnavailable = "/problems/store-unavailable"
	TypeInternal    = "/problems/internal-error"
)

var (
	// ErrBadRequest covers unparsable bodies, ids and query parameters.
	ErrBadRequest = ProblemDetail{Type: TypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest}
	// ErrValidation covers input rejected by a domain invariant.
	ErrValidation = ProblemDetail{Type: TypeValidation, Title: "Validation Error", Status: http.StatusBadRequest}
	// ErrNotFound covers unknown requests, items, drivers, restaurants and alerts.
	ErrNotFound = ProblemDetail{Type: TypeNotFound, Title: "Resource Not Found", Status: http.StatusNotFound}
	// ErrConflict is returned when a lifecycle action does not apply to the request's current state.
	ErrConflict = ProblemDetail{Type: TypeConflict, Title: "Invalid Transition", Status: http.StatusConflict}
	// ErrUnavailable is returned when the store or a billing source failed.
	ErrUnavailable = ProblemDetail{Type: TypeUnavailable, Title: "Store Unavailable", Status: http.StatusServiceUnavailable}
	// ErrInternal hides anything unclassified.
	ErrInternal = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}
)

// NewNotFoundProblem names the missing resource in the detail and extensions.
func NewNotFoundProblem(resource string, id any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s %v does not exist", resource, id)).
		WithExtension("resource", resource).
		WithExtension("id", id)
}
