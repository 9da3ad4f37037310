// FILE: internal/pkg/apperror/apperror.go
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthorized     Kind = "unauthorized"
	KindMisconfigured    Kind = "misconfigured"
	KindMalformedPayload Kind = "malformed_payload"
	KindNotFound         Kind = "not_found"
	KindInvalidRequest   Kind = "invalid_request"
	KindConflict         Kind = "conflict"
	KindUpstream         Kind = "upstream_error"
	KindStoreFailure     Kind = "store_failure"
	KindTimeout          Kind = "timeout"
	KindInternal         Kind = "internal"
)

// Error is the single error type crossing the service/controller boundary.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int         // upstream status for KindUpstream
	Details    interface{} // upstream body for KindUpstream
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
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

// Upstream carries a provider failure with its status code and body.
func Upstream(statusCode int, details interface{}, err error) *Error {
	return &Error{Kind: KindUpstream, Message: "Razorpay API Error", StatusCode: statusCode, Details: details, Err: err}
}

// Store classifies a repository error: deadline expiry is still a store
// failure from the caller's point of view, but keeps the cause for logs.
func Store(message string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindStoreFailure, message+" (timed out)", err)
	}
	return Wrap(KindStoreFailure, message, err)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Decision is how a failure is answered over HTTP.
type Decision struct {
	Status      int
	Retryable   bool
	Acknowledge bool // answered as a 2xx {"message"} so the provider stops retrying
	Expose      bool // the error's own message may be shown to the caller
	Public      string
}

// policy is the one place failure kinds are mapped to responses.
var policy = map[Kind]Decision{
	KindUnauthorized:     {Status: http.StatusUnauthorized, Public: "Unauthorized: invalid signature"},
	KindMisconfigured:    {Status: http.StatusInternalServerError, Retryable: true, Expose: true, Public: "Server misconfigured"},
	KindMalformedPayload: {Status: http.StatusOK, Acknowledge: true, Public: "Malformed payload ignored"},
	KindNotFound:         {Status: http.StatusOK, Acknowledge: true, Public: "Subscriber not found, event acknowledged"},
	KindInvalidRequest:   {Status: http.StatusBadRequest, Expose: true, Public: "Invalid request"},
	KindConflict:         {Status: http.StatusConflict, Expose: true, Public: "Conflict"},
	KindUpstream:         {Status: http.StatusInternalServerError, Retryable: true, Expose: true, Public: "Razorpay API Error"},
	KindStoreFailure:     {Status: http.StatusInternalServerError, Retryable: true, Public: "Failed to update subscription"},
	KindTimeout:          {Status: http.StatusGatewayTimeout, Retryable: true, Public: "Request timed out"},
	KindInternal:         {Status: http.StatusInternalServerError, Retryable: true, Public: "Internal server error"},
}

// Decide looks up err in the policy table.
func Decide(err error) Decision {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return policy[KindInternal]
	}

	d := policy[appErr.Kind]
	if appErr.Kind == KindUpstream && appErr.StatusCode > 0 {
		d.Status = appErr.StatusCode
	}
	if d.Expose && appErr.Message != "" {
		d.Public = appErr.Message
	}
	return d
}

// DecideStrict is Decide for client-facing APIs where a missing record is a
// real 404 rather than an acknowledgement.
func DecideStrict(err error) Decision {
	d := Decide(err)
	if KindOf(err) == KindNotFound {
		var appErr *Error
		errors.As(err, &appErr)
		return Decision{Status: http.StatusNotFound, Expose: true, Public: appErr.Message}
	}
	if KindOf(err) == KindMalformedPayload {
		return policy[KindInvalidRequest]
	}
	return d
}
