package yandex

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthenticationFailed indicates bad credentials or a redirect back to the login page.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrAuthorizationInProgress indicates that another authorization is running on the same client.
	ErrAuthorizationInProgress = errors.New("authorization is already in progress")
	// ErrNotAuthenticated indicates an operation attempted before the session was established.
	ErrNotAuthenticated = errors.New("client is not authenticated")
	// ErrMissingSubstitution indicates that an endpoint placeholder has no value.
	ErrMissingSubstitution = errors.New("missing substitution")
	// ErrDecode indicates that a response doesn't have the expected shape.
	ErrDecode = errors.New("failed to decode response")
	// ErrMissingField indicates that a required key or identifier is absent.
	ErrMissingField = errors.New("required field is missing")
	// ErrTransport indicates a network failure or an unusable HTTP response.
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrUnknownSearchType indicates a search type the service doesn't know.
	ErrUnknownSearchType = errors.New("unknown search type")
	// ErrUnknownBase indicates an endpoint bound to a host that isn't configured.
	ErrUnknownBase = errors.New("unknown endpoint base")
	// ErrMalformedLocation indicates a storage location that can't be signed.
	ErrMalformedLocation = errors.New("malformed storage location")
	// ErrEmptyDownload indicates a transfer that completed without a single byte.
	ErrEmptyDownload = errors.New("downloaded track is empty")
	// ErrIncompleteDownload indicates a transfer shorter than the announced content length.
	ErrIncompleteDownload = errors.New("downloaded track is incomplete")
)

// MissingSubstitutionError lists the placeholders of an endpoint that had no value.
type MissingSubstitutionError struct {
	Endpoint string
	Names    []string
}

func (e *MissingSubstitutionError) Error() string {
	return fmt.Sprintf("%s: endpoint '%s' requires {%s}",
		ErrMissingSubstitution, e.Endpoint, strings.Join(e.Names, "}, {"))
}

// Is makes the error match ErrMissingSubstitution.
func (e *MissingSubstitutionError) Is(target error) bool {
	return target == ErrMissingSubstitution //nolint:errorlint // Sentinel identity check.
}

// DecodeError describes a response that could not be mapped to the expected entity.
type DecodeError struct {
	// Path is the dotted location of the failure inside the document, empty for the root.
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", ErrDecode, e.Err)
	}

	return fmt.Sprintf("%s at '%s': %v", ErrDecode, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes the error match ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode //nolint:errorlint // Sentinel identity check.
}

// TransportError wraps network failures and non-successful HTTP responses.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s [%d]: %v", ErrTransport, e.Endpoint, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", ErrTransport, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes the error match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport //nolint:errorlint // Sentinel identity check.
}

func newStatusError(endpoint string, statusCode int) *TransportError {
	return &TransportError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Err:        fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, statusCode),
	}
}
