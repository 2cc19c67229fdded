package apperrors

import "fmt"

// ErrAuth represents a bad or missing API credential. It is fatal: retrying
// cannot help, and the caller should surface it immediately.
type ErrAuth struct {
	Status int
}

// Error implements the error interface.
func (e *ErrAuth) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog rejected credentials (status %d)", e.Status)
	}
	return "catalog API key is missing"
}

// Is allows for error checking with errors.Is().
func (e *ErrAuth) Is(target error) bool {
	_, ok := target.(*ErrAuth)
	return ok
}

// NewAuthError creates a new ErrAuth for the given HTTP status.
func NewAuthError(status int) *ErrAuth {
	return &ErrAuth{Status: status}
}

// NewMissingCredentialError creates an ErrAuth for an absent API key.
func NewMissingCredentialError() *ErrAuth {
	return &ErrAuth{}
}

// ErrProtocol represents a malformed or undecodable catalog response.
// It is fatal for the call and never retried.
type ErrProtocol struct {
	Endpoint string
	Reason   string
}

// Error implements the error interface.
func (e *ErrProtocol) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrProtocol) Is(target error) bool {
	_, ok := target.(*ErrProtocol)
	return ok
}

// NewProtocolError creates a new ErrProtocol.
func NewProtocolError(endpoint, reason string) *ErrProtocol {
	return &ErrProtocol{Endpoint: endpoint, Reason: reason}
}

// ErrTransient represents a network-level failure that survived the retry
// policy. Callers see it only after the retry bound is exhausted.
type ErrTransient struct {
	Status int
	Cause  error
}

// Error implements the error interface.
func (e *ErrTransient) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog unavailable after retries (status %d)", e.Status)
	}
	return fmt.Sprintf("catalog unreachable after retries: %v", e.Cause)
}

// Is allows for error checking with errors.Is().
func (e *ErrTransient) Is(target error) bool {
	_, ok := target.(*ErrTransient)
	return ok
}

// Unwrap exposes the underlying network error, if any.
func (e *ErrTransient) Unwrap() error {
	return e.Cause
}

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// ErrAmbiguousArchive is returned when an archive holds multiple plausible
// subtitle tracks and none can be confidently selected.
type ErrAmbiguousArchive struct {
	Filename   string
	Candidates int
}

// Error implements the error interface.
func (e *ErrAmbiguousArchive) Error() string {
	return fmt.Sprintf("archive %s holds %d equally plausible subtitle files", e.Filename, e.Candidates)
}

// Is allows for error checking with errors.Is().
func (e *ErrAmbiguousArchive) Is(target error) bool {
	_, ok := target.(*ErrAmbiguousArchive)
	return ok
}

// ErrNoSubtitleInArchive is returned when no file inside an archive matches
// the requested episode and language.
type ErrNoSubtitleInArchive struct {
	Filename  string
	Episode   int
	FileCount int
}

// Error implements the error interface.
func (e *ErrNoSubtitleInArchive) Error() string {
	return fmt.Sprintf("episode %d not found in archive %s (searched %d files)", e.Episode, e.Filename, e.FileCount)
}

// Is allows for error checking with errors.Is().
func (e *ErrNoSubtitleInArchive) Is(target error) bool {
	_, ok := target.(*ErrNoSubtitleInArchive)
	return ok
}

// ErrCorruptPayload is returned when a downloaded payload is empty, truncated
// or not plausibly subtitle text.
type ErrCorruptPayload struct {
	Filename string
	Reason   string
}

// Error implements the error interface.
func (e *ErrCorruptPayload) Error() string {
	return fmt.Sprintf("corrupt subtitle payload %s: %s", e.Filename, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrCorruptPayload) Is(target error) bool {
	_, ok := target.(*ErrCorruptPayload)
	return ok
}
