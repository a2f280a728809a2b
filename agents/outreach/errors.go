package outreach

import "fmt"

// MissingDataError reports a required upstream record that was absent
// from the request. Always surfaced to the caller.
type MissingDataError struct {
	What string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing required data: %s", e.What)
}

// ExternalServiceError reports a failed call to the generative text
// service. Every call site except the composer's body generation catches
// it and falls back to the deterministic path.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("generative service failed during %s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// ParseError reports malformed text from the generative service. For the
// composer's body generation it is surfaced to the caller: there is no
// safe default message to send.
type ParseError struct {
	Op      string
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s response: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to parse %s response: %q", e.Op, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AuditWriteError reports a failed audit append. Logged by the composer,
// never fatal to the primary response.
type AuditWriteError struct {
	ProspectID string
	Err        error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("failed to write audit record for prospect %s: %v", e.ProspectID, e.Err)
}

func (e *AuditWriteError) Unwrap() error { return e.Err }
