package domain

import (
	"errors"
	"fmt"
)

// ErrNotConfigured marks a dependency whose credentials or endpoint are
// absent. It degrades that dependency's output instead of failing the record.
var ErrNotConfigured = errors.New("not configured")

// DecodeError marks a malformed record: bad base64 framing, invalid UTF-8,
// or a body with no usable post text. Permanent; retrying cannot succeed.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode record: %s: %v", e.Reason, e.Err)
	}
	return "decode record: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ServiceError marks a failed or timed-out call to an external dependency.
// Transient; the record is worth retrying.
type ServiceError struct {
	Dependency string
	Err        error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Dependency, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// PublishError marks a notification-channel failure for a configured channel.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish alert: %v", e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// IsRetryable reports whether a per-record failure is transient. Decode
// failures are poison messages; everything else may succeed on redelivery.
func IsRetryable(err error) bool {
	var de *DecodeError
	return !errors.As(err, &de)
}
