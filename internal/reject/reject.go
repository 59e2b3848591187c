// Package reject defines the typed validation rejection returned when an
// operation is refused by a business rule. Rejections are expected outcomes,
// not failures: callers surface the reason code and move on, nothing retries.
package reject

import "errors"

// Rejection carries a stable machine-readable reason code alongside a
// human-readable message.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// New creates a rejection sentinel. Domain packages declare these as package
// vars so errors.Is works by identity.
func New(code, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

// CodeOf extracts the reason code from an error chain, if any.
func CodeOf(err error) (string, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Code, true
	}
	return "", false
}
