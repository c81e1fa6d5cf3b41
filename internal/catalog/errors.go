package catalog

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNetwork     = errors.New("catalog unreachable")
	ErrBadResponse = errors.New("catalog bad response")
	ErrNotFound    = errors.New("catalog entity not found")
	ErrMalformed   = errors.New("catalog malformed payload")
)

// Error records which catalog operation failed and for what subject
// (category, product id or order). Unwrap yields one of the sentinels above.
type Error struct {
	Op      string
	Subject string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("catalog %s %s: %v", e.Op, e.Subject, e.Err)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status=%d)", e.Status)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "bad_response"
	}
}
