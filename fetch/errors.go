package fetch

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidID is returned for identifiers which are not positive finite
// numbers. No network call is attempted in this case.
var ErrInvalidID = errors.New("invalid image id")

// EndpointError is returned when all candidate endpoints have been exhausted.
// It carries the last attempted URL and, when the transport responded, the
// status code.
type EndpointError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *EndpointError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}

	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}
