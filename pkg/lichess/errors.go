package lichess

import (
	"encoding/json"
	"fmt"
)

// APIError is a well-formed response whose status code the configured
// StatusPolicy does not accept. Payload holds the raw JSON error body when
// the server sent one and is nil otherwise; callers decode it into whatever
// error shape their deployment uses.
type APIError struct {
	Status  int
	Payload json.RawMessage
}

func (apiError *APIError) Error() string {
	return fmt.Sprintf("lichess: request rejected with status %d", apiError.Status)
}

// TransportError is a connection, TLS, or protocol level fault, or a body
// that could not be parsed when parsing was required. It is never an
// application-level rejection; those are APIErrors.
type TransportError struct {
	Op  string
	Err error
}

func (transportError *TransportError) Error() string {
	return fmt.Sprintf("lichess: %s: %v", transportError.Op, transportError.Err)
}

func (transportError *TransportError) Unwrap() error {
	return transportError.Err
}
