package lichess

import (
	"encoding/json"
	"errors"
	"net/http"
)

// StatusPolicy is the explicit set of HTTP status codes a deployment treats
// as success. Different installations of this client have historically
// accepted different sets, so the policy is a value on the client rather
// than a hard-coded match.
type StatusPolicy []int

// DefaultStatusPolicy accepts 200 OK and 201 Created, matching the remote
// API's documented success codes. This is the single source of truth for the
// accepted-status set.
var DefaultStatusPolicy = StatusPolicy{http.StatusOK, http.StatusCreated}

// Accepts reports whether the policy treats the status code as success.
func (policy StatusPolicy) Accepts(status int) bool {
	for _, acceptedStatus := range policy {
		if status == acceptedStatus {
			return true
		}
	}
	return false
}

// Classify decides the three-way outcome of an HTTP exchange. An accepted
// status returns the body bytes unchanged. A rejected status with an empty
// body returns an APIError with no payload; with a JSON body, the APIError
// carries it. A rejected status with a body that is not valid JSON is a
// transport-class fault: the response could not be decoded at all.
func Classify(policy StatusPolicy, status int, body []byte) ([]byte, error) {
	if policy.Accepts(status) {
		return body, nil
	}
	if len(body) == 0 {
		return nil, &APIError{Status: status}
	}
	if !json.Valid(body) {
		return nil, &TransportError{
			Op:  "classify response",
			Err: errors.New("error body is not valid JSON"),
		}
	}
	return nil, &APIError{Status: status, Payload: json.RawMessage(body)}
}
