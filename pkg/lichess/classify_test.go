package lichess

import (
	"errors"
	"testing"
)

func TestClassifyAcceptedStatusReturnsBody(t *testing.T) {
	body, classifyError := Classify(DefaultStatusPolicy, 200, []byte(`{"id":"abc"}`))
	if classifyError != nil {
		t.Fatalf("unexpected error: %v", classifyError)
	}
	if string(body) != `{"id":"abc"}` {
		t.Fatalf("unexpected body %q", body)
	}

	if _, createdError := Classify(DefaultStatusPolicy, 201, nil); createdError != nil {
		t.Fatalf("201 should be accepted by the default policy: %v", createdError)
	}
}

func TestClassifyRejectedStatusCarriesPayload(t *testing.T) {
	_, classifyError := Classify(DefaultStatusPolicy, 404, []byte(`{"error":"not found"}`))

	var apiError *APIError
	if !errors.As(classifyError, &apiError) {
		t.Fatalf("expected an APIError, got %v", classifyError)
	}
	if apiError.Status != 404 {
		t.Fatalf("unexpected status %d", apiError.Status)
	}
	if string(apiError.Payload) != `{"error":"not found"}` {
		t.Fatalf("unexpected payload %q", apiError.Payload)
	}
}

func TestClassifyEmptyErrorBodyHasNoPayload(t *testing.T) {
	_, classifyError := Classify(DefaultStatusPolicy, 500, nil)

	var apiError *APIError
	if !errors.As(classifyError, &apiError) {
		t.Fatalf("expected an APIError, got %v", classifyError)
	}
	if apiError.Payload != nil {
		t.Fatalf("expected no payload, got %q", apiError.Payload)
	}
}

func TestClassifyMalformedErrorBodyIsTransportFault(t *testing.T) {
	_, classifyError := Classify(DefaultStatusPolicy, 502, []byte("<html>bad gateway</html>"))

	var transportError *TransportError
	if !errors.As(classifyError, &transportError) {
		t.Fatalf("expected a TransportError, got %v", classifyError)
	}
	var apiError *APIError
	if errors.As(classifyError, &apiError) {
		t.Fatalf("a malformed error body must not classify as an APIError")
	}
}

func TestClassifyHonorsCustomPolicy(t *testing.T) {
	lenientPolicy := StatusPolicy{200, 201, 404}

	body, classifyError := Classify(lenientPolicy, 404, []byte(`{"error":"not found"}`))
	if classifyError != nil {
		t.Fatalf("policy accepting 404 should classify it as success: %v", classifyError)
	}
	if string(body) != `{"error":"not found"}` {
		t.Fatalf("unexpected body %q", body)
	}

	if _, strictError := Classify(StatusPolicy{204}, 200, nil); strictError == nil {
		t.Fatalf("policy excluding 200 should reject it")
	}
}
