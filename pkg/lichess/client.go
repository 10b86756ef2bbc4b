// Package lichess is a client for the chess server's HTTP/NDJSON API. It
// issues bearer-authenticated requests, classifies every response as
// success, application error, or transport fault, and exposes long-lived
// NDJSON streams as channels of typed records.
package lichess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production chess server.
	DefaultBaseURL = "https://lichess.org"

	defaultConnectTimeout = 10 * time.Second
	defaultRequestTimeout = 30 * time.Second

	// errorBodyLimit caps how much of a failed stream-open response is read
	// for classification.
	errorBodyLimit = 1 << 20
)

// Settings captures all inputs required to construct a Client. Token is the
// only required field.
type Settings struct {
	// Token is the opaque bearer credential. It is attached to every request
	// and never logged or serialized.
	Token string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Policy is the accepted-status set; nil means DefaultStatusPolicy.
	Policy StatusPolicy

	// ConnectTimeout bounds dialing and TLS setup. RequestTimeout bounds an
	// entire unary exchange; for streams it bounds only the wait for
	// response headers, since an open stream stays up indefinitely.
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	Logger *slog.Logger
}

// Client issues authenticated requests against the chess server. It is safe
// for concurrent use; the credential is immutable for the client's lifetime.
type Client struct {
	baseURL      string
	token        string
	policy       StatusPolicy
	unaryClient  *http.Client
	streamClient *http.Client
	logger       *slog.Logger
}

// NewClient validates the settings and wires the unary and streaming HTTP
// clients. The streaming client carries no overall deadline: a successfully
// opened stream is expected to stay open until the caller cancels it.
func NewClient(settings Settings) (*Client, error) {
	if strings.TrimSpace(settings.Token) == "" {
		return nil, errors.New("lichess: bearer token is required")
	}

	baseURL := strings.TrimSuffix(settings.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, parseError := url.Parse(baseURL); parseError != nil {
		return nil, fmt.Errorf("lichess: invalid base URL %q: %w", settings.BaseURL, parseError)
	}

	policy := settings.Policy
	if policy == nil {
		policy = DefaultStatusPolicy
	}

	connectTimeout := pickDuration(settings.ConnectTimeout, defaultConnectTimeout)
	requestTimeout := pickDuration(settings.RequestTimeout, defaultRequestTimeout)

	logger := settings.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	streamTransport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: requestTimeout,
	}
	unaryTransport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: connectTimeout,
	}

	return &Client{
		baseURL: baseURL,
		token:   settings.Token,
		policy:  policy,
		unaryClient: &http.Client{
			Transport: unaryTransport,
			Timeout:   requestTimeout,
		},
		streamClient: &http.Client{
			Transport: streamTransport,
		},
		logger: logger,
	}, nil
}

// GetRaw performs a unary GET and returns the classified body bytes.
func (client *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return client.do(ctx, http.MethodGet, path, "", "")
}

// PostForm performs a unary POST with a form-url-encoded body and returns
// the classified body bytes.
func (client *Client) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return client.do(ctx, http.MethodPost, path, form.Encode(), "application/x-www-form-urlencoded")
}

// GetJSON performs a unary GET and decodes the classified body into target.
// A success body that fails to decode is a transport-class fault.
func (client *Client) GetJSON(ctx context.Context, path string, target any) error {
	body, requestError := client.GetRaw(ctx, path)
	if requestError != nil {
		return requestError
	}
	return decodeBody(body, target)
}

// PostFormJSON performs a unary form POST and decodes the classified body
// into target.
func (client *Client) PostFormJSON(ctx context.Context, path string, form url.Values, target any) error {
	body, requestError := client.PostForm(ctx, path, form)
	if requestError != nil {
		return requestError
	}
	return decodeBody(body, target)
}

// OpenStream issues a long-lived GET and hands the raw body to the caller
// after classifying the response status. The caller owns the returned body;
// cancelling ctx closes the underlying connection on every exit path.
func (client *Client) OpenStream(ctx context.Context, path string) (io.ReadCloser, error) {
	request, buildError := client.newRequest(ctx, http.MethodGet, path, "", "")
	if buildError != nil {
		return nil, buildError
	}

	client.logger.Debug("opening stream", "path", path)
	response, sendError := client.streamClient.Do(request)
	if sendError != nil {
		return nil, &TransportError{Op: "open stream " + path, Err: sendError}
	}
	if client.policy.Accepts(response.StatusCode) {
		return response.Body, nil
	}

	// Rejected: drain a bounded amount of body for the error payload and
	// release the connection before returning.
	body, readError := io.ReadAll(io.LimitReader(response.Body, errorBodyLimit))
	response.Body.Close()
	if readError != nil {
		return nil, &TransportError{Op: "read error body", Err: readError}
	}
	_, classified := Classify(client.policy, response.StatusCode, body)
	return nil, classified
}

func (client *Client) do(ctx context.Context, method, path, body, contentType string) ([]byte, error) {
	request, buildError := client.newRequest(ctx, method, path, body, contentType)
	if buildError != nil {
		return nil, buildError
	}

	started := time.Now()
	response, sendError := client.unaryClient.Do(request)
	if sendError != nil {
		return nil, &TransportError{Op: method + " " + path, Err: sendError}
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, &TransportError{Op: "read response body", Err: readError}
	}

	client.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return Classify(client.policy, response.StatusCode, responseBody)
}

// newRequest builds an HTTP request against the base URL with the bearer
// credential attached. GET requests carry no body.
func (client *Client) newRequest(ctx context.Context, method, path, body, contentType string) (*http.Request, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	request, buildError := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if buildError != nil {
		return nil, &TransportError{Op: "build request " + path, Err: buildError}
	}
	request.Header.Set("Authorization", "Bearer "+client.token)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	return request, nil
}

func decodeBody(body []byte, target any) error {
	if target == nil {
		return nil
	}
	if unmarshalError := json.Unmarshal(body, target); unmarshalError != nil {
		return &TransportError{Op: "decode response body", Err: unmarshalError}
	}
	return nil
}

func pickDuration(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return fallback
}
