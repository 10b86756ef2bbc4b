package ndjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const defaultReadChunkSize = 4096

// Result is the tagged per-item outcome of a stream. Exactly one of Value and
// Err is meaningful: a nil Err means Value holds a decoded item; a non-nil Err
// is either a *DecodeError for a single malformed line (the stream continues)
// or the terminal read error that ended the stream.
type Result[T any] struct {
	Value T
	Err   error
}

// DecodeError reports a single stream line that could not be decoded into the
// requested type. The stream continues past it; strict consumers see it on
// the Result channel, lenient consumers drop it via Items.
type DecodeError struct {
	Line string
	Err  error
}

func (decodeError *DecodeError) Error() string {
	return fmt.Sprintf("ndjson: decode line failed: %v", decodeError.Err)
}

func (decodeError *DecodeError) Unwrap() error {
	return decodeError.Err
}

type streamOptions struct {
	trailingLine  bool
	channelBuffer int
	readChunkSize int
}

// Option adjusts stream behaviour.
type Option func(*streamOptions)

// WithTrailingLine emits a residual unterminated line at end of stream as a
// final record. The default matches the historical client and discards it.
func WithTrailingLine() Option {
	return func(options *streamOptions) {
		options.trailingLine = true
	}
}

// WithChannelBuffer sets the capacity of the delivery channel. The default of
// zero gives full backpressure: the reader goroutine blocks until the
// consumer takes each item.
func WithChannelBuffer(capacity int) Option {
	return func(options *streamOptions) {
		if capacity >= 0 {
			options.channelBuffer = capacity
		}
	}
}

// Stream decodes a newline-delimited JSON body into values of type T. It
// owns the body: the body is closed on every exit path, including context
// cancellation and consumer abandonment via that cancellation.
//
// Lines arrive on the channel strictly in wire order. Empty lines (the
// server's keep-alive heartbeats) never produce a Result. A line that fails
// to decode produces a Result carrying a *DecodeError and the stream
// continues. A read fault produces one terminal Result carrying the fault,
// then the channel closes; a clean end of stream closes the channel with no
// terminal Result. Cancelling ctx closes the body promptly and ends the
// stream without a terminal Result.
func Stream[T any](ctx context.Context, body io.ReadCloser, options ...Option) <-chan Result[T] {
	return pump(ctx, body, func(line string) (T, error) {
		var value T
		if unmarshalError := json.Unmarshal([]byte(line), &value); unmarshalError != nil {
			return value, &DecodeError{Line: line, Err: unmarshalError}
		}
		return value, nil
	}, options)
}

// Lines exposes the raw filtered line stream: terminators stripped, blank
// keep-alive lines removed, no JSON decoding. Lifecycle and error semantics
// match Stream.
func Lines(ctx context.Context, body io.ReadCloser, options ...Option) <-chan Result[string] {
	return pump(ctx, body, func(line string) (string, error) {
		return line, nil
	}, options)
}

// Items collapses a Result channel to the lenient historical view: decoded
// values only, with per-line decode failures and the terminal error silently
// dropped. Strict consumers should range over the Result channel instead.
// ctx must be the stream's context: cancelling it ends the forwarding
// goroutine even when the consumer abandons the channel without draining it.
func Items[T any](ctx context.Context, results <-chan Result[T]) <-chan T {
	items := make(chan T)
	go func() {
		defer close(items)
		for result := range results {
			if result.Err != nil {
				continue
			}
			select {
			case items <- result.Value:
			case <-ctx.Done():
				return
			}
		}
	}()
	return items
}

// pump is the single reader goroutine behind Stream and Lines. All per-stream
// state (the splitter buffer, the read buffer) is confined to it.
func pump[T any](ctx context.Context, body io.ReadCloser, decode func(string) (T, error), options []Option) <-chan Result[T] {
	configured := streamOptions{readChunkSize: defaultReadChunkSize}
	for _, option := range options {
		option(&configured)
	}

	results := make(chan Result[T], configured.channelBuffer)

	// A blocked Read only returns once the connection dies, so cancellation
	// must close the body from outside the reader goroutine.
	stopWatcher := context.AfterFunc(ctx, func() {
		body.Close()
	})

	go func() {
		defer close(results)
		defer stopWatcher()
		defer body.Close()

		splitter := &LineSplitter{}
		chunk := make([]byte, configured.readChunkSize)
		for {
			bytesRead, readError := body.Read(chunk)
			if bytesRead > 0 {
				for _, line := range splitter.Push(chunk[:bytesRead]) {
					if line == "" {
						continue // keep-alive heartbeat
					}
					if !deliver(ctx, results, decode, line) {
						return
					}
				}
			}
			if readError == nil {
				continue
			}
			if errors.Is(readError, io.EOF) {
				if configured.trailingLine {
					if residual, ok := splitter.Finish(); ok && residual != "" {
						deliver(ctx, results, decode, residual)
					}
				}
				return
			}
			if ctx.Err() != nil {
				// Cancelled by the consumer; the read error is just the
				// body closing under us.
				return
			}
			select {
			case results <- Result[T]{Err: fmt.Errorf("ndjson: read stream: %w", readError)}:
			case <-ctx.Done():
			}
			return
		}
	}()

	return results
}

func deliver[T any](ctx context.Context, results chan<- Result[T], decode func(string) (T, error), line string) bool {
	var result Result[T]
	value, decodeError := decode(line)
	if decodeError != nil {
		result.Err = decodeError
	} else {
		result.Value = value
	}
	select {
	case results <- result:
		return true
	case <-ctx.Done():
		return false
	}
}
