package lichess

import (
	"context"

	"github.com/Kyllingene/liclient/pkg/model"
	"github.com/Kyllingene/liclient/pkg/ndjson"
)

// Events opens the account event stream: game starts and finishes, incoming
// challenges. Requires the challenge:read and board:play (or bot:play)
// scopes. The channel follows ndjson.Stream semantics; cancel ctx to close
// the connection and end it.
func (client *Client) Events(ctx context.Context, options ...ndjson.Option) (<-chan ndjson.Result[model.Event], error) {
	return OpenNDJSON[model.Event](ctx, client, "/api/stream/event", options...)
}

// Board opens the state stream of a single game. Requires the board:play
// scope. The first record is a gameFull snapshot, followed by gameState
// deltas and chat lines.
func (client *Client) Board(ctx context.Context, gameID string, options ...ndjson.Option) (<-chan ndjson.Result[model.BoardEvent], error) {
	return OpenNDJSON[model.BoardEvent](ctx, client, "/api/board/game/stream/"+gameID, options...)
}

// StreamLines opens a streaming endpoint and exposes its raw non-blank
// lines without decoding.
func (client *Client) StreamLines(ctx context.Context, path string, options ...ndjson.Option) (<-chan ndjson.Result[string], error) {
	body, openError := client.OpenStream(ctx, path)
	if openError != nil {
		return nil, openError
	}
	return ndjson.Lines(ctx, body, options...), nil
}

// OpenNDJSON opens a streaming endpoint on the client and decodes each line
// into T. It is a function rather than a method only because Go methods
// cannot be generic.
func OpenNDJSON[T any](ctx context.Context, client *Client, path string, options ...ndjson.Option) (<-chan ndjson.Result[T], error) {
	body, openError := client.OpenStream(ctx, path)
	if openError != nil {
		return nil, openError
	}
	return ndjson.Stream[T](ctx, body, options...), nil
}
