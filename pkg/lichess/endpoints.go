package lichess

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Kyllingene/liclient/pkg/model"
)

// Account returns the authenticated user's profile. Requires no scopes.
func (client *Client) Account(ctx context.Context) (model.Account, error) {
	var account model.Account
	if requestError := client.GetJSON(ctx, "/api/account", &account); requestError != nil {
		return model.Account{}, requestError
	}
	return account, nil
}

// Email returns the account's email address. Requires the email:read scope.
func (client *Client) Email(ctx context.Context) (string, error) {
	var payload struct {
		Email string `json:"email"`
	}
	if requestError := client.GetJSON(ctx, "/api/account/email", &payload); requestError != nil {
		return "", requestError
	}
	return payload.Email, nil
}

// ChallengeAI starts a game against the server AI at the given level and
// returns the new game's ID. Requires the challenge:write scope. An empty
// fen starts from the standard position.
func (client *Client) ChallengeAI(ctx context.Context, level int, color model.Color, clock model.ClockSettings, fen string) (string, error) {
	form := url.Values{}
	form.Set("level", strconv.Itoa(level))
	form.Set("color", string(color))
	encodeClock(form, clock)
	if fen != "" {
		form.Set("fen", fen)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if requestError := client.PostFormJSON(ctx, "/api/challenge/ai", form, &payload); requestError != nil {
		return "", requestError
	}
	if payload.ID == "" {
		return "", &TransportError{Op: "challenge ai", Err: fmt.Errorf("response carried no game id")}
	}
	return payload.ID, nil
}

// Seek enters the public pool looking for an opponent. Requires the
// board:play scope. The server answers when the seek is accepted or expires;
// cancel ctx to withdraw it.
func (client *Client) Seek(ctx context.Context, rated bool, color model.Color, clock model.ClockSettings, fen string) error {
	form := url.Values{}
	form.Set("color", string(color))
	if rated {
		form.Set("rated", "true")
	}
	if clock.Correspondence {
		form.Set("days", strconv.Itoa(clock.Days))
	} else {
		form.Set("time", strconv.Itoa(clock.Limit))
		form.Set("increment", strconv.Itoa(clock.Increment))
	}
	if fen != "" {
		form.Set("fen", fen)
	}

	_, requestError := client.PostForm(ctx, "/api/board/seek", form)
	return requestError
}

// Move plays a move (UCI notation) in the given game, optionally offering a
// draw with it. Requires the board:play scope.
func (client *Client) Move(ctx context.Context, gameID, move string, offeringDraw bool) error {
	path := fmt.Sprintf("/api/board/game/%s/move/%s?offeringDraw=%t",
		url.PathEscape(gameID), url.PathEscape(move), offeringDraw)
	return client.postOK(ctx, path, "play move")
}

// Resign resigns the given game. Requires the board:play scope.
func (client *Client) Resign(ctx context.Context, gameID string) error {
	path := fmt.Sprintf("/api/board/game/%s/resign", url.PathEscape(gameID))
	return client.postOK(ctx, path, "resign game")
}

// postOK posts an empty form and unwraps the server's {"ok":true} envelope.
func (client *Client) postOK(ctx context.Context, path, operation string) error {
	var payload struct {
		OK bool `json:"ok"`
	}
	if requestError := client.PostFormJSON(ctx, path, url.Values{}, &payload); requestError != nil {
		return requestError
	}
	if !payload.OK {
		return &TransportError{Op: operation, Err: fmt.Errorf("server answered ok=false")}
	}
	return nil
}

func encodeClock(form url.Values, clock model.ClockSettings) {
	if clock.Correspondence {
		form.Set("days", strconv.Itoa(clock.Days))
		return
	}
	form.Set("clock.limit", strconv.Itoa(clock.Limit))
	form.Set("clock.increment", strconv.Itoa(clock.Increment))
}
