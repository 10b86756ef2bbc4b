package lichess_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Kyllingene/liclient/internal/apitest"
	"github.com/Kyllingene/liclient/pkg/lichess"
	"github.com/Kyllingene/liclient/pkg/model"
	"github.com/Kyllingene/liclient/pkg/ndjson"
)

const testToken = "lip_test_token"

func newTestPair(t *testing.T) (*apitest.Server, *lichess.Client) {
	t.Helper()

	stubServer := apitest.NewServer(testToken)
	t.Cleanup(stubServer.Close)

	client, clientError := lichess.NewClient(lichess.Settings{
		Token:   testToken,
		BaseURL: stubServer.URL(),
	})
	if clientError != nil {
		t.Fatalf("client construction error: %v", clientError)
	}
	return stubServer, client
}

func TestClientRequiresToken(t *testing.T) {
	if _, clientError := lichess.NewClient(lichess.Settings{}); clientError == nil {
		t.Fatalf("expected an error for a missing token")
	}
}

func TestAccountCarriesBearerCredential(t *testing.T) {
	stubServer, client := newTestPair(t)

	account, accountError := client.Account(context.Background())
	if accountError != nil {
		t.Fatalf("account error: %v", accountError)
	}
	if account.Username != stubServer.Account.Username {
		t.Fatalf("unexpected username %q", account.Username)
	}
}

func TestWrongCredentialIsApplicationError(t *testing.T) {
	stubServer := apitest.NewServer(testToken)
	t.Cleanup(stubServer.Close)

	client, clientError := lichess.NewClient(lichess.Settings{
		Token:   "lip_wrong_token",
		BaseURL: stubServer.URL(),
	})
	if clientError != nil {
		t.Fatalf("client construction error: %v", clientError)
	}

	_, accountError := client.Account(context.Background())
	var apiError *lichess.APIError
	if !errors.As(accountError, &apiError) {
		t.Fatalf("expected an APIError, got %v", accountError)
	}
	if apiError.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", apiError.Status)
	}
}

func TestPostFormEchoRoundTrip(t *testing.T) {
	_, client := newTestPair(t)

	form := url.Values{}
	form.Set("level", "3")
	form.Set("color", "white")
	form.Set("fen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")

	echoed, echoError := client.PostForm(context.Background(), "/api/echo", form)
	if echoError != nil {
		t.Fatalf("echo error: %v", echoError)
	}
	if string(echoed) != form.Encode() {
		t.Fatalf("echoed body differs from encoded form:\n got %q\nwant %q", echoed, form.Encode())
	}
}

func TestGetJSONMalformedSuccessBodyIsTransportFault(t *testing.T) {
	rawServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("definitely not json"))
	}))
	t.Cleanup(rawServer.Close)

	client, clientError := lichess.NewClient(lichess.Settings{Token: testToken, BaseURL: rawServer.URL})
	if clientError != nil {
		t.Fatalf("client construction error: %v", clientError)
	}

	var target struct{}
	decodeError := client.GetJSON(context.Background(), "/", &target)
	var transportError *lichess.TransportError
	if !errors.As(decodeError, &transportError) {
		t.Fatalf("expected a TransportError, got %v", decodeError)
	}
}

func TestConnectionFailureIsTransportFault(t *testing.T) {
	client, clientError := lichess.NewClient(lichess.Settings{
		Token:          testToken,
		BaseURL:        "http://127.0.0.1:1",
		RequestTimeout: time.Second,
	})
	if clientError != nil {
		t.Fatalf("client construction error: %v", clientError)
	}

	_, requestError := client.GetRaw(context.Background(), "/api/account")
	var transportError *lichess.TransportError
	if !errors.As(requestError, &transportError) {
		t.Fatalf("expected a TransportError, got %v", requestError)
	}
}

func TestCustomStatusPolicyOnClient(t *testing.T) {
	stubServer := apitest.NewServer(testToken)
	t.Cleanup(stubServer.Close)

	client, clientError := lichess.NewClient(lichess.Settings{
		Token:   testToken,
		BaseURL: stubServer.URL(),
		Policy:  lichess.StatusPolicy{http.StatusOK, http.StatusCreated, http.StatusNotFound},
	})
	if clientError != nil {
		t.Fatalf("client construction error: %v", clientError)
	}

	body, requestError := client.GetRaw(context.Background(), "/api/missing")
	if requestError != nil {
		t.Fatalf("lenient policy should accept 404: %v", requestError)
	}
	if string(body) != `{"error":"not found"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestChallengeAIReturnsGameID(t *testing.T) {
	stubServer, client := newTestPair(t)

	clock := model.ClockSettings{Limit: 300, Increment: 3}
	gameID, challengeError := client.ChallengeAI(context.Background(), 3, model.ColorWhite, clock, "")
	if challengeError != nil {
		t.Fatalf("challenge error: %v", challengeError)
	}
	if gameID != stubServer.GameID {
		t.Fatalf("unexpected game id %q", gameID)
	}
}

func TestMoveAndResignUnwrapOKEnvelope(t *testing.T) {
	_, client := newTestPair(t)

	if moveError := client.Move(context.Background(), "abcdefgh", "e2e4", false); moveError != nil {
		t.Fatalf("move error: %v", moveError)
	}
	if resignError := client.Resign(context.Background(), "abcdefgh"); resignError != nil {
		t.Fatalf("resign error: %v", resignError)
	}
}

func TestOpenStreamRejectedStatusIsClassified(t *testing.T) {
	_, client := newTestPair(t)

	_, openError := client.OpenStream(context.Background(), "/api/missing")
	var apiError *lichess.APIError
	if !errors.As(openError, &apiError) {
		t.Fatalf("expected an APIError, got %v", openError)
	}
	if string(apiError.Payload) != `{"error":"not found"}` {
		t.Fatalf("unexpected payload %q", apiError.Payload)
	}
}

func TestEventsStreamDecodesAndTagsMalformedLines(t *testing.T) {
	stubServer, client := newTestPair(t)
	stubServer.SetStreamFrames([]string{
		`{"type":"gameStart","game":{"gameId":"abc123","status":{"id":20,"name":"started"}}}`,
		`{broken`,
		`{"type":"challenge","challenge":{"id":"ch1","status":"created"}}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, streamError := client.Events(ctx)
	if streamError != nil {
		t.Fatalf("open stream error: %v", streamError)
	}

	var collected []ndjson.Result[model.Event]
	deadline := time.After(3 * time.Second)
	for len(collected) < 3 {
		select {
		case result := <-events:
			collected = append(collected, result)
		case <-deadline:
			t.Fatalf("received only %d of 3 results", len(collected))
		}
	}

	if collected[0].Err != nil || collected[0].Value.Type != model.EventGameStart {
		t.Fatalf("unexpected first event %+v", collected[0])
	}
	if collected[0].Value.Game == nil || collected[0].Value.Game.GameID != "abc123" {
		t.Fatalf("first event lost its game info: %+v", collected[0].Value)
	}
	var decodeError *ndjson.DecodeError
	if !errors.As(collected[1].Err, &decodeError) {
		t.Fatalf("expected a decode error for the malformed frame, got %v", collected[1].Err)
	}
	if collected[2].Err != nil || collected[2].Value.Type != model.EventChallenge {
		t.Fatalf("unexpected third event %+v", collected[2])
	}

	cancel()
	stubServer.WaitStreamClosed(t, 2*time.Second)
}

func TestStreamCancellationReleasesConnection(t *testing.T) {
	stubServer, client := newTestPair(t)
	stubServer.SetStreamFrames([]string{`{"type":"gameFinish","game":{"gameId":"x","status":{"id":30,"name":"mate"}}}`})

	ctx, cancel := context.WithCancel(context.Background())
	events, streamError := client.Events(ctx)
	if streamError != nil {
		t.Fatalf("open stream error: %v", streamError)
	}

	select {
	case first := <-events:
		if first.Err != nil {
			t.Fatalf("unexpected stream error: %v", first.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event before cancellation")
	}

	cancel()
	stubServer.WaitStreamClosed(t, 2*time.Second)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, channelOpen := <-events:
			if !channelOpen {
				return
			}
		case <-deadline:
			t.Fatalf("event channel did not close after cancellation")
		}
	}
}
