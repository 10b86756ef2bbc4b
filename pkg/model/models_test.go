package model

import (
	"encoding/json"
	"testing"
)

func TestParseColor(t *testing.T) {
	testCases := []struct {
		input     string
		expected  Color
		expectErr bool
	}{
		{"white", ColorWhite, false},
		{"Black", ColorBlack, false},
		{" random ", ColorRandom, false},
		{"", ColorRandom, false},
		{"purple", ColorRandom, true},
	}

	for _, testCase := range testCases {
		color, parseError := ParseColor(testCase.input)
		if testCase.expectErr {
			if parseError == nil {
				t.Fatalf("expected an error for %q", testCase.input)
			}
			continue
		}
		if parseError != nil {
			t.Fatalf("parse %q error: %v", testCase.input, parseError)
		}
		if color != testCase.expected {
			t.Fatalf("parse %q: got %q, want %q", testCase.input, color, testCase.expected)
		}
	}
}

func TestEventDecodesGameStart(t *testing.T) {
	payload := `{"type":"gameStart","game":{"gameId":"abc123","color":"white","status":{"id":20,"name":"started"}}}`

	var event Event
	if unmarshalError := json.Unmarshal([]byte(payload), &event); unmarshalError != nil {
		t.Fatalf("unmarshal error: %v", unmarshalError)
	}
	if event.Type != EventGameStart {
		t.Fatalf("unexpected type %q", event.Type)
	}
	if event.Game == nil || event.Game.GameID != "abc123" {
		t.Fatalf("game info missing: %+v", event)
	}
	if event.Challenge != nil {
		t.Fatalf("challenge should be empty for a gameStart event")
	}
	if event.Game.Color != ColorWhite {
		t.Fatalf("unexpected color %q", event.Game.Color)
	}
}

func TestBoardEventDecodesGameFullWithState(t *testing.T) {
	payload := `{"type":"gameFull","id":"abc123","white":{"id":"kyllingene","name":"Kyllingene","rating":1500},` +
		`"state":{"type":"gameState","moves":"e2e4 e7e5","wtime":300000,"btime":300000,"winc":0,"binc":0,"status":"started"}}`

	var boardEvent BoardEvent
	if unmarshalError := json.Unmarshal([]byte(payload), &boardEvent); unmarshalError != nil {
		t.Fatalf("unmarshal error: %v", unmarshalError)
	}
	if boardEvent.Type != BoardEventFull {
		t.Fatalf("unexpected type %q", boardEvent.Type)
	}
	if boardEvent.State == nil || boardEvent.State.Moves != "e2e4 e7e5" {
		t.Fatalf("state missing: %+v", boardEvent)
	}
	if boardEvent.White == nil || boardEvent.White.Rating != 1500 {
		t.Fatalf("white player missing: %+v", boardEvent)
	}
	if boardEvent.State.WhiteTimeMS != 300000 {
		t.Fatalf("unexpected clock %d", boardEvent.State.WhiteTimeMS)
	}
}
