// Package model holds the wire shapes exchanged with the chess server. The
// transport layer passes these through opaquely; nothing here is persisted.
package model

import (
	"fmt"
	"strings"
)

// Color is the side a player requests when creating a game.
type Color string

const (
	ColorWhite  Color = "white"
	ColorBlack  Color = "black"
	ColorRandom Color = "random"
)

// ParseColor maps user input onto a Color.
func ParseColor(input string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "white":
		return ColorWhite, nil
	case "black":
		return ColorBlack, nil
	case "random", "":
		return ColorRandom, nil
	default:
		return ColorRandom, fmt.Errorf("invalid color %q", input)
	}
}

// ClockSettings describes the time control for a new game. Real-time games
// use Limit/Increment seconds; correspondence games use Days instead.
type ClockSettings struct {
	Limit          int
	Increment      int
	Days           int
	Correspondence bool
}

// Account is the authenticated user's profile as returned by the server.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Title    string `json:"title,omitempty"`
	Online   bool   `json:"online"`
	Patron   bool   `json:"patron"`
	URL      string `json:"url,omitempty"`
}

// Event stream record types delivered on the account event stream.
const (
	EventGameStart         = "gameStart"
	EventGameFinish        = "gameFinish"
	EventChallenge         = "challenge"
	EventChallengeCanceled = "challengeCanceled"
	EventChallengeDeclined = "challengeDeclined"
)

// Event is one record of the account event stream. Exactly one of Game and
// Challenge is populated, matching Type.
type Event struct {
	Type      string         `json:"type"`
	Game      *GameEventInfo `json:"game,omitempty"`
	Challenge *Challenge     `json:"challenge,omitempty"`
}

// GameEventInfo identifies the game a gameStart/gameFinish event refers to.
type GameEventInfo struct {
	GameID   string `json:"gameId"`
	FullID   string `json:"fullId,omitempty"`
	Color    Color  `json:"color,omitempty"`
	FEN      string `json:"fen,omitempty"`
	LastMove string `json:"lastMove,omitempty"`
	Status   Status `json:"status"`
}

// Status is the server's game status descriptor.
type Status struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Challenge describes an incoming or outgoing challenge.
type Challenge struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	Rated      bool    `json:"rated"`
	Speed      string  `json:"speed,omitempty"`
	Color      string  `json:"color,omitempty"`
	Challenger *Player `json:"challenger,omitempty"`
	DestUser   *Player `json:"destUser,omitempty"`
}

// Player is the compact user reference embedded in challenges and games.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Title  string `json:"title,omitempty"`
	Rating int    `json:"rating,omitempty"`
}

// Board stream record types delivered on a single game's stream.
const (
	BoardEventFull     = "gameFull"
	BoardEventState    = "gameState"
	BoardEventChatLine = "chatLine"
)

// BoardEvent is one record of a game's board stream. The first record is a
// gameFull snapshot; subsequent records are gameState deltas or chat lines.
type BoardEvent struct {
	Type        string     `json:"type"`
	ID          string     `json:"id,omitempty"`
	InitialFEN  string     `json:"initialFen,omitempty"`
	White       *Player    `json:"white,omitempty"`
	Black       *Player    `json:"black,omitempty"`
	State       *GameState `json:"state,omitempty"`
	Username    string     `json:"username,omitempty"`
	Room        string     `json:"room,omitempty"`
	Text        string     `json:"text,omitempty"`
	Moves       string     `json:"moves,omitempty"`
	GameStatus  string     `json:"status,omitempty"`
	Winner      string     `json:"winner,omitempty"`
	WhiteTimeMS int64      `json:"wtime,omitempty"`
	BlackTimeMS int64      `json:"btime,omitempty"`
	WhiteIncMS  int64      `json:"winc,omitempty"`
	BlackIncMS  int64      `json:"binc,omitempty"`
}

// GameState is the mutable portion of a game carried inside gameFull records.
type GameState struct {
	Moves       string `json:"moves"`
	Status      string `json:"status"`
	Winner      string `json:"winner,omitempty"`
	WhiteTimeMS int64  `json:"wtime"`
	BlackTimeMS int64  `json:"btime"`
	WhiteIncMS  int64  `json:"winc"`
	BlackIncMS  int64  `json:"binc"`
}
