// Package command builds the liclient CLI on top of the lichess client and
// the profile store. Commands receive their collaborators through
// Dependencies so tests can substitute stubs.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kyllingene/liclient/internal/tokenstore"
	"github.com/Kyllingene/liclient/pkg/model"
	"github.com/Kyllingene/liclient/pkg/ndjson"
)

// GameClient is the slice of the lichess client the commands use.
type GameClient interface {
	Account(ctx context.Context) (model.Account, error)
	Email(ctx context.Context) (string, error)
	ChallengeAI(ctx context.Context, level int, color model.Color, clock model.ClockSettings, fen string) (string, error)
	Seek(ctx context.Context, rated bool, color model.Color, clock model.ClockSettings, fen string) error
	Move(ctx context.Context, gameID, move string, offeringDraw bool) error
	Resign(ctx context.Context, gameID string) error
	Events(ctx context.Context, options ...ndjson.Option) (<-chan ndjson.Result[model.Event], error)
	Board(ctx context.Context, gameID string, options ...ndjson.Option) (<-chan ndjson.Result[model.BoardEvent], error)
}

// ProfileStore is the slice of the token store the commands use.
type ProfileStore interface {
	Save(ctx context.Context, name, token, baseURL string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]tokenstore.Profile, error)
	SetActive(ctx context.Context, name string) error
}

// Dependencies wires the command tree. Client may be nil when no credential
// is configured; commands that need it fail with a hint to run login.
type Dependencies struct {
	Client           GameClient
	Store            ProfileStore
	Output           io.Writer
	OperationTimeout time.Duration
	Logger           *slog.Logger
}

var errNoCredential = errors.New("no credential configured; set LICLIENT_TOKEN or run liclient login")

// NewRootCommand assembles the liclient command tree.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Output == nil {
		dependencies.Output = io.Discard
	}
	if dependencies.Logger == nil {
		dependencies.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	root := &cobra.Command{
		Use:           "liclient",
		Short:         "Command-line client for the lichess.org API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(buildAccountCommand(dependencies))
	root.AddCommand(buildEmailCommand(dependencies))
	root.AddCommand(buildChallengeAICommand(dependencies))
	root.AddCommand(buildSeekCommand(dependencies))
	root.AddCommand(buildMoveCommand(dependencies))
	root.AddCommand(buildResignCommand(dependencies))
	root.AddCommand(buildStreamCommand(dependencies))
	root.AddCommand(buildWatchCommand(dependencies))
	root.AddCommand(buildLoginCommand(dependencies))
	root.AddCommand(buildLogoutCommand(dependencies))
	root.AddCommand(buildUseCommand(dependencies))
	root.AddCommand(buildProfilesCommand(dependencies))
	return root
}

func (dependencies Dependencies) requireClient() (GameClient, error) {
	if dependencies.Client == nil {
		return nil, errNoCredential
	}
	return dependencies.Client, nil
}

// operationContext bounds a unary command. Streams use the command context
// directly since they are expected to run until interrupted.
func (dependencies Dependencies) operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := dependencies.OperationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(parent, timeout)
}

func buildAccountCommand(dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, clientError := dependencies.requireClient()
			if clientError != nil {
				return clientError
			}
			ctx, cancel := dependencies.operationContext(cmd.Context())
			defer cancel()

			account, accountError := client.Account(ctx)
			if accountError != nil {
				return accountError
			}
			return printJSON(dependencies.Output, account)
		},
	}
}

func buildEmailCommand(dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "email",
		Short: "Show the account email address",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, clientError := dependencies.requireClient()
			if clientError != nil {
				return clientError
			}
			ctx, cancel := dependencies.operationContext(cmd.Context())
			defer cancel()

			email, emailError := client.Email(ctx)
			if emailError != nil {
				return emailError
			}
			_, writeError := fmt.Fprintln(dependencies.Output, email)
			return writeError
		},
	}
}

func printJSON(output io.Writer, value any) error {
	encoded, marshalError := json.MarshalIndent(value, "", "  ")
	if marshalError != nil {
		return marshalError
	}
	_, writeError := fmt.Fprintln(output, string(encoded))
	return writeError
}
