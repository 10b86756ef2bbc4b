package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kyllingene/liclient/pkg/model"
)

// clockFlags are shared by the challenge-ai and seek commands.
type clockFlags struct {
	limitSeconds     int
	incrementSeconds int
	days             int
}

func (flags *clockFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flags.limitSeconds, "clock-limit", 300, "Initial clock in seconds")
	cmd.Flags().IntVar(&flags.incrementSeconds, "clock-increment", 0, "Clock increment in seconds")
	cmd.Flags().IntVar(&flags.days, "days", 0, "Days per move for a correspondence game (overrides the clock)")
}

func (flags *clockFlags) settings() model.ClockSettings {
	if flags.days > 0 {
		return model.ClockSettings{Days: flags.days, Correspondence: true}
	}
	return model.ClockSettings{Limit: flags.limitSeconds, Increment: flags.incrementSeconds}
}

func buildChallengeAICommand(dependencies Dependencies) *cobra.Command {
	var (
		level      int
		colorInput string
		fenInput   string
		clock      clockFlags
	)

	cmd := &cobra.Command{
		Use:   "challenge-ai",
		Short: "Start a game against the server AI",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, clientError := dependencies.requireClient()
			if clientError != nil {
				return clientError
			}
			color, colorError := model.ParseColor(colorInput)
			if colorError != nil {
				return colorError
			}
			ctx, cancel := dependencies.operationContext(cmd.Context())
			defer cancel()

			gameID, challengeError := client.ChallengeAI(ctx, level, color, clock.settings(), fenInput)
			if challengeError != nil {
				return challengeError
			}
			_, writeError := fmt.Fprintln(dependencies.Output, gameID)
			return writeError
		},
	}
	cmd.Flags().IntVar(&level, "level", 1, "AI strength, 1 through 8")
	cmd.Flags().StringVar(&colorInput, "color", "random", "Side to play (white, black, random)")
	cmd.Flags().StringVar(&fenInput, "fen", "", "Starting position in FEN (default standard)")
	clock.register(cmd)
	return cmd
}

func buildSeekCommand(dependencies Dependencies) *cobra.Command {
	var (
		rated      bool
		colorInput string
		fenInput   string
		clock      clockFlags
	)

	cmd := &cobra.Command{
		Use:   "seek",
		Short: "Look for an opponent in the public pool",
		Long:  "Look for an opponent in the public pool. The command blocks until the seek resolves; interrupt it to withdraw the seek.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, clientError := dependencies.requireClient()
			if clientError != nil {
				return clientError
			}
			color, colorError := model.ParseColor(colorInput)
			if colorError != nil {
				return colorError
			}
			// No operation timeout: the server holds the request open while
			// the seek is pending.
			return client.Seek(cmd.Context(), rated, color, clock.settings(), fenInput)
		},
	}
	cmd.Flags().BoolVar(&rated, "rated", false, "Seek a rated game")
	cmd.Flags().StringVar(&colorInput, "color", "random", "Side to play (white, black, random)")
	cmd.Flags().StringVar(&fenInput, "fen", "", "Starting position in FEN (default standard)")
	clock.register(cmd)
	return cmd
}

func buildMoveCommand(dependencies Dependencies) *cobra.Command {
	var offeringDraw bool

	cmd := &cobra.Command{
		Use:   "move <game-id> <uci-move>",
		Short: "Play a move in a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, clientError := dependencies.requireClient()
			if clientError != nil {
				return clientError
			}
			ctx, cancel := dependencies.operationContext(cmd.Context())
			defer cancel()

			return client.Move(ctx, args[0], args[1], offeringDraw)
		},
	}
	cmd.Flags().BoolVar(&offeringDraw, "draw", false, "Offer a draw with this move")
	return cmd
}

func buildResignCommand(dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "resign <game-id>",
		Short: "Resign a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, clientError := dependencies.requireClient()
			if clientError != nil {
				return clientError
			}
			ctx, cancel := dependencies.operationContext(cmd.Context())
			defer cancel()

			return client.Resign(ctx, args[0])
		},
	}
}
