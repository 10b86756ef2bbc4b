package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kyllingene/liclient/pkg/ndjson"
)

func buildStreamCommand(dependencies Dependencies) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Follow the account event stream",
		Long:  "Follow the account event stream, printing one JSON record per line until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, clientError := dependencies.requireClient()
			if clientError != nil {
				return clientError
			}
			events, openError := client.Events(cmd.Context())
			if openError != nil {
				return openError
			}
			return drainStream(cmd.Context(), dependencies, strict, events)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on malformed stream records instead of skipping them")
	return cmd
}

func buildWatchCommand(dependencies Dependencies) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "watch <game-id>",
		Short: "Follow the state stream of one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, clientError := dependencies.requireClient()
			if clientError != nil {
				return clientError
			}
			boardEvents, openError := client.Board(cmd.Context(), args[0])
			if openError != nil {
				return openError
			}
			return drainStream(cmd.Context(), dependencies, strict, boardEvents)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on malformed stream records instead of skipping them")
	return cmd
}

// drainStream prints each decoded record as one JSON line. Malformed records
// are logged and skipped unless strict is set; a terminal stream fault is
// always an error unless the user interrupted the command.
func drainStream[T any](ctx context.Context, dependencies Dependencies, strict bool, results <-chan ndjson.Result[T]) error {
	for result := range results {
		if result.Err != nil {
			var decodeError *ndjson.DecodeError
			if errors.As(result.Err, &decodeError) {
				if strict {
					return result.Err
				}
				dependencies.Logger.Warn("skipping malformed stream record", "error", decodeError.Err)
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return result.Err
		}
		encoded, marshalError := json.Marshal(result.Value)
		if marshalError != nil {
			return marshalError
		}
		if _, writeError := fmt.Fprintln(dependencies.Output, string(encoded)); writeError != nil {
			return writeError
		}
	}
	return nil
}
