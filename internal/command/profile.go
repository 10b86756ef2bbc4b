package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoStore = errors.New("profile store is not available")

func buildLoginCommand(dependencies Dependencies) *cobra.Command {
	var (
		nameInput    string
		tokenInput   string
		baseURLInput string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token as a named profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dependencies.Store == nil {
				return errNoStore
			}
			if saveError := dependencies.Store.Save(cmd.Context(), nameInput, tokenInput, baseURLInput); saveError != nil {
				return saveError
			}
			// The token itself is deliberately never echoed.
			_, writeError := fmt.Fprintf(dependencies.Output, "Profile %s saved\n", nameInput)
			return writeError
		},
	}
	cmd.Flags().StringVar(&nameInput, "name", "default", "Profile name")
	cmd.Flags().StringVar(&tokenInput, "token", "", "Bearer token")
	cmd.Flags().StringVar(&baseURLInput, "base-url", "", "Server base URL (default production)")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func buildLogoutCommand(dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "logout <profile>",
		Short: "Remove a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dependencies.Store == nil {
				return errNoStore
			}
			if deleteError := dependencies.Store.Delete(cmd.Context(), args[0]); deleteError != nil {
				return deleteError
			}
			_, writeError := fmt.Fprintf(dependencies.Output, "Profile %s removed\n", args[0])
			return writeError
		},
	}
}

func buildUseCommand(dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dependencies.Store == nil {
				return errNoStore
			}
			if activateError := dependencies.Store.SetActive(cmd.Context(), args[0]); activateError != nil {
				return activateError
			}
			_, writeError := fmt.Fprintf(dependencies.Output, "Now using profile %s\n", args[0])
			return writeError
		},
	}
}

func buildProfilesCommand(dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dependencies.Store == nil {
				return errNoStore
			}
			profiles, listError := dependencies.Store.List(cmd.Context())
			if listError != nil {
				return listError
			}
			for _, profile := range profiles {
				marker := " "
				if profile.Active {
					marker = "*"
				}
				baseURL := profile.BaseURL
				if baseURL == "" {
					baseURL = "(default)"
				}
				if _, writeError := fmt.Fprintf(dependencies.Output, "%s %s\t%s\n", marker, profile.Name, baseURL); writeError != nil {
					return writeError
				}
			}
			return nil
		},
	}
}
