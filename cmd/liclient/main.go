package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/viper"

	"github.com/Kyllingene/liclient/internal/command"
	"github.com/Kyllingene/liclient/internal/config"
	"github.com/Kyllingene/liclient/internal/tokenstore"
	"github.com/Kyllingene/liclient/pkg/lichess"
	"github.com/Kyllingene/liclient/pkg/logging"
)

func main() {
	settings, loadError := config.Load(viper.New())
	if loadError != nil {
		fmt.Fprintln(os.Stderr, loadError)
		os.Exit(1)
	}

	logger := logging.NewLogger(settings.LogLevel())

	store, storeError := openStore(settings)
	if storeError != nil {
		// The store is only needed for profile management; commands that use
		// the environment token still work without it.
		logger.Warn("profile store unavailable", "error", storeError)
	}

	token, baseURL := resolveCredential(settings, store)

	var client command.GameClient
	if token != "" {
		lichessClient, clientError := lichess.NewClient(lichess.Settings{
			Token:          token,
			BaseURL:        baseURL,
			ConnectTimeout: settings.ConnectTimeout(),
			RequestTimeout: settings.RequestTimeout(),
			Logger:         logger,
		})
		if clientError != nil {
			fmt.Fprintln(os.Stderr, clientError)
			os.Exit(1)
		}
		client = lichessClient
	}

	dependencies := command.Dependencies{
		Client:           client,
		Output:           os.Stdout,
		OperationTimeout: settings.RequestTimeout(),
		Logger:           logger,
	}
	if store != nil {
		dependencies.Store = store
	}

	root := command.NewRootCommand(dependencies)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if executeError := root.ExecuteContext(ctx); executeError != nil {
		fmt.Fprintln(os.Stderr, executeError)
		os.Exit(1)
	}
}

func openStore(settings config.Settings) (*tokenstore.Store, error) {
	databasePath := settings.DatabasePath()
	if directoryError := os.MkdirAll(filepath.Dir(databasePath), 0o700); directoryError != nil {
		return nil, directoryError
	}
	return tokenstore.Open(databasePath, logging.NewLogger(settings.LogLevel()))
}

// resolveCredential prefers the environment token and falls back to the
// active stored profile.
func resolveCredential(settings config.Settings, store *tokenstore.Store) (string, string) {
	if settings.Token() != "" {
		return settings.Token(), settings.BaseURL()
	}
	if store == nil {
		return "", settings.BaseURL()
	}
	profile, activeError := store.Active(context.Background())
	if activeError != nil {
		if !errors.Is(activeError, tokenstore.ErrNoActiveProfile) {
			fmt.Fprintln(os.Stderr, activeError)
		}
		return "", settings.BaseURL()
	}
	baseURL := profile.BaseURL
	if baseURL == "" {
		baseURL = settings.BaseURL()
	}
	return profile.Token, baseURL
}
