// Package tokenstore persists named credential profiles in SQLite so the
// CLI can switch accounts without re-exporting environment variables. Only
// credentials live here; no game state is ever persisted.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrNoProfile indicates that no profile matched the request.
var ErrNoProfile = errors.New("tokenstore: no such profile")

// ErrNoActiveProfile indicates that no profile is marked active.
var ErrNoActiveProfile = errors.New("tokenstore: no active profile")

// Profile is one stored credential. The token is excluded from JSON so a
// serialized profile listing can never leak it.
type Profile struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex"`
	Token     string    `json:"-"`
	BaseURL   string    `json:"base_url"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store wraps the profile database.
type Store struct {
	database *gorm.DB
}

// Open opens (or creates) the SQLite file and auto-migrates the schema.
func Open(databasePath string, logger *slog.Logger) (*Store, error) {
	logger.Debug("opening profile database", "path", databasePath)

	database, openError := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: &slogGormLogger{logger: logger},
	})
	if openError != nil {
		return nil, fmt.Errorf("open sqlite failed: %w", openError)
	}
	if migrateError := database.AutoMigrate(&Profile{}); migrateError != nil {
		return nil, fmt.Errorf("migration failed: %w", migrateError)
	}
	return &Store{database: database}, nil
}

// Save creates or updates the named profile. A freshly saved profile becomes
// active when it is the only one.
func (store *Store) Save(ctx context.Context, name, token, baseURL string) error {
	if name == "" {
		return errors.New("tokenstore: profile name is required")
	}
	if token == "" {
		return errors.New("tokenstore: token is required")
	}

	return store.database.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		var existing Profile
		lookupError := transaction.Where("name = ?", name).First(&existing).Error
		switch {
		case lookupError == nil:
			existing.Token = token
			existing.BaseURL = baseURL
			return transaction.Save(&existing).Error
		case errors.Is(lookupError, gorm.ErrRecordNotFound):
			var profileCount int64
			if countError := transaction.Model(&Profile{}).Count(&profileCount).Error; countError != nil {
				return countError
			}
			return transaction.Create(&Profile{
				Name:    name,
				Token:   token,
				BaseURL: baseURL,
				Active:  profileCount == 0,
			}).Error
		default:
			return lookupError
		}
	})
}

// Get returns the named profile.
func (store *Store) Get(ctx context.Context, name string) (Profile, error) {
	var profile Profile
	lookupError := store.database.WithContext(ctx).Where("name = ?", name).First(&profile).Error
	if errors.Is(lookupError, gorm.ErrRecordNotFound) {
		return Profile{}, fmt.Errorf("%w: %s", ErrNoProfile, name)
	}
	if lookupError != nil {
		return Profile{}, lookupError
	}
	return profile, nil
}

// List returns all profiles ordered by name.
func (store *Store) List(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if listError := store.database.WithContext(ctx).Order("name").Find(&profiles).Error; listError != nil {
		return nil, listError
	}
	return profiles, nil
}

// Delete removes the named profile.
func (store *Store) Delete(ctx context.Context, name string) error {
	result := store.database.WithContext(ctx).Where("name = ?", name).Delete(&Profile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNoProfile, name)
	}
	return nil
}

// SetActive marks the named profile active and clears the flag everywhere
// else.
func (store *Store) SetActive(ctx context.Context, name string) error {
	return store.database.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		var profile Profile
		lookupError := transaction.Where("name = ?", name).First(&profile).Error
		if errors.Is(lookupError, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrNoProfile, name)
		}
		if lookupError != nil {
			return lookupError
		}
		if clearError := transaction.Model(&Profile{}).Where("active = ?", true).Update("active", false).Error; clearError != nil {
			return clearError
		}
		return transaction.Model(&profile).Update("active", true).Error
	})
}

// Active returns the currently active profile.
func (store *Store) Active(ctx context.Context) (Profile, error) {
	var profile Profile
	lookupError := store.database.WithContext(ctx).Where("active = ?", true).First(&profile).Error
	if errors.Is(lookupError, gorm.ErrRecordNotFound) {
		return Profile{}, ErrNoActiveProfile
	}
	if lookupError != nil {
		return Profile{}, lookupError
	}
	return profile, nil
}
