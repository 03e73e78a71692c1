package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrSettingNotFound is returned when no provider in the chain holds a value
// for the requested key.
var ErrSettingNotFound = errors.New("config: setting not found")

// SettingsProvider resolves runtime settings by dotted key, e.g.
// "generation.model". Values are resolved per call so an admin change takes
// effect without a restart.
type SettingsProvider interface {
	Get(ctx context.Context, key string) (string, error)
}

// Setting is one admin-editable settings row
type Setting struct {
	Key       string `gorm:"type:varchar(100);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "app_settings"
}

// StoreSettings reads settings from the app_settings table
type StoreSettings struct {
	db *gorm.DB
}

// NewStoreSettings creates a store-backed settings provider
func NewStoreSettings(db *gorm.DB) *StoreSettings {
	return &StoreSettings{db: db}
}

// Get returns the stored value for key, or ErrSettingNotFound
func (s *StoreSettings) Get(ctx context.Context, key string) (string, error) {
	var setting Setting
	if err := s.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("config: reading setting %q: %w", key, err)
	}
	return setting.Value, nil
}

// EnvSettings reads settings from environment variables. The dotted key is
// uppercased and joined with the prefix: "generation.model" becomes
// LISTFORGE_GENERATION_MODEL.
type EnvSettings struct {
	prefix string
}

// NewEnvSettings creates an environment-backed settings provider
func NewEnvSettings(prefix string) *EnvSettings {
	return &EnvSettings{prefix: prefix}
}

// Get returns the environment value for key, or ErrSettingNotFound
func (e *EnvSettings) Get(_ context.Context, key string) (string, error) {
	name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if e.prefix != "" {
		name = e.prefix + "_" + name
	}
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return "", ErrSettingNotFound
	}
	return value, nil
}

// FallbackSettings queries providers in order and returns the first hit.
// Only ErrSettingNotFound advances the chain; any other error is returned
// as-is so a broken store is never silently shadowed by an env default.
type FallbackSettings struct {
	providers []SettingsProvider
}

// NewFallbackSettings composes providers, highest priority first
func NewFallbackSettings(providers ...SettingsProvider) *FallbackSettings {
	return &FallbackSettings{providers: providers}
}

// Get resolves key through the provider chain
func (f *FallbackSettings) Get(ctx context.Context, key string) (string, error) {
	for _, p := range f.providers {
		value, err := p.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrSettingNotFound) {
			return "", err
		}
	}
	return "", ErrSettingNotFound
}
