package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	values map[string]string
	err    error
}

func (f *fakeSettings) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	value, ok := f.values[key]
	if !ok {
		return "", ErrSettingNotFound
	}
	return value, nil
}

func TestEnvSettings_Get(t *testing.T) {
	t.Setenv("LISTFORGE_GENERATION_MODEL", "gpt-4o")

	provider := NewEnvSettings("LISTFORGE")

	value, err := provider.Get(context.Background(), "generation.model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", value)

	_, err = provider.Get(context.Background(), "generation.temperature")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestEnvSettings_EmptyValueIsNotFound(t *testing.T) {
	t.Setenv("LISTFORGE_INGEST_KEY", "")

	provider := NewEnvSettings("LISTFORGE")

	_, err := provider.Get(context.Background(), "ingest.key")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestFallbackSettings_FirstHitWins(t *testing.T) {
	store := &fakeSettings{values: map[string]string{"generation.model": "store-model"}}
	env := &fakeSettings{values: map[string]string{
		"generation.model":       "env-model",
		"generation.temperature": "0.4",
	}}

	chain := NewFallbackSettings(store, env)

	value, err := chain.Get(context.Background(), "generation.model")
	require.NoError(t, err)
	assert.Equal(t, "store-model", value)

	value, err = chain.Get(context.Background(), "generation.temperature")
	require.NoError(t, err)
	assert.Equal(t, "0.4", value)
}

func TestFallbackSettings_MissEverywhere(t *testing.T) {
	chain := NewFallbackSettings(&fakeSettings{}, &fakeSettings{})

	_, err := chain.Get(context.Background(), "generation.model")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestFallbackSettings_StoreErrorStopsChain(t *testing.T) {
	broken := &fakeSettings{err: errors.New("connection refused")}
	env := &fakeSettings{values: map[string]string{"generation.model": "env-model"}}

	chain := NewFallbackSettings(broken, env)

	_, err := chain.Get(context.Background(), "generation.model")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSettingNotFound)
}
