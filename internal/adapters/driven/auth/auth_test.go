package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/envio-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/envio-cli/internal/core/domain"
	"github.com/custodia-labs/envio-cli/internal/core/ports/driven"
)

func fakeEnv(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestEnvTokenProvider(t *testing.T) {
	t.Run("returns token from variable", func(t *testing.T) {
		p := NewEnvTokenProvider("")
		p.lookup = fakeEnv(map[string]string{EnvTokenVar: "  env-token \n"})

		token, err := p.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
		assert.True(t, p.IsAuthenticated())
		assert.Equal(t, "env", p.Source())
	})

	t.Run("unset variable requires auth", func(t *testing.T) {
		p := NewEnvTokenProvider("OTHER_TOKEN")
		p.lookup = fakeEnv(nil)

		_, err := p.GetToken(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
		assert.False(t, p.IsAuthenticated())
	})

	t.Run("reads real environment", func(t *testing.T) {
		t.Setenv("ENVIO_TEST_TOKEN", "from-os")
		p := NewEnvTokenProvider("ENVIO_TEST_TOKEN")

		token, err := p.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "from-os", token)
	})
}

func TestConfigTokenProvider(t *testing.T) {
	store := memory.NewConfigStore()
	p := NewConfigTokenProvider(store)

	_, err := p.GetToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.False(t, p.IsAuthenticated())

	require.NoError(t, store.Set(driven.KeyAPIToken, "stored-token"))

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored-token", token)
	assert.Equal(t, "config", p.Source())

	assert.False(t, NewConfigTokenProvider(nil).IsAuthenticated())
}

func TestChainTokenProvider(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set(driven.KeyAPIToken, "stored-token"))

	env := NewEnvTokenProvider(EnvTokenVar)
	env.lookup = fakeEnv(nil)
	chain := NewChainTokenProvider(env, NewConfigTokenProvider(store))

	token, err := chain.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored-token", token)
	assert.Equal(t, "config", chain.Source())

	env.lookup = fakeEnv(map[string]string{EnvTokenVar: "env-token"})
	token, err = chain.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-token", token, "environment wins over config")
	assert.Equal(t, "env", chain.Source())
}

func TestChainTokenProvider_Empty(t *testing.T) {
	chain := NewChainTokenProvider()

	_, err := chain.GetToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.False(t, chain.IsAuthenticated())
	assert.Equal(t, "none", chain.Source())
}

func TestNewDefaultTokenProvider(t *testing.T) {
	t.Setenv(EnvTokenVar, "")
	store := memory.NewConfigStore()
	require.NoError(t, store.Set(driven.KeyAPIToken, "stored-token"))

	p := NewDefaultTokenProvider(store)
	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored-token", token)
}
