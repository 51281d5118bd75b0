package auth_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/couchtube/go-auth"
)

func TestSecretResolverExplicitSecret(t *testing.T) {
	resolver := auth.NewSecretResolver(testConfig{signingSecret: "  my-secret  ", production: true})

	secret, err := resolver.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "my-secret", secret, "explicit secret should be trimmed and returned as-is")
}

func TestSecretResolverDevPlaceholder(t *testing.T) {
	resolver := auth.NewSecretResolver(testConfig{production: false})

	secret, err := resolver.Resolve()
	require.NoError(t, err)
	assert.Equal(t, auth.DevSigningSecret, secret)
}

func TestSecretResolverWhitespaceOnlySecretIsUnset(t *testing.T) {
	resolver := auth.NewSecretResolver(testConfig{signingSecret: "   "})

	secret, err := resolver.Resolve()
	require.NoError(t, err)
	assert.Equal(t, auth.DevSigningSecret, secret)
}

func TestSecretResolverDerivedFallback(t *testing.T) {
	cfg := testConfig{
		production:   true,
		deploymentID: "dpl_123",
		commitHash:   "abc123",
	}

	logger := newCaptureLogger()
	resolver := auth.NewSecretResolver(cfg).WithLogger(logger)

	secret, err := resolver.Resolve()
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.NotEqual(t, auth.DevSigningSecret, secret)
	assert.Equal(t, 1, logger.count("warn"), "derived fallback should warn")

	// deterministic: a second resolver over the same config derives the
	// same secret
	again, err := auth.NewSecretResolver(cfg).Resolve()
	require.NoError(t, err)
	assert.Equal(t, secret, again)

	// and different identity derives a different secret
	other, err := auth.NewSecretResolver(testConfig{production: true, deploymentID: "dpl_456"}).Resolve()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestSecretResolverProductionWithoutEntropyFails(t *testing.T) {
	resolver := auth.NewSecretResolver(testConfig{production: true})

	_, err := resolver.Resolve()
	require.ErrorIs(t, err, auth.ErrNoSigningSecret)
	assert.True(t, auth.IsConfigurationError(err))
}

func TestSecretResolverConcurrentFirstAccess(t *testing.T) {
	resolver := auth.NewSecretResolver(testConfig{production: true, deploymentID: "dpl_123"})

	const workers = 16
	results := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			secret, err := resolver.Resolve()
			assert.NoError(t, err)
			results[i] = secret
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Equal(t, results[0], results[i], "every caller must observe the same secret")
	}
}
