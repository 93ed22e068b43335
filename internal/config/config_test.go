package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UIS_SUBSCRIPTION_KEY", "12345")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.uis.unesco.org/sdmx/", cfg.BaseURL)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 1800, cfg.MaxObservations)
	assert.True(t, cfg.MergeResources)
	assert.Equal(t, time.Minute, cfg.RetryInterval)
	assert.Equal(t, time.Duration(0), cfg.RetryMaxElapsed)
	assert.Equal(t, EndpointRegistry, cfg.Endpoints)
}

func TestLoad_MissingKey(t *testing.T) {
	t.Setenv("UIS_SUBSCRIPTION_KEY", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BaseURLGetsTrailingSlash(t *testing.T) {
	t.Setenv("UIS_SUBSCRIPTION_KEY", "12345")
	t.Setenv("UIS_BASE_URL", "http://xxx")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://xxx/", cfg.BaseURL)
}

func TestLoad_EndpointOverrides(t *testing.T) {
	t.Setenv("UIS_SUBSCRIPTION_KEY", "12345")
	t.Setenv("UIS_ENDPOINTS", "EDU_FINANCE=http://uis.unesco.org/en/topic/education-finance, DEM_ECO=")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"EDU_FINANCE": "http://uis.unesco.org/en/topic/education-finance",
		"DEM_ECO":     " ",
	}, cfg.Endpoints)
}

func TestLoad_MalformedEndpoints(t *testing.T) {
	t.Setenv("UIS_SUBSCRIPTION_KEY", "12345")
	t.Setenv("UIS_ENDPOINTS", "EDU_FINANCE")

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_INT", "7")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_DUR", "90s")

	assert.Equal(t, "value", envOr("X_STR", "fallback"))
	assert.Equal(t, "fallback", envOr("X_UNSET", "fallback"))
	assert.Equal(t, 7, envInt("X_INT", 1))
	assert.Equal(t, 1, envInt("X_UNSET", 1))
	assert.True(t, envBool("X_BOOL", false))
	assert.Equal(t, 90*time.Second, envDuration("X_DUR", time.Minute))
	assert.Equal(t, time.Minute, envDuration("X_UNSET", time.Minute))
}
