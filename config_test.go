package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := auth.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	assert.Equal(t, time.Second, cfg.GuardTimeout)
	assert.Equal(t, auth.StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "comarker-session.db", cfg.Store.SQLitePath)
	assert.Equal(t, "http://localhost:4200/auth/callback", cfg.Google.RedirectURL)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/v1/")
	t.Setenv("GUARD_TIMEOUT", "250ms")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("STORE_REDIS_ADDR", "cache:6379")
	t.Setenv("GOOGLE_CLIENT_ID", "client-123")

	cfg, err := auth.LoadConfig()
	require.NoError(t, err)

	// trailing slash stripped so path joins stay predictable
	assert.Equal(t, "https://api.example.com/v1", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.GuardTimeout)
	assert.Equal(t, auth.StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, "client-123", cfg.Google.ClientID)
}

func TestLoadConfig_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cassandra")

	_, err := auth.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid StoreBackend")
}

func TestConfig_SanitizeGuardrails(t *testing.T) {
	cfg := auth.Config{GuardTimeout: -time.Second}
	cfg.Sanitize()

	assert.Equal(t, auth.DefaultGuardTimeout, cfg.GuardTimeout)
	assert.Equal(t, auth.StoreBackendSQLite, cfg.Store.Backend)
}
