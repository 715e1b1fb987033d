package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DATABASE_URL":   "postgres://localhost/horses",
		"JWT_SECRET_KEY": "s3cret",
	}))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 4, cfg.BracketRounds)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 2*time.Hour, cfg.EditorSessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"JWT_SECRET_KEY":       "s3cret",
		"BACKEND_URL":          " https://standings.example.org ",
		"BACKEND_TIMEOUT":      "3s",
		"EDITOR_SESSION_TTL":   "30m",
		"SERVER_PORT":          "9090",
		"BRACKET_ROUNDS":       "3",
		"CORS_ALLOWED_ORIGINS": "https://a.example.org, https://b.example.org,",
		"R2_ACCOUNT_ID":        "acc",
		"R2_ACCESS_KEY_ID":     "key",
		"R2_SECRET_ACCESS_KEY": "secret",
		"R2_BUCKET_NAME":       "standings",
		"R2_PUBLIC_BASE_URL":   "https://cdn.example.org",
	}))

	require.NoError(t, err)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "https://standings.example.org", cfg.BackendURL)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 30*time.Minute, cfg.EditorSessionTTL)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 3, cfg.BracketRounds)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestFromEnvErrors(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{"DATABASE_URL": "postgres://localhost/horses", "JWT_SECRET_KEY": "s3cret"}
	}
	tests := []struct {
		name   string
		modify func(map[string]string)
		want   string
	}{
		{"no storage", func(m map[string]string) { delete(m, "DATABASE_URL") }, "DATABASE_URL"},
		{"no secret", func(m map[string]string) { delete(m, "JWT_SECRET_KEY") }, "JWT_SECRET_KEY"},
		{"port not a number", func(m map[string]string) { m["SERVER_PORT"] = "http" }, "SERVER_PORT"},
		{"port out of range", func(m map[string]string) { m["SERVER_PORT"] = "70000" }, "SERVER_PORT"},
		{"too many rounds", func(m map[string]string) { m["BRACKET_ROUNDS"] = "11" }, "BRACKET_ROUNDS"},
		{"zero rounds", func(m map[string]string) { m["BRACKET_ROUNDS"] = "0" }, "BRACKET_ROUNDS"},
		{"bad timeout", func(m map[string]string) { m["BACKEND_TIMEOUT"] = "soon" }, "BACKEND_TIMEOUT"},
		{"negative timeout", func(m map[string]string) { m["BACKEND_TIMEOUT"] = "-1s" }, "BACKEND_TIMEOUT"},
		{"zero session ttl", func(m map[string]string) { m["EDITOR_SESSION_TTL"] = "0s" }, "EDITOR_SESSION_TTL"},
		{"partial R2", func(m map[string]string) { m["R2_BUCKET_NAME"] = "standings" }, "R2 configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := base()
			tt.modify(vars)
			_, err := FromEnv(env(vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
