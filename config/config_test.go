package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GO_ENV", "PORT", "STORAGE_BACKEND", "DATABASE_URL", "MONGODB_URI", "MONGODB_DATABASE",
		"JWT_SECRET", "JWT_EXPIRY", "SESSION_CHECK_PERIOD", "GEMINI_API_KEY", "GEMINI_MODEL",
		"EMAIL_PROVIDER", "EMAIL_FROM_ADDRESS", "EMAIL_FROM_NAME", "AWS_REGION", "AWS_ACCESS_KEY_ID",
		"AWS_SECRET_ACCESS_KEY", "SES_INSECURE_SKIP_VERIFY", "CORS_ALLOWED_ORIGINS", "SEED_DATA",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 24*time.Hour, cfg.SessionCheckPeriod)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, "http://localhost:5173", cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SeedData)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Mongo")
	t.Setenv("MONGODB_DATABASE", "hub")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("SESSION_CHECK_PERIOD", "1h")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("SES_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendMongo, cfg.StorageBackend)
	assert.Equal(t, "hub", cfg.MongoDatabase)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, time.Hour, cfg.SessionCheckPeriod)
	assert.False(t, cfg.SeedData)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.True(t, cfg.Email.SESInsecureSkipVerify)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "STORAGE_BACKEND", "sqlite"},
		{"bad expiry", "JWT_EXPIRY", "soon"},
		{"negative period", "SESSION_CHECK_PERIOD", "-1h"},
		{"bad bool", "SEED_DATA", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("GO_ENV", "production")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
