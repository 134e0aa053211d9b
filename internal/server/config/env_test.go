package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseEnv(cfg, mapLookup(map[string]string{
		"PORT":                 "8080",
		"DB_HOST":              "pg",
		"DB_PORT":              "5433",
		"DB_PASSWORD":          "pw",
		"JWT_SECRET":           "secret",
		"TOKEN_TTL":            "15m",
		"CORS_ALLOWED_ORIGINS": "http://a.example, https://b.example,",
		"PASSWORD_HASHER":      "argon2id",
		"DB_CONNECT_RETRIES":   "0",
		"GIN_MODE":             "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "pg", cfg.DBHost)
	assert.Equal(t, 5433, cfg.DBPort)
	assert.Equal(t, "pw", cfg.DBPassword)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "argon2id", cfg.PasswordHasher)
	assert.Equal(t, uint64(0), cfg.DBConnectRetries)
	assert.Equal(t, "debug", cfg.GinMode)
}

func TestParseEnv_ListenAddrBeatsPort(t *testing.T) {
	cfg := &Config{}
	err := parseEnv(cfg, mapLookup(map[string]string{"PORT": "8080", "LISTEN_ADDR": "127.0.0.1:9"}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9", cfg.ListenAddr)
}

func TestParseEnv_Malformed(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseEnv(cfg, mapLookup(map[string]string{"PORT": "http", "TOKEN_TTL": "soon", "DB_PORT": "x"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "TOKEN_TTL")
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Equal(t, ":3000", cfg.ListenAddr, "bad values leave settings untouched")
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ATTENDANCE_TEST_DOTENV=from-file\n"), 0o600))

	t.Setenv("ATTENDANCE_TEST_DOTENV", "")
	os.Unsetenv("ATTENDANCE_TEST_DOTENV")
	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("ATTENDANCE_TEST_DOTENV"))

	t.Setenv("ATTENDANCE_TEST_DOTENV", "from-env")
	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("ATTENDANCE_TEST_DOTENV"), "existing variables win")
}
