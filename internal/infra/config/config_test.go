package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "`+testSecret+`"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "data/tunecrate.db", cfg.Database.Path)
	assert.Equal(t, "db", cfg.Assets.Provider)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
database:
  path: "/var/lib/tunecrate/app.db"
auth:
  jwt_secret: "`+testSecret+`"
  token_ttl_min: 60
assets:
  provider: fs
  settings:
    root: /srv/assets
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/tunecrate/app.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.Equal(t, "fs", cfg.Assets.Provider)
	assert.Equal(t, "/srv/assets", cfg.Assets.Settings["root"])
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing jwt secret",
			content: `server: {addr: ":8080"}`,
			errMsg:  "JWTSecret",
		},
		{
			name: "jwt secret too short",
			content: `
auth:
  jwt_secret: "short"
`,
			errMsg: "JWTSecret",
		},
		{
			name: "unknown asset provider",
			content: `
auth:
  jwt_secret: "` + testSecret + `"
assets:
  provider: s3
`,
			errMsg: "Provider",
		},
		{
			name: "zero token ttl",
			content: `
auth:
  jwt_secret: "` + testSecret + `"
  token_ttl_min: -10
`,
			errMsg: "TokenTTLMin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "`+testSecret+`"
`)

	t.Setenv("JWT_SECRET", "ffffffffffffffffffffffffffffffff")
	t.Setenv("DATABASE_PATH", "/tmp/override.db")
	t.Setenv("SERVER_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ffffffffffffffffffffffffffffffff", cfg.Auth.JWTSecret)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
