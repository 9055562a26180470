package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigin)
	assert.Equal(t, "sportsteam", cfg.Database.Name)
	assert.Equal(t, 5, cfg.Database.ConnectAttempts)
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=sportsteam sslmode=disable",
		cfg.Database.DSN(),
	)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ADMIN_EMAIL", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigin)
	assert.Equal(t, "root@example.com", cfg.Admin.Email)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_NAME=fromfile\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DB_NAME") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Database.Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown store driver",
			mutate:  func(c *Config) { c.StoreDriver = "mongo" },
			wantErr: "STORE_DRIVER",
		},
		{
			name:    "admin without password",
			mutate:  func(c *Config) { c.Admin.Email = "a@b.co" },
			wantErr: "ADMIN_PASSWORD",
		},
		{
			name:    "zero session ttl",
			mutate:  func(c *Config) { c.SessionTTL = 0 },
			wantErr: "SESSION_TTL",
		},
		{
			name:    "no connect attempts",
			mutate:  func(c *Config) { c.Database.ConnectAttempts = 0 },
			wantErr: "DB_CONNECT_ATTEMPTS",
		},
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				StoreDriver:   StorePostgres,
				SessionTTL:    time.Hour,
				SweepInterval: time.Minute,
				Database:      DatabaseConfig{ConnectAttempts: 1},
			}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
