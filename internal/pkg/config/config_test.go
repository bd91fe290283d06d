package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  user: vms
  password: secret
  host: localhost
  port: "5432"
  name: vms
  disable_tls: true
redis:
  url: redis://localhost:6379/0
jwt:
  key: signing-key
  access_ttl: 30m
  refresh_ttl: 168h
storage:
  driver: Local
  base_url: http://localhost:8080
geofence:
  threshold_meters: 250
allowed_origins:
  - http://localhost:3000
`)

	c, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "vms", c.Database.User)
	assert.True(t, c.Database.DisableTLS)
	assert.Equal(t, "redis://localhost:6379/0", c.Redis.URL)
	assert.Equal(t, 30*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, 168*time.Hour, c.JWT.RefreshTTL)
	assert.Equal(t, StorageLocal, c.Storage.Driver)
	assert.Equal(t, "./media", c.Storage.MediaDir)
	assert.Equal(t, 250.0, c.Geofence.ThresholdMeters)
	assert.Equal(t, []string{"http://localhost:3000"}, c.AllowedOrigins)
}

func TestNewConfigErrors(t *testing.T) {
	tests := map[string]string{
		"missing database": "jwt:\n  key: k\n",
		"missing jwt key":  "database:\n  user: u\n  host: h\n  name: n\n",
		"cloudinary creds": "database:\n  user: u\n  host: h\n  name: n\njwt:\n  key: k\nstorage:\n  driver: cloudinary\n",
		"unknown driver":   "database:\n  user: u\n  host: h\n  name: n\njwt:\n  key: k\nstorage:\n  driver: s3\n",
		"invalid yaml":     "database: [",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewSettingsDefaults(t *testing.T) {
	s, err := NewSettings()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", s.Web.Host)
	assert.Equal(t, 10*time.Second, s.Web.ShutdownTimeout)
	assert.Equal(t, "config.yaml", s.ConfigFile)
}
