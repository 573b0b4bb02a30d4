package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	client "github.com/jsp-lqk/memcached-shim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("config.example.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"127.0.0.1:11211"}, cfg.Servers)
	assert.Equal(t, "dev.", cfg.Prefix)
	assert.Equal(t, time.Second, cfg.DialTimeout)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)

	servers, err := cfg.servers()
	require.NoError(t, err)
	assert.Equal(t, []client.ServerEntry{{Host: "127.0.0.1", Port: 11211}}, servers)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("servers: [unterminated"), 0o600))
	_, err = loadConfig(bad)
	assert.Error(t, err)

	cfg := &config{Servers: []string{"cache:notaport"}}
	_, err = cfg.servers()
	assert.Error(t, err)
}
