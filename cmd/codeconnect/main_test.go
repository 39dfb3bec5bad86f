package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeconnect/internal/config"
	"codeconnect/internal/service"
)

func TestLoadConfig_FileThenEnvThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codeconnect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: http\nbackend_url: http://file\nlog_level: debug\n"), 0o644))
	t.Setenv("CODECONNECT_BACKEND_URL", "http://env")

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--publish-delay", "3s"}))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, config.BackendHTTP, cfg.Backend)
	assert.Equal(t, "http://env", cfg.BackendURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.Delays.Publish)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--backend", "carrier-pigeon"}))
	_, err := loadConfig(root)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestServeInheritsPersistentFlags(t *testing.T) {
	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, serve.InheritedFlags().Lookup(config.FlagAddr))
}

func TestNewBackend(t *testing.T) {
	cfg := config.Default()
	_, ok := newBackend(cfg).(*service.Simulated)
	assert.True(t, ok, "default backend should be simulated")

	cfg.Backend = config.BackendHTTP
	cfg.BackendURL = "http://localhost:8080"
	_, ok = newBackend(cfg).(*service.HTTP)
	assert.True(t, ok, "http backend should use the HTTP client")
}
