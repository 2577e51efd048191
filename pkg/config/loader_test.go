package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Address)
	assert.EqualValues(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(1048576), cfg.Route.MaxBodyLen)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{}
	cfg.Server.Address = ""
	cfg.Server.Port = 0
	cfg.Route.MaxBodyLen = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "server port")
	assert.Contains(t, msg, "server address")
	assert.Contains(t, msg, "max body length")
	assert.Contains(t, msg, "logging format")
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestIsProductionHeuristic(t *testing.T) {
	cfg := Config{}
	cfg.Server.Address = "127.0.0.1"
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Server.Address = "0.0.0.0"
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
