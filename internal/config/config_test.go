package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "turing.yaml", `
program: adder.btm
inputs: [101, epsilon]
max_steps: 5000
timeout: 2s
sorted_tape: true
store:
  kind: redis
  redis_addr: cache:6379
  redis_db: "2"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "adder.btm", cfg.Program)
	assert.Equal(t, []string{"101", "epsilon"}, cfg.Inputs)
	assert.Equal(t, 5000, cfg.MaxSteps)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.True(t, cfg.SortedTape)
	assert.Equal(t, config.StoreRedis, cfg.Store.Kind)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 2, cfg.Store.RedisDB)

	// Unset keys keep their defaults.
	assert.Equal(t, "morphett.txt", cfg.Output)
	assert.Equal(t, "turing:", cfg.Store.Prefix)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "turing.json", `{"start": "q0", "parallel": 4}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "q0", cfg.Start)
	assert.Equal(t, 4, cfg.Parallel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "turing.yaml", "program: file.btm\nstore:\n  kind: file\n")
	t.Setenv("TURING_PROGRAM", "env.btm")
	t.Setenv("TURING_INPUTS", "1,0")
	t.Setenv("TURING_STORE_DIR", "/var/lib/turing")
	t.Setenv("TURING_STORE_TTL", "1h")
	t.Setenv("TURING_MAX_STEPS", "10")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.btm", cfg.Program)
	assert.Equal(t, []string{"1", "0"}, cfg.Inputs)
	assert.Equal(t, config.StoreFile, cfg.Store.Kind)
	assert.Equal(t, "/var/lib/turing", cfg.Store.Dir)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, 10, cfg.MaxSteps)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"Unknown key", "programme: typo.btm\n", "programme"},
		{"Bad store", "store:\n  kind: postgres\n", "unknown store kind"},
		{"Negative steps", "max_steps: -1\n", "max_steps"},
		{"Bad duration", "timeout: soon\n", "timeout"},
		{"Bad YAML", "program: [unterminated\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "turing.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("Missing explicit file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "TURING_STORE_REDIS_ADDR", config.EnvName("store.redis_addr"))
	assert.Equal(t, "TURING_LOG_LEVEL", config.EnvName("log_level"))
}
