package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/blink/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesOnlyPresentKeys(t *testing.T) {
	path := writeConfig(t, `
strategy: histogram
memo_threshold: "30"
log:
  level: debug
server:
  shutdown_timeout: 10s
store:
  kind: redis
  ttl: 1h
redis:
  addr: cache:6379
  lock: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "histogram", cfg.Strategy)
	assert.Equal(t, uint32(30), cfg.MemoThreshold, "weakly typed input accepts quoted numbers")
	assert.True(t, cfg.OutcomeCache, "untouched keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, config.StoreRedis, cfg.Store.Kind)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "blink:", cfg.Redis.Prefix)
	assert.True(t, cfg.Redis.Lock)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "strategi: memo\n",
		"bad strategy":     "strategy: quantum\n",
		"bad store":        "store:\n  kind: s3\n",
		"bad duration":     "server:\n  shutdown_timeout: soon\n",
		"negative limit":   "expand_limit: -1\n",
		"redis needs addr": "store:\n  kind: redis\nredis:\n  addr: \"\"\n",
		"not yaml":         "strategy: [memo\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
