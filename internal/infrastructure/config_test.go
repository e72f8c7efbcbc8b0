package infrastructure

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CACHE_BACKEND", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "database", cfg.Cache.Backend)
	assert.Equal(t, 1, cfg.Analysis.NemesisThreshold)
	assert.Equal(t, 10, cfg.Analysis.NemesisTopK)
	assert.Equal(t, 5, cfg.Analysis.GapMaxTopics)
	assert.Equal(t, 4, cfg.Analysis.RelatedPerKey)
	assert.Equal(t, 1000, cfg.LeetCode.SubmissionLimit)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conlit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  environment: production
cache:
  backend: redis
  ttl: 1h
leetcode:
  timeout: 3s
  solved_max_pages: 7
analysis:
  nemesis_top_k: 3
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("LEETCODE_TIMEOUT", "20")
	t.Setenv("CACHE_BACKEND", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env overrides file")
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "production", cfg.Telemetry.Environment)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 20*time.Second, cfg.LeetCode.Timeout, "bare seconds accepted")
	assert.Equal(t, 7, cfg.LeetCode.SolvedMaxPages)
	assert.Equal(t, 3, cfg.Analysis.NemesisTopK)
	assert.Equal(t, 5, cfg.Analysis.GapPerTopic, "unset keys keep defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unsupported database driver")

	t.Setenv("DB_DRIVER", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "read config file")
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CORS_TEST", " a.example , ,b.example")
	assert.Equal(t, []string{"a.example", "b.example"}, getEnvList("CORS_TEST", nil))
	assert.Equal(t, []string{"x"}, getEnvList("CORS_UNSET_TEST", []string{"x"}))
}

func TestDSN(t *testing.T) {
	cfg := DefaultConfig().Database
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=conlit sslmode=disable", cfg.DSN())
}
