package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("BACKEND_URL", "http://localhost:7007")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, "http://localhost:7007", cfg.BackendURL)
	assert.Equal(t, "data/relay.db", cfg.ArchivePath)
	assert.Equal(t, 100, cfg.Export.PageSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Export.PageDelay)
	assert.Equal(t, 1000, cfg.Export.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Export.BatchDelay)
	assert.Equal(t, 50, cfg.Export.ProgressInterval)
	assert.Equal(t, 5, cfg.Query.TopK)
	assert.Equal(t, "llm", cfg.Query.ResponseMode)
	assert.Equal(t, 195, cfg.Query.SourceBudget)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("BACKEND_URL", "http://localhost:7007")
	t.Setenv("EXPORT_BATCH_SIZE", "250")
	t.Setenv("EXPORT_PAGE_DELAY", "1s")
	t.Setenv("QUERY_TOP_K", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Export.BatchSize)
	assert.Equal(t, time.Second, cfg.Export.PageDelay)
	assert.Equal(t, 10, cfg.Query.TopK)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("BACKEND_URL", "http://localhost:7007")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoad_MissingBackendURL(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("BACKEND_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_URL")
}

func TestLoad_RejectsOversizedPage(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("BACKEND_URL", "http://localhost:7007")
	t.Setenv("EXPORT_PAGE_SIZE", "500")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.page_size")
}
