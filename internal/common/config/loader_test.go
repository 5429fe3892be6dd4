// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
database:
  postgres:
    host: "localhost"
    database: "bookshop"
    user: "shop"
`

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "price", cfg.Database.Postgres.PriceColumn)
	assert.Equal(t, 21600, cfg.Database.Redis.SummaryTTL)
	assert.Equal(t, "models/gemini-2.5-flash", cfg.GenAI.Model)
	assert.Equal(t, 3, cfg.GenAI.MaxRetries)
	assert.Equal(t, 0.66, cfg.Engine.FuzzyCutoff)
	assert.Equal(t, 0.35, cfg.Engine.DisambiguationCutoff)
	assert.Equal(t, 25, cfg.Engine.GroundedMinWords)
	assert.Equal(t, 7, cfg.Engine.MaxSummaryBullets)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_RejectsUnknownPriceColumn(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, minimalConfig+`    price_column: "price; DROP TABLE products"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price_column")
}

func TestLoadFromFile_AcceptsLegacyPriceColumn(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig+`    price_column: "gia_ban"
`))
	require.NoError(t, err)
	assert.Equal(t, "gia_ban", cfg.Database.Postgres.PriceColumn)
}

func TestLoadFromFile_MissingRequiredFields(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: "localhost"
`))
	require.Error(t, err)
}

func TestGenAIConfigEnabled(t *testing.T) {
	assert.False(t, GenAIConfig{}.Enabled())
	assert.True(t, GenAIConfig{APIKey: "key"}.Enabled())
}

func TestGetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db", Port: 5432, User: "shop", Password: "secret",
		Database: "bookshop", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=shop password=secret dbname=bookshop sslmode=disable", cfg.GetDSN())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, int64(1500), GetDuration(1500).Milliseconds())
}
