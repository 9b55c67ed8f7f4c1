package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "sqlite", config.Target.Provider)
	assert.Equal(t, "MYSQL_URL", config.Source.URLEnv)
	assert.Equal(t, 50, config.Engine.BatchSize)
	assert.Equal(t, 100, config.Engine.ProgressEvery)
	assert.NoError(t, config.Validate())
}

func TestLoadAppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("engine.batch_size", 10)
	viper.Set("target.pragmas", map[string]string{"journal_mode": "WAL"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Engine.BatchSize)
	assert.Equal(t, 100, cfg.Engine.ProgressEvery)
	assert.Equal(t, "sqlite", cfg.Target.Provider)
	assert.Equal(t, "WAL", cfg.Target.Pragmas["journal_mode"])
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target.Provider = "postgresql"
	assert.ErrorContains(t, cfg.Validate(), "unsupported target provider")

	for _, provider := range []string{"sqlite", "sqlite3", "sql"} {
		cfg.Target.Provider = provider
		assert.NoError(t, cfg.Validate(), provider)
	}
}

func TestGetSourceURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.URLEnv = "LITEPORT_TEST_SOURCE_URL"

	t.Setenv("LITEPORT_TEST_SOURCE_URL", "")
	_, err := cfg.GetSourceURL()
	assert.Error(t, err)

	t.Setenv("LITEPORT_TEST_SOURCE_URL", "mysql://root@localhost:3306/shop")
	url, err := cfg.GetSourceURL()
	require.NoError(t, err)
	assert.Equal(t, "mysql://root@localhost:3306/shop", url)
}

func TestInitializeProject(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.False(t, IsInitialized())
	require.NoError(t, InitializeProject())
	assert.True(t, IsInitialized())

	data, err := os.ReadFile(FileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"batch_size": 50`)

	assert.Error(t, InitializeProject(), "second initialization must fail")
}
