package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rana718/liteport/internal/database"
	"github.com/spf13/viper"
)

const FileName = "liteport.config.json"

type Config struct {
	Version   string    `json:"version" mapstructure:"version"`
	Source    Source    `json:"source" mapstructure:"source"`
	Target    Target    `json:"target" mapstructure:"target"`
	Engine    Engine    `json:"engine" mapstructure:"engine"`
	Translate Translate `json:"translate" mapstructure:"translate"`
	Output    Output    `json:"output" mapstructure:"output"`
}

// Source names where a dump comes from: a file on disk or, for pull, a live
// server whose DSN lives in the URLEnv variable.
type Source struct {
	Path   string `json:"path,omitempty" mapstructure:"path"`
	URLEnv string `json:"url_env" mapstructure:"url_env"`
}

type Target struct {
	Provider string            `json:"provider" mapstructure:"provider"`
	Path     string            `json:"path,omitempty" mapstructure:"path"`
	Pragmas  map[string]string `json:"pragmas,omitempty" mapstructure:"pragmas"`
}

type Engine struct {
	BatchSize     int `json:"batch_size" mapstructure:"batch_size"`
	ProgressEvery int `json:"progress_every" mapstructure:"progress_every"`
}

type Translate struct {
	CreateIfNotExists bool `json:"create_if_not_exists,omitempty" mapstructure:"create_if_not_exists"`
}

type Output struct {
	LogFile    string `json:"log_file,omitempty" mapstructure:"log_file"`
	ReportFile string `json:"report_file,omitempty" mapstructure:"report_file"`
	Verbose    bool   `json:"verbose,omitempty" mapstructure:"verbose"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Source.URLEnv == "" {
		c.Source.URLEnv = "MYSQL_URL"
	}
	if c.Target.Provider == "" {
		c.Target.Provider = "sqlite"
	}
	if c.Engine.BatchSize <= 0 {
		c.Engine.BatchSize = 50
	}
	if c.Engine.ProgressEvery <= 0 {
		c.Engine.ProgressEvery = 100
	}
}

// GetSourceURL reads the live source DSN from the configured variable.
func (c *Config) GetSourceURL() (string, error) {
	dbURL := os.Getenv(c.Source.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("source database URL not found in environment variable %s", c.Source.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	if !database.IsSupported(c.Target.Provider) {
		return fmt.Errorf("unsupported target provider: %s. Supported providers: %v", c.Target.Provider, database.SupportedProviders())
	}
	return nil
}

func IsInitialized() bool {
	_, err := os.Stat(FileName)
	return err == nil
}

// InitializeProject writes a default config file into the working directory.
// It refuses to overwrite an existing one.
func InitializeProject() error {
	if IsInitialized() {
		return fmt.Errorf("%s already exists", FileName)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(FileName, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to create file %s: %w", FileName, err)
	}
	return nil
}
