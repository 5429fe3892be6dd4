// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	GenAI    GenAIConfig    `mapstructure:"genai"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	// PriceColumn names the products column holding the sale price. Legacy
	// schemas used several different names for it, so the active one is
	// resolved once at startup instead of probed per row.
	PriceColumn string `mapstructure:"price_column"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// SummaryTTL is the cache lifetime for book summaries, in seconds.
	SummaryTTL int `mapstructure:"summary_ttl"`
}

// GenAIConfig holds settings for the Gemini text-generation service.
type GenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// Enabled reports whether a credential is configured. Callers check this
// instead of comparing APIKey against the empty string.
func (g GenAIConfig) Enabled() bool {
	return g.APIKey != ""
}

// EngineConfig holds the tunables of the intent-routing engine.
type EngineConfig struct {
	SearchLimit          int     `mapstructure:"search_limit"`          // disambiguation candidates
	SliceLimit           int     `mapstructure:"slice_limit"`           // grounding slice rows
	FuzzyCutoff          float64 `mapstructure:"fuzzy_cutoff"`          // category fuzzy-match acceptance
	DisambiguationCutoff float64 `mapstructure:"disambiguation_cutoff"` // best-title score below which we ask the user
	GroundedMinWords     int     `mapstructure:"grounded_min_words"`    // description word count gate for grounded mode
	MaxSummaryBullets    int     `mapstructure:"max_summary_bullets"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
