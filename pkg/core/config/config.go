// Package config loads engine settings from a YAML file, a .env file and the environment.
//
// Precedence, highest first: bound command-line flags, ALPHA_<SECTION>_<KEY> environment
// variables (DATABASE_URL for the database), the config file, defaults.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"alpha_engine/pkg/core/xbrl"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ALPHA"

// Config represents the complete application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Market   MarketConfig   `mapstructure:"market"`
	EDGAR    EDGARConfig    `mapstructure:"edgar"`
	Database DatabaseConfig `mapstructure:"database"`
	Store    StoreConfig    `mapstructure:"store"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // "console" or "json"
}

// ExtractConfig holds filing extraction settings.
type ExtractConfig struct {
	TagsPath string `mapstructure:"tags_path"` // empty = builtin registry
	Workers  int    `mapstructure:"workers"`
	Conflict string `mapstructure:"conflict"` // "first" or "strict"
}

// ArchiveConfig locates the local filing archive and how much of it to read per ticker.
type ArchiveConfig struct {
	Root      string `mapstructure:"root"`
	Annual    int    `mapstructure:"annual"`
	Quarterly int    `mapstructure:"quarterly"`
}

// MarketConfig points at the market snapshot file.
type MarketConfig struct {
	File string `mapstructure:"file"`
}

// EDGARConfig holds SEC EDGAR client settings.
type EDGARConfig struct {
	UserAgent string `mapstructure:"user_agent"`
}

// DatabaseConfig holds the optional Postgres connection.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// StoreConfig holds the file fallback location for saved runs.
type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration into v. file may be empty, in which case ./alpha.yaml is used when
// present. A .env file in the working directory is loaded into the environment first.
func Load(v *viper.Viper, file string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", "DATABASE_URL")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("alpha")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults sets sensible defaults for all config values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("extract.tags_path", "")
	v.SetDefault("extract.workers", runtime.NumCPU())
	v.SetDefault("extract.conflict", "first")

	v.SetDefault("archive.root", ".")
	v.SetDefault("archive.annual", 2)
	v.SetDefault("archive.quarterly", 4)

	v.SetDefault("market.file", "market.yaml")
	v.SetDefault("edgar.user_agent", "")
	v.SetDefault("database.url", "")
	v.SetDefault("store.dir", ".cache/runs")
}

// ConflictPolicy maps extract.conflict to the extractor policy; unknown values mean FirstMatch.
func (c *Config) ConflictPolicy() xbrl.ConflictPolicy {
	if strings.EqualFold(strings.TrimSpace(c.Extract.Conflict), "strict") {
		return xbrl.Strict
	}
	return xbrl.FirstMatch
}

// LogLevel parses log.level, defaulting to info.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || c.Log.Level == "" {
		return zerolog.InfoLevel
	}
	return level
}
