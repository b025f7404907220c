package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	defaultPort     = 8001

	configPathEnv     = "SEJM_ANALYTICS_CONFIG"
	supabaseURLEnv    = "SUPABASE_URL"
	supabaseKeyEnv    = "SUPABASE_SERVICE_ROLE_KEY"
	databaseDSNEnv    = "DATABASE_DSN"
	servicePortEnv    = "ML_SERVICE_PORT"
	logLevelEnv       = "LOG_LEVEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Source kinds.
const (
	SourcePostgREST = "postgrest"
	SourcePostgres  = "postgres"
	SourceFile      = "file"
)

// Storage kinds.
const (
	StorageNone     = "none"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Server        ServerConfig       `yaml:"server"`
	Source        SourceConfig       `yaml:"source"`
	Storage       StorageConfig      `yaml:"storage"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects the log level (debug, info, warn, error) and format (text, json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the HTTP endpoint exposing the analyzers.
type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
}

// SourceConfig selects where records are fetched from.
type SourceConfig struct {
	Kind         string          `yaml:"kind"`
	PostgREST    PostgRESTConfig `yaml:"postgrest"`
	Postgres     PostgresConfig  `yaml:"postgres"`
	SnapshotPath string          `yaml:"snapshotPath"`
}

// PostgRESTConfig describes the Supabase REST endpoint.
type PostgRESTConfig struct {
	URL               string        `yaml:"url"`
	APIKey            string        `yaml:"apiKey"`
	PageSize          int           `yaml:"pageSize"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Timeout           time.Duration `yaml:"timeout"`
}

// PostgresConfig describes a direct database connection.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// StorageConfig selects where analysis results are persisted.
type StorageConfig struct {
	Kind       string `yaml:"kind"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlitePath"`
	Table      string `yaml:"table"`
}

// SchedulerConfig defines how often the refresh job runs. Zero interval disables it.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads the YAML file named by SEJM_ANALYTICS_CONFIG (if set) and applies
// environment overrides.
func Load() Config {
	return LoadFrom(os.Getenv(configPathEnv))
}

// LoadFrom is Load with an explicit file path. An empty path uses defaults.
func LoadFrom(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if fileCfg, err := ReadFile(path); err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	return cfg
}

// ReadFile parses a YAML configuration file without defaults.
func ReadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, err
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(supabaseURLEnv); v != "" {
		c.Source.PostgREST.URL = v
	}
	if v := os.Getenv(supabaseKeyEnv); v != "" {
		c.Source.PostgREST.APIKey = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Source.Postgres.DSN = v
		if c.Storage.DSN == "" {
			c.Storage.DSN = v
		}
	}

	if v := os.Getenv(servicePortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Addr = ":" + strconv.Itoa(port)
		} else {
			log.Printf("config: invalid %s %q, keeping %s", servicePortEnv, v, c.Server.Addr)
		}
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.RequestsPerSecond > 0 {
		base.Server.RequestsPerSecond = override.Server.RequestsPerSecond
	}

	if override.Source.Kind != "" {
		base.Source.Kind = override.Source.Kind
	}
	if override.Source.PostgREST.URL != "" {
		base.Source.PostgREST.URL = override.Source.PostgREST.URL
	}
	if override.Source.PostgREST.APIKey != "" {
		base.Source.PostgREST.APIKey = override.Source.PostgREST.APIKey
	}
	if override.Source.PostgREST.PageSize > 0 {
		base.Source.PostgREST.PageSize = override.Source.PostgREST.PageSize
	}
	if override.Source.PostgREST.RequestsPerSecond > 0 {
		base.Source.PostgREST.RequestsPerSecond = override.Source.PostgREST.RequestsPerSecond
	}
	if override.Source.PostgREST.Timeout > 0 {
		base.Source.PostgREST.Timeout = override.Source.PostgREST.Timeout
	}
	if override.Source.Postgres.DSN != "" {
		base.Source.Postgres.DSN = override.Source.Postgres.DSN
	}
	if override.Source.SnapshotPath != "" {
		base.Source.SnapshotPath = override.Source.SnapshotPath
	}

	if override.Storage.Kind != "" {
		base.Storage.Kind = override.Storage.Kind
	}
	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}
	if override.Storage.SQLitePath != "" {
		base.Storage.SQLitePath = override.Storage.SQLitePath
	}
	if override.Storage.Table != "" {
		base.Storage.Table = override.Storage.Table
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server:  ServerConfig{Addr: ":" + strconv.Itoa(defaultPort), RequestsPerSecond: 5},
		Source: SourceConfig{
			Kind: SourcePostgREST,
			PostgREST: PostgRESTConfig{
				PageSize:          1000,
				RequestsPerSecond: 4,
				Timeout:           30 * time.Second,
			},
		},
		Storage: StorageConfig{
			Kind:       StorageNone,
			SQLitePath: "sejm-analytics.db",
			Table:      "ml_analysis_results",
		},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
	}
}
