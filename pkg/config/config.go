package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // "memory", "postgres" or "sqlite"
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	CatalogFile string `mapstructure:"catalog_file"`
}

type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type EngineConfig struct {
	ResultLimit      int           `mapstructure:"result_limit"`
	ExtraSpicyMin    int           `mapstructure:"extra_spicy_min"`
	DescriptionLimit int           `mapstructure:"description_limit"`
	HistoryTurns     int           `mapstructure:"history_turns"`
	LogTimeout       time.Duration `mapstructure:"log_timeout"`
}

type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "none", "memory" or "redis"
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// RateLimit is the sustained number of requests per second allowed per client IP.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}
	if u.Hostname() == "" {
		return DatabaseConfig{}, fmt.Errorf("missing host in %q", u.Redacted())
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		port, err = strconv.Atoi(u.Port())
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid port %q: %w", u.Port(), err)
		}
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Driver:   "postgres",
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  sslMode,
	}, nil
}

// LoadConfig reads configuration from path, or from config.yaml in the usual
// locations when path is empty, then applies FOODIEBOT_* environment
// variables and the DATABASE_URL, TELEGRAM_TOKEN and OPENAI_API_KEY overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FOODIEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"database_url":   "DATABASE_URL",
		"telegram_token": "TELEGRAM_TOKEN",
		"openai_api_key": "OPENAI_API_KEY",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/foodiebot/")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if dbURL := v.GetString("database_url"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		dbConfig.SQLitePath = config.Database.SQLitePath
		dbConfig.CatalogFile = config.Database.CatalogFile
		config.Database = dbConfig
	}

	if token := v.GetString("telegram_token"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("openai_api_key"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "foodiebot")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "foodiebot.db")
	v.SetDefault("database.catalog_file", "")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.temperature", 0.6)
	v.SetDefault("openai.timeout", "8s")

	v.SetDefault("engine.result_limit", 12)
	v.SetDefault("engine.extra_spicy_min", 7)
	v.SetDefault("engine.description_limit", 180)
	v.SetDefault("engine.history_turns", 10)
	v.SetDefault("engine.log_timeout", "5s")

	v.SetDefault("cache.type", "none")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.prefix", "foodiebot:")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_burst", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

func validate(config *Config) error {
	switch config.Database.Driver {
	case "memory", "postgres", "sqlite":
	default:
		return fmt.Errorf("database driver must be 'memory', 'postgres' or 'sqlite', got: %q", config.Database.Driver)
	}

	if config.Database.Driver == "sqlite" && config.Database.SQLitePath == "" {
		return errors.New("sqlite_path is required when database driver is 'sqlite'")
	}

	switch config.Cache.Type {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache type must be 'none', 'memory' or 'redis', got: %q", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisAddr == "" {
		return errors.New("redis_addr is required when cache type is 'redis'")
	}

	if config.Engine.ResultLimit <= 0 {
		return fmt.Errorf("result_limit must be positive, got: %d", config.Engine.ResultLimit)
	}

	if config.Engine.ExtraSpicyMin < 1 || config.Engine.ExtraSpicyMin > 10 {
		return fmt.Errorf("extra_spicy_min must be between 1 and 10, got: %d", config.Engine.ExtraSpicyMin)
	}

	if config.Server.RateLimit <= 0 || config.Server.RateBurst <= 0 {
		return errors.New("rate_limit and rate_burst must be positive")
	}

	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}
