package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"pricepipe/internal/logging"
)

const defaultSMTPPort = 587

// Config materialises application configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	CSV      CSVConfig      `mapstructure:"csv"`
	Logging  logging.Config `mapstructure:"logging"`
	Email    EmailConfig    `mapstructure:"email"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// APIConfig describes the upstream quote endpoint.
type APIConfig struct {
	URL            string        `mapstructure:"url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig locates the sqlite sink.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CSVConfig locates the flat-file sink.
type CSVConfig struct {
	Path string `mapstructure:"path"`
}

// EmailConfig defines failure-alert routing. Every field besides Enabled may
// be absent; the dispatcher degrades instead of failing.
type EmailConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Sender     string   `mapstructure:"sender"`
	Recipients []string `mapstructure:"recipients"`
	SMTPHost   string   `mapstructure:"smtp_host"`
	SMTPPort   int      `mapstructure:"-"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	UseTLS     bool     `mapstructure:"use_tls"`
}

// ScheduleConfig governs the periodic run adapter.
type ScheduleConfig struct {
	Spec       string        `mapstructure:"spec"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Load builds configuration from the .env overlay, config file, environment,
// and defaults. The overlay never overrides variables already set in the
// process environment.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("skipping unreadable .env overlay")
		}
	}

	v := viper.New()
	v.SetEnvPrefix("PRICEPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.API.URL = strings.TrimSpace(cfg.API.URL)
	cfg.Email.SMTPPort = lenientPort(v.GetString("email.smtp_port"))
	cfg.Email.Recipients = cleanRecipients(cfg.Email.Recipients)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "")
	v.SetDefault("api.request_timeout", "10s")

	v.SetDefault("database.path", "crypto_prices.db")
	v.SetDefault("csv.path", "crypto_prices.csv")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "pipeline.log")
	v.SetDefault("logging.max_size_mb", 1)
	v.SetDefault("logging.max_backups", 3)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.sender", "")
	v.SetDefault("email.recipients", "")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", defaultSMTPPort)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.use_tls", true)

	v.SetDefault("schedule.spec", "*/15 * * * *")
	v.SetDefault("schedule.max_retries", 2)
	v.SetDefault("schedule.retry_delay", "2m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			truthyBoolHookFunc(),
		)
	}
}

// truthyBoolHookFunc maps the accepted truthy set ("1", "true", "yes", "on",
// case-insensitive) to true and any other string to false.
func truthyBoolHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}
		switch strings.ToLower(strings.TrimSpace(data.(string))) {
		case "1", "true", "yes", "on":
			return true, nil
		default:
			return false, nil
		}
	}
}

// lenientPort falls back to the standard submission port on any parse error.
func lenientPort(raw string) int {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port <= 0 {
		return defaultSMTPPort
	}
	return port
}

func cleanRecipients(raw []string) []string {
	recipients := make([]string, 0, len(raw))
	for _, r := range raw {
		if trimmed := strings.TrimSpace(r); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}

// Validate performs basic sanity checks on the configuration values. The
// endpoint URL is the only hard requirement; everything else has defaults.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("api.url is required (set PRICEPIPE_API_URL)")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path cannot be empty")
	}
	if c.CSV.Path == "" {
		return fmt.Errorf("csv.path cannot be empty")
	}
	if c.Schedule.MaxRetries < 0 {
		return fmt.Errorf("schedule.max_retries cannot be negative")
	}
	return nil
}
