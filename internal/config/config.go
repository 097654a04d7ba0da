package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SIGNUP_OTP"

// Config holds the application configuration.
type Config struct {
	App struct {
		Env string
	}
	Server struct {
		Port            int
		ShutdownTimeout time.Duration
	}
	Log struct {
		Level string
	}
	Database struct {
		Driver string // "sqlite" or "postgres"
		DSN    string
	}
	CORS struct {
		AllowedOrigins []string
		AllowedMethods []string
		AllowedHeaders []string
		MaxAge         int
	}
	OTP struct {
		CountryPrefix   string
		MessageTemplate string
	}
	SMS struct {
		Driver string // "twilio" or "log"
		// Seed is written to gateway_credentials on boot when that table is empty.
		Seed struct {
			AccountSID  string
			AuthToken   string
			PhoneNumber string
		}
	}
}

// Load reads configuration from defaults, an optional config file, a .env
// file and SIGNUP_OTP_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	// .env is optional; real environment variables always win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdowntimeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./signup-otp.db")
	v.SetDefault("cors.allowedorigins", []string{"*"})
	v.SetDefault("cors.allowedmethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedheaders", []string{"Content-Type", "Authorization"})
	v.SetDefault("cors.maxage", 300)
	v.SetDefault("otp.countryprefix", "+91")
	v.SetDefault("otp.messagetemplate", "Your OTP is {code}")
	v.SetDefault("sms.driver", "twilio")
	v.SetDefault("sms.seed.accountsid", "")
	v.SetDefault("sms.seed.authtoken", "")
	v.SetDefault("sms.seed.phonenumber", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch c.SMS.Driver {
	case "twilio", "log":
	default:
		return fmt.Errorf("unsupported sms driver %q", c.SMS.Driver)
	}
	if strings.TrimSpace(c.OTP.CountryPrefix) == "" {
		return fmt.Errorf("otp country prefix is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// IsProduction reports whether the app runs with APP env "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// HasSeedCredential reports whether a complete gateway credential was configured.
func (c *Config) HasSeedCredential() bool {
	s := c.SMS.Seed
	return s.AccountSID != "" && s.AuthToken != "" && s.PhoneNumber != ""
}
