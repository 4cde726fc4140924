package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config stores all process configuration. Values are read by viper from a
// local .env file or from environment variables.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`

	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioVerifySID  string `mapstructure:"TWILIO_VERIFY_SID"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	// AppEnv gates the Twilio status-callback URL: it is only attached to
	// outbound messages outside "development".
	AppEnv        string `mapstructure:"APP_ENV"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// SendConcurrency bounds the per-recipient campaign fan-out.
	SendConcurrency int `mapstructure:"SEND_CONCURRENCY"`
}

// Load reads configuration from a .env file if present, then from the
// environment. Environment variables win.
func Load() (Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"SERVER_PORT",
		"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_VERIFY_SID", "TWILIO_FROM_NUMBER",
		"APP_ENV", "PUBLIC_BASE_URL", "SEND_CONCURRENCY",
	} {
		_ = viper.BindEnv(key)
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SEND_CONCURRENCY", 8)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == ""
}
