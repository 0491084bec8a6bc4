package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. STUDYPLAN_SERVER_PORT.
const EnvPrefix = "STUDYPLAN"

// ConfigFileEnv names an explicit config file to read instead of ./config.yaml.
const ConfigFileEnv = "STUDYPLAN_CONFIG_FILE"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := os.Getenv(ConfigFileEnv)
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Every key needs a default so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.on_corrupt", OnCorruptFallback)
	v.SetDefault("storage.file_dir", "data")
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("storage.postgres_url", "")
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.redis_prefix", "studyplan:")

	v.SetDefault("backup.driver", BackupNone)
	v.SetDefault("backup.prefix", "backups/")
	v.SetDefault("backup.fs_dir", "")
	v.SetDefault("backup.s3_bucket", "")
	v.SetDefault("backup.s3_region", "")
	v.SetDefault("backup.s3_endpoint", "")
	v.SetDefault("backup.s3_path_style", false)
	v.SetDefault("backup.s3_access_key_id", "")
	v.SetDefault("backup.s3_secret_access_key", "")

	v.SetDefault("metrics.enabled", true)
}
