package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Backup  BackupConfig  `mapstructure:"backup"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Storage drivers
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Corrupt record policies
const (
	OnCorruptFallback = "fallback"
	OnCorruptFail     = "fail"
)

// StorageConfig selects where the planner document is persisted.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=file memory sqlite postgres redis"`
	// OnCorrupt decides what happens when the persisted record cannot be
	// decoded at startup: start from the default document, or refuse to start.
	OnCorrupt   string `mapstructure:"on_corrupt"   validate:"required,oneof=fallback fail"`
	FileDir     string `mapstructure:"file_dir"     validate:"required_if=Driver file"`
	SQLitePath  string `mapstructure:"sqlite_path"  validate:"required_if=Driver sqlite"`
	PostgresURL string `mapstructure:"postgres_url" validate:"required_if=Driver postgres,omitempty,url"`
	RedisURL    string `mapstructure:"redis_url"    validate:"required_if=Driver redis,omitempty,url"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

// Backup sink drivers
const (
	BackupNone = "none"
	BackupFS   = "fs"
	BackupS3   = "s3"
)

// BackupConfig selects where archived exports are written.
type BackupConfig struct {
	Driver            string `mapstructure:"driver"               validate:"required,oneof=none fs s3"`
	Prefix            string `mapstructure:"prefix"`
	FSDir             string `mapstructure:"fs_dir"               validate:"required_if=Driver fs"`
	S3Bucket          string `mapstructure:"s3_bucket"            validate:"required_if=Driver s3"`
	S3Region          string `mapstructure:"s3_region"            validate:"required_if=Driver s3"`
	S3Endpoint        string `mapstructure:"s3_endpoint"          validate:"omitempty,url"`
	S3PathStyle       bool   `mapstructure:"s3_path_style"`
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key" validate:"required_with=S3AccessKeyID"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
