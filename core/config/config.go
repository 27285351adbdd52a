package config

import (
	"os"
	"reflect"
	"strings"

	"epos-sync/core/database"
	"epos-sync/core/lock"
	"epos-sync/core/logger"
	"epos-sync/core/server"
	"epos-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Source is the EPOS (point-of-sale) database, the source of truth.
	Source database.Config `mapstructure:"source"`
	// Destination is the storefront database that gets reconciled.
	Destination database.Config `mapstructure:"destination"`
	// Sync holds run behaviour switches.
	Sync SyncConfig `mapstructure:"sync"`
	// Server holds configuration for the HTTP trigger surface.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the run report archive (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Lock holds configuration for the optional run lock.
	Lock lock.Config `mapstructure:"lock"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// SyncConfig controls how a sync run applies its plan.
type SyncConfig struct {
	// DryRun plans and reports without writing to the destination.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// ContinueOnError records failed writes per SKU instead of aborting the run.
	ContinueOnError bool `mapstructure:"continue_on_error" default:"false"`
	// ArchiveReports uploads each run report to object storage.
	ArchiveReports bool `mapstructure:"archive_reports" default:"false"`
}

// secretEnvKeys are removed from the process environment once loaded.
var secretEnvKeys = []string{
	"SOURCE_DSN",
	"SOURCE_PASSWORD",
	"DESTINATION_DSN",
	"DESTINATION_PASSWORD",
	"STORAGE_SECRET_KEY",
	"LOCK_REDIS_PASSWORD",
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SOURCE_DSN -> source.dsn)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ScrubEnv removes connection secrets from the process environment.
// The loaded Config is the only holder of credentials afterwards.
func ScrubEnv() {
	for _, key := range secretEnvKeys {
		_ = os.Unsetenv(key)
	}
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
