// Package config provides configuration management for epos-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Source: EPOS database connection (driver, DSN or host/port/user/password/name)
//   - Destination: storefront database connection
//   - Sync: dry run, continue-on-error and report archiving switches
//   - Server: HTTP trigger surface (port, API key)
//   - Storage: S3/MinIO credentials for the report archive
//   - Lock: optional Redis run lock
//   - Log: logging level and format
//
// Credentials are passed around as explicit Config values. ScrubEnv removes the secret
// variables from the process environment once they have been loaded.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	config.ScrubEnv()
package config
