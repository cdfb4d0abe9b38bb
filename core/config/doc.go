// Package config provides configuration management for the Fuel Dashboard.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, CORS origins)
//   - Database: SQLite or MySQL connection details
//   - Storage: S3/MinIO credentials for the payload archive
//   - Source: upstream FuelCheck API credentials and query
//   - Scheduler: pipeline interval and jitter
//   - Retention: admission staleness and pruning windows
//   - Log: Logging level, format and optional rotating file
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
