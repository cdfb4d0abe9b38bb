// Package database handles database connections, migrations and schema inspection.
//
// It wraps GORM to configure SQLite (the default, a single local file) or MySQL
// connections from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool limits and pings the server
// within the configured timeout. In-memory SQLite is pinned to one connection so
// that every session sees the same database.
//
// # Schema
//
// Migrate creates the stations and prices tables. VerifySchema compares the live
// columns (PRAGMA table_info or SHOW COLUMNS) against the models and reports
// anything missing.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	if err := database.Migrate(db); err != nil {
//	    log.Fatal(err)
//	}
package database
