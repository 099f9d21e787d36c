// Package database handles database connections and schema migration.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the database with sane pool
// and timeout defaults. It is agnostic to the application schema; callers own
// the models they migrate.
//
// # Migration
//
// Migrate applies GORM auto-migration for a set of models. The start command
// runs it for every persistent entity (definitions, source data, runs, breaks,
// access entries, audit and activity tables) when database.auto_migrate is on.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.Migrate(db, models...)
package database
