// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key. An empty API key
// disables request authentication, which is the expected mode for local
// development.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to decide whether the auth middleware is mounted.
package server
