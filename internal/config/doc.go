// Package config handles loading and validating application configuration
// from environment variables and config files, including the hot-reloadable
// chapter/point-type weight tables.
package config
