// Package config loads, normalizes, and validates the TOML configuration that
// every component receives explicitly at construction time. No component reads
// ambient process state directly.
package config
