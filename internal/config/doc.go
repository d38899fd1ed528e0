// Package config handles application configuration loading and validation.
//
// Configuration is loaded from environment variables, optionally seeded from
// a .env file, with defaults for the optional keys. Required values are
// checked at startup so a misconfigured process fails before binding a port.
package config
