// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv, which reads optional .env files into
// the process environment, with github.com/caarlos0/env/v11, which parses the
// environment into structs using `env` and `envDefault` tags.
//
// Load caches the parsed value per struct type. Every package that needs the
// same configuration can call Load without re-parsing, and the result stays
// stable for the lifetime of the process.
//
//	var cfg twofactor.Config
//	config.MustLoad(&cfg)
//
// LoadEnv reads additional files explicitly. ResetCache clears the cache and
// exists for tests.
package config
