// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Values are parsed with caarlos0/env struct tags and cached per type, so
// every component that loads the same config type observes identical values:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
package config
