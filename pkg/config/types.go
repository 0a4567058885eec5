package config

import (
	"fmt"
	"strings"
)

// Config represents the persistent reverie configuration stored as
// config.toml in the .reverie/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	Service     ServiceConfig     `toml:"service"`
	Client      ClientConfig      `toml:"client"`
	Session     SessionConfig     `toml:"session"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// StorageConfig holds the memory service's persistence settings.
type StorageConfig struct {
	Backend     string `toml:"backend,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// ServiceConfig holds memory service listen settings.
type ServiceConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to the
// running memory service and narrator backend (e.g. reverie play,
// reverie status). Targets are full URLs (scheme + host + port).
type ClientConfig struct {
	MemoryTarget   string `toml:"memory_target,omitempty"`
	NarratorTarget string `toml:"narrator_target,omitempty"`
	Narrator       string `toml:"narrator,omitempty"`
}

// SessionConfig holds per-player session defaults.
type SessionConfig struct {
	World string `toml:"world,omitempty"`
}

// EventStreamConfig holds turn event publishing settings.
type EventStreamConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.backend": {
		get: func(c *Config) string { return c.Storage.Backend },
		set: func(c *Config, v string) error {
			switch v {
			case "sqlite", "postgres", "memory":
				c.Storage.Backend = v
				return nil
			default:
				return fmt.Errorf("invalid value for storage.backend: %q (available: sqlite, postgres, memory)", v)
			}
		},
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"service.listen": {
		get: func(c *Config) string { return c.Service.Listen },
		set: func(c *Config, v string) error { c.Service.Listen = v; return nil },
	},
	"client.memory_target": {
		get: func(c *Config) string { return c.Client.MemoryTarget },
		set: func(c *Config, v string) error { c.Client.MemoryTarget = v; return nil },
	},
	"client.narrator_target": {
		get: func(c *Config) string { return c.Client.NarratorTarget },
		set: func(c *Config, v string) error { c.Client.NarratorTarget = v; return nil },
	},
	"client.narrator": {
		get: func(c *Config) string { return c.Client.Narrator },
		set: func(c *Config, v string) error {
			switch v {
			case "http", "scripted":
				c.Client.Narrator = v
				return nil
			default:
				return fmt.Errorf("invalid value for client.narrator: %q (available: http, scripted)", v)
			}
		},
	},
	"session.world": {
		get: func(c *Config) string { return c.Session.World },
		set: func(c *Config, v string) error { c.Session.World = v; return nil },
	},
	"eventstream.provider": {
		get: func(c *Config) string { return c.EventStream.Provider },
		set: func(c *Config, v string) error {
			switch v {
			case "nop", "kafka":
				c.EventStream.Provider = v
				return nil
			default:
				return fmt.Errorf("invalid value for eventstream.provider: %q (available: nop, kafka)", v)
			}
		},
	},
	"eventstream.brokers": {
		get: func(c *Config) string { return strings.Join(c.EventStream.Brokers, ",") },
		set: func(c *Config, v string) error {
			if v == "" {
				c.EventStream.Brokers = nil
				return nil
			}
			parts := strings.Split(v, ",")
			brokers := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					brokers = append(brokers, p)
				}
			}
			c.EventStream.Brokers = brokers
			return nil
		},
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
}
