package config

const (
	defaultStorageBackend = "sqlite"

	defaultServiceListen = ":8090"

	defaultClientMemoryTarget   = "http://localhost:8090"
	defaultClientNarratorTarget = "http://localhost:8000"
	defaultClientNarrator       = "http"

	defaultSessionWorld = "default"

	defaultEventStreamProvider = "nop"
	defaultEventStreamTopic    = "reverie.turns"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Backend: defaultStorageBackend,
		},
		Service: ServiceConfig{
			Listen: defaultServiceListen,
		},
		Client: ClientConfig{
			MemoryTarget:   defaultClientMemoryTarget,
			NarratorTarget: defaultClientNarratorTarget,
			Narrator:       defaultClientNarrator,
		},
		Session: SessionConfig{
			World: defaultSessionWorld,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
	}
}
