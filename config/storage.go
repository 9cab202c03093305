package config

import (
	"fmt"
	"strings"
)

// StorageBackend selects the durable client storage implementation.
type StorageBackend string

const (
	// StorageBackendMemory keeps sessions in process memory.
	StorageBackendMemory StorageBackend = "memory"
	// StorageBackendRedis shares sessions between processes via Redis,
	// enabling cross-tab synchronization.
	StorageBackendRedis StorageBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: memory, redis)", v)
	}
}

// RedisConfig contains Redis connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// StorageConfig groups durable storage configuration.
type StorageConfig struct {
	// Backend determines which storage implementation to use.
	Backend StorageBackend `env:"BACKEND" envDefault:"memory"`

	// Prefix namespaces every storage key and the change channel.
	Prefix string `env:"PREFIX" envDefault:"sessiongate:"`

	// Redis settings (used when Backend=redis).
	Redis RedisConfig `envPrefix:"REDIS_"`
}
