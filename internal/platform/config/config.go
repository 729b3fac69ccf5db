package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	DevMode       bool
	JWTSigningKey string

	// PostgresURL enables the durable event store when set.
	PostgresURL string

	// TitleRegistryURL points at the external title-custody registry. When
	// empty the service runs on the in-process registry (dev mode only).
	TitleRegistryURL string

	// EscrowHolder is the identity the service holds titles under while a
	// property is registered.
	EscrowHolder string

	// Kafka enables the external attestation hand-off when brokers are set.
	Kafka Kafka

	Redis Redis
}

// Kafka configures the optional lifecycle-event sink.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Redis configures the optional property-summary cache.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	addr := os.Getenv("LEASEBOOK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	kafka := Kafka{
		Topic: os.Getenv("KAFKA_EVENTS_TOPIC"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kafka.Brokers = strings.Split(brokers, ",")
	}
	if kafka.Topic == "" {
		kafka.Topic = "leasebook.lifecycle"
	}

	escrow := os.Getenv("ESCROW_HOLDER")
	if escrow == "" {
		escrow = "leasebook-escrow"
	}

	return Server{
		Addr:             addr,
		DevMode:          os.Getenv("LEASEBOOK_DEV_MODE") == "true",
		JWTSigningKey:    jwtSigningKey,
		PostgresURL:      os.Getenv("POSTGRES_URL"),
		TitleRegistryURL: os.Getenv("TITLE_REGISTRY_URL"),
		EscrowHolder:     escrow,
		Kafka:            kafka,
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("PROPERTY_CACHE_TTL", 5*time.Minute),
		},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
