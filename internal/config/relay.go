package config

import "time"

// Relay controls how the outbox relay drains pending product events.
type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100" validate:"gt=0"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s" validate:"gt=0"`

	// ProduceTimeout bounds a single publish to the broker.
	ProduceTimeout time.Duration `env:"RELAY_PRODUCE_TIMEOUT" envDefault:"10s"`

	// Concurrency caps the number of in-flight publishes per batch.
	Concurrency int `env:"RELAY_CONCURRENCY" envDefault:"16" validate:"gt=0"`

	// Processed messages older than Retention are purged on PurgeSchedule, a
	// cron expression or descriptor such as "@every 1h". A zero Retention
	// keeps them forever.
	Retention     time.Duration `env:"RELAY_RETENTION" envDefault:"168h"`
	PurgeSchedule string        `env:"RELAY_PURGE_SCHEDULE" envDefault:"@every 1h"`
}
