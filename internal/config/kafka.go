package config

import "time"

// Kafka configures the broker connection shared by the relay producer and
// the event consumer.
type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:"," validate:"min=1,dive,hostname_port"`
	Group     string   `env:"KAFKA_GROUP,required"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"product-catalog"`

	DialTimeout time.Duration `env:"KAFKA_DIAL_TIMEOUT" envDefault:"5s" validate:"gt=0"`
}
