package config

// Otel configures tracing. Spans are only exported when CollectorURL is set.
type Otel struct {
	ServiceName    string  `env:"OTEL_SERVICE_NAME" envDefault:"product-catalog"`
	ServiceVersion string  `env:"OTEL_SERVICE_VERSION"`
	Environment    string  `env:"OTEL_ENVIRONMENT"`
	TraceIDRatio   float64 `env:"OTEL_TRACE_ID_RATIO" envDefault:"0.1" validate:"gte=0,lte=1"`

	CollectorURL  string `env:"OTEL_COLLECTOR_URL"`
	CollectorAuth string `env:"OTEL_COLLECTOR_AUTH"`
	Insecure      bool   `env:"OTEL_INSECURE"`

	K8sPodName   string `env:"K8S_POD_NAME"`
	K8sNamespace string `env:"K8S_NAMESPACE"`
}
