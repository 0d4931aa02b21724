package config

type HTTP struct {
	Port    uint32 `env:"HTTP_PORT" envDefault:"8000"`
	Swagger bool   `env:"HTTP_SWAGGER" envDefault:"true"`

	// ValidateRequests checks incoming requests against the embedded OpenAPI document.
	ValidateRequests bool     `env:"HTTP_VALIDATE_REQUESTS" envDefault:"true"`
	CorsOrigins      []string `env:"HTTP_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}
