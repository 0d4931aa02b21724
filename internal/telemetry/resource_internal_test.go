package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

func TestNewResource(t *testing.T) {
	t.Run("Should skip empty attributes", func(t *testing.T) {
		res := newResource(config.Otel{ServiceName: "product-catalog"})

		assert.Equal(t, 1, res.Len())
		v, ok := res.Set().Value(semconv.ServiceNameKey)
		assert.True(t, ok)
		assert.Equal(t, "product-catalog", v.AsString())
	})

	t.Run("Should include version and environment", func(t *testing.T) {
		res := newResource(config.Otel{ServiceName: "product-catalog", ServiceVersion: "1.2.0", Environment: "staging"})

		v, ok := res.Set().Value(semconv.ServiceVersionKey)
		assert.True(t, ok)
		assert.Equal(t, "1.2.0", v.AsString())

		v, ok = res.Set().Value(semconv.DeploymentEnvironmentKey)
		assert.True(t, ok)
		assert.Equal(t, "staging", v.AsString())
	})
}
