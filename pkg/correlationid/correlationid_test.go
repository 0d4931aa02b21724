package correlationid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/product-catalog/pkg/correlationid"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return stored id", func(t *testing.T) {
		id, ok := correlationid.FromContext(correlationid.NewContext(context.Background(), "req-7"))
		assert.True(t, ok)
		assert.Equal(t, "req-7", id)
	})

	t.Run("Should report missing or empty id", func(t *testing.T) {
		_, ok := correlationid.FromContext(context.Background())
		assert.False(t, ok)

		_, ok = correlationid.FromContext(correlationid.NewContext(context.Background(), ""))
		assert.False(t, ok)
	})
}
