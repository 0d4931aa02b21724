package catalog_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

func validCandidate() catalog.Candidate {
	return catalog.Candidate{
		Name:     "Wireless Mouse",
		Slug:     "wireless-mouse",
		Sku:      "WM-001",
		Price:    "19.99",
		Quantity: ptr.New(10),
		Type:     model.ProductTypeDeliverable,
	}
}

func requireValidationError(t *testing.T, err error, field, rule string) {
	t.Helper()

	vErr, ok := catalog.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, field, vErr.Field)
	assert.Equal(t, rule, vErr.Rule)
	assert.NotEmpty(t, vErr.Message)
}

func TestValidateProduct(t *testing.T) {
	t.Run("Should accept a valid candidate", func(t *testing.T) {
		assert.NoError(t, catalog.ValidateProduct(validCandidate(), nil, false, uuid.Nil))
	})

	t.Run("Should validate price format", func(t *testing.T) {
		for _, price := range []string{"1234.50", "999999", "0", "0.5", "12."} {
			c := validCandidate()
			c.Price = price
			assert.NoError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), price)
		}

		for _, price := range []string{"12.345", "1000000", "-1", "abc", "", "1e3"} {
			c := validCandidate()
			c.Price = price
			err := catalog.ValidateProduct(c, nil, false, uuid.Nil)
			require.Error(t, err, price)

			vErr, ok := catalog.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, "price", vErr.Field, price)
		}
	})

	t.Run("Should bound quantity", func(t *testing.T) {
		for _, q := range []int{0, 100, 50} {
			c := validCandidate()
			c.Quantity = ptr.New(q)
			assert.NoError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), q)
		}

		c := validCandidate()
		c.Quantity = ptr.New(101)
		requireValidationError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), "quantity", "lte")

		c.Quantity = ptr.New(-1)
		requireValidationError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), "quantity", "gte")
	})

	t.Run("Should reject unknown type", func(t *testing.T) {
		for _, pt := range []model.ProductType{"service", "DELIVERABLE", "physical"} {
			c := validCandidate()
			c.Type = pt
			requireValidationError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), "type", "enum")
		}

		c := validCandidate()
		c.Type = ""
		requireValidationError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), "type", catalog.RuleRequired)
	})

	t.Run("Should require fields", func(t *testing.T) {
		tests := []struct {
			field  string
			mutate func(*catalog.Candidate)
		}{
			{"name", func(c *catalog.Candidate) { c.Name = "" }},
			{"slug", func(c *catalog.Candidate) { c.Slug = "" }},
			{"sku", func(c *catalog.Candidate) { c.Sku = "" }},
			{"price", func(c *catalog.Candidate) { c.Price = "" }},
			{"quantity", func(c *catalog.Candidate) { c.Quantity = nil }},
		}

		for _, tt := range tests {
			c := validCandidate()
			tt.mutate(&c)
			requireValidationError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), tt.field, catalog.RuleRequired)
		}
	})

	t.Run("Should accept an explicit zero quantity", func(t *testing.T) {
		c := validCandidate()
		c.Quantity = ptr.New(0)
		assert.NoError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil))
	})

	t.Run("Should treat whitespace-only text as missing", func(t *testing.T) {
		tests := []struct {
			field  string
			mutate func(*catalog.Candidate)
		}{
			{"name", func(c *catalog.Candidate) { c.Name = "   "; c.Slug = "" }},
			{"name", func(c *catalog.Candidate) { c.Name = "\t\n" }},
			{"sku", func(c *catalog.Candidate) { c.Sku = "   " }},
		}

		for _, tt := range tests {
			c := validCandidate()
			tt.mutate(&c)
			requireValidationError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), tt.field, catalog.RuleRequired)
		}
	})

	t.Run("Should fail fast in field order", func(t *testing.T) {
		c := validCandidate()
		c.Sku = ""
		c.Price = "12.345"
		c.Quantity = ptr.New(500)
		c.Type = "bogus"

		requireValidationError(t, catalog.ValidateProduct(c, nil, false, uuid.Nil), "sku", catalog.RuleRequired)
	})

	t.Run("Should reject duplicate sku on second submission", func(t *testing.T) {
		first := catalog.Record{ID: uuid.New(), Name: "Keyboard", Slug: "keyboard", Sku: "WM-001"}

		err := catalog.ValidateProduct(validCandidate(), []catalog.Record{first}, false, uuid.Nil)
		requireValidationError(t, err, "sku", catalog.RuleUnique)
	})

	t.Run("Should reject duplicate name and slug", func(t *testing.T) {
		byName := catalog.Record{ID: uuid.New(), Name: "Wireless Mouse", Slug: "other", Sku: "X"}
		requireValidationError(t,
			catalog.ValidateProduct(validCandidate(), []catalog.Record{byName}, false, uuid.Nil),
			"name", catalog.RuleUnique)

		bySlug := catalog.Record{ID: uuid.New(), Name: "Wireless  Mouse", Slug: "wireless-mouse", Sku: "Y"}
		requireValidationError(t,
			catalog.ValidateProduct(validCandidate(), []catalog.Record{bySlug}, false, uuid.Nil),
			"slug", catalog.RuleUnique)
	})

	t.Run("Should exclude the edited record from uniqueness", func(t *testing.T) {
		id := uuid.New()
		self := catalog.Record{ID: id, Name: "Wireless Mouse", Slug: "wireless-mouse", Sku: "WM-001"}

		assert.NoError(t, catalog.ValidateProduct(validCandidate(), []catalog.Record{self}, true, id))
	})

	t.Run("Should not exclude other records on update", func(t *testing.T) {
		id := uuid.New()
		self := catalog.Record{ID: id, Name: "Wireless Mouse", Slug: "wireless-mouse", Sku: "OLD"}
		other := catalog.Record{ID: uuid.New(), Name: "Trackball", Slug: "trackball", Sku: "WM-001"}

		err := catalog.ValidateProduct(validCandidate(), []catalog.Record{self, other}, true, id)
		requireValidationError(t, err, "sku", catalog.RuleUnique)
	})

	t.Run("Should not self exclude on create", func(t *testing.T) {
		id := uuid.New()
		self := catalog.Record{ID: id, Name: "Wireless Mouse", Slug: "x", Sku: "y"}

		err := catalog.ValidateProduct(validCandidate(), []catalog.Record{self}, false, id)
		requireValidationError(t, err, "name", catalog.RuleUnique)
	})
}

func TestValidateBrand(t *testing.T) {
	assert.NoError(t, catalog.ValidateBrand("Logitech", "logitech", nil))

	requireValidationError(t, catalog.ValidateBrand("", "", nil), "name", catalog.RuleRequired)
	requireValidationError(t, catalog.ValidateBrand("   ", "", nil), "name", catalog.RuleRequired)
	requireValidationError(t, catalog.ValidateBrand("***", "", nil), "slug", catalog.RuleRequired)

	existing := []catalog.BrandRecord{{ID: uuid.New(), Name: "Logitech", Slug: "logitech"}}
	requireValidationError(t, catalog.ValidateBrand("Logitech", "logitech", existing), "name", catalog.RuleUnique)
	requireValidationError(t, catalog.ValidateBrand("LOGITECH", "logitech", existing), "slug", catalog.RuleUnique)
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create product: %w", catalog.NewUniqueError("sku"))

	vErr, ok := catalog.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "sku", vErr.Field)
	assert.Equal(t, "validation failed on sku (unique): has already been taken", vErr.Error())

	_, ok = catalog.AsValidationError(fmt.Errorf("plain"))
	assert.False(t, ok)
}
