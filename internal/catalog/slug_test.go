package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
)

func TestDeriveSlug(t *testing.T) {
	t.Run("Should derive slug on create", func(t *testing.T) {
		tests := []struct {
			name string
			want string
		}{
			{"Wireless Mouse", "wireless-mouse"},
			{"  Wireless   Mouse  ", "wireless-mouse"},
			{"USB-C / Thunderbolt 4 Hub!", "usb-c-thunderbolt-4-hub"},
			{"Crème Brûlée", "creme-brulee"},
			{"--already-slugged--", "already-slugged"},
			{"100% Cotton", "100-cotton"},
			{"!!!", ""},
			{"Straße", "strasse"},
			{"Smørrebrød Æble", "smorrebrod-aeble"},
			{"Łódź Œuvre", "lodz-oeuvre"},
			{"鼠标", ""},
		}

		for _, tt := range tests {
			got, ok := catalog.DeriveSlug(tt.name, catalog.OperationCreate)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got, tt.name)
		}
	})

	t.Run("Should be deterministic", func(t *testing.T) {
		first, _ := catalog.DeriveSlug("Ergonomic Keyboard Pro", catalog.OperationCreate)
		for range 10 {
			again, _ := catalog.DeriveSlug("Ergonomic Keyboard Pro", catalog.OperationCreate)
			assert.Equal(t, first, again)
		}
	})

	t.Run("Should not derive slug on edit", func(t *testing.T) {
		got, ok := catalog.DeriveSlug("Wireless Mouse", catalog.OperationEdit)
		assert.False(t, ok)
		assert.Empty(t, got)
	})

	t.Run("Should keep current slug on edit", func(t *testing.T) {
		assert.Equal(t, "old-name", catalog.SlugForOperation("New Name", "old-name", catalog.OperationEdit))
		assert.Equal(t, "new-name", catalog.SlugForOperation("New Name", "old-name", catalog.OperationCreate))
	})

	t.Run("Should name operations", func(t *testing.T) {
		assert.Equal(t, "create", catalog.OperationCreate.String())
		assert.Equal(t, "edit", catalog.OperationEdit.String())
	})
}
