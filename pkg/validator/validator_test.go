package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

type color string

func (c color) Validate() error {
	if c == "red" || c == "blue" {
		return nil
	}
	return errors.New("unknown color")
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	t.Run("Should validate price format", func(t *testing.T) {
		cases := map[string]bool{
			"0":         true,
			"1234.50":   true,
			"999999":    true,
			"12.":       true,
			"12.345":    false,
			"1234567":   false,
			"-1":        false,
			".50":       false,
			"12,50":     false,
			"":          false,
			"99999.999": false,
		}
		for in, ok := range cases {
			err := v.ValidateVar(in, "price")
			if ok {
				assert.NoError(t, err, in)
			} else {
				assert.Error(t, err, in)
			}
		}
	})

	t.Run("Should validate slug format", func(t *testing.T) {
		assert.NoError(t, v.ValidateVar("wireless-mouse", "slug"))
		assert.Error(t, v.ValidateVar("Wireless Mouse", "slug"))
		assert.Error(t, v.ValidateVar("-mouse", "slug"))
		assert.Error(t, v.ValidateVar("a--b", "slug"))
	})

	t.Run("Should reject blank text", func(t *testing.T) {
		assert.NoError(t, v.ValidateVar(" Mouse ", "notblank"))

		for _, in := range []string{"", "   ", "\t\n"} {
			err := v.ValidateVar(in, "notblank")
			require.Error(t, err, "%q", in)

			fe, ok := validator.FirstFieldError(err)
			require.True(t, ok)
			assert.Equal(t, "field is required", validator.ValidationErrorMessage(fe))
		}
	})

	t.Run("Should validate enum through Validate method", func(t *testing.T) {
		assert.NoError(t, v.ValidateVar(color("red"), "enum"))

		err := v.ValidateVar(color("green"), "enum")
		require.Error(t, err)

		fe, ok := validator.FirstFieldError(err)
		require.True(t, ok)
		assert.Equal(t, "enum", fe.Tag())
		assert.Equal(t, "invalid enum value: green", validator.ValidationErrorMessage(fe))
	})

	t.Run("Should report bounds", func(t *testing.T) {
		err := v.ValidateVar(101, "gte=0,lte=100")
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		fe, ok := validator.FirstFieldError(err)
		require.True(t, ok)
		assert.Equal(t, "lte", fe.Tag())
		assert.Equal(t, "must be less than or equal to 100", validator.ValidationErrorMessage(fe))
	})
}
