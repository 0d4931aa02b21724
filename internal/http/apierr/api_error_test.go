package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-catalog/pkg/zerror"
)

func TestNew(t *testing.T) {
	t.Run("Should map validation errors to 422 with one detail", func(t *testing.T) {
		err := fmt.Errorf("create: %w", catalog.NewUniqueError("sku"))

		res := apierr.New(err)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
		assert.Equal(t, "validationError", res.Code)
		require.Len(t, res.Details, 1)
		assert.Equal(t, apierr.FieldError{Field: "sku", Rule: "unique", Message: "has already been taken"}, res.Details[0])
	})

	t.Run("Should map zerror status", func(t *testing.T) {
		res := apierr.New(fmt.Errorf("get: %w", apperr.ProductNotFoundErr))
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.ProductNotFoundCode, res.Code)
		assert.Equal(t, "product not found", res.Message)
	})

	t.Run("Should map param errors to 400", func(t *testing.T) {
		res := apierr.New(&apierr.ParamError{Name: "id", Err: errors.New("not a uuid")})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "invalidParameter", res.Code)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "id", res.Details[0].Field)
	})

	t.Run("Should map openapi request errors to 400", func(t *testing.T) {
		res := apierr.New(&openapi3filter.RequestError{
			Parameter: &openapi3.Parameter{Name: "page"},
			Reason:    "number must be at least 1",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "invalidRequest", res.Code)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "page", res.Details[0].Field)
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("connection reset"))
		assert.Equal(t, apierr.InternalServerErr, res)
	})
}

func TestZErrorStatusToHTTPStatus(t *testing.T) {
	cases := map[zerror.Status]int{
		zerror.StatusBadRequest:          http.StatusBadRequest,
		zerror.StatusNotFound:            http.StatusNotFound,
		zerror.StatusUnprocessableEntity: http.StatusUnprocessableEntity,
		zerror.StatusTimeout:             http.StatusGatewayTimeout,
		zerror.StatusUnavailable:         http.StatusServiceUnavailable,
		zerror.StatusInternal:            http.StatusInternalServerError,
		zerror.StatusUnknown:             http.StatusInternalServerError,
	}
	for status, want := range cases {
		assert.Equal(t, want, apierr.ZErrorStatusToHTTPStatus(status), status.String())
	}
}
