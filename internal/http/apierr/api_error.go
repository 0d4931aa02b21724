package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
	"github.com/tuanvumaihuynh/product-catalog/pkg/zerror"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	Code:       "internalServerError",
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

// ParamError is returned when a path or query parameter cannot be bound.
type ParamError struct {
	Name string
	Err  error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %v", e.Name, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

func errorToErrorResponse(err error) ErrorResponse {
	if vErr, ok := catalog.AsValidationError(err); ok {
		return ErrorResponse{
			Code:    "validationError",
			Message: "validation error",
			Details: []FieldError{{
				Field:   vErr.Field,
				Rule:    vErr.Rule,
				Message: vErr.Message,
			}},
			StatusCode: http.StatusUnprocessableEntity,
		}
	}

	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}

		return ErrorResponse{
			Code:       "validationError",
			Message:    "validation error",
			Details:    details,
			StatusCode: http.StatusBadRequest,
		}
	}

	var paramErr *ParamError
	if errors.As(err, &paramErr) {
		return ErrorResponse{
			Code:    "invalidParameter",
			Message: paramErr.Error(),
			Details: []FieldError{{
				Field:   paramErr.Name,
				Message: paramErr.Err.Error(),
			}},
			StatusCode: http.StatusBadRequest,
		}
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		res := ErrorResponse{
			Code:       "invalidRequest",
			Message:    reqErr.Error(),
			StatusCode: http.StatusBadRequest,
		}
		if reqErr.Parameter != nil {
			res.Details = []FieldError{{
				Field:   reqErr.Parameter.Name,
				Message: reqErr.Reason,
			}}
		}
		return res
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return ErrorResponse{
			Code:       "requestTooLarge",
			Message:    fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit),
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	}

	return InternalServerErr
}

var zerrorHTTPStatus = map[zerror.Status]int{
	zerror.StatusBadRequest:          http.StatusBadRequest,
	zerror.StatusNotFound:            http.StatusNotFound,
	zerror.StatusConflict:            http.StatusConflict,
	zerror.StatusUnprocessableEntity: http.StatusUnprocessableEntity,
	zerror.StatusTimeout:             http.StatusGatewayTimeout,
	zerror.StatusUnavailable:         http.StatusServiceUnavailable,
}

// ZErrorStatusToHTTPStatus maps a status to its HTTP code. Unmapped statuses
// are reported as internal server errors.
func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	if code, ok := zerrorHTTPStatus[status]; ok {
		return code
	}
	return http.StatusInternalServerError
}
