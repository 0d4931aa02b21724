package apperr

import "github.com/tuanvumaihuynh/product-catalog/pkg/zerror"

const (
	InvalidRequestBodyCode = "INVALID_REQUEST_BODY"
	ProductNotFoundCode    = "PRODUCT_NOT_FOUND"
	BrandNotFoundCode      = "BRAND_NOT_FOUND"
	AttachmentNotFoundCode = "ATTACHMENT_NOT_FOUND"
	InvalidImageCode       = "INVALID_IMAGE"
	ImageTooLargeCode      = "IMAGE_TOO_LARGE"
	EmptyBulkDeleteCode    = "EMPTY_BULK_DELETE"
)

var (
	InvalidRequestBodyErr = zerror.NewBadRequest(InvalidRequestBodyCode, "invalid request body")
	ProductNotFoundErr    = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	BrandNotFoundErr      = zerror.NewNotFound(BrandNotFoundCode, "brand not found")
	AttachmentNotFoundErr = zerror.NewNotFound(AttachmentNotFoundCode, "attachment not found")
	InvalidImageErr       = zerror.NewUnprocessableEntity(InvalidImageCode, "uploaded file is not an image")
	ImageTooLargeErr      = zerror.NewUnprocessableEntity(ImageTooLargeCode, "uploaded image is too large")
	EmptyBulkDeleteErr    = zerror.NewBadRequest(EmptyBulkDeleteCode, "no product ids given")
)
