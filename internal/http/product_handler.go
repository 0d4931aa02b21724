package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

// multipartOverhead is the room left for boundaries and part headers on top
// of the largest accepted image.
const multipartOverhead = 1 << 20

type productHandler struct {
	productSvc     service.ProductService
	maxUploadBytes int64
}

func newProductHandler(productSvc service.ProductService, storageCfg config.Storage) *productHandler {
	return &productHandler{
		productSvc:     productSvc,
		maxUploadBytes: int64(storageCfg.MaxFileSize) + multipartOverhead,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	var (
		visible       *bool
		brandID       *uuid.UUID
		search        *string
		sort          *string
		order         *string
		page, perPage *int
	)
	for _, p := range []struct {
		name string
		dest any
	}{
		{"visible", &visible},
		{"brand_id", &brandID},
		{"search", &search},
		{"sort", &sort},
		{"order", &order},
		{"page", &page},
		{"per_page", &perPage},
	} {
		if err := queryParam(r, p.name, p.dest); err != nil {
			return err
		}
	}

	params := service.ListProductsParams{
		Visible: visible,
		BrandID: brandID,
	}
	if search != nil {
		params.Search = *search
	}
	if sort != nil {
		params.Sort = repository.ProductSortField(*sort)
	}
	if order != nil {
		switch *order {
		case "asc":
		case "desc":
			params.Desc = true
		default:
			return &catalog.ValidationError{Field: "order", Rule: "enum", Message: "must be one of [asc desc]"}
		}
	}
	if page != nil {
		params.Page = *page
	}
	if perPage != nil {
		params.PerPage = *perPage
	}

	res, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	items := make([]productResponse, 0, len(res.Products))
	for _, p := range res.Products {
		items = append(items, toProductResponse(p))
	}

	return writeJSON(w, http.StatusOK, productListResponse{
		Items:   items,
		Total:   res.Total,
		Page:    res.Page,
		PerPage: res.PerPage,
	})
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), req.toCreateParams())
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, req.toUpdateParams())
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	return writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *productHandler) BulkDeleteProducts(w http.ResponseWriter, r *http.Request) error {
	var req bulkDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	deleted, err := h.productSvc.BulkDeleteProducts(r.Context(), req.IDs)
	if err != nil {
		return fmt.Errorf("product service bulk delete products: %w", err)
	}

	return writeJSON(w, http.StatusOK, bulkDeleteResponse{Deleted: deleted})
}

// SetProductImage streams the multipart "file" part to the product service.
func (h *productHandler) SetProductImage(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		return apperr.InvalidRequestBodyErr.WrapParent(err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return apperr.InvalidRequestBodyErr.WrapParent(errors.New("missing file part"))
		}
		if err != nil {
			return apperr.InvalidRequestBodyErr.WrapParent(err)
		}

		if part.FormName() != "file" {
			//nolint:errcheck
			part.Close()
			continue
		}

		product, err := h.productSvc.SetProductImage(r.Context(), id, part.FileName(), part)
		//nolint:errcheck
		part.Close()
		if err != nil {
			return fmt.Errorf("product service set product image: %w", err)
		}

		return writeJSON(w, http.StatusOK, toProductResponse(product))
	}
}

func (h *productHandler) PreviewSlug(w http.ResponseWriter, r *http.Request) error {
	var req slugPreviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	var op catalog.Operation
	switch req.Operation {
	case "", catalog.OperationCreate.String():
		op = catalog.OperationCreate
	case catalog.OperationEdit.String():
		op = catalog.OperationEdit
	default:
		return &catalog.ValidationError{Field: "operation", Rule: "enum", Message: "must be one of [create edit]"}
	}

	return writeJSON(w, http.StatusOK, slugPreviewResponse{
		Slug: catalog.SlugForOperation(req.Name, req.CurrentSlug, op),
	})
}
