package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

type brandHandler struct {
	brandSvc service.BrandService
}

func newBrandHandler(brandSvc service.BrandService) *brandHandler {
	return &brandHandler{brandSvc: brandSvc}
}

func (h *brandHandler) ListBrands(w http.ResponseWriter, r *http.Request) error {
	brands, err := h.brandSvc.ListBrands(r.Context())
	if err != nil {
		return fmt.Errorf("brand service list brands: %w", err)
	}

	items := make([]brandResponse, 0, len(brands))
	for _, b := range brands {
		items = append(items, toBrandResponse(b))
	}

	return writeJSON(w, http.StatusOK, items)
}

func (h *brandHandler) CreateBrand(w http.ResponseWriter, r *http.Request) error {
	var req brandRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	brand, err := h.brandSvc.CreateBrand(r.Context(), service.CreateBrandParams{Name: req.Name})
	if err != nil {
		return fmt.Errorf("brand service create brand: %w", err)
	}

	return writeJSON(w, http.StatusCreated, toBrandResponse(brand))
}
