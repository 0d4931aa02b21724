package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

// PriceInput accepts a price sent either as a JSON string or a JSON number
// and keeps its literal text so the format rule sees what the client sent.
type PriceInput string

func (p *PriceInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price must be a string or a number: %w", err)
	}
	*p = PriceInput(n.String())
	return nil
}

type productRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Sku         string              `json:"sku"`
	Price       PriceInput          `json:"price"`
	Quantity    *int                `json:"quantity"`
	Type        model.ProductType   `json:"type"`
	IsVisible   *bool               `json:"is_visible"`
	IsFeatured  *bool               `json:"is_featured"`
	PublishedAt *openapi_types.Date `json:"published_at"`
	BrandID     *uuid.UUID          `json:"brand_id"`
}

func (req productRequest) publishedAt() *time.Time {
	if req.PublishedAt == nil {
		return nil
	}
	t := req.PublishedAt.Time
	return &t
}

func (req productRequest) toCreateParams() service.CreateProductParams {
	return service.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Sku:         req.Sku,
		Price:       string(req.Price),
		Quantity:    req.Quantity,
		Type:        req.Type,
		IsVisible:   req.IsVisible,
		IsFeatured:  req.IsFeatured,
		PublishedAt: req.publishedAt(),
		BrandID:     req.BrandID,
	}
}

func (req productRequest) toUpdateParams() service.UpdateProductParams {
	return service.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Sku:         req.Sku,
		Price:       string(req.Price),
		Quantity:    req.Quantity,
		Type:        req.Type,
		IsVisible:   req.IsVisible,
		IsFeatured:  req.IsFeatured,
		PublishedAt: req.publishedAt(),
		BrandID:     req.BrandID,
	}
}

type productResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Sku         string             `json:"sku"`
	Price       string             `json:"price"`
	Quantity    int                `json:"quantity"`
	Type        model.ProductType  `json:"type"`
	IsVisible   bool               `json:"is_visible"`
	IsFeatured  bool               `json:"is_featured"`
	PublishedAt openapi_types.Date `json:"published_at"`
	Image       *string            `json:"image"`
	ImageURL    *string            `json:"image_url"`
	BrandID     *uuid.UUID         `json:"brand_id"`
	BrandName   *string            `json:"brand_name"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toProductResponse(p model.Product) productResponse {
	res := productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Sku:         p.Sku,
		Price:       p.Price.StringFixed(2),
		Quantity:    p.Quantity,
		Type:        p.Type,
		IsVisible:   p.IsVisible,
		IsFeatured:  p.IsFeatured,
		PublishedAt: openapi_types.Date{Time: p.PublishedAt},
		Image:       p.Image,
		BrandID:     p.BrandID,
		BrandName:   p.BrandName,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Image != nil {
		url := attachmentsRoute + path.Base(*p.Image)
		res.ImageURL = &url
	}
	return res
}

type productListResponse struct {
	Items   []productResponse `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

type bulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type bulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

type slugPreviewRequest struct {
	Name        string `json:"name"`
	Operation   string `json:"operation"`
	CurrentSlug string `json:"current_slug"`
}

type slugPreviewResponse struct {
	Slug string `json:"slug"`
}

type brandRequest struct {
	Name string `json:"name"`
}

type brandResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBrandResponse(b model.Brand) brandResponse {
	return brandResponse{
		ID:        b.ID,
		Name:      b.Name,
		Slug:      b.Slug,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
