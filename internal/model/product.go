package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType is the closed set of product kinds.
type ProductType string

const (
	ProductTypeDeliverable  ProductType = "deliverable"
	ProductTypeDownloadable ProductType = "downloadable"
)

// ProductTypes lists every known product type.
func ProductTypes() []ProductType {
	return []ProductType{ProductTypeDeliverable, ProductTypeDownloadable}
}

func (t ProductType) String() string {
	return string(t)
}

func (t ProductType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// UnmarshalText accepts any value. Unknown types are rejected by Validate.
func (t *ProductType) UnmarshalText(text []byte) error {
	*t = ProductType(text)
	return nil
}

// Validate returns an error unless t is one of ProductTypes.
func (t ProductType) Validate() error {
	switch t {
	case ProductTypeDeliverable, ProductTypeDownloadable:
		return nil
	default:
		return fmt.Errorf("unknown product type: %q", string(t))
	}
}

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Sku         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Type        ProductType     `json:"type"`
	IsVisible   bool            `json:"is_visible"`
	IsFeatured  bool            `json:"is_featured"`
	PublishedAt time.Time       `json:"published_at"`
	Image       *string         `json:"image,omitempty"`
	BrandID     *uuid.UUID      `json:"brand_id,omitempty"`
	// BrandName is filled on reads only.
	BrandName *string   `json:"brand_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
