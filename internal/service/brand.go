package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
)

type CreateBrandParams struct {
	Name string
}

type BrandService interface {
	CreateBrand(ctx context.Context, params CreateBrandParams) (model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
}

type brandService struct {
	brandRepo repository.BrandRepository
}

func NewBrandService(brandRepo repository.BrandRepository) BrandService {
	return &brandService{brandRepo: brandRepo}
}

func (s *brandService) CreateBrand(ctx context.Context, params CreateBrandParams) (model.Brand, error) {
	params.Name = strings.TrimSpace(params.Name)
	slug := catalog.SlugForOperation(params.Name, "", catalog.OperationCreate)

	existing, err := s.brandRepo.ListConflictingBrands(ctx, params.Name, slug)
	if err != nil {
		return model.Brand{}, fmt.Errorf("brand repository list conflicting brands: %w", err)
	}

	if err := catalog.ValidateBrand(params.Name, slug, existing); err != nil {
		return model.Brand{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Brand{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now().UTC()
	brand := model.Brand{
		ID:        id,
		Name:      params.Name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.brandRepo.CreateBrand(ctx, brand); err != nil {
		return model.Brand{}, fmt.Errorf("brand repository create brand: %w", err)
	}

	return brand, nil
}

func (s *brandService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.brandRepo.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("brand repository list brands: %w", err)
	}

	return brands, nil
}
