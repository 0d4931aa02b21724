package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

type BrandRepository interface {
	WithDB(db db.DB) BrandRepository
	CreateBrand(ctx context.Context, brand model.Brand) error
	GetBrand(ctx context.Context, id uuid.UUID) (model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	ListConflictingBrands(ctx context.Context, name, slug string) ([]catalog.BrandRecord, error)
}

type brandRepository struct {
	db db.DB
}

func NewBrandRepository(db db.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r brandRepository) WithDB(db db.DB) BrandRepository {
	return &brandRepository{db: db}
}

type brandRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r brandRepository) CreateBrand(ctx context.Context, brand model.Brand) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO brands (id, name, slug, created_at, updated_at)
		VALUES (@id, @name, @slug, @created_at, @updated_at)`,
		pgx.NamedArgs{
			"id":         brand.ID,
			"name":       brand.Name,
			"slug":       brand.Slug,
			"created_at": brand.CreatedAt,
			"updated_at": brand.UpdatedAt,
		}); err != nil {
		return fmt.Errorf("create brand: %w", translateConstraintErr(err))
	}

	return nil
}

func (r brandRepository) GetBrand(ctx context.Context, id uuid.UUID) (model.Brand, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, created_at, updated_at
		FROM brands
		WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Brand{}, fmt.Errorf("get brand: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[brandRow])
	if err != nil {
		if db.IsNoRows(err) {
			return model.Brand{}, apperr.BrandNotFoundErr.WrapParent(err)
		}
		return model.Brand{}, fmt.Errorf("collect brand: %w", err)
	}

	return rowToBrand(row), nil
}

func (r brandRepository) ListBrands(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, created_at, updated_at
		FROM brands
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}

	brandRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[brandRow])
	if err != nil {
		return nil, fmt.Errorf("collect brands: %w", err)
	}

	brands := make([]model.Brand, 0, len(brandRows))
	for _, row := range brandRows {
		brands = append(brands, rowToBrand(row))
	}

	return brands, nil
}

func (r brandRepository) ListConflictingBrands(ctx context.Context, name, slug string) ([]catalog.BrandRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug
		FROM brands
		WHERE name = @name OR slug = @slug`,
		pgx.NamedArgs{"name": name, "slug": slug})
	if err != nil {
		return nil, fmt.Errorf("list conflicting brands: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[catalog.BrandRecord])
	if err != nil {
		return nil, fmt.Errorf("collect conflicting brands: %w", err)
	}

	return records, nil
}

func rowToBrand(row brandRow) model.Brand {
	return model.Brand{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
