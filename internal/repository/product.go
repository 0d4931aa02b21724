package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

// ProductSortField names a column the product list can be ordered by.
type ProductSortField string

const (
	ProductSortName        ProductSortField = "name"
	ProductSortBrand       ProductSortField = "brand"
	ProductSortPrice       ProductSortField = "price"
	ProductSortQuantity    ProductSortField = "quantity"
	ProductSortPublishedAt ProductSortField = "published_at"
	ProductSortCreatedAt   ProductSortField = "created_at"
)

var productSortColumns = map[ProductSortField]string{
	ProductSortName:        "p.name",
	ProductSortBrand:       "b.name",
	ProductSortPrice:       "p.price",
	ProductSortQuantity:    "p.quantity",
	ProductSortPublishedAt: "p.published_at",
	ProductSortCreatedAt:   "p.created_at",
}

// Validate returns an error unless f is a sortable column.
func (f ProductSortField) Validate() error {
	if _, ok := productSortColumns[f]; !ok {
		return fmt.Errorf("unknown sort field: %q", string(f))
	}
	return nil
}

type ListProductsParams struct {
	Visible *bool
	BrandID *uuid.UUID
	Search  string
	Sort    ProductSortField
	Desc    bool
	Limit   int32
	Offset  int32
}

type ListProductsResult struct {
	Products []model.Product
	Total    int64
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	UpdateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error)
	ListConflictingProducts(ctx context.Context, name, slug, sku string) ([]catalog.Record, error)
	SetProductImage(ctx context.Context, id uuid.UUID, image string, updatedAt time.Time) error
	DeleteProducts(ctx context.Context, ids []uuid.UUID) ([]catalog.Record, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
		p.id,
		p.name,
		p.slug,
		p.description,
		p.sku,
		p.price,
		p.quantity,
		p.type,
		p.is_visible,
		p.is_featured,
		p.published_at,
		p.image,
		p.brand_id,
		b.name AS brand_name,
		p.created_at,
		p.updated_at`

const productFrom = `
	FROM products AS p
	LEFT JOIN brands AS b ON b.id = p.brand_id`

const selectProduct = `SELECT` + productColumns + productFrom

type productRow struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	Slug        string         `db:"slug"`
	Description string         `db:"description"`
	Sku         string         `db:"sku"`
	Price       pgtype.Numeric `db:"price"`
	Quantity    int32          `db:"quantity"`
	Type        string         `db:"type"`
	IsVisible   bool           `db:"is_visible"`
	IsFeatured  bool           `db:"is_featured"`
	PublishedAt time.Time      `db:"published_at"`
	Image       *string        `db:"image"`
	BrandID     *uuid.UUID     `db:"brand_id"`
	BrandName   *string        `db:"brand_name"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type productListRow struct {
	productRow
	TotalCount int64 `db:"total_count"`
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args, err := productArgs(product)
	if err != nil {
		return err
	}
	args["slug"] = product.Slug
	args["created_at"] = product.CreatedAt

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (
			id, name, slug, description, sku, price, quantity, type,
			is_visible, is_featured, published_at, image, brand_id,
			created_at, updated_at
		) VALUES (
			@id, @name, @slug, @description, @sku, @price, @quantity, @type,
			@is_visible, @is_featured, @published_at, @image, @brand_id,
			@created_at, @updated_at
		)`, args); err != nil {
		return fmt.Errorf("create product: %w", translateConstraintErr(err))
	}

	return nil
}

// UpdateProduct writes every editable column. The slug column is never
// touched after insert.
func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	args, err := productArgs(product)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET
			name         = @name,
			description  = @description,
			sku          = @sku,
			price        = @price,
			quantity     = @quantity,
			type         = @type,
			is_visible   = @is_visible,
			is_featured  = @is_featured,
			published_at = @published_at,
			image        = @image,
			brand_id     = @brand_id,
			updated_at   = @updated_at
		WHERE id = @id`, args)
	if err != nil {
		return fmt.Errorf("update product: %w", translateConstraintErr(err))
	}

	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, selectProduct+` WHERE p.id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if db.IsNoRows(err) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return rowToProduct(row)
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error) {
	column, ok := productSortColumns[params.Sort]
	if !ok {
		column = productSortColumns[ProductSortCreatedAt]
	}
	direction := "ASC"
	if params.Desc {
		direction = "DESC"
	}

	where, args := productFilters(params)
	args["limit"] = params.Limit
	args["offset"] = params.Offset

	query := `SELECT` + productColumns + `, COUNT(*) OVER() AS total_count` + productFrom + where +
		fmt.Sprintf(" ORDER BY %s %s NULLS LAST, p.id %s LIMIT @limit OFFSET @offset", column, direction, direction)

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("list products: %w", err)
	}

	listRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productListRow])
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("collect products: %w", err)
	}

	products := make([]model.Product, 0, len(listRows))
	for _, row := range listRows {
		product, err := rowToProduct(row.productRow)
		if err != nil {
			return ListProductsResult{}, err
		}
		products = append(products, product)
	}

	var total int64
	if len(listRows) > 0 {
		total = listRows[0].TotalCount
	} else if params.Offset > 0 {
		// the window count is lost once the page is past the last row
		countQuery := `SELECT COUNT(*)` + productFrom + where
		if err := r.db.QueryRow(ctx, countQuery, args).Scan(&total); err != nil {
			return ListProductsResult{}, fmt.Errorf("count products: %w", err)
		}
	}

	return ListProductsResult{Products: products, Total: total}, nil
}

func (r productRepository) ListConflictingProducts(ctx context.Context, name, slug, sku string) ([]catalog.Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, sku
		FROM products
		WHERE name = @name OR slug = @slug OR sku = @sku`,
		pgx.NamedArgs{"name": name, "slug": slug, "sku": sku})
	if err != nil {
		return nil, fmt.Errorf("list conflicting products: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("collect conflicting products: %w", err)
	}

	return records, nil
}

func (r productRepository) SetProductImage(ctx context.Context, id uuid.UUID, image string, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET image = @image, updated_at = @updated_at
		WHERE id = @id`,
		pgx.NamedArgs{"id": id, "image": image, "updated_at": updatedAt})
	if err != nil {
		return fmt.Errorf("set product image: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

// DeleteProducts removes the given products and returns the ones that existed.
func (r productRepository) DeleteProducts(ctx context.Context, ids []uuid.UUID) ([]catalog.Record, error) {
	rows, err := r.db.Query(ctx, `
		DELETE FROM products
		WHERE id = ANY(@ids)
		RETURNING id, name, slug, sku`,
		pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("delete products: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("collect deleted products: %w", err)
	}

	return records, nil
}

func scanRecord(row pgx.CollectableRow) (catalog.Record, error) {
	var rec catalog.Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.Slug, &rec.Sku)
	return rec, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func productFilters(params ListProductsParams) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	var conds []string

	if params.Visible != nil {
		conds = append(conds, "p.is_visible = @visible")
		args["visible"] = *params.Visible
	}

	if params.BrandID != nil {
		conds = append(conds, "p.brand_id = @brand_id")
		args["brand_id"] = *params.BrandID
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		conds = append(conds, "(p.name ILIKE @search OR b.name ILIKE @search)")
		args["search"] = "%" + likeEscaper.Replace(search) + "%"
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func productArgs(product model.Product) (pgx.NamedArgs, error) {
	if product.Quantity > math.MaxInt32 || product.Quantity < math.MinInt32 {
		return nil, fmt.Errorf("quantity out of range: %d", product.Quantity)
	}

	return pgx.NamedArgs{
		"id":           product.ID,
		"name":         product.Name,
		"description":  product.Description,
		"sku":          product.Sku,
		"price":        numericFromDecimal(product.Price),
		"quantity":     int32(product.Quantity),
		"type":         string(product.Type),
		"is_visible":   product.IsVisible,
		"is_featured":  product.IsFeatured,
		"published_at": pgtype.Date{Time: product.PublishedAt, Valid: true},
		"image":        product.Image,
		"brand_id":     product.BrandID,
		"updated_at":   product.UpdatedAt,
	}, nil
}

func rowToProduct(row productRow) (model.Product, error) {
	price, err := decimalFromNumeric(row.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price of product %s: %w", row.ID, err)
	}

	return model.Product{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		Sku:         row.Sku,
		Price:       price,
		Quantity:    int(row.Quantity),
		Type:        model.ProductType(row.Type),
		IsVisible:   row.IsVisible,
		IsFeatured:  row.IsFeatured,
		PublishedAt: row.PublishedAt,
		Image:       row.Image,
		BrandID:     row.BrandID,
		BrandName:   row.BrandName,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func decimalFromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Decimal{}, errors.New("null numeric")
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, errors.New("non finite numeric")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}
