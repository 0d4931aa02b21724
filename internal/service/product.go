package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/event"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/files"
	"github.com/tuanvumaihuynh/product-catalog/pkg/outbox"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100

	// sniffLen is the number of leading bytes used to detect an upload's type.
	sniffLen = 3072
)

// CreateProductParams holds a submitted product. Text fields are trimmed
// before validation and a nil Quantity means it was not submitted.
type CreateProductParams struct {
	Name        string
	Description string
	Sku         string
	Price       string
	Quantity    *int
	Type        model.ProductType
	IsVisible   *bool
	IsFeatured  *bool
	PublishedAt *time.Time
	BrandID     *uuid.UUID
}

// UpdateProductParams replaces every editable field. A nil flag or date
// keeps the stored value. The slug is never part of an update.
type UpdateProductParams struct {
	Name        string
	Description string
	Sku         string
	Price       string
	Quantity    *int
	Type        model.ProductType
	IsVisible   *bool
	IsFeatured  *bool
	PublishedAt *time.Time
	BrandID     *uuid.UUID
}

type ListProductsParams struct {
	Visible *bool
	BrandID *uuid.UUID
	Search  string
	Sort    repository.ProductSortField
	Desc    bool
	Page    int
	PerPage int
}

type ListProductsResult struct {
	Products []model.Product
	Total    int64
	Page     int
	PerPage  int
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	BulkDeleteProducts(ctx context.Context, ids []uuid.UUID) (int, error)
	SetProductImage(ctx context.Context, id uuid.UUID, filename string, contents io.Reader) (model.Product, error)
}

type productService struct {
	db             db.DB
	productRepo    repository.ProductRepository
	brandRepo      repository.BrandRepository
	outboxMsgRepo  repository.OutboxMsgRepository
	fileStorage    files.Storage
	attachmentsDir string
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	brandRepo repository.BrandRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	fileStorage files.Storage,
	storageCfg config.Storage,
) ProductService {
	return &productService{
		db:             db,
		productRepo:    productRepo,
		brandRepo:      brandRepo,
		outboxMsgRepo:  outboxMsgRepo,
		fileStorage:    fileStorage,
		attachmentsDir: storageCfg.AttachmentsDir,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Sku = strings.TrimSpace(params.Sku)
	params.Description = strings.TrimSpace(params.Description)
	params.Price = strings.TrimSpace(params.Price)

	slug := catalog.SlugForOperation(params.Name, "", catalog.OperationCreate)

	candidate := catalog.Candidate{
		Name:     params.Name,
		Slug:     slug,
		Sku:      params.Sku,
		Price:    params.Price,
		Quantity: params.Quantity,
		Type:     params.Type,
	}
	if err := s.validate(ctx, candidate, false, uuid.Nil); err != nil {
		return model.Product{}, err
	}

	if err := s.checkBrand(ctx, params.BrandID); err != nil {
		return model.Product{}, err
	}

	price, err := decimal.NewFromString(params.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("parse price: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now().UTC()
	product := model.Product{
		ID:          id,
		Name:        params.Name,
		Slug:        slug,
		Description: params.Description,
		Sku:         params.Sku,
		Price:       price,
		Quantity:    *params.Quantity,
		Type:        params.Type,
		IsVisible:   ptr.Deref(params.IsVisible, true),
		IsFeatured:  ptr.Deref(params.IsFeatured, false),
		PublishedAt: ptr.Deref(params.PublishedAt, now),
		BrandID:     params.BrandID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return s.publishProduct(ctx, db, event.TopicProductCreated, product)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return s.GetProduct(ctx, id)
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error) {
	current, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	params.Name = strings.TrimSpace(params.Name)
	params.Sku = strings.TrimSpace(params.Sku)
	params.Description = strings.TrimSpace(params.Description)
	params.Price = strings.TrimSpace(params.Price)

	slug := catalog.SlugForOperation(params.Name, current.Slug, catalog.OperationEdit)

	candidate := catalog.Candidate{
		Name:     params.Name,
		Slug:     slug,
		Sku:      params.Sku,
		Price:    params.Price,
		Quantity: params.Quantity,
		Type:     params.Type,
	}
	if err := s.validate(ctx, candidate, true, id); err != nil {
		return model.Product{}, err
	}

	if err := s.checkBrand(ctx, params.BrandID); err != nil {
		return model.Product{}, err
	}

	price, err := decimal.NewFromString(params.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("parse price: %w", err)
	}

	product := current
	product.Name = params.Name
	product.Description = params.Description
	product.Sku = params.Sku
	product.Price = price
	product.Quantity = *params.Quantity
	product.Type = params.Type
	product.IsVisible = ptr.Deref(params.IsVisible, current.IsVisible)
	product.IsFeatured = ptr.Deref(params.IsFeatured, current.IsFeatured)
	product.PublishedAt = ptr.Deref(params.PublishedAt, current.PublishedAt)
	product.BrandID = params.BrandID
	product.UpdatedAt = time.Now().UTC()

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			UpdateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		return s.publishProduct(ctx, db, event.TopicProductUpdated, product)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return s.GetProduct(ctx, id)
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error) {
	page := max(params.Page, 1)
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	perPage = min(perPage, MaxPerPage)

	sort := params.Sort
	if sort == "" {
		sort = repository.ProductSortCreatedAt
	}
	if err := sort.Validate(); err != nil {
		return ListProductsResult{}, &catalog.ValidationError{
			Field:   "sort",
			Rule:    "enum",
			Message: err.Error(),
		}
	}

	offset := int64(page-1) * int64(perPage)
	if offset > math.MaxInt32 {
		return ListProductsResult{}, &catalog.ValidationError{
			Field:   "page",
			Rule:    "lte",
			Message: fmt.Sprintf("must be less than or equal to %d", math.MaxInt32/perPage+1),
		}
	}

	res, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Visible: params.Visible,
		BrandID: params.BrandID,
		Search:  params.Search,
		Sort:    sort,
		Desc:    params.Desc,
		Limit:   int32(perPage), //nolint:gosec // bounded by MaxPerPage
		Offset:  int32(offset),
	})
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("product repository list products: %w", err)
	}

	return ListProductsResult{
		Products: res.Products,
		Total:    res.Total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.deleteProducts(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}

	if deleted == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

// BulkDeleteProducts deletes every existing product in ids and returns how
// many were removed. Unknown ids are skipped.
func (s *productService) BulkDeleteProducts(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, apperr.EmptyBulkDeleteErr
	}

	unique := slices.Clone(ids)
	slices.SortFunc(unique, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	unique = slices.Compact(unique)

	return s.deleteProducts(ctx, unique)
}

func (s *productService) deleteProducts(ctx context.Context, ids []uuid.UUID) (int, error) {
	var deleted []catalog.Record

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		deleted, err = s.productRepo.
			WithDB(db).
			DeleteProducts(ctx, ids)
		if err != nil {
			return fmt.Errorf("product repository delete products: %w", err)
		}

		occurredAt := time.Now().UTC()
		for _, rec := range deleted {
			ev := event.ProductDeletedEvent{
				ProductID:  rec.ID.String(),
				Slug:       rec.Slug,
				Sku:        rec.Sku,
				OccurredAt: occurredAt,
			}
			if err := s.writeOutboxMsg(ctx, db, event.TopicProductDeleted, rec.ID, ev); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	return len(deleted), nil
}

// SetProductImage stores contents under the attachments directory with its
// original file name and points the product at it. Only images are accepted.
func (s *productService) SetProductImage(ctx context.Context, id uuid.UUID, filename string, contents io.Reader) (model.Product, error) {
	if _, err := s.productRepo.GetProduct(ctx, id); err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	name := filepath.Base(filepath.Clean("/" + filepath.ToSlash(filename)))
	if name == "/" || name == "." || name == "" {
		return model.Product{}, apperr.InvalidImageErr
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(contents, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return model.Product{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	if !strings.HasPrefix(mime.String(), "image/") {
		return model.Product{}, apperr.InvalidImageErr.WithMsg(
			fmt.Sprintf("uploaded file is not an image, detected %s", mime.String()))
	}

	imagePath := path.Join(s.attachmentsDir, name)
	upload, err := s.fileStorage.Stage(imagePath, io.MultiReader(bytes.NewReader(head), contents))
	if err != nil {
		if errors.Is(err, files.ErrFileTooLarge) {
			return model.Product{}, apperr.ImageTooLargeErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("file storage stage: %w", err)
	}
	defer func() {
		if err := upload.Discard(); err != nil {
			slog.WarnContext(ctx, "discard staged upload", slog.String("path", imagePath), slog.Any("error", err))
		}
	}()

	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		repo := s.productRepo.WithDB(db)
		if err := repo.SetProductImage(ctx, id, imagePath, time.Now().UTC()); err != nil {
			return fmt.Errorf("product repository set product image: %w", err)
		}

		var err error
		product, err = repo.GetProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository get product: %w", err)
		}

		if err := s.publishProduct(ctx, db, event.TopicProductUpdated, product); err != nil {
			return err
		}

		// the file goes live only after every database write succeeded
		if err := upload.Commit(); err != nil {
			return fmt.Errorf("file storage commit: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

// validate checks c against the products that share its name, slug or sku.
func (s *productService) validate(ctx context.Context, c catalog.Candidate, isUpdate bool, currentID uuid.UUID) error {
	existing, err := s.productRepo.ListConflictingProducts(ctx, c.Name, c.Slug, c.Sku)
	if err != nil {
		return fmt.Errorf("product repository list conflicting products: %w", err)
	}

	return catalog.ValidateProduct(c, existing, isUpdate, currentID)
}

func (s *productService) checkBrand(ctx context.Context, brandID *uuid.UUID) error {
	if brandID == nil {
		return nil
	}

	if _, err := s.brandRepo.GetBrand(ctx, *brandID); err != nil {
		if errors.Is(err, apperr.BrandNotFoundErr) {
			return catalog.NewExistsError("brand_id")
		}
		return fmt.Errorf("brand repository get brand: %w", err)
	}

	return nil
}

func (s *productService) publishProduct(ctx context.Context, db db.DB, topic string, product model.Product) error {
	ev := event.ProductEvent{
		ProductID:   product.ID.String(),
		Name:        product.Name,
		Slug:        product.Slug,
		Sku:         product.Sku,
		Price:       product.Price.StringFixed(2),
		Quantity:    product.Quantity,
		Type:        product.Type.String(),
		IsVisible:   product.IsVisible,
		IsFeatured:  product.IsFeatured,
		PublishedAt: product.PublishedAt,
		OccurredAt:  product.UpdatedAt,
	}
	if product.BrandID != nil {
		ev.BrandID = ptr.New(product.BrandID.String())
	}

	return s.writeOutboxMsg(ctx, db, topic, product.ID, ev)
}

func (s *productService) writeOutboxMsg(ctx context.Context, db db.DB, topic string, productID uuid.UUID, ev any) error {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx, topic),
			Payload:      evBytes,
			PartitionKey: ptr.New(productID.String()),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
