package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/files"
)

type fakeDB struct {
	db.DB
}

func (f *fakeDB) WithTx(_ context.Context, fn func(db.DB) error) error {
	return fn(f)
}

type fakeProductRepo struct {
	mu         sync.Mutex
	products   map[uuid.UUID]model.Product
	lastList   repository.ListProductsParams
	brandNames map[uuid.UUID]string
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:   map[uuid.UUID]model.Product{},
		brandNames: map[uuid.UUID]string{},
	}
}

func (r *fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r *fakeProductRepo) CreateProduct(_ context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.products[product.ID]
	if !ok {
		return apperr.ProductNotFoundErr
	}
	product.Slug = current.Slug
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	if p.BrandID != nil {
		if name, ok := r.brandNames[*p.BrandID]; ok {
			p.BrandName = &name
		}
	}
	return p, nil
}

func (r *fakeProductRepo) ListProducts(_ context.Context, params repository.ListProductsParams) (repository.ListProductsResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = params
	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	return repository.ListProductsResult{Products: products, Total: int64(len(products))}, nil
}

func (r *fakeProductRepo) ListConflictingProducts(_ context.Context, name, slug, sku string) ([]catalog.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []catalog.Record
	for _, p := range r.products {
		if p.Name == name || p.Slug == slug || p.Sku == sku {
			records = append(records, catalog.Record{ID: p.ID, Name: p.Name, Slug: p.Slug, Sku: p.Sku})
		}
	}
	return records, nil
}

func (r *fakeProductRepo) SetProductImage(_ context.Context, id uuid.UUID, image string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return apperr.ProductNotFoundErr
	}
	p.Image = &image
	p.UpdatedAt = updatedAt
	r.products[id] = p
	return nil
}

func (r *fakeProductRepo) DeleteProducts(_ context.Context, ids []uuid.UUID) ([]catalog.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []catalog.Record
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			records = append(records, catalog.Record{ID: p.ID, Name: p.Name, Slug: p.Slug, Sku: p.Sku})
			delete(r.products, id)
		}
	}
	return records, nil
}

type fakeBrandRepo struct {
	brands map[uuid.UUID]model.Brand
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{brands: map[uuid.UUID]model.Brand{}}
}

func (r *fakeBrandRepo) WithDB(db.DB) repository.BrandRepository { return r }

func (r *fakeBrandRepo) CreateBrand(_ context.Context, brand model.Brand) error {
	r.brands[brand.ID] = brand
	return nil
}

func (r *fakeBrandRepo) GetBrand(_ context.Context, id uuid.UUID) (model.Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return model.Brand{}, apperr.BrandNotFoundErr
	}
	return b, nil
}

func (r *fakeBrandRepo) ListBrands(context.Context) ([]model.Brand, error) {
	brands := make([]model.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		brands = append(brands, b)
	}
	return brands, nil
}

func (r *fakeBrandRepo) ListConflictingBrands(_ context.Context, name, slug string) ([]catalog.BrandRecord, error) {
	var records []catalog.BrandRecord
	for _, b := range r.brands {
		if b.Name == name || b.Slug == slug {
			records = append(records, catalog.BrandRecord{ID: b.ID, Name: b.Name, Slug: b.Slug})
		}
	}
	return records, nil
}

type fakeOutboxRepo struct {
	msgs      []repository.CreateOutboxMsgParams
	createErr error
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.msgs = append(r.msgs, params)
	return nil
}

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedOutboxMsgs(context.Context, repository.DeleteProcessedOutboxMsgsParams) (int64, error) {
	return 0, nil
}

type fakeFileStorage struct {
	files     map[string][]byte
	maxSize   int64
	discarded []string
}

func (s *fakeFileStorage) Save(path string, contents io.Reader) (int64, error) {
	p, err := s.Stage(path, contents)
	if err != nil {
		return 0, err
	}
	return p.Size(), p.Commit()
}

func (s *fakeFileStorage) Stage(path string, contents io.Reader) (files.Pending, error) {
	b, err := io.ReadAll(contents)
	if err != nil {
		return nil, err
	}
	if s.maxSize > 0 && int64(len(b)) > s.maxSize {
		return nil, files.ErrFileTooLarge
	}
	return &fakePending{store: s, path: path, data: bytes.Clone(b)}, nil
}

func (s *fakeFileStorage) Open(string) (*os.File, error) {
	return nil, os.ErrNotExist
}

type fakePending struct {
	store     *fakeFileStorage
	path      string
	data      []byte
	committed bool
}

func (p *fakePending) Size() int64 { return int64(len(p.data)) }

func (p *fakePending) Commit() error {
	p.store.files[p.path] = p.data
	p.committed = true
	return nil
}

func (p *fakePending) Discard() error {
	if !p.committed {
		p.store.discarded = append(p.store.discarded, p.path)
	}
	return nil
}
