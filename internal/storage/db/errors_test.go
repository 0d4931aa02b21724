package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

func TestConstraintViolations(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "products_brand_id_fkey"}

	name, ok := db.UniqueViolation(unique)
	assert.True(t, ok)
	assert.Equal(t, "products_sku_key", name)

	_, ok = db.UniqueViolation(fk)
	assert.False(t, ok)

	name, ok = db.ForeignKeyViolation(fk)
	assert.True(t, ok)
	assert.Equal(t, "products_brand_id_fkey", name)

	_, ok = db.UniqueViolation(errors.New("boom"))
	assert.False(t, ok)

	assert.True(t, db.IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
}
