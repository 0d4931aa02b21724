package repository

import (
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

var constraintFields = map[string]string{
	"products_name_key": "name",
	"products_slug_key": "slug",
	"products_sku_key":  "sku",
	"brands_name_key":   "name",
	"brands_slug_key":   "slug",

	"products_brand_id_fkey": "brand_id",
}

// translateConstraintErr turns a constraint violation lost to a concurrent
// writer into the validation error the pre-check would have produced.
func translateConstraintErr(err error) error {
	if constraint, ok := db.UniqueViolation(err); ok {
		if field, ok := constraintFields[constraint]; ok {
			return catalog.NewUniqueError(field)
		}
	}

	if constraint, ok := db.ForeignKeyViolation(err); ok {
		if field, ok := constraintFields[constraint]; ok {
			return catalog.NewExistsError(field)
		}
	}

	return err
}
