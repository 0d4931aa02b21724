package catalog

import (
	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

var fieldValidator validator.Validator = validator.MustNewDefaultValidator()

// Candidate holds the submitted values of a product form.
// Price is kept as text so its format can be checked before parsing.
// A nil Quantity means the field was not submitted.
type Candidate struct {
	Name     string
	Slug     string
	Sku      string
	Price    string
	Quantity *int
	Type     model.ProductType
}

// Record is the part of a stored product that uniqueness checks look at.
type Record struct {
	ID   uuid.UUID
	Name string
	Slug string
	Sku  string
}

// ValidateProduct checks c against the snapshot of existing records and
// returns a *ValidationError for the first violated rule. On update the
// record identified by currentID never conflicts with itself.
func ValidateProduct(c Candidate, existing []Record, isUpdate bool, currentID uuid.UUID) error {
	others := func(match func(Record) bool) bool {
		for _, r := range existing {
			if isUpdate && r.ID == currentID {
				continue
			}
			if match(r) {
				return true
			}
		}
		return false
	}

	if err := checkVar("name", c.Name, "notblank"); err != nil {
		return err
	}
	if others(func(r Record) bool { return r.Name == c.Name }) {
		return NewUniqueError("name")
	}

	if err := checkSlug(c.Slug); err != nil {
		return err
	}
	if others(func(r Record) bool { return r.Slug == c.Slug }) {
		return NewUniqueError("slug")
	}

	if err := checkVar("sku", c.Sku, "notblank"); err != nil {
		return err
	}
	if others(func(r Record) bool { return r.Sku == c.Sku }) {
		return NewUniqueError("sku")
	}

	if err := checkVar("price", c.Price, "required,price"); err != nil {
		return err
	}

	if c.Quantity == nil {
		return NewRequiredError("quantity")
	}
	if err := checkVar("quantity", *c.Quantity, "gte=0,lte=100"); err != nil {
		return err
	}

	return checkVar("type", c.Type, "required,enum")
}

// BrandRecord is the part of a stored brand that uniqueness checks look at.
type BrandRecord struct {
	ID   uuid.UUID
	Name string
	Slug string
}

// ValidateBrand applies the name and slug rules used for products to a brand.
func ValidateBrand(name, slug string, existing []BrandRecord) error {
	if err := checkVar("name", name, "notblank"); err != nil {
		return err
	}
	for _, b := range existing {
		if b.Name == name {
			return NewUniqueError("name")
		}
	}

	if err := checkSlug(slug); err != nil {
		return err
	}
	for _, b := range existing {
		if b.Slug == slug {
			return NewUniqueError("slug")
		}
	}

	return nil
}

func checkSlug(slug string) error {
	if slug == "" {
		return &ValidationError{
			Field:   "slug",
			Rule:    RuleRequired,
			Message: "name has no letters or digits to build a slug from",
		}
	}
	return checkVar("slug", slug, "slug")
}

func checkVar(field string, value any, tag string) error {
	err := fieldValidator.ValidateVar(value, tag)
	if err == nil {
		return nil
	}

	fe, ok := validator.FirstFieldError(err)
	if !ok {
		return &ValidationError{Field: field, Rule: tag, Message: err.Error()}
	}

	rule := fe.Tag()
	if rule == "notblank" {
		rule = RuleRequired
	}

	return &ValidationError{
		Field:   field,
		Rule:    rule,
		Message: validator.ValidationErrorMessage(fe),
	}
}
