package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Operation is the kind of form submission a record goes through.
type Operation uint8

const (
	OperationCreate Operation = iota
	OperationEdit
)

func (o Operation) String() string {
	switch o {
	case OperationCreate:
		return "create"
	case OperationEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// DeriveSlug computes the slug for name. Slugs are only derived on create,
// so for any other operation it returns ok=false and the caller keeps the
// slug it already has.
func DeriveSlug(name string, op Operation) (slug string, ok bool) {
	if op != OperationCreate {
		return "", false
	}
	return Slugify(name), true
}

// SlugForOperation returns the slug a record must carry after op.
func SlugForOperation(name, current string, op Operation) string {
	if slug, ok := DeriveSlug(name, op); ok {
		return slug
	}
	return current
}

// latinFold spells out lower-case Latin letters that have no decomposition.
var latinFold = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"đ", "d",
	"ð", "d",
	"þ", "th",
	"ł", "l",
	"ı", "i",
	"ħ", "h",
	"ŧ", "t",
	"ŋ", "n",
)

// Slugify lower-cases s, folds accented letters to ASCII and joins the
// remaining alphanumeric runs with single hyphens. Letters outside the Latin
// script are dropped.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = latinFold.Replace(strings.ToLower(folded))

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	return b.String()
}
