package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Category is the risk category. Stored as free text, so unknown values are kept verbatim.
type Category string

const (
	CategoryOperational     Category = "Operacional"
	CategoryLegalRegulatory Category = "Legal / Regulatório"
	CategoryTechnological   Category = "Tecnológico"
	CategoryFinancial       Category = "Financeiro"
	CategoryRegulatory      Category = "Regulatório"
)

// AllCategories returns the chart buckets in display order
func AllCategories() []Category {
	return []Category{
		CategoryOperational,
		CategoryLegalRegulatory,
		CategoryTechnological,
		CategoryFinancial,
		CategoryRegulatory,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryOperational,
		CategoryLegalRegulatory,
		CategoryTechnological,
		CategoryFinancial,
		CategoryRegulatory:
		return true
	default:
		return false
	}
}

// InBucket reports whether a risk of category c is counted in the chart bucket.
// The Legal / Regulatório bucket matches by substring, the others exactly.
func (c Category) InBucket(bucket Category) bool {
	if bucket == CategoryLegalRegulatory {
		return strings.Contains(string(c), "Legal") || strings.Contains(string(c), "Regulatório")
	}
	return c == bucket
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory parses one of the known categories
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", goerr.Wrap(ErrInvalidCategory, "parse category", goerr.V(ValueKey, s))
	}
	return c, nil
}
