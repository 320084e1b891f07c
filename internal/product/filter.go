package product

import (
	"strings"

	"github.com/samber/lo"
)

// Filter narrows a product listing. Empty fields (or category "all") match
// everything.
type Filter struct {
	Category string
	Search   string
}

// Apply returns the products matching f, keeping their input order.
func (f Filter) Apply(products []Product) []Product {
	category := strings.TrimSpace(f.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	return lo.Filter(products, func(p Product, _ int) bool {
		if category != "" && p.Category != category {
			return false
		}
		return search == "" ||
			strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.Description), search)
	})
}
