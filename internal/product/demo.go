package product

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	demoPerCategory = 3
	demoImage       = "https://images.pexels.com/photos/1387174/pexels-photo-1387174.jpeg?auto=compress&cs=tinysrgb&w=400"
)

// DemoCatalog builds the synthetic catalog served when the store is
// unreachable and demo fallback is enabled. It is deterministic: the same
// call always yields the same products in the same order.
func DemoCatalog() []Product {
	out := make([]Product, 0, len(Categories)*demoPerCategory)
	for ci, cat := range Categories {
		for i := 1; i <= demoPerCategory; i++ {
			n := ci*demoPerCategory + i
			out = append(out, Product{
				ID:          fmt.Sprintf("%d-%d", ci, i),
				Name:        fmt.Sprintf("Premium %s %d", cat, i),
				Category:    cat,
				Price:       decimal.NewFromInt(int64(100 + (n*37)%400)),
				Description: fmt.Sprintf("High-quality %s with vibrant colors and amazing effects. Perfect for celebrations and festivals.", strings.ToLower(cat)),
				Image:       demoImage,
				InStock:     n%10 != 0,
				Featured:    i == 1,
			})
		}
	}
	return out
}
