package product

import "github.com/shopspring/decimal"

// Product maps to the `products` table. Category is a free-standing label,
// not a foreign key.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name" validate:"required"`
	Category    string          `json:"category" db:"category" validate:"required,category"`
	Price       decimal.Decimal `json:"price" db:"price" validate:"gte=0"`
	Description string          `json:"description" db:"description"`
	Image       string          `json:"image" db:"image"`
	InStock     bool            `json:"inStock" db:"in_stock"`
	Featured    bool            `json:"featured" db:"featured"`
}

// Categories is the fixed catalog taxonomy.
var Categories = []string{
	"One sound crackers",
	"Electric crackers",
	"Deluxe crackers",
	"Garland crackers",
	"Ground chakkar",
	"Flower pots",
	"Atom bomb",
	"Rockets",
	"Twinkling Stars and Candles",
	"Kids special and candles",
	"Night aerial Attractions",
	"Aerial and festival repeating shots",
	"Festival mega repeating shots",
	"Sparklers",
	"Gift boxes and family pack",
	"2025 special crackers",
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}
