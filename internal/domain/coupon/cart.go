package coupon

import (
	"slices"

	"github.com/shopspring/decimal"
)

type Item struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// LineTotal is price × quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is supplied per request and never stored. Quantities and prices are
// taken as given.
type Cart struct {
	Items []Item
}

func NewCart(items ...Item) Cart {
	return Cart{Items: items}
}

// Total is recomputed on every call.
func (c Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// TotalQuantity counts units, not distinct lines.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c Cart) Clone() Cart {
	return Cart{Items: slices.Clone(c.Items)}
}
