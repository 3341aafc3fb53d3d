//go:build unit || e2e

package builder

import (
	"coupon-engine/internal/domain/coupon"
	reqdto "coupon-engine/internal/handler/dto/request"

	"github.com/shopspring/decimal"
)

type CartBuilder struct {
	Items []coupon.Item
}

func NewCartBuilder() *CartBuilder {
	return &CartBuilder{}
}

func (b *CartBuilder) WithItem(productID int64, quantity int, price int64) *CartBuilder {
	b.Items = append(b.Items, coupon.Item{
		ProductID: productID,
		Quantity:  quantity,
		Price:     decimal.NewFromInt(price),
	})
	return b
}

func (b *CartBuilder) WithPricedItem(productID int64, quantity int, price string) *CartBuilder {
	b.Items = append(b.Items, coupon.Item{
		ProductID: productID,
		Quantity:  quantity,
		Price:     decimal.RequireFromString(price),
	})
	return b
}

// Build methods
func (b *CartBuilder) BuildDomain() coupon.Cart {
	return coupon.NewCart(b.Items...)
}

func (b *CartBuilder) BuildRequestDTO() reqdto.CartPayload {
	items := make([]reqdto.CartItem, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, reqdto.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return reqdto.CartPayload{Cart: &reqdto.Cart{Items: items}}
}
