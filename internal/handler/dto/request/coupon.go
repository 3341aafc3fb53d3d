package request

import (
	"bytes"
	"strings"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/pkg/patch"
	"coupon-engine/internal/usecase/commands"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Date is a calendar date carried as "YYYY-MM-DD".
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

// Payload is a free-form JSON object. Numbers stay json.Number so product ids past
// 2^53 keep every digit.
type Payload map[string]any

func (p *Payload) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*p = m
	return nil
}

type CouponRequest struct {
	Type       string  `json:"type" binding:"required,oneof=CART_WISE PRODUCT_WISE BXGY"`
	Status     *string `json:"status" binding:"omitempty,oneof=ACTIVE USED EXPIRED"`
	ExpiryDate *Date   `json:"expiry_date"`
	Details    Payload `json:"details" binding:"required"`
	Conditions Payload `json:"conditions"`
}

func (r *CouponRequest) ToInput() commands.CouponInput {
	return commands.CouponInput{
		Type:       r.Type,
		Status:     patch.Coalesce(r.Status, ""),
		ExpiryDate: r.ExpiryDate.TimePtr(),
		Details:    map[string]any(r.Details),
		Conditions: map[string]any(r.Conditions),
	}
}

// Quantities and prices are taken as given.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}

// CartPayload is the {"cart": {...}} envelope shared by the evaluation endpoints.
type CartPayload struct {
	Cart *Cart `json:"cart" binding:"required"`
}

func (p *CartPayload) ToDomain() coupon.Cart {
	items := make([]coupon.Item, 0, len(p.Cart.Items))
	for _, it := range p.Cart.Items {
		items = append(items, coupon.Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return coupon.NewCart(items...)
}
