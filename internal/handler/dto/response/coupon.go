package response

import (
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

func init() {
	// money goes out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type CouponResponse struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	ExpiryDate *string        `json:"expiry_date" copier:"-"`
	Details    map[string]any `json:"details"`
	Conditions map[string]any `json:"conditions"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	res := &CouponResponse{}
	if err := copier.Copy(res, v); err != nil {
		panic(err)
	}
	res.ExpiryDate = formatDate(v.ExpiryDate)
	return res
}

func FromCouponViews(views []*queries.CouponView) []*CouponResponse {
	res := make([]*CouponResponse, len(views))
	for i, v := range views {
		res[i] = FromCouponView(v)
	}
	return res
}

func FromCoupon(c *coupon.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:         c.ID(),
		Type:       c.Type().String(),
		Status:     c.Status().String(),
		ExpiryDate: formatDate(c.ExpiryDate()),
		Details:    c.Details(),
		Conditions: c.Conditions(),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
}

type CreateCouponResponse struct {
	ID string `json:"id"`
}

type ApplicableCouponResponse struct {
	CouponID uuid.UUID       `json:"coupon_id"`
	Type     string          `json:"type"`
	Discount decimal.Decimal `json:"discount"`
}

type ApplicableCouponsResponse struct {
	ApplicableCoupons []ApplicableCouponResponse `json:"applicable_coupons"`
}

func FromApplicable(items []queries.ApplicableCoupon) *ApplicableCouponsResponse {
	res := make([]ApplicableCouponResponse, 0, len(items))
	if err := copier.Copy(&res, items); err != nil {
		panic(err)
	}
	return &ApplicableCouponsResponse{ApplicableCoupons: res}
}

type CartItemResponse struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type UpdatedCartResponse struct {
	Items         []CartItemResponse `json:"items"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	FinalPrice    decimal.Decimal    `json:"final_price"`
}

type ApplyCouponResponse struct {
	UpdatedCart UpdatedCartResponse `json:"updated_cart"`
	Coupon      *CouponResponse     `json:"coupon"`
}

func FromApplyResult(r *commands.ApplyResult) *ApplyCouponResponse {
	items := make([]CartItemResponse, 0, len(r.Cart.Items))
	if err := copier.Copy(&items, r.Cart.Items); err != nil {
		panic(err)
	}
	return &ApplyCouponResponse{
		UpdatedCart: UpdatedCartResponse{
			Items:         items,
			TotalPrice:    r.Total,
			TotalDiscount: r.Discount,
			FinalPrice:    r.FinalPrice,
		},
		Coupon: FromCoupon(r.Coupon),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
