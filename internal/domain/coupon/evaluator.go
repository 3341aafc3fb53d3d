package coupon

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount evaluates the coupon's rule against the cart. Status, expiry and
// conditions are the Validator's concern and are not looked at here.
func Discount(c *Coupon, cart Cart) (decimal.Decimal, error) {
	rule, err := ParseRule(c.couponType, c.details)
	if err != nil {
		return decimal.Zero, err
	}
	return Evaluate(rule, cart), nil
}

func Evaluate(rule Rule, cart Cart) decimal.Decimal {
	switch r := rule.(type) {
	case CartWiseRule:
		return cartWiseDiscount(r, cart)
	case ProductWiseRule:
		return productWiseDiscount(r, cart)
	case BxGyRule:
		return bxgyDiscount(r, cart)
	default:
		panic(fmt.Sprintf("coupon: unhandled rule %T", rule))
	}
}

// The threshold is exclusive: a cart exactly at it earns nothing.
func cartWiseDiscount(r CartWiseRule, cart Cart) decimal.Decimal {
	total := cart.Total()
	if !total.GreaterThan(r.Threshold) {
		return decimal.Zero
	}
	return total.Mul(r.Percent).Div(hundred)
}

func productWiseDiscount(r ProductWiseRule, cart Cart) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range cart.Items {
		if item.ProductID == r.ProductID {
			sum = sum.Add(item.LineTotal().Mul(r.Percent).Div(hundred))
		}
	}
	return sum
}

// The free quantity is granted in full once any line of the free product exists,
// whatever quantity that line holds.
func bxgyDiscount(r BxGyRule, cart Cart) decimal.Decimal {
	required := r.Buy[0].Quantity
	free := r.Get[0]

	count := 0
	for _, item := range cart.Items {
		if r.buys(item.ProductID) {
			count += item.Quantity
		}
	}
	if count < required {
		return decimal.Zero
	}

	for _, item := range cart.Items {
		if item.ProductID == free.ProductID {
			return item.Price.Mul(decimal.NewFromInt(int64(free.Quantity)))
		}
	}
	return decimal.Zero
}
