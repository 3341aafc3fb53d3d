package coupon

import (
	"bytes"
	"fmt"
	"strconv"

	"coupon-engine/internal/pkg/errs"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Rule is the typed form of a coupon's details. The set of variants is closed:
// one per Type.
type Rule interface {
	Type() Type
	isRule()
}

type CartWiseRule struct {
	Threshold decimal.Decimal
	Percent   decimal.Decimal
}

type ProductWiseRule struct {
	ProductID int64
	Percent   decimal.Decimal
}

type ProductQuantity struct {
	ProductID int64
	Quantity  int
}

// BxGyRule keeps every entry of both lists, but only the first of each drives the
// required and free quantities. All buy entries count toward the buy total.
type BxGyRule struct {
	Buy []ProductQuantity
	Get []ProductQuantity
}

func (CartWiseRule) Type() Type    { return TypeCartWise }
func (ProductWiseRule) Type() Type { return TypeProductWise }
func (BxGyRule) Type() Type        { return TypeBxGy }

func (CartWiseRule) isRule()    {}
func (ProductWiseRule) isRule() {}
func (BxGyRule) isRule()        {}

func (r BxGyRule) buys(productID int64) bool {
	for _, b := range r.Buy {
		if b.ProductID == productID {
			return true
		}
	}
	return false
}

type cartWiseDetails struct {
	Threshold *decimal.Decimal `json:"threshold"`
	Discount  *decimal.Decimal `json:"discount"`
}

type productWiseDetails struct {
	ProductID *productID       `json:"product_id"`
	Discount  *decimal.Decimal `json:"discount"`
}

type productQuantityDetails struct {
	ProductID *productID   `json:"product_id"`
	Quantity  *wholeNumber `json:"quantity"`
}

// productID takes a JSON integer or a string holding one, e.g. 7 or "7".
type productID int64

func (p *productID) UnmarshalJSON(b []byte) error {
	text := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return errs.Wrapf(err, "product_id %s", b)
	}
	*p = productID(n)
	return nil
}

// wholeNumber takes any JSON number and drops the fraction, so 2.9 reads as 2.
type wholeNumber int

func (w *wholeNumber) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		return errs.Newf("expected a number, got %s", b)
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return errs.Wrapf(err, "number %s", b)
	}
	*w = wholeNumber(d.IntPart())
	return nil
}

type bxgyDetails struct {
	BuyProducts []productQuantityDetails `json:"buy_products"`
	GetProducts []productQuantityDetails `json:"get_products"`
}

// ParseRule decodes details into the variant for t. details is normally an object
// but may be any stored JSON value. Unknown keys are ignored; anything missing or
// undecodable fails with ErrMalformedPayload.
func ParseRule(t Type, details any) (Rule, error) {
	if isEmptyPayload(details) {
		return nil, malformed(errs.New("details are empty"), t)
	}

	switch t {
	case TypeCartWise:
		var d cartWiseDetails
		if err := decodePayload(details, &d); err != nil {
			return nil, malformed(err, t)
		}
		if d.Threshold == nil || d.Discount == nil {
			return nil, malformed(errs.New("threshold and discount are required"), t)
		}
		return CartWiseRule{Threshold: *d.Threshold, Percent: *d.Discount}, nil

	case TypeProductWise:
		var d productWiseDetails
		if err := decodePayload(details, &d); err != nil {
			return nil, malformed(err, t)
		}
		if d.ProductID == nil || d.Discount == nil {
			return nil, malformed(errs.New("product_id and discount are required"), t)
		}
		return ProductWiseRule{ProductID: int64(*d.ProductID), Percent: *d.Discount}, nil

	case TypeBxGy:
		var d bxgyDetails
		if err := decodePayload(details, &d); err != nil {
			return nil, malformed(err, t)
		}
		buy, err := toProductQuantities("buy_products", d.BuyProducts)
		if err != nil {
			return nil, malformed(err, t)
		}
		get, err := toProductQuantities("get_products", d.GetProducts)
		if err != nil {
			return nil, malformed(err, t)
		}
		return BxGyRule{Buy: buy, Get: get}, nil

	default:
		panic(fmt.Sprintf("coupon: unhandled type %q", t))
	}
}

func toProductQuantities(field string, in []productQuantityDetails) ([]ProductQuantity, error) {
	if len(in) == 0 {
		return nil, errs.Newf("%s must not be empty", field)
	}
	out := make([]ProductQuantity, 0, len(in))
	for i, pq := range in {
		if pq.ProductID == nil || pq.Quantity == nil {
			return nil, errs.Newf("%s[%d] needs product_id and quantity", field, i)
		}
		out = append(out, ProductQuantity{ProductID: int64(*pq.ProductID), Quantity: int(*pq.Quantity)})
	}
	return out, nil
}

func isEmptyPayload(v any) bool {
	switch p := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(p) == 0
	default:
		return false
	}
}

// decodePayload round-trips a loosely typed value into dst.
func decodePayload(src any, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
