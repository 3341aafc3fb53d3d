package converter

import (
	"coupon-engine/internal/domain/coupon"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/pkg/pgconv"
)

func CouponToInsertParams(c *coupon.Coupon) (sqlc.InsertCouponParams, error) {
	details, conditions, err := encodePayloads(c)
	if err != nil {
		return sqlc.InsertCouponParams{}, err
	}
	return sqlc.InsertCouponParams{
		ID:         c.ID(),
		Type:       c.Type().String(),
		Status:     c.Status().String(),
		ExpiryDate: pgconv.DatePtrToPgtype(c.ExpiryDate()),
		Details:    details,
		Conditions: conditions,
		CreatedAt:  pgconv.TimeToPgtype(c.CreatedAt()),
		UpdatedAt:  pgconv.TimeToPgtype(c.UpdatedAt()),
	}, nil
}

func CouponToUpdateParams(c *coupon.Coupon) (sqlc.UpdateCouponParams, error) {
	details, conditions, err := encodePayloads(c)
	if err != nil {
		return sqlc.UpdateCouponParams{}, err
	}
	return sqlc.UpdateCouponParams{
		ID:         c.ID(),
		Status:     c.Status().String(),
		ExpiryDate: pgconv.DatePtrToPgtype(c.ExpiryDate()),
		Details:    details,
		Conditions: conditions,
		UpdatedAt:  pgconv.TimeToPgtype(c.UpdatedAt()),
	}, nil
}

// CouponFromRow rebuilds the aggregate. Payloads load whatever JSON they hold; one
// that is not a valid rule or conditions object fails later, when it is used.
func CouponFromRow(row sqlc.Coupons) (*coupon.Coupon, error) {
	details, err := pgconv.ValueFromJSONB(row.Details)
	if err != nil {
		return nil, errs.Wrap(err, "decode details column")
	}
	conditions, err := pgconv.ValueFromJSONB(row.Conditions)
	if err != nil {
		return nil, errs.Wrap(err, "decode conditions column")
	}

	return coupon.ReconstructCoupon(
		row.ID,
		coupon.Type(row.Type),
		coupon.Status(row.Status),
		pgconv.DatePtrFromPgtype(row.ExpiryDate),
		details,
		conditions,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

func encodePayloads(c *coupon.Coupon) ([]byte, []byte, error) {
	details, err := pgconv.JSONBFromMap(c.Details())
	if err != nil {
		return nil, nil, errs.Wrap(err, "encode details")
	}
	conditions, err := pgconv.JSONBFromMap(c.Conditions())
	if err != nil {
		return nil, nil, errs.Wrap(err, "encode conditions")
	}
	return details, conditions, nil
}
