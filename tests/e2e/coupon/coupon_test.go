//go:build e2e

package coupon_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"coupon-engine/internal/domain/auth"
	"coupon-engine/internal/handler/dto/response"
	"coupon-engine/tests/common/authtest"
	"coupon-engine/tests/common/builder"
	"coupon-engine/tests/common/dbtest"
	"coupon-engine/tests/common/httptest"
	"coupon-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	couponsURL    = "/coupons"
	couponURL     = "/coupons/%s"
	applicableURL = "/applicable-coupons"
	applyURL      = "/apply-coupon/%s"
)

type CouponSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *CouponSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *CouponSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestCouponSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CouponSuite))
}

type applicableBody struct {
	ApplicableCoupons []struct {
		CouponID string  `json:"coupon_id"`
		Type     string  `json:"type"`
		Discount float64 `json:"discount"`
	} `json:"applicable_coupons"`
}

type applyBody struct {
	UpdatedCart struct {
		Items []struct {
			ProductID int64   `json:"product_id"`
			Quantity  int     `json:"quantity"`
			Price     float64 `json:"price"`
		} `json:"items"`
		TotalPrice    float64 `json:"total_price"`
		TotalDiscount float64 `json:"total_discount"`
		FinalPrice    float64 `json:"final_price"`
	} `json:"updated_cart"`
	Coupon response.CouponResponse `json:"coupon"`
}

func (s *CouponSuite) createCoupon(t *testing.T, b *builder.CouponBuilder) string {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL, b.BuildCreateRequestDTO(), s.jwt.OperatorToken(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]string
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	require.NotEmpty(t, created["id"])
	return created["id"]
}

// =============================================================================
// TestCouponCatalog - CRUD over /coupons
// =============================================================================

func (s *CouponSuite) TestCouponCatalog() {
	s.Run("Normal case: operator creates, reads, updates and deletes a coupon", func() {
		t := s.T()
		token := s.jwt.OperatorToken(t)

		expiry := time.Now().AddDate(0, 1, 0)
		id := s.createCoupon(t, builder.NewCouponBuilder().AsProductWise(7, 15).WithExpiryDate(expiry).WithMinItems(2))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(couponURL, id), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var got response.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))

		wantExpiry := expiry.Format(time.DateOnly)
		want := response.CouponResponse{
			Type:       "PRODUCT_WISE",
			Status:     "ACTIVE",
			ExpiryDate: &wantExpiry,
			Details:    map[string]any{"product_id": float64(7), "discount": float64(15)},
			Conditions: map[string]any{"min_items": float64(2)},
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.CouponResponse{}, "ID", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(want, got, opts...); diff != "" {
			t.Errorf("coupon mismatch (-want +got):\n%s", diff)
		}

		update := builder.NewCouponBuilder().AsProductWise(7, 30).WithStatus("EXPIRED").BuildCreateRequestDTO()
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(couponURL, id), update, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))
		require.Equal(t, "EXPIRED", got.Status)
		require.EqualValues(t, 30, got.Details["discount"])
		require.Nil(t, got.ExpiryDate)

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(couponURL, id), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(couponURL, id), nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Coupon with ID "+id+" not found")
	})

	s.Run("Normal case: list returns coupons oldest first", func() {
		t := s.T()
		first := s.createCoupon(t, builder.NewCouponBuilder())
		second := s.createCoupon(t, builder.NewCouponBuilder().AsBxGy(1, 2, 2, 1))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var list []response.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &list))
		require.Len(t, list, 2)
		require.Equal(t, first, list[0].ID.String())
		require.Equal(t, second, list[1].ID.String())
	})

	s.Run("Error case: type cannot change on update", func() {
		t := s.T()
		id := s.createCoupon(t, builder.NewCouponBuilder())

		update := builder.NewCouponBuilder().AsProductWise(1, 10).BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(couponURL, id), update, s.jwt.OperatorToken(t))
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Coupon type cannot be changed")
	})

	s.Run("Error case: details that do not fit the type are rejected", func() {
		t := s.T()
		req := builder.NewCouponBuilder().WithDetails(map[string]any{"threshold": 100}).BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL, req, s.jwt.OperatorToken(t))
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Malformed coupon details")
		require.Equal(t, 0, dbtest.CountCoupons(t, s.DB))
	})

	s.Run("Error case: used coupons cannot be deleted", func() {
		t := s.T()
		id := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().AsUsed().BuildInfra())

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(couponURL, id), nil, s.jwt.OperatorToken(t))
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Used coupons cannot be deleted")
		require.Equal(t, "USED", dbtest.CouponStatus(t, s.DB, id))
	})

	s.Run("Error case: catalog writes need an operator token", func() {
		t := s.T()
		req := builder.NewCouponBuilder().BuildCreateRequestDTO()

		cases := []struct {
			name   string
			token  string
			status int
		}{
			{name: "no token", token: "", status: http.StatusUnauthorized},
			{name: "expired token", token: s.jwt.CreateExpiredToken(t, "operator-e2e", auth.RoleOperator), status: http.StatusUnauthorized},
			{name: "foreign signature", token: s.jwt.SignedWithOtherSecret(t), status: http.StatusUnauthorized},
			{name: "viewer role", token: s.jwt.GenerateToken(t, "viewer-e2e", auth.RoleViewer), status: http.StatusForbidden},
		}
		for _, tc := range cases {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL, req, tc.token)
			require.Equal(t, tc.status, w.Code, tc.name)
		}
		require.Equal(t, 0, dbtest.CountCoupons(t, s.DB))
	})
}

// =============================================================================
// TestApplicableCoupons - POST /applicable-coupons
// =============================================================================

func (s *CouponSuite) TestApplicableCoupons() {
	cart := builder.NewCartBuilder().WithItem(1, 6, 50).WithItem(2, 3, 30).WithItem(3, 2, 25)

	s.Run("Normal case: returns coupons with a positive discount and expires stale ones", func() {
		t := s.T()
		base := time.Now().Add(-time.Hour)
		at := func(n int) func(*builder.CouponBuilder) {
			return func(b *builder.CouponBuilder) {
				b.CreatedAt = base.Add(time.Duration(n) * time.Minute)
				b.UpdatedAt = b.CreatedAt
			}
		}

		cartWise := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().AsCartWise(100, 10).With(at(1)).BuildInfra())
		productWise := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().AsProductWise(1, 20).With(at(2)).BuildInfra())
		bxgy := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().AsBxGy(1, 3, 3, 1).With(at(3)).BuildInfra())
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().AsProductWise(99, 50).With(at(4)).BuildInfra())
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().AsCartWise(10, 5).AsUsed().With(at(5)).BuildInfra())
		stale := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			AsCartWise(10, 50).
			WithExpiryDate(time.Now().AddDate(0, 0, -2)).
			With(at(6)).
			BuildInfra())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applicableURL, cart.BuildRequestDTO(), "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body applicableBody
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.ApplicableCoupons, 3)

		// cart total 440
		require.Equal(t, cartWise.String(), body.ApplicableCoupons[0].CouponID)
		require.InDelta(t, 44, body.ApplicableCoupons[0].Discount, 1e-9)
		require.Equal(t, productWise.String(), body.ApplicableCoupons[1].CouponID)
		require.InDelta(t, 60, body.ApplicableCoupons[1].Discount, 1e-9)
		require.Equal(t, bxgy.String(), body.ApplicableCoupons[2].CouponID)
		require.InDelta(t, 25, body.ApplicableCoupons[2].Discount, 1e-9)

		require.Equal(t, "EXPIRED", dbtest.CouponStatus(t, s.DB, stale))
	})

	s.Run("Normal case: min_items keeps a coupon out until the cart is big enough", func() {
		t := s.T()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().AsCartWise(0, 10).WithMinItems(12).BuildInfra())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applicableURL, cart.BuildRequestDTO(), "")
		require.Equal(t, http.StatusOK, w.Code)
		var body applicableBody
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Empty(t, body.ApplicableCoupons)

		bigger := builder.NewCartBuilder().WithItem(1, 12, 10).BuildRequestDTO()
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, applicableURL, bigger, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.ApplicableCoupons, 1)
	})

	s.Run("Normal case: a damaged payload is skipped", func() {
		t := s.T()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().WithDetails(map[string]any{"discount": "x"}).BuildInfra())
		ok := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().AsProductWise(2, 10).BuildInfra())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applicableURL, cart.BuildRequestDTO(), "")
		require.Equal(t, http.StatusOK, w.Code)
		var body applicableBody
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.ApplicableCoupons, 1)
		require.Equal(t, ok.String(), body.ApplicableCoupons[0].CouponID)
	})
}

// =============================================================================
// TestApplyCoupon - POST /apply-coupon/:id
// =============================================================================

func (s *CouponSuite) TestApplyCoupon() {
	cart := builder.NewCartBuilder().WithItem(1, 3, 100)

	s.Run("Normal case: applies the discount and marks the coupon used", func() {
		t := s.T()
		id := s.createCoupon(t, builder.NewCouponBuilder().AsCartWise(250, 10))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, id), cart.BuildRequestDTO(), "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body applyBody
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.InDelta(t, 300, body.UpdatedCart.TotalPrice, 1e-9)
		require.InDelta(t, 30, body.UpdatedCart.TotalDiscount, 1e-9)
		require.InDelta(t, 270, body.UpdatedCart.FinalPrice, 1e-9)
		require.Len(t, body.UpdatedCart.Items, 1)
		require.Equal(t, "USED", body.Coupon.Status)
		require.Equal(t, "USED", dbtest.CouponStatus(t, s.DB, uuid.MustParse(id)))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, id), cart.BuildRequestDTO(), "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Coupon already used")
	})

	s.Run("Normal case: the final price is not floored at zero", func() {
		t := s.T()
		id := s.createCoupon(t, builder.NewCouponBuilder().AsBxGy(1, 1, 2, 5))
		small := builder.NewCartBuilder().WithItem(1, 1, 10).WithItem(2, 1, 40)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, id), small.BuildRequestDTO(), "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body applyBody
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.InDelta(t, -150, body.UpdatedCart.FinalPrice, 1e-9)
	})

	s.Run("Error case: a zero discount is rejected and leaves the coupon active", func() {
		t := s.T()
		id := s.createCoupon(t, builder.NewCouponBuilder().AsCartWise(500, 10))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, id), cart.BuildRequestDTO(), "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Coupon conditions not met")
		require.Equal(t, "ACTIVE", dbtest.CouponStatus(t, s.DB, uuid.MustParse(id)))
	})

	s.Run("Error case: an expired coupon is rejected and stored as expired", func() {
		t := s.T()
		id := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			AsCartWise(10, 10).
			WithExpiryDate(time.Now().AddDate(0, 0, -2)).
			BuildInfra())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, id), cart.BuildRequestDTO(), "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "is expired")
		require.Equal(t, "EXPIRED", dbtest.CouponStatus(t, s.DB, id))
	})

	s.Run("Error case: fewer items than min_items", func() {
		t := s.T()
		id := s.createCoupon(t, builder.NewCouponBuilder().AsCartWise(10, 10).WithMinItems(5))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, id), cart.BuildRequestDTO(), "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Cart has fewer items than required")
	})

	s.Run("Error case: damaged details surface as unprocessable", func() {
		t := s.T()
		id := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			AsBxGy(1, 1, 2, 1).
			WithDetails(map[string]any{"buy_products": []any{}}).
			BuildInfra())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, id), cart.BuildRequestDTO(), "")
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Malformed coupon details")
	})

	s.Run("Error case: stored payloads that are not objects keep their error class", func() {
		t := s.T()
		badConditions := builder.NewCouponBuilder().AsCartWise(10, 10).BuildInfra()
		badConditions.Conditions = []byte(`[1,2]`)
		condID := dbtest.InsertCoupon(t, s.DB, badConditions)

		badDetails := builder.NewCouponBuilder().BuildInfra()
		badDetails.Details = []byte(`"oops"`)
		detailsID := dbtest.InsertCoupon(t, s.DB, badDetails)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, condID), cart.BuildRequestDTO(), "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid coupon conditions")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, detailsID), cart.BuildRequestDTO(), "")
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Malformed coupon details")

		require.Equal(t, "ACTIVE", dbtest.CouponStatus(t, s.DB, condID))
		require.Equal(t, "ACTIVE", dbtest.CouponStatus(t, s.DB, detailsID))
	})

	s.Run("Normal case: product ids as strings and past float precision", func() {
		t := s.T()
		const wideID = "9007199254740993"
		body := `{"type":"PRODUCT_WISE","details":{"product_id":"1","discount":10}}`
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, couponsURL, body, s.jwt.OperatorToken(t))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, created.ID), cart.BuildRequestDTO(), "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var applied applyBody
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &applied))
		require.InDelta(t, 30, applied.UpdatedCart.TotalDiscount, 1e-9)

		body = `{"type":"PRODUCT_WISE","details":{"product_id":` + wideID + `,"discount":50}}`
		w = httptest.PerformRawRequest(t, s.Router, http.MethodPost, couponsURL, body, s.jwt.OperatorToken(t))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		wideCart := `{"cart":{"items":[{"product_id":` + wideID + `,"quantity":1,"price":20},{"product_id":9007199254740992,"quantity":1,"price":1000}]}}`
		w = httptest.PerformRawRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, created.ID), wideCart, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &applied))
		require.InDelta(t, 10, applied.UpdatedCart.TotalDiscount, 1e-9)
	})

	s.Run("Error case: malformed cart bodies are rejected before evaluation", func() {
		t := s.T()
		id := s.createCoupon(t, builder.NewCouponBuilder().AsCartWise(10, 10))
		url := fmt.Sprintf(applyURL, id)

		bodies := []string{
			`{"cart":{"items":[{"product_id":1,"quantity":1,"price":"ten"}]}}`,
			`{"items":[]}`,
			`{"cart":`,
		}
		for _, body := range bodies {
			w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, url, body, "")
			httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid request")
		}
		require.Equal(t, "ACTIVE", dbtest.CouponStatus(t, s.DB, uuid.MustParse(id)))
	})

	s.Run("Error case: unknown coupon", func() {
		t := s.T()
		id := uuid.New().String()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(applyURL, id), cart.BuildRequestDTO(), "")
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Coupon with ID "+id+" not found")
	})

	s.Run("Concurrency: only one of two simultaneous applies succeeds", func() {
		t := s.T()
		id := s.createCoupon(t, builder.NewCouponBuilder().AsCartWise(250, 10))
		url := fmt.Sprintf(applyURL, id)

		const attempts = 2
		codes := make([]int, attempts)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				codes[i] = httptest.PerformRequest(t, s.Router, http.MethodPost, url, cart.BuildRequestDTO(), "").Code
			}()
		}
		close(start)
		wg.Wait()

		succeeded := 0
		for _, code := range codes {
			switch code {
			case http.StatusOK:
				succeeded++
			case http.StatusConflict, http.StatusBadRequest:
			default:
				t.Errorf("unexpected status %d", code)
			}
		}
		require.Equal(t, 1, succeeded, "codes: %v", codes)
		require.Equal(t, "USED", dbtest.CouponStatus(t, s.DB, uuid.MustParse(id)))
	})
}
