package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"coupon-engine/internal/domain/coupon"
	reqdto "coupon-engine/internal/handler/dto/request"
	resdto "coupon-engine/internal/handler/dto/response"
	"coupon-engine/internal/handler/httperr"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	cmds commands.CouponCommands
	q    queries.CouponQueries
}

func NewCouponHandler(cmds commands.CouponCommands, q queries.CouponQueries) *CouponHandler {
	return &CouponHandler{cmds: cmds, q: q}
}

// @Summary Create coupon
// @Description Create a CART_WISE, PRODUCT_WISE or BXGY coupon. Status defaults to ACTIVE.
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CouponRequest true "Coupon"
// @Success 201 {object} resdto.CreateCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req reqdto.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		abortWithCouponError(c, err, uuid.Nil)
		return
	}

	c.Header("Location", "/coupons/"+result.CouponID.String())
	c.JSON(http.StatusCreated, resdto.CreateCouponResponse{ID: result.CouponID.String()})
}

// @Summary List coupons
// @Description List every coupon, oldest first
// @Tags coupons
// @Produce json
// @Success 200 {array} resdto.CouponResponse
// @Failure 500 {object} httperr.Response
// @Router /coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		abortWithCouponError(c, err, uuid.Nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponViews(views))
}

// @Summary Get coupon
// @Tags coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := parseCouponID(c)
	if !ok {
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		abortWithCouponError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary Update coupon
// @Description Replace a coupon's status, expiry, details and conditions. The type cannot change.
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Param request body reqdto.CouponRequest true "Coupon"
// @Success 200 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := parseCouponID(c)
	if !ok {
		return
	}
	var req reqdto.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.cmds.Update(c.Request.Context(), id, req.ToInput()); err != nil {
		abortWithCouponError(c, err, id)
		return
	}

	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		abortWithCouponError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary Delete coupon
// @Description Delete a coupon. Used coupons are kept.
// @Tags coupons
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := parseCouponID(c)
	if !ok {
		return
	}
	if err := h.cmds.Delete(c.Request.Context(), id); err != nil {
		abortWithCouponError(c, err, id)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List applicable coupons
// @Description Evaluate every active coupon against the cart and return those with a positive discount
// @Tags evaluation
// @Accept json
// @Produce json
// @Param request body reqdto.CartPayload true "Cart"
// @Success 200 {object} resdto.ApplicableCouponsResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /applicable-coupons [post]
func (h *CouponHandler) Applicable(c *gin.Context) {
	var req reqdto.CartPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	items, err := h.q.ListApplicable(c.Request.Context(), req.ToDomain())
	if err != nil {
		abortWithCouponError(c, err, uuid.Nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromApplicable(items))
}

// @Summary Apply coupon
// @Description Validate the coupon against the cart, compute the discount and mark the coupon USED
// @Tags evaluation
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param request body reqdto.CartPayload true "Cart"
// @Success 200 {object} resdto.ApplyCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /apply-coupon/{id} [post]
func (h *CouponHandler) Apply(c *gin.Context) {
	id, ok := parseCouponID(c)
	if !ok {
		return
	}
	var req reqdto.CartPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Apply(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		abortWithCouponError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, resdto.FromApplyResult(result))
}

func parseCouponID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// Checked in order; the first match names the message.
var invalidReasons = []struct {
	err error
	msg string
}{
	{coupon.ErrAlreadyUsed, "Coupon already used"},
	{coupon.ErrInvalidConditions, "Invalid coupon conditions"},
	{coupon.ErrFewerItems, "Cart has fewer items than required"},
	{coupon.ErrConditionsNotMet, "Coupon conditions not met"},
	{coupon.ErrInvalidType, "Invalid coupon type"},
	{coupon.ErrInvalidStatus, "Invalid coupon status"},
	{coupon.ErrTypeChange, "Coupon type cannot be changed"},
	{coupon.ErrStatusTransition, "Illegal coupon status transition"},
	{coupon.ErrUsedNotDeletable, "Used coupons cannot be deleted"},
}

func abortWithCouponError(c *gin.Context, err error, id uuid.UUID) {
	switch {
	case errs.Is(err, coupon.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, fmt.Sprintf("Coupon with ID %s not found", id), nil)
	case errs.Is(err, coupon.ErrExpired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, fmt.Sprintf("Coupon %s is expired", id), nil)
	case errs.Is(err, coupon.ErrMalformedPayload):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Malformed coupon details", nil)
	case errs.Is(err, coupon.ErrConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Coupon was modified concurrently", nil)
	case errs.Is(err, coupon.ErrInvalid):
		msg := "Invalid coupon"
		for _, r := range invalidReasons {
			if errs.Is(err, r.err) {
				msg = r.msg
				break
			}
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
	default:
		slog.ErrorContext(c.Request.Context(), "coupon request failed",
			"path", c.FullPath(),
			"error", err.Error(),
			"stack", errs.ExtractStackLines(err, 12))
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
