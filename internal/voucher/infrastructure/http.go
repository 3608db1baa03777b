package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop-core/internal/voucher/application"
	"shop-core/internal/voucher/domain"
	"shop-core/pkg/errors"
	"shop-core/pkg/middleware"
)

// HTTPHandler handles HTTP requests for vouchers
type HTTPHandler struct {
	useCase *application.VoucherUseCase
}

// NewHTTPHandler creates a new voucher HTTP handler
func NewHTTPHandler(useCase *application.VoucherUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the customer-facing voucher routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	vouchers := r.Group("/vouchers")
	{
		vouchers.POST("/check", h.Check)
	}
}

// RegisterAdminRoutes registers the operator voucher routes
func (h *HTTPHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	vouchers := r.Group("/vouchers")
	{
		vouchers.GET("", h.List)
		vouchers.GET("/:id", h.Get)
		vouchers.POST("", h.Create)
		vouchers.PATCH("/:id", h.Update)
		vouchers.DELETE("/:id", h.Delete)
	}
}

// CheckRequest is the request body for quoting a voucher
type CheckRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal int64  `json:"subtotal" binding:"required,gt=0"`
}

// CheckResponse is the response body for a voucher quote
type CheckResponse struct {
	VoucherID      string `json:"voucher_id"`
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discount_amount"`
}

// Check handles POST /vouchers/check
// @Summary Quote a voucher against an order subtotal
// @Tags vouchers
// @Accept json
// @Produce json
// @Param request body CheckRequest true "Code and subtotal"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse "Unknown code"
// @Failure 409 {object} errors.ErrorResponse "Expired, exhausted or below minimum"
// @Router /api/v1/vouchers/check [post]
func (h *HTTPHandler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	quote, err := h.useCase.ValidateAndQuote(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": CheckResponse{
			VoucherID:      quote.VoucherID,
			Code:           quote.Code,
			DiscountAmount: quote.DiscountAmount,
		},
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// CreateVoucherRequest is the request body for creating a voucher
type CreateVoucherRequest struct {
	Code              string    `json:"code" binding:"required"`
	Description       string    `json:"description"`
	DiscountType      string    `json:"discount_type" binding:"required,oneof=fixed percentage"`
	DiscountValue     int64     `json:"discount_value" binding:"required,gt=0"`
	MaxDiscountAmount int64     `json:"max_discount_amount"`
	MinOrderValue     int64     `json:"min_order_value"`
	StartDate         time.Time `json:"start_date" binding:"required"`
	EndDate           time.Time `json:"end_date" binding:"required"`
	UsageLimit        int       `json:"usage_limit" binding:"required,gt=0"`
}

// UpdateVoucherRequest is the request body for updating a voucher
type UpdateVoucherRequest struct {
	Description       *string    `json:"description"`
	DiscountValue     *int64     `json:"discount_value"`
	MaxDiscountAmount *int64     `json:"max_discount_amount"`
	MinOrderValue     *int64     `json:"min_order_value"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	UsageLimit        *int       `json:"usage_limit"`
	IsActive          *bool      `json:"is_active"`
}

// VoucherResponse is the response body for voucher operations
type VoucherResponse struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	Description       string    `json:"description"`
	DiscountType      string    `json:"discount_type"`
	DiscountValue     int64     `json:"discount_value"`
	MaxDiscountAmount int64     `json:"max_discount_amount"`
	MinOrderValue     int64     `json:"min_order_value"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	UsageLimit        int       `json:"usage_limit"`
	UsedCount         int       `json:"used_count"`
	IsActive          bool      `json:"is_active"`
}

func toResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:                v.ID,
		Code:              v.Code,
		Description:       v.Description,
		DiscountType:      string(v.DiscountType),
		DiscountValue:     v.DiscountValue,
		MaxDiscountAmount: v.MaxDiscountAmount,
		MinOrderValue:     v.MinOrderValue,
		StartDate:         v.StartDate,
		EndDate:           v.EndDate,
		UsageLimit:        v.UsageLimit,
		UsedCount:         v.UsedCount,
		IsActive:          v.IsActive,
	}
}

// List handles GET /admin/vouchers
// @Summary List all vouchers
// @Tags vouchers
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/vouchers [get]
func (h *HTTPHandler) List(c *gin.Context) {
	vouchers, err := h.useCase.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		out[i] = toResponse(v)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     out,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Get handles GET /admin/vouchers/:id
// @Summary Get a voucher by id
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse "Voucher not found"
// @Router /api/v1/admin/vouchers/{id} [get]
func (h *HTTPHandler) Get(c *gin.Context) {
	voucher, err := h.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(voucher),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Create handles POST /admin/vouchers
// @Summary Create a voucher
// @Tags vouchers
// @Accept json
// @Produce json
// @Param request body CreateVoucherRequest true "Voucher"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse "Validation error"
// @Router /api/v1/admin/vouchers [post]
func (h *HTTPHandler) Create(c *gin.Context) {
	var req CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	voucher, err := h.useCase.Create(c.Request.Context(), application.CreateVoucherInput{
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinOrderValue:     req.MinOrderValue,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		UsageLimit:        req.UsageLimit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(voucher),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Update handles PATCH /admin/vouchers/:id
// @Summary Update a voucher
// @Tags vouchers
// @Accept json
// @Produce json
// @Param id path string true "Voucher id"
// @Param request body UpdateVoucherRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse "Voucher not found"
// @Router /api/v1/admin/vouchers/{id} [patch]
func (h *HTTPHandler) Update(c *gin.Context) {
	var req UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	voucher, err := h.useCase.Update(c.Request.Context(), c.Param("id"), application.UpdateVoucherInput{
		Description:       req.Description,
		DiscountValue:     req.DiscountValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinOrderValue:     req.MinOrderValue,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		UsageLimit:        req.UsageLimit,
		IsActive:          req.IsActive,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(voucher),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Delete handles DELETE /admin/vouchers/:id
// @Summary Delete a voucher
// @Tags vouchers
// @Param id path string true "Voucher id"
// @Success 204 "Deleted"
// @Failure 404 {object} errors.ErrorResponse "Voucher not found"
// @Router /api/v1/admin/vouchers/{id} [delete]
func (h *HTTPHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
