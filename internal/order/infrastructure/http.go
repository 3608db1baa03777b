package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shop-core/internal/order/application"
	"shop-core/internal/order/domain"
	"shop-core/pkg/errors"
	"shop-core/pkg/middleware"
)

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	useCase *application.OrderUseCase
}

// NewHTTPHandler creates a new order HTTP handler
func NewHTTPHandler(useCase *application.OrderUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the customer-facing order routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterAdminRoutes registers the operator order routes
func (h *HTTPHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.GET("", h.ListAll)
		orders.GET("/:id", h.GetAny)
		orders.PATCH("/:id/status", h.UpdateStatus)
	}
}

// BuyNowItemRequest is a direct-purchase line
type BuyNowItemRequest struct {
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the request body for placing an order
type CreateOrderRequest struct {
	AddressID     string              `json:"address_id" binding:"required"`
	PaymentMethod string              `json:"payment_method"`
	Note          string              `json:"note"`
	VoucherCode   string              `json:"voucher_code"`
	Type          string              `json:"type" binding:"omitempty,oneof=cart buy_now"`
	CartItemIDs   []string            `json:"cart_item_ids"`
	Items         []BuyNowItemRequest `json:"items"`
}

// OrderLineResponse is one line of an order
type OrderLineResponse struct {
	ID          string `json:"id"`
	VariantID   string `json:"variant_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	TotalPrice  int64  `json:"total_price"`
}

// OrderResponse is the response body for order operations
type OrderResponse struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	ShippingInfo   domain.ShippingInfo `json:"shipping_info"`
	SubtotalAmount int64               `json:"subtotal_amount"`
	ShippingFee    int64               `json:"shipping_fee"`
	DiscountAmount int64               `json:"discount_amount"`
	TotalAmount    int64               `json:"total_amount"`
	PaymentMethod  string              `json:"payment_method"`
	PaymentStatus  string              `json:"payment_status"`
	Note           string              `json:"note,omitempty"`
	VoucherID      *string             `json:"voucher_id,omitempty"`
	Status         string              `json:"status"`
	Lines          []OrderLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func toResponse(order *domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineResponse{
			ID:          line.ID,
			VariantID:   line.VariantID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Color:       line.Color,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
		}
	}

	return OrderResponse{
		ID:             order.ID,
		UserID:         order.UserID,
		ShippingInfo:   order.ShippingInfo,
		SubtotalAmount: order.SubtotalAmount,
		ShippingFee:    order.ShippingFee,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		Note:           order.Note,
		VoucherID:      order.VoucherID,
		Status:         string(order.Status),
		Lines:          lines,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// Create handles POST /orders
// @Summary Place an order from the cart or a direct purchase
// @Tags orders
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User id"
// @Param request body CreateOrderRequest true "Checkout"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse "Validation error"
// @Failure 409 {object} errors.ErrorResponse "Out of stock, voucher rejected or cart changed"
// @Router /api/v1/orders [post]
func (h *HTTPHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	orderType := req.Type
	if orderType == "" {
		orderType = application.OrderTypeCart
	}

	items := make([]application.BuyNowItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = application.BuyNowItem{VariantID: item.VariantID, Quantity: item.Quantity}
	}

	order, err := h.useCase.Create(c.Request.Context(), c.GetString(middleware.UserIDKey), application.CreateOrderInput{
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		VoucherCode:   req.VoucherCode,
		OrderType:     orderType,
		CartLineIDs:   req.CartItemIDs,
		BuyNowItems:   items,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// List handles GET /orders
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Param X-User-ID header string true "User id"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/orders [get]
func (h *HTTPHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	orders, err := h.useCase.ListForUser(c.Request.Context(), c.GetString(middleware.UserIDKey), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = toResponse(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     out,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Get handles GET /orders/:id
// @Summary Get one of the caller's orders
// @Tags orders
// @Produce json
// @Param X-User-ID header string true "User id"
// @Param id path string true "Order id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse "Order not found or not yours"
// @Router /api/v1/orders/{id} [get]
func (h *HTTPHandler) Get(c *gin.Context) {
	order, err := h.useCase.Get(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Cancel handles POST /orders/:id/cancel
// @Summary Cancel a pending order
// @Tags orders
// @Produce json
// @Param X-User-ID header string true "User id"
// @Param id path string true "Order id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse "Order not found or not yours"
// @Failure 409 {object} errors.ErrorResponse "Order is past the point of cancellation"
// @Router /api/v1/orders/{id}/cancel [post]
func (h *HTTPHandler) Cancel(c *gin.Context) {
	order, err := h.useCase.Cancel(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateStatusRequest is the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /admin/orders/:id/status
// @Summary Move an order along its lifecycle
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order id"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse "Order not found"
// @Failure 409 {object} errors.ErrorResponse "Illegal transition"
// @Router /api/v1/admin/orders/{id}/status [patch]
func (h *HTTPHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	order, err := h.useCase.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListAll handles GET /admin/orders
// @Summary List all orders
// @Tags orders
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/orders [get]
func (h *HTTPHandler) ListAll(c *gin.Context) {
	limit, offset := pagination(c)

	orders, err := h.useCase.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = toResponse(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     out,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetAny handles GET /admin/orders/:id
// @Summary Get any order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse "Order not found"
// @Router /api/v1/admin/orders/{id} [get]
func (h *HTTPHandler) GetAny(c *gin.Context) {
	order, err := h.useCase.Get(c.Request.Context(), c.Param("id"), "")
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
