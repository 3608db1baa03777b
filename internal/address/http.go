package address

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-core/pkg/errors"
	"shop-core/pkg/middleware"
)

// HTTPHandler handles HTTP requests for addresses
type HTTPHandler struct {
	store *PostgresStore
}

// NewHTTPHandler creates a new address HTTP handler
func NewHTTPHandler(store *PostgresStore) *HTTPHandler {
	return &HTTPHandler{store: store}
}

// RegisterRoutes registers the address routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	addresses := r.Group("/addresses")
	{
		addresses.GET("", h.List)
		addresses.POST("", h.Create)
		addresses.DELETE("/:id", h.Delete)
	}
}

// CreateAddressRequest is the request body for creating an address
type CreateAddressRequest struct {
	RecipientName  string `json:"recipient_name" binding:"required"`
	RecipientPhone string `json:"recipient_phone" binding:"required"`
	Province       string `json:"province" binding:"required"`
	District       string `json:"district" binding:"required"`
	Ward           string `json:"ward" binding:"required"`
	AddressDetail  string `json:"address_detail" binding:"required"`
	IsDefault      bool   `json:"is_default"`
}

// List handles GET /addresses
// @Summary List the user's delivery addresses
// @Tags addresses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/addresses [get]
func (h *HTTPHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	addrs, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     addrs,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Create handles POST /addresses
// @Summary Create a delivery address
// @Tags addresses
// @Accept json
// @Produce json
// @Param request body CreateAddressRequest true "Address"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse "Validation error"
// @Router /api/v1/addresses [post]
func (h *HTTPHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	var req CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	addr := &AddressModel{
		UserID:         userID,
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		Province:       req.Province,
		District:       req.District,
		Ward:           req.Ward,
		AddressDetail:  req.AddressDetail,
		IsDefault:      req.IsDefault,
	}
	if err := h.store.Create(c.Request.Context(), addr); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     addr,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Delete handles DELETE /addresses/:id
// @Summary Delete a delivery address
// @Tags addresses
// @Param id path string true "Address id"
// @Success 204 "Deleted"
// @Failure 404 {object} errors.ErrorResponse "Address not found"
// @Router /api/v1/addresses/{id} [delete]
func (h *HTTPHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	if err := h.store.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
