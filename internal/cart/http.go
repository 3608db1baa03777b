package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-core/internal/catalog"
	"shop-core/pkg/errors"
	"shop-core/pkg/middleware"
)

// HTTPHandler handles HTTP requests for the cart
type HTTPHandler struct {
	store   *PostgresStore
	catalog *catalog.PostgresStore
}

// NewHTTPHandler creates a new cart HTTP handler
func NewHTTPHandler(store *PostgresStore, catalog *catalog.PostgresStore) *HTTPHandler {
	return &HTTPHandler{store: store, catalog: catalog}
}

// RegisterRoutes registers the cart routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	cart := r.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.UpdateItem)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.DELETE("", h.Clear)
	}
}

// AddItemRequest is the request body for adding a cart line
type AddItemRequest struct {
	VariantID string `json:"variant_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemRequest is the request body for setting a line quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// GetCart handles GET /cart
// @Summary Get the current user's cart
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]interface{} "Cart lines"
// @Router /api/v1/cart [get]
func (h *HTTPHandler) GetCart(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	lines, err := h.store.LoadCart(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     lines,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// AddItem handles POST /cart/items
// @Summary Add a variant to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body AddItemRequest true "Line to add"
// @Success 201 {object} map[string]interface{} "Created line"
// @Failure 400 {object} errors.ErrorResponse "Validation error"
// @Failure 404 {object} errors.ErrorResponse "Variant not found"
// @Router /api/v1/cart/items [post]
func (h *HTTPHandler) AddItem(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	variants, err := h.catalog.FindVariantsByIDs(c.Request.Context(), []string{req.VariantID})
	if err != nil {
		c.Error(err)
		return
	}
	if len(variants) == 0 {
		c.Error(errors.NewNotFound("variant", req.VariantID))
		return
	}
	if variants[0].StockQuantity < req.Quantity {
		c.Error(errors.NewConflict("not enough stock for " + variants[0].ProductName))
		return
	}

	item, err := h.store.AddItem(c.Request.Context(), userID, req.VariantID, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     item,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateItem handles PATCH /cart/items/:id
// @Summary Set a cart line's quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "Cart line id"
// @Param request body UpdateItemRequest true "New quantity"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse "Line not found"
// @Router /api/v1/cart/items/{id} [patch]
func (h *HTTPHandler) UpdateItem(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	if err := h.store.UpdateQuantity(c.Request.Context(), userID, c.Param("id"), req.Quantity); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     gin.H{"id": c.Param("id"), "quantity": req.Quantity},
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// RemoveItem handles DELETE /cart/items/:id
// @Summary Remove a line from the cart
// @Tags cart
// @Produce json
// @Param id path string true "Cart line id"
// @Success 204 "Removed"
// @Failure 404 {object} errors.ErrorResponse "Line not found"
// @Router /api/v1/cart/items/{id} [delete]
func (h *HTTPHandler) RemoveItem(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	if err := h.store.RemoveItem(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Clear handles DELETE /cart
// @Summary Remove every line from the cart
// @Tags cart
// @Success 204 "Cleared"
// @Router /api/v1/cart [delete]
func (h *HTTPHandler) Clear(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	if err := h.store.Clear(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
