package notification

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shop-core/pkg/middleware"
)

// HTTPHandler handles HTTP requests for notifications
type HTTPHandler struct {
	store *PostgresStore
}

// NewHTTPHandler creates a new notification HTTP handler
func NewHTTPHandler(store *PostgresStore) *HTTPHandler {
	return &HTTPHandler{store: store}
}

// RegisterRoutes registers the notification routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.PATCH("/:id/read", h.MarkRead)
	}
}

// NotificationResponse is the response body for notifications
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	OrderID   string    `json:"order_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// List handles GET /notifications
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Param X-User-ID header string true "User id"
// @Param limit query int false "Max results" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/notifications [get]
func (h *HTTPHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.store.ListByUser(c.Request.Context(), c.GetString(middleware.UserIDKey), limit)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		out[i] = NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			OrderID:   n.OrderID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     out,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// MarkRead handles PATCH /notifications/:id/read
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param X-User-ID header string true "User id"
// @Param id path string true "Notification id"
// @Success 204 "Marked"
// @Failure 404 {object} errors.ErrorResponse "Notification not found"
// @Router /api/v1/notifications/{id}/read [patch]
func (h *HTTPHandler) MarkRead(c *gin.Context) {
	if err := h.store.MarkRead(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
