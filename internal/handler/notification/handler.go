package notification

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/watchnotify/notifier-api/internal/handler"
	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/service/notification"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("/send", h.SendNotifications)
		notifications.GET("/user/:id", h.GetUserNotifications)
		notifications.GET("/user/:id/count", h.GetUserNotificationCount)
		notifications.GET("/status/:status", h.GetNotificationsByStatus)
		notifications.GET("/date-range", h.GetNotificationsByDateRange)
	}
}

// SendNotifications triggers one dispatch pass and returns its summary.
func (h *Handler) SendNotifications(c *gin.Context) {
	var req model.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.service.Dispatch(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) GetUserNotifications(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	notifications, err := h.service.ListUserNotifications(c.Request.Context(), userID)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notifications))
}

func (h *Handler) GetUserNotificationCount(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	count, err := h.service.CountSentForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"count": count}))
}

func (h *Handler) GetNotificationsByStatus(c *gin.Context) {
	status := model.NotificationStatus(c.Param("status"))
	switch status {
	case model.NotificationStatusPending, model.NotificationStatusSent,
		model.NotificationStatusFailed, model.NotificationStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid notification status"))
		return
	}

	notifications, err := h.service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notifications))
}

func (h *Handler) GetNotificationsByDateRange(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start date"))
		return
	}

	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end date"))
		return
	}

	notifications, err := h.service.ListByDateRange(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notifications))
}
