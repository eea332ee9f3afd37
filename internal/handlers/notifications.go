package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medconnect-server/internal/middleware"
	"medconnect-server/internal/models"
	"medconnect-server/internal/utils"
)

// NotificationHandler handles in-app notification requests.
type NotificationHandler struct {
	DB *gorm.DB
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

// List handles fetching the authenticated user's notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var notifications []models.Notification
	err := h.DB.Where("recipient_id = ?", identity.UserID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch notifications: "+err.Error())
		return
	}

	utils.Success(c, "Notifications fetched successfully", notifications)
}

// MarkRead handles marking one of the user's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var notification models.Notification
	err := h.DB.First(&notification, "id = ? AND recipient_id = ?", c.Param("id"), identity.UserID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Notification not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if notification.ReadAt == nil {
		now := time.Now()
		notification.ReadAt = &now
		if err := h.DB.Save(&notification).Error; err != nil {
			utils.InternalServerError(c, "Failed to update notification: "+err.Error())
			return
		}
	}

	utils.Success(c, "Notification marked as read", notification)
}
