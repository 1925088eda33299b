package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"habitroom-backend/internal/model"
)

// ListNotifications returns a user's in-app notification history, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	var notifications []model.Notification
	if err := h.store.DB().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}
