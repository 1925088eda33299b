package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"habitroom-backend/internal/model"
)

type putReminderRequest struct {
	UserID        int64  `json:"user_id" binding:"required"`
	RoomID        int64  `json:"room_id" binding:"required"`
	MinutesBefore *int   `json:"minutes_before" binding:"required"`
	Enabled       *bool  `json:"enabled"`
	Timezone      string `json:"timezone"`
}

// PutReminder creates or updates a reminder. The store's composite unique
// index keeps at most one config per (user, room, offset).
func (h *Handler) PutReminder(c *gin.Context) {
	var req putReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if *req.MinutesBefore < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minutes_before must be non-negative"})
		return
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone"})
			return
		}
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	reminder := model.Reminder{
		UserID:        req.UserID,
		RoomID:        req.RoomID,
		MinutesBefore: *req.MinutesBefore,
		Enabled:       enabled,
		Timezone:      req.Timezone,
	}

	err := h.store.DB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}, {Name: "minutes_before"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "timezone", "updated_at"}),
	}).Create(&reminder).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

// ListReminders returns all reminders belonging to a user.
func (h *Handler) ListReminders(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	var reminders []model.Reminder
	if err := h.store.DB().Where("user_id = ?", userID).Find(&reminders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reminders)
}

type deleteReminderRequest struct {
	UserID        int64 `json:"user_id" binding:"required"`
	RoomID        int64 `json:"room_id" binding:"required"`
	MinutesBefore *int  `json:"minutes_before" binding:"required"`
}

// DeleteReminder removes one reminder config.
func (h *Handler) DeleteReminder(c *gin.Context) {
	var req deleteReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.store.DB().
		Where("user_id = ? AND room_id = ? AND minutes_before = ?", req.UserID, req.RoomID, *req.MinutesBefore).
		Delete(&model.Reminder{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
