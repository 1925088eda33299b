package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"habitroom-backend/internal/model"
)

type createCheckInRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	ProofURL string `json:"proof_url" binding:"required"`
	Note     string `json:"note"`
	Date     string `json:"date"` // "2006-01-02"; defaults to today (UTC)
}

// CreateCheckIn submits proof of attendance for one room-day. One submission
// per member per day; duplicates answer 409.
func (h *Handler) CreateCheckIn(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var req createCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	var member model.RoomMember
	err = h.store.DB().
		First(&member, "room_id = ? AND user_id = ?", roomID, req.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this room"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	checkIn := model.CheckIn{
		RoomID:   roomID,
		UserID:   req.UserID,
		Date:     date,
		ProofURL: req.ProofURL,
		Note:     req.Note,
		Status:   model.CheckInPending,
	}
	if err := h.store.DB().Create(&checkIn).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "already checked in today"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": checkIn.ID, "status": checkIn.Status})
}

// isUniqueViolation matches the duplicate-key errors of the supported drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

type reviewCheckInRequest struct {
	ReviewerID int64 `json:"reviewer_id" binding:"required"`
	Approve    *bool `json:"approve" binding:"required"`
}

// ReviewCheckIn lets the room admin approve or reject a pending submission.
func (h *Handler) ReviewCheckIn(c *gin.Context) {
	checkInID, err := strconv.ParseInt(c.Param("checkin_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid check-in ID"})
		return
	}

	var req reviewCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var checkIn model.CheckIn
	if err := h.store.DB().First(&checkIn, checkInID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "check-in not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var room model.Room
	if err := h.store.DB().First(&room, checkIn.RoomID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if room.AdminID != req.ReviewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the room admin may review"})
		return
	}

	if checkIn.Status != model.CheckInPending {
		c.JSON(http.StatusConflict, gin.H{"error": "check-in already reviewed"})
		return
	}

	status := model.CheckInRejected
	if *req.Approve {
		status = model.CheckInApproved
	}
	now := time.Now().UTC()

	err = h.store.DB().Model(&checkIn).Updates(map[string]any{
		"status":      status,
		"reviewed_by": req.ReviewerID,
		"reviewed_at": now,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": checkIn.ID, "status": status})
}

// GetGallery lists a room's approved check-ins, newest first.
func (h *Handler) GetGallery(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var checkIns []model.CheckIn
	if err := h.store.DB().
		Where("room_id = ? AND status = ?", roomID, model.CheckInApproved).
		Order("date DESC, id DESC").
		Limit(100).
		Find(&checkIns).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve gallery"})
		return
	}

	c.JSON(http.StatusOK, checkIns)
}
