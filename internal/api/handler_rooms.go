package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"habitroom-backend/internal/model"
	"habitroom-backend/internal/reminder"
	"habitroom-backend/internal/store"
)

type createRoomRequest struct {
	Name        string  `json:"name" binding:"required"`
	Emoji       string  `json:"emoji"`
	Description string  `json:"description"`
	AdminID     int64   `json:"admin_id" binding:"required"`
	TimeStart   *string `json:"time_start"`
	TimeEnd     *string `json:"time_end"`
}

// CreateRoom creates a room with a server-generated invite code and enrolls
// the creator as its admin.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	for _, tod := range []*string{req.TimeStart, req.TimeEnd} {
		if tod == nil || *tod == "" {
			continue
		}
		if _, err := reminder.ParseTimeOfDay(*tod); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "times must be HH:MM or HH:MM:SS"})
			return
		}
	}

	room := model.Room{
		Name:        req.Name,
		Emoji:       req.Emoji,
		Description: req.Description,
		AdminID:     req.AdminID,
		InviteCode:  uuid.NewString(),
		TimeStart:   req.TimeStart,
		TimeEnd:     req.TimeEnd,
	}

	err := h.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		member := model.RoomMember{
			RoomID:   room.ID,
			UserID:   req.AdminID,
			Role:     "admin",
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          room.ID,
		"invite_code": room.InviteCode,
	})
}

// RoomResponse represents the API response for a single room.
type RoomResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	Description string  `json:"description"`
	TimeStart   *string `json:"time_start"`
	TimeEnd     *string `json:"time_end"`
	MemberCount int64   `json:"member_count"`
}

// ListRooms handles the GET /api/rooms request.
func (h *Handler) ListRooms(c *gin.Context) {
	db := h.store.DB()

	var rooms []model.Room
	if err := db.Find(&rooms).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}

	type aggRow struct {
		RoomID      int64
		MemberCount int64
	}
	var aggs []aggRow
	if err := db.
		Model(&model.RoomMember{}).
		Select("room_id AS room_id, COUNT(*) AS member_count").
		Group("room_id").
		Scan(&aggs).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate members"})
		return
	}

	aggMap := make(map[int64]int64, len(aggs))
	for _, a := range aggs {
		aggMap[a.RoomID] = a.MemberCount
	}

	responses := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		responses = append(responses, RoomResponse{
			ID: r.ID, Name: r.Name, Emoji: r.Emoji, Description: r.Description,
			TimeStart: r.TimeStart, TimeEnd: r.TimeEnd,
			MemberCount: aggMap[r.ID],
		})
	}
	c.JSON(http.StatusOK, responses)
}

type joinRoomRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
	UserID     int64  `json:"user_id" binding:"required"`
}

// JoinRoom enrolls a user into the room behind an invite code. Joining a
// room twice is a no-op.
func (h *Handler) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var room model.Room
	if err := h.store.DB().First(&room, "invite_code = ?", req.InviteCode).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "invite code not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	member := model.RoomMember{
		RoomID:   room.ID,
		UserID:   req.UserID,
		Role:     "member",
		JoinedAt: time.Now().UTC(),
	}
	err := h.store.DB().Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_id": room.ID})
}

// GetLeaderboard returns approved check-in counts per member, most first.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var rows []store.LeaderboardRow
	if err := h.store.DB().
		Model(&model.CheckIn{}).
		Select("user_id, COUNT(*) AS approved_count").
		Where("room_id = ? AND status = ?", roomID, model.CheckInApproved).
		Group("user_id").
		Order("approved_count DESC").
		Scan(&rows).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate check-ins"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
