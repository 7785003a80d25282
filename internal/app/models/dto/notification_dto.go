package dto

import (
	"encoding/json"
	"time"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

// NotificationResponse is the outward view of an inbox entry.
type NotificationResponse struct {
	ID        int64                   `json:"id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	Data      json.RawMessage         `json:"data,omitempty"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NewNotificationResponse converts a Notification model into its response DTO.
func NewNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// UnreadCountResponse carries the unread badge count.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
