package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationEvent names a customer-facing order notification
type NotificationEvent string

const (
	EventOrderConfirmation NotificationEvent = "order_confirmation"
	EventProposalSent      NotificationEvent = "proposal_sent"
	EventDeliveryComplete  NotificationEvent = "delivery_complete"
)

// IsValid reports whether e is a known notification event
func (e NotificationEvent) IsValid() bool {
	switch e {
	case EventOrderConfirmation, EventProposalSent, EventDeliveryComplete:
		return true
	}
	return false
}

// NotificationLog records one dispatch attempt; repeated dispatches add rows
type NotificationLog struct {
	ID        string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID   string            `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Event     NotificationEvent `gorm:"type:varchar(32);not null" json:"event"`
	Email     string            `json:"email"`
	Subject   string            `json:"subject"`
	Tags      []string          `gorm:"serializer:json;type:text" json:"tags"`
	Status    string            `gorm:"not null" json:"status"` // tagged, failed
	Error     string            `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// TableName specifies the table name for the NotificationLog model
func (NotificationLog) TableName() string {
	return "notification_logs"
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
