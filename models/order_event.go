package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order event actions
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
	ActionProposalSent  = "proposal_sent"
	ActionDelivered     = "delivered"
	ActionTermsUpdated  = "terms_updated"
)

// OrderEvent is an append-only audit record of a change made to an order
type OrderEvent struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID    string         `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Actor      string         `gorm:"not null" json:"actor"`
	Action     string         `gorm:"not null" json:"action"`
	FromStatus OrderStatus    `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus   OrderStatus    `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	Previous   map[string]any `gorm:"serializer:json;type:text" json:"previous,omitempty"` // values overwritten by this change
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the OrderEvent model
func (OrderEvent) TableName() string {
	return "order_events"
}

func (e *OrderEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
