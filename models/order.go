package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the admin-driven lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusInProgress OrderStatus = "in_progress"
	StatusReview     OrderStatus = "review"
	StatusRevision   OrderStatus = "revision"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid order status in lifecycle order
var OrderStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusInProgress, StatusReview, StatusRevision, StatusCompleted, StatusCancelled,
}

// IsValid reports whether s is part of the order status vocabulary
func (s OrderStatus) IsValid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order sources
const (
	SourceChat     = "chat"
	SourceForm     = "form"
	SourceCheckout = "checkout"
)

// Payment methods
const (
	PaymentCard    = "card"
	PaymentInvoice = "invoice"
)

// ChatMessage is one turn of the intake conversation
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// LooseString decodes a JSON string or number into its textual form
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(trimmed))
	}
	*s = LooseString(num.String())
	return nil
}

// OrderSummary is the structured brief extracted from an intake conversation
type OrderSummary struct {
	Category        string      `json:"category"`
	Product         string      `json:"product"`
	TargetAudience  string      `json:"target_audience"`
	Vibe            string      `json:"vibe"`
	Platform        string      `json:"platform"`
	RecommendedPack string      `json:"recommended_pack"`
	EstimatedPrice  LooseString `json:"estimated_price"`
}

// IsEmpty reports whether no field of the summary carries a value
func (s *OrderSummary) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, value := range []string{s.Category, s.Product, s.TargetAudience, s.Vibe, s.Platform, s.RecommendedPack, string(s.EstimatedPrice)} {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// Order represents a customer engagement from intake through delivery
type Order struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderNumber string `gorm:"type:varchar(32);uniqueIndex" json:"order_number"`

	Name    string `json:"name"`
	Email   string `gorm:"index" json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `gorm:"type:text" json:"message,omitempty"`

	Source        string        `gorm:"not null;default:'chat'" json:"source"` // chat, form, checkout
	ChatLog       []ChatMessage `gorm:"serializer:json;type:text" json:"chat_log"`
	OrderSummary  *OrderSummary `gorm:"serializer:json;type:text" json:"order_summary"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SelectedPack  string        `json:"selected_pack"`
	FinalPrice    *int64        `json:"final_price"` // whole KRW, nullable until quoted
	PaymentMethod string        `json:"payment_method,omitempty"`

	CheckoutSessionID string `json:"checkout_session_id,omitempty"`

	ProposalURLs   []string   `gorm:"serializer:json;type:text" json:"proposal_urls"`
	ProposalNote   string     `gorm:"type:text" json:"proposal_note"`
	ProposalSentAt *time.Time `json:"proposal_sent_at"`

	FinalVideoURLs []string   `gorm:"serializer:json;type:text" json:"final_video_urls"`
	DeliveryNote   string     `gorm:"type:text" json:"delivery_note"`
	DeliveredAt    *time.Time `json:"delivered_at"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns the id and the human-readable order number
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber(time.Now(), o.ID)
	}
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
	return nil
}

// NewOrderNumber formats an order number such as AD-20261015-3F9A2C
func NewOrderNumber(now time.Time, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("AD-%s-%s", now.Format("20060102"), suffix)
}
