package services

import (
	"context"
	"errors"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/utils"
	"gorm.io/gorm"
)

const CodeTrackingNotFound = "TRACKING_NOT_FOUND"

// Engagement kinds
const (
	KindOrder   = "order"
	KindContact = "contact"
)

// Engagement is the public, read-only view of an order or a contact inquiry
type Engagement struct {
	Kind        string    `json:"kind"`
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number,omitempty"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Step        int       `json:"step"`
	StepLabel   string    `json:"step_label"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	SelectedPack   string               `json:"selected_pack,omitempty"`
	Summary        *models.OrderSummary `json:"order_summary,omitempty"`
	ProposalURLs   []string             `json:"proposal_urls,omitempty"`
	ProposalNote   string               `json:"proposal_note,omitempty"`
	ProposalSentAt *time.Time           `json:"proposal_sent_at,omitempty"`
	FinalVideoURLs []string             `json:"final_video_urls,omitempty"`
	DeliveryNote   string               `json:"delivery_note,omitempty"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`

	ProductInterest string `json:"product_interest,omitempty"`
}

// StepLabels names each progress step; step 0 is a cancelled order
var StepLabels = map[int]string{
	0: "cancelled",
	1: "received",
	2: "confirmed",
	3: "in_production",
	4: "review",
	5: "done",
}

var orderSteps = map[models.OrderStatus]int{
	models.StatusPending:    1,
	models.StatusConfirmed:  2,
	models.StatusInProgress: 3,
	models.StatusReview:     4,
	models.StatusRevision:   4,
	models.StatusCompleted:  5,
	models.StatusCancelled:  0,
}

var contactSteps = map[models.ContactStatus]int{
	models.ContactNew:       1,
	models.ContactContacted: 2,
	models.ContactConverted: 3,
	models.ContactClosed:    5,
}

// OrderStep maps an order status onto the shared progress scale
func OrderStep(status models.OrderStatus) int {
	if step, ok := orderSteps[status]; ok {
		return step
	}
	return 1
}

// ContactStep maps a contact status onto the shared progress scale
func ContactStep(status models.ContactStatus) int {
	if step, ok := contactSteps[status]; ok {
		return step
	}
	return 1
}

// OrderEngagement adapts an order into the unified view
func OrderEngagement(order *models.Order) Engagement {
	step := OrderStep(order.Status)
	return Engagement{
		Kind:           KindOrder,
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		Name:           order.Name,
		Status:         string(order.Status),
		Step:           step,
		StepLabel:      StepLabels[step],
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
		SelectedPack:   order.SelectedPack,
		Summary:        order.OrderSummary,
		ProposalURLs:   order.ProposalURLs,
		ProposalNote:   order.ProposalNote,
		ProposalSentAt: order.ProposalSentAt,
		FinalVideoURLs: order.FinalVideoURLs,
		DeliveryNote:   order.DeliveryNote,
		DeliveredAt:    order.DeliveredAt,
	}
}

// ContactEngagement adapts a contact inquiry into the unified view
func ContactEngagement(contact *models.Contact) Engagement {
	step := ContactStep(contact.Status)
	return Engagement{
		Kind:            KindContact,
		ID:              contact.ID,
		Name:            contact.Name,
		Status:          string(contact.Status),
		Step:            step,
		StepLabel:       StepLabels[step],
		CreatedAt:       contact.CreatedAt,
		UpdatedAt:       contact.UpdatedAt,
		ProductInterest: contact.ProductInterest,
	}
}

// TrackingService resolves public identifiers to engagements. It never writes.
type TrackingService struct {
	db *gorm.DB
}

func NewTrackingService(db *gorm.DB) *TrackingService {
	return &TrackingService{db: db}
}

// LookupByID resolves an order id or order number, falling back to contact ids
func (s *TrackingService) LookupByID(ctx context.Context, id string) (*Engagement, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, utils.ValidationError("id is required")
	}

	var order models.Order
	err := s.db.WithContext(ctx).
		Where("id = ? OR order_number = ?", id, strings.ToUpper(id)).
		First(&order).Error
	if err == nil {
		engagement := OrderEngagement(&order)
		return &engagement, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.DatabaseError("Failed to look up order", err)
	}

	var contact models.Contact
	err = s.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	if err == nil {
		engagement := ContactEngagement(&contact)
		return &engagement, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError(CodeTrackingNotFound, "No order or inquiry matches this identifier. Please check it and try again.")
	}
	return nil, utils.DatabaseError("Failed to look up inquiry", err)
}

// LookupByEmail returns every order and contact for an address, newest first
func (s *TrackingService) LookupByEmail(ctx context.Context, email string) ([]Engagement, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, utils.ValidationError("A valid email is required")
	}

	var orders []models.Order
	if err := s.db.WithContext(ctx).Where("LOWER(email) = ?", email).Find(&orders).Error; err != nil {
		return nil, utils.DatabaseError("Failed to look up orders", err)
	}
	var contacts []models.Contact
	if err := s.db.WithContext(ctx).Where("LOWER(email) = ?", email).Find(&contacts).Error; err != nil {
		return nil, utils.DatabaseError("Failed to look up inquiries", err)
	}

	engagements := make([]Engagement, 0, len(orders)+len(contacts))
	for i := range orders {
		engagements = append(engagements, OrderEngagement(&orders[i]))
	}
	for i := range contacts {
		engagements = append(engagements, ContactEngagement(&contacts[i]))
	}
	if len(engagements) == 0 {
		return nil, utils.NotFoundError(CodeTrackingNotFound, "No order or inquiry was found for this email.")
	}

	sort.SliceStable(engagements, func(i, j int) bool {
		return engagements[i].CreatedAt.After(engagements[j].CreatedAt)
	})
	return engagements, nil
}
