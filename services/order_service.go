package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/metrics"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/utils"
	"gorm.io/gorm"
)

const CodeInvalidStatus = "INVALID_STATUS"

// ActorSystem is recorded on events not caused by an admin
const ActorSystem = "system"

// ChatOrderInput is a completed intake session submitted as an order
type ChatOrderInput struct {
	Name    string
	Phone   string
	Email   string
	Company string
	ChatLog []models.ChatMessage
	Summary *models.OrderSummary
}

// FormOrderInput is an order submitted through the plain order form
type FormOrderInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Pack    string
	Message string
}

// ListOrdersParams filters the admin order list
type ListOrdersParams struct {
	Status   models.OrderStatus
	Query    string
	Page     int
	PageSize int
}

// OrderService creates orders and applies admin changes to them
type OrderService struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

// NewOrderService creates an order service; notifier may be nil to skip notifications
func NewOrderService(db *gorm.DB, notifier Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier, now: time.Now}
}

// CreateFromChat persists a chat transcript and its summary as a pending order
func (s *OrderService) CreateFromChat(ctx context.Context, in ChatOrderInput) (*models.Order, error) {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		problems = append(problems, "phone is required")
	}
	if len(in.ChatLog) == 0 {
		problems = append(problems, "chat_log must not be empty")
	}
	if in.Summary.IsEmpty() {
		problems = append(problems, "order_summary is required")
	}
	if len(problems) > 0 {
		return nil, utils.ValidationError("Invalid order").WithDetails(problems)
	}
	for _, msg := range in.ChatLog {
		if msg.Role != "user" && msg.Role != "assistant" {
			return nil, utils.ValidationError("chat_log roles must be user or assistant")
		}
	}

	order := &models.Order{
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        in.Email,
		Company:      strings.TrimSpace(in.Company),
		Source:       models.SourceChat,
		ChatLog:      in.ChatLog,
		OrderSummary: in.Summary,
		SelectedPack: normalizePack(in.Summary.RecommendedPack),
	}
	return s.create(ctx, order)
}

// CreateFromForm persists a form submission as a pending order
func (s *OrderService) CreateFromForm(ctx context.Context, in FormOrderInput) (*models.Order, error) {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		problems = append(problems, "email is required")
	}
	if len(problems) > 0 {
		return nil, utils.ValidationError("Invalid order").WithDetails(problems)
	}

	order := &models.Order{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		Message:      in.Message,
		Source:       models.SourceForm,
		SelectedPack: normalizePack(in.Pack),
	}
	return s.create(ctx, order)
}

// CreateCheckout persists a priced checkout order; email is required
func (s *OrderService) CreateCheckout(ctx context.Context, order *models.Order) (*models.Order, error) {
	if strings.TrimSpace(order.Name) == "" || strings.TrimSpace(order.Email) == "" {
		return nil, utils.ValidationError("name and email are required")
	}
	order.Source = models.SourceCheckout
	return s.create(ctx, order)
}

// create inserts the order with its creation event. Status is always pending and
// repeated submissions create separate orders.
func (s *OrderService) create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.Status = models.StatusPending

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderEvent{
			OrderID:  order.ID,
			Actor:    ActorSystem,
			Action:   models.ActionCreated,
			ToStatus: models.StatusPending,
		}).Error
	})
	if err != nil {
		return nil, utils.DatabaseError("Failed to create order", err)
	}

	metrics.OrderCreated(order.Source)
	ctx = logger.Get().WithFields(ctx, map[string]any{"order_id": order.ID, "source": order.Source})
	logger.Get().Info(ctx, "order created")

	if order.Email != "" {
		s.notify(ctx, order.ID, models.EventOrderConfirmation)
	}
	return order, nil
}

// Get loads an order by id or order number
func (s *OrderService) Get(ctx context.Context, idOrNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("id = ? OR order_number = ?", idOrNumber, strings.ToUpper(idOrNumber)).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError(CodeOrderNotFound, "Order not found")
		}
		return nil, utils.DatabaseError("Failed to load order", err)
	}
	return &order, nil
}

// List returns a page of orders, newest first, with the total match count
func (s *OrderService) List(ctx context.Context, params ListOrdersParams) ([]models.Order, int64, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, 0, utils.NewAppError(http.StatusBadRequest, CodeInvalidStatus, "Unknown order status")
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if q := strings.TrimSpace(params.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(company) LIKE ? OR LOWER(order_number) LIKE ?",
			like, like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.DatabaseError("Failed to count orders", err)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&orders).Error; err != nil {
		return nil, 0, utils.DatabaseError("Failed to fetch orders", err)
	}
	return orders, total, nil
}

// SetStatus overwrites the status. Any status may follow any other; completed also stamps delivered_at.
func (s *OrderService) SetStatus(ctx context.Context, id string, status models.OrderStatus, actor string) (*models.Order, error) {
	if !status.IsValid() {
		return nil, utils.NewAppError(http.StatusBadRequest, CodeInvalidStatus, "Unknown order status").
			WithDetails(models.OrderStatuses)
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = status
	columns := []string{"status"}
	previous := map[string]any{"status": from}
	if status == models.StatusCompleted {
		if order.DeliveredAt != nil {
			previous["delivered_at"] = order.DeliveredAt
		}
		now := s.now()
		order.DeliveredAt = &now
		columns = append(columns, "delivered_at")
	}

	event := &models.OrderEvent{
		Actor:      actor,
		Action:     models.ActionStatusChanged,
		FromStatus: from,
		ToStatus:   status,
		Previous:   previous,
	}
	if err := s.save(ctx, order, columns, event); err != nil {
		return nil, err
	}

	metrics.StatusTransition(string(status))
	return order, nil
}

// SendProposal stores the proposal, moves the order to review and notifies the customer.
// A second call overwrites the first; the overwritten values are kept in the audit event.
func (s *OrderService) SendProposal(ctx context.Context, id string, urls []string, note, actor string) (*models.Order, error) {
	urls = cleanURLs(urls)
	if len(urls) == 0 {
		return nil, utils.ValidationError("At least one proposal URL is required")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	previous := map[string]any{"status": from}
	if order.ProposalSentAt != nil {
		previous["proposal_urls"] = order.ProposalURLs
		previous["proposal_note"] = order.ProposalNote
		previous["proposal_sent_at"] = order.ProposalSentAt
	}

	now := s.now()
	order.ProposalURLs = urls
	order.ProposalNote = note
	order.ProposalSentAt = &now
	order.Status = models.StatusReview

	event := &models.OrderEvent{
		Actor:      actor,
		Action:     models.ActionProposalSent,
		FromStatus: from,
		ToStatus:   models.StatusReview,
		Previous:   previous,
	}
	if err := s.save(ctx, order, []string{"proposal_urls", "proposal_note", "proposal_sent_at", "status"}, event); err != nil {
		return nil, err
	}

	metrics.StatusTransition(string(models.StatusReview))
	s.notify(ctx, order.ID, models.EventProposalSent)
	return order, nil
}

// Deliver stores the final videos, completes the order and notifies the customer
func (s *OrderService) Deliver(ctx context.Context, id string, urls []string, note, actor string) (*models.Order, error) {
	urls = cleanURLs(urls)
	if len(urls) == 0 {
		return nil, utils.ValidationError("At least one video URL is required")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	previous := map[string]any{"status": from}
	if order.DeliveredAt != nil {
		previous["final_video_urls"] = order.FinalVideoURLs
		previous["delivery_note"] = order.DeliveryNote
		previous["delivered_at"] = order.DeliveredAt
	}

	now := s.now()
	order.FinalVideoURLs = urls
	order.DeliveryNote = note
	order.DeliveredAt = &now
	order.Status = models.StatusCompleted

	event := &models.OrderEvent{
		Actor:      actor,
		Action:     models.ActionDelivered,
		FromStatus: from,
		ToStatus:   models.StatusCompleted,
		Previous:   previous,
	}
	if err := s.save(ctx, order, []string{"final_video_urls", "delivery_note", "delivered_at", "status"}, event); err != nil {
		return nil, err
	}

	metrics.StatusTransition(string(models.StatusCompleted))
	s.notify(ctx, order.ID, models.EventDeliveryComplete)
	return order, nil
}

// UpdateTerms sets the commercial terms; nil arguments leave a field unchanged
func (s *OrderService) UpdateTerms(ctx context.Context, id string, pack *string, finalPrice *int64, actor string) (*models.Order, error) {
	if pack == nil && finalPrice == nil {
		return nil, utils.ValidationError("Nothing to update")
	}
	if finalPrice != nil && *finalPrice < 0 {
		return nil, utils.ValidationError("final_price must not be negative")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := map[string]any{}
	var columns []string
	if pack != nil {
		previous["selected_pack"] = order.SelectedPack
		order.SelectedPack = normalizePack(*pack)
		columns = append(columns, "selected_pack")
	}
	if finalPrice != nil {
		previous["final_price"] = order.FinalPrice
		price := *finalPrice
		order.FinalPrice = &price
		columns = append(columns, "final_price")
	}

	event := &models.OrderEvent{Actor: actor, Action: models.ActionTermsUpdated, Previous: previous}
	if err := s.save(ctx, order, columns, event); err != nil {
		return nil, err
	}
	return order, nil
}

// History returns the audit trail of an order, oldest first
func (s *OrderService) History(ctx context.Context, id string) ([]models.OrderEvent, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	var events []models.OrderEvent
	if err := s.db.WithContext(ctx).Where("order_id = ?", order.ID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, utils.DatabaseError("Failed to load order history", err)
	}
	return events, nil
}

// Notify dispatches an event for an order on admin request and reports the outcome
func (s *OrderService) Notify(ctx context.Context, id string, event models.NotificationEvent) (*models.NotificationLog, error) {
	if s.notifier == nil {
		return nil, utils.NewAppError(http.StatusServiceUnavailable, utils.CodeNotConfigured, "Notifications are not configured")
	}
	return s.notifier.Dispatch(ctx, id, event)
}

func (s *OrderService) load(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError(CodeOrderNotFound, "Order not found")
		}
		return nil, utils.DatabaseError("Failed to load order", err)
	}
	return &order, nil
}

// save writes the selected columns of a single order row together with its audit event
func (s *OrderService) save(ctx context.Context, order *models.Order, columns []string, event *models.OrderEvent) error {
	event.OrderID = order.ID
	if event.Actor == "" {
		event.Actor = ActorSystem
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Select(columns).Updates(order).Error; err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		return utils.DatabaseError("Failed to update order", err)
	}

	logger.Get().Info(logger.Get().WithFields(ctx, map[string]any{
		"order_id": order.ID,
		"action":   event.Action,
		"actor":    event.Actor,
		"from":     event.FromStatus,
		"to":       event.ToStatus,
	}), "order updated")
	return nil
}

// notify dispatches best-effort; failures are logged and never fail the caller
func (s *OrderService) notify(ctx context.Context, orderID string, event models.NotificationEvent) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Dispatch(ctx, orderID, event); err != nil {
		logger.Get().Error(logger.Get().WithFields(ctx, map[string]any{
			"order_id": orderID,
			"event":    string(event),
		}), "notification dispatch failed", err)
	}
}

func normalizePack(code string) string {
	if pack, ok := LookupPack(code); ok {
		return pack.Code
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

func cleanURLs(urls []string) []string {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			cleaned = append(cleaned, u)
		}
	}
	return cleaned
}
