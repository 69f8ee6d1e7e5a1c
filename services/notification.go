package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/metrics"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/utils"
	"gorm.io/gorm"
)

// Notification error codes
const (
	CodeOrderNotFound       = "ORDER_NOT_FOUND"
	CodeNoEmail             = "NO_EMAIL"
	CodeInvalidNotification = "INVALID_EVENT"
	CodeCRMFailed           = "CRM_TAGGING_FAILED"
)

// Email is a rendered notification
type Email struct {
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Tags    []string `json:"tags"`
}

// EventTags maps each event to the CRM tag pair that triggers its automation
var EventTags = map[models.NotificationEvent][]string{
	models.EventOrderConfirmation: {"ORDER", "CONFIRMED"},
	models.EventProposalSent:      {"PROPOSAL", "SENT"},
	models.EventDeliveryComplete:  {"DELIVERY", "COMPLETE"},
}

var eventSubjects = map[models.NotificationEvent]string{
	models.EventOrderConfirmation: "[AdCut] 주문이 접수되었습니다 (%s)",
	models.EventProposalSent:      "[AdCut] 제작 기획안이 도착했습니다 (%s)",
	models.EventDeliveryComplete:  "[AdCut] 최종 영상이 전달되었습니다 (%s)",
}

var notificationTemplates = template.Must(template.New("notification").Parse(`
{{define "layout"}}<!DOCTYPE html>
<html lang="ko"><body style="font-family:sans-serif;color:#111">
<h2>{{.Name}}님, 안녕하세요.</h2>
{{template "body" .}}
<p><a href="{{.TrackingURL}}">주문 진행 상황 확인하기</a></p>
<p style="color:#888">주문번호 {{.OrderNumber}}</p>
</body></html>{{end}}

{{define "order_confirmation"}}{{template "layout" .}}{{end}}
{{define "proposal_sent"}}{{template "layout" .}}{{end}}
{{define "delivery_complete"}}{{template "layout" .}}{{end}}
`))

var eventBodies = map[models.NotificationEvent]*template.Template{
	models.EventOrderConfirmation: template.Must(template.Must(notificationTemplates.Clone()).Parse(`{{define "body"}}
<p>AdCut 광고 영상 주문이 정상적으로 접수되었습니다.</p>
{{if .Pack}}<p>선택하신 패키지: <strong>{{.Pack}}</strong></p>{{end}}
<p>담당자가 확인 후 영업일 기준 1일 이내에 연락드리겠습니다.</p>{{end}}`)),
	models.EventProposalSent: template.Must(template.Must(notificationTemplates.Clone()).Parse(`{{define "body"}}
<p>요청하신 광고 영상의 제작 기획안을 보내드립니다.</p>
{{if .Note}}<p>{{.Note}}</p>{{end}}
<ul>{{range .URLs}}<li><a href="{{.}}">{{.}}</a></li>{{end}}</ul>
<p>수정이 필요한 부분이 있으면 회신해 주세요.</p>{{end}}`)),
	models.EventDeliveryComplete: template.Must(template.Must(notificationTemplates.Clone()).Parse(`{{define "body"}}
<p>최종 광고 영상이 완성되었습니다.</p>
{{if .Note}}<p>{{.Note}}</p>{{end}}
<ul>{{range .URLs}}<li><a href="{{.}}">{{.}}</a></li>{{end}}</ul>
<p>AdCut을 이용해 주셔서 감사합니다.</p>{{end}}`)),
}

type notificationView struct {
	Name        string
	OrderNumber string
	Pack        string
	Note        string
	URLs        []string
	TrackingURL string
}

// RenderNotification builds the subject and HTML body for an event. It has no side effects.
func RenderNotification(event models.NotificationEvent, order *models.Order, trackingURL string) (Email, error) {
	tmpl, ok := eventBodies[event]
	if !ok {
		return Email{}, fmt.Errorf("unknown notification event %q", event)
	}
	if order == nil {
		return Email{}, errors.New("order is required")
	}

	name := order.Name
	if name == "" {
		name = "고객"
	}
	view := notificationView{
		Name:        name,
		OrderNumber: order.OrderNumber,
		Pack:        order.SelectedPack,
		TrackingURL: trackingURL,
	}
	switch event {
	case models.EventProposalSent:
		view.Note = order.ProposalNote
		view.URLs = order.ProposalURLs
	case models.EventDeliveryComplete:
		view.Note = order.DeliveryNote
		view.URLs = order.FinalVideoURLs
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, string(event), view); err != nil {
		return Email{}, fmt.Errorf("failed to render %s: %w", event, err)
	}

	return Email{
		Subject: fmt.Sprintf(eventSubjects[event], order.OrderNumber),
		HTML:    buf.String(),
		Tags:    append([]string(nil), EventTags[event]...),
	}, nil
}

// CRMContact is the customer record handed to a CRM
type CRMContact struct {
	Email string
	Name  string
	Phone string
}

// CRMTagger upserts a contact with rendered content and attaches tags that trigger CRM-side delivery
type CRMTagger interface {
	Tag(ctx context.Context, contact CRMContact, email Email) error
}

var crmTaggerInstance CRMTagger

// GetCRMTagger returns the registered CRM tagger, or nil
func GetCRMTagger() CRMTagger {
	return crmTaggerInstance
}

// SetCRMTagger sets the CRM tagger (primarily for testing)
func SetCRMTagger(tagger CRMTagger) {
	crmTaggerInstance = tagger
}

// Notifier dispatches order notifications
type Notifier interface {
	Dispatch(ctx context.Context, orderID string, event models.NotificationEvent) (*models.NotificationLog, error)
}

// NotificationDispatcher renders notifications and hands them to a CRMTagger.
// Every attempt is recorded in notification_logs; nothing is retried or deduplicated.
type NotificationDispatcher struct {
	db          *gorm.DB
	tagger      CRMTagger
	trackingURL func(id string) string
}

// NewNotificationDispatcher creates a dispatcher; trackingURL builds the public tracking link for an order id
func NewNotificationDispatcher(db *gorm.DB, tagger CRMTagger, trackingURL func(id string) string) *NotificationDispatcher {
	return &NotificationDispatcher{db: db, tagger: tagger, trackingURL: trackingURL}
}

// Dispatch renders the event for the order and tags the customer in the CRM
func (d *NotificationDispatcher) Dispatch(ctx context.Context, orderID string, event models.NotificationEvent) (*models.NotificationLog, error) {
	if !event.IsValid() {
		return nil, utils.NewAppError(http.StatusBadRequest, CodeInvalidNotification, "Unknown notification event")
	}

	var order models.Order
	if err := d.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError(CodeOrderNotFound, "Order not found")
		}
		return nil, utils.DatabaseError("Failed to load order", err)
	}
	if order.Email == "" {
		return nil, utils.NewAppError(http.StatusUnprocessableEntity, CodeNoEmail, "Order has no customer email")
	}

	trackingURL := ""
	if d.trackingURL != nil {
		trackingURL = d.trackingURL(order.ID)
	}
	email, err := RenderNotification(event, &order, trackingURL)
	if err != nil {
		return nil, &utils.AppError{Code: utils.CodeInternal, Message: "Failed to render notification", Status: http.StatusInternalServerError, Err: err}
	}

	entry := &models.NotificationLog{
		OrderID: order.ID,
		Event:   event,
		Email:   order.Email,
		Subject: email.Subject,
		Tags:    email.Tags,
		Status:  "tagged",
	}

	var tagErr error
	if d.tagger == nil {
		tagErr = errors.New("CRM tagger not configured")
	} else {
		tagErr = d.tagger.Tag(ctx, CRMContact{Email: order.Email, Name: order.Name, Phone: order.Phone}, email)
	}
	if tagErr != nil {
		entry.Status = "failed"
		entry.Error = tagErr.Error()
	}

	if err := d.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Get().Error(ctx, "failed to write notification log", err)
	}
	metrics.NotificationDispatched(string(event), entry.Status)

	if tagErr != nil {
		metrics.ProviderFailure("crm", providerFailureKind(tagErr))
		return entry, utils.ProviderError(http.StatusBadGateway, CodeCRMFailed, "Failed to send notification", tagErr)
	}
	return entry, nil
}

// History lists notification attempts for an order, newest first
func (d *NotificationDispatcher) History(ctx context.Context, orderID string) ([]models.NotificationLog, error) {
	var logs []models.NotificationLog
	if err := d.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, utils.DatabaseError("Failed to load notification history", err)
	}
	return logs, nil
}
