package services

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/utils"
	"gorm.io/gorm"
)

const (
	CodeContactNotFound     = "CONTACT_NOT_FOUND"
	CodeInvalidContactState = "INVALID_CONTACT_STATUS"
)

// ContactInput is a contact form submission
type ContactInput struct {
	Name            string
	Email           string
	Phone           string
	Company         string
	Budget          string
	ProductInterest string
	Message         string
}

// ContactService stores contact inquiries and their follow-up status
type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

// Create stores a new inquiry with status new
func (s *ContactService) Create(ctx context.Context, in ContactInput) (*models.Contact, error) {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		problems = append(problems, "a valid email is required")
	}
	if len(problems) > 0 {
		return nil, utils.ValidationError("Invalid inquiry").WithDetails(problems)
	}

	contact := &models.Contact{
		Name:            strings.TrimSpace(in.Name),
		Email:           in.Email,
		Phone:           strings.TrimSpace(in.Phone),
		Company:         strings.TrimSpace(in.Company),
		Budget:          in.Budget,
		ProductInterest: in.ProductInterest,
		Message:         in.Message,
		Status:          models.ContactNew,
	}
	if err := s.db.WithContext(ctx).Create(contact).Error; err != nil {
		return nil, utils.DatabaseError("Failed to save inquiry", err)
	}

	logger.Get().Info(logger.Get().WithField(ctx, "contact_id", contact.ID), "contact inquiry received")
	return contact, nil
}

// List returns inquiries newest first, optionally filtered by status
func (s *ContactService) List(ctx context.Context, status models.ContactStatus) ([]models.Contact, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		if !status.IsValid() {
			return nil, utils.NewAppError(http.StatusBadRequest, CodeInvalidContactState, "Unknown contact status")
		}
		query = query.Where("status = ?", status)
	}

	var contacts []models.Contact
	if err := query.Find(&contacts).Error; err != nil {
		return nil, utils.DatabaseError("Failed to fetch inquiries", err)
	}
	return contacts, nil
}

// SetStatus moves an inquiry to any status in its vocabulary
func (s *ContactService) SetStatus(ctx context.Context, id string, status models.ContactStatus) (*models.Contact, error) {
	if !status.IsValid() {
		return nil, utils.NewAppError(http.StatusBadRequest, CodeInvalidContactState, "Unknown contact status")
	}

	var contact models.Contact
	if err := s.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError(CodeContactNotFound, "Inquiry not found")
		}
		return nil, utils.DatabaseError("Failed to load inquiry", err)
	}

	contact.Status = status
	if err := s.db.WithContext(ctx).Model(&contact).Select("status").Updates(&contact).Error; err != nil {
		return nil, utils.DatabaseError("Failed to update inquiry", err)
	}
	return &contact, nil
}
