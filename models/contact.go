package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactStatus is the follow-up state of an inquiry
type ContactStatus string

const (
	ContactNew       ContactStatus = "new"
	ContactContacted ContactStatus = "contacted"
	ContactConverted ContactStatus = "converted"
	ContactClosed    ContactStatus = "closed"
)

// IsValid reports whether s is part of the contact status vocabulary
func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactNew, ContactContacted, ContactConverted, ContactClosed:
		return true
	}
	return false
}

// Contact is an inquiry submitted through the contact form; it is never merged into an Order
type Contact struct {
	ID              string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"not null;index" json:"email"`
	Phone           string         `json:"phone"`
	Company         string         `json:"company"`
	Budget          string         `json:"budget"`
	ProductInterest string         `json:"product_interest"`
	Message         string         `gorm:"type:text" json:"message"`
	Status          ContactStatus  `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Contact model
func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Status == "" {
		c.Status = ContactNew
	}
	return nil
}
