package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Promotion is a time-boxed discount campaign applied to catalog prices on read
type Promotion struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	DiscountRate int            `gorm:"not null" json:"discount_rate"` // percent, 0-100
	StartDate    time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate      time.Time      `gorm:"not null;index" json:"end_date"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	BadgeText    string         `json:"badge_text"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Promotion) TableName() string {
	return "promotions"
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave stores the window in UTC. SQLite compares timestamps as text,
// so mixed offsets would order incorrectly.
func (p *Promotion) BeforeSave(tx *gorm.DB) error {
	p.NormalizeWindow()
	return nil
}

// NormalizeWindow converts StartDate and EndDate to UTC
func (p *Promotion) NormalizeWindow() {
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
}

// IsCurrent reports whether the promotion is enabled and now falls in [StartDate, EndDate)
func (p Promotion) IsCurrent(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return !now.Before(p.StartDate) && now.Before(p.EndDate)
}
