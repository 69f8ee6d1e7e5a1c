package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portfolio item types
const (
	PortfolioTypeModel = "MODEL"
	PortfolioTypeCase  = "CASE"
)

// PortfolioItem is an admin-curated showcase entry
type PortfolioItem struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Category     string         `gorm:"index" json:"category"`
	Type         string         `gorm:"type:varchar(10);not null;default:'CASE'" json:"type"` // MODEL or CASE
	ThumbnailURL string         `json:"thumbnail_url"`
	VideoURL     string         `json:"video_url"`
	ClientName   string         `json:"client_name,omitempty"`
	ClientLogo   string         `json:"client_logo,omitempty"`
	Metric1Label string         `json:"metric1_label,omitempty"`
	Metric1Value string         `json:"metric1_value,omitempty"`
	Metric2Label string         `json:"metric2_label,omitempty"`
	Metric2Value string         `json:"metric2_value,omitempty"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	IsFeatured   bool           `gorm:"not null" json:"is_featured"`
	SortOrder    int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PortfolioItem) TableName() string {
	return "portfolio_items"
}

func (p *PortfolioItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ShowcaseVideo is a transcoded sample video shown on the landing page
type ShowcaseVideo struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	VideoURL     string         `gorm:"not null" json:"video_url"`
	PreviewURL   string         `json:"preview_url"`
	ThumbnailURL string         `json:"thumbnail_url"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	SortOrder    int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ShowcaseVideo) TableName() string {
	return "showcase_videos"
}

func (v *ShowcaseVideo) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// ArtistModel is a virtual talent customers can cast in their video
type ArtistModel struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Gender      string         `gorm:"type:varchar(10)" json:"gender"` // male, female
	ImageURL    string         `json:"image_url"`
	Description string         `gorm:"type:text" json:"description"`
	Tags        []string       `gorm:"serializer:json;type:text" json:"tags"`
	IsActive    bool           `gorm:"not null" json:"is_active"`
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ArtistModel) TableName() string {
	return "artist_models"
}

func (a *ArtistModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
