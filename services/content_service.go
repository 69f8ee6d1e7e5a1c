package services

import (
	"context"
	"errors"
	"strings"

	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/utils"
	"gorm.io/gorm"
)

const (
	CodePortfolioNotFound   = "PORTFOLIO_NOT_FOUND"
	CodePromotionNotFound   = "PROMOTION_NOT_FOUND"
	CodeShowcaseNotFound    = "SHOWCASE_NOT_FOUND"
	CodeArtistModelNotFound = "ARTIST_MODEL_NOT_FOUND"
)

// PortfolioFilter narrows the portfolio list
type PortfolioFilter struct {
	Category        string
	Type            string
	FeaturedOnly    bool
	IncludeInactive bool
}

// ContentService manages the admin-curated site content
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

func findByID[T any](ctx context.Context, db *gorm.DB, id, code, label string) (*T, error) {
	var record T
	if err := db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError(code, label+" not found")
		}
		return nil, utils.DatabaseError("Failed to load "+strings.ToLower(label), err)
	}
	return &record, nil
}

// replaceByID overwrites every editable column of an existing row with input
func replaceByID[T any](ctx context.Context, db *gorm.DB, id string, input *T, code, label string) (*T, error) {
	existing, err := findByID[T](ctx, db, id, code, label)
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(existing).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(input).Error
	if err != nil {
		return nil, utils.DatabaseError("Failed to update "+strings.ToLower(label), err)
	}
	return findByID[T](ctx, db, id, code, label)
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id, code, label string) error {
	result := db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return utils.DatabaseError("Failed to delete "+strings.ToLower(label), result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundError(code, label+" not found")
	}
	return nil
}

func (s *ContentService) create(ctx context.Context, record any, label string) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return utils.DatabaseError("Failed to create "+label, err)
	}
	return nil
}

// ListPortfolio returns portfolio items featured first, then by sort order
func (s *ContentService) ListPortfolio(ctx context.Context, filter PortfolioFilter) ([]models.PortfolioItem, error) {
	query := s.db.WithContext(ctx).Order("is_featured DESC, sort_order ASC, created_at DESC")
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", strings.ToUpper(filter.Type))
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	var items []models.PortfolioItem
	if err := query.Find(&items).Error; err != nil {
		return nil, utils.DatabaseError("Failed to fetch portfolio", err)
	}
	return items, nil
}

func validatePortfolio(item *models.PortfolioItem) error {
	item.Type = strings.ToUpper(strings.TrimSpace(item.Type))
	if item.Type == "" {
		item.Type = models.PortfolioTypeCase
	}
	if strings.TrimSpace(item.Title) == "" {
		return utils.ValidationError("title is required")
	}
	if item.Type != models.PortfolioTypeModel && item.Type != models.PortfolioTypeCase {
		return utils.ValidationError("type must be MODEL or CASE")
	}
	return nil
}

func (s *ContentService) CreatePortfolio(ctx context.Context, item *models.PortfolioItem) error {
	if err := validatePortfolio(item); err != nil {
		return err
	}
	return s.create(ctx, item, "portfolio item")
}

func (s *ContentService) UpdatePortfolio(ctx context.Context, id string, item *models.PortfolioItem) (*models.PortfolioItem, error) {
	if err := validatePortfolio(item); err != nil {
		return nil, err
	}
	return replaceByID(ctx, s.db, id, item, CodePortfolioNotFound, "Portfolio item")
}

func (s *ContentService) DeletePortfolio(ctx context.Context, id string) error {
	return deleteByID[models.PortfolioItem](ctx, s.db, id, CodePortfolioNotFound, "Portfolio item")
}

// ListPromotions returns every promotion, newest first
func (s *ContentService) ListPromotions(ctx context.Context) ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&promotions).Error; err != nil {
		return nil, utils.DatabaseError("Failed to fetch promotions", err)
	}
	return promotions, nil
}

func validatePromotion(promotion *models.Promotion) error {
	var problems []string
	if strings.TrimSpace(promotion.Title) == "" {
		problems = append(problems, "title is required")
	}
	if promotion.DiscountRate < 0 || promotion.DiscountRate > 100 {
		problems = append(problems, "discount_rate must be between 0 and 100")
	}
	if promotion.StartDate.IsZero() || promotion.EndDate.IsZero() {
		problems = append(problems, "start_date and end_date are required")
	} else if !promotion.EndDate.After(promotion.StartDate) {
		problems = append(problems, "end_date must be after start_date")
	}
	if len(problems) > 0 {
		return utils.ValidationError("Invalid promotion").WithDetails(problems)
	}
	promotion.NormalizeWindow()
	return nil
}

func (s *ContentService) CreatePromotion(ctx context.Context, promotion *models.Promotion) error {
	if err := validatePromotion(promotion); err != nil {
		return err
	}
	return s.create(ctx, promotion, "promotion")
}

func (s *ContentService) UpdatePromotion(ctx context.Context, id string, promotion *models.Promotion) (*models.Promotion, error) {
	if err := validatePromotion(promotion); err != nil {
		return nil, err
	}
	return replaceByID(ctx, s.db, id, promotion, CodePromotionNotFound, "Promotion")
}

func (s *ContentService) DeletePromotion(ctx context.Context, id string) error {
	return deleteByID[models.Promotion](ctx, s.db, id, CodePromotionNotFound, "Promotion")
}

// ListShowcase returns showcase videos by sort order
func (s *ContentService) ListShowcase(ctx context.Context, includeInactive bool) ([]models.ShowcaseVideo, error) {
	query := s.db.WithContext(ctx).Order("sort_order ASC, created_at DESC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var videos []models.ShowcaseVideo
	if err := query.Find(&videos).Error; err != nil {
		return nil, utils.DatabaseError("Failed to fetch showcase videos", err)
	}
	return videos, nil
}

func (s *ContentService) CreateShowcase(ctx context.Context, video *models.ShowcaseVideo) error {
	if strings.TrimSpace(video.Title) == "" || strings.TrimSpace(video.VideoURL) == "" {
		return utils.ValidationError("title and video_url are required")
	}
	return s.create(ctx, video, "showcase video")
}

func (s *ContentService) UpdateShowcase(ctx context.Context, id string, video *models.ShowcaseVideo) (*models.ShowcaseVideo, error) {
	if strings.TrimSpace(video.Title) == "" || strings.TrimSpace(video.VideoURL) == "" {
		return nil, utils.ValidationError("title and video_url are required")
	}
	return replaceByID(ctx, s.db, id, video, CodeShowcaseNotFound, "Showcase video")
}

func (s *ContentService) DeleteShowcase(ctx context.Context, id string) error {
	return deleteByID[models.ShowcaseVideo](ctx, s.db, id, CodeShowcaseNotFound, "Showcase video")
}

// ListArtistModels returns virtual models, optionally for one gender
func (s *ContentService) ListArtistModels(ctx context.Context, gender string, includeInactive bool) ([]models.ArtistModel, error) {
	query := s.db.WithContext(ctx).Order("sort_order ASC, created_at DESC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if gender != "" {
		query = query.Where("gender = ?", strings.ToLower(gender))
	}
	var artists []models.ArtistModel
	if err := query.Find(&artists).Error; err != nil {
		return nil, utils.DatabaseError("Failed to fetch artist models", err)
	}
	return artists, nil
}

func validateArtist(artist *models.ArtistModel) error {
	artist.Gender = strings.ToLower(strings.TrimSpace(artist.Gender))
	if strings.TrimSpace(artist.Name) == "" {
		return utils.ValidationError("name is required")
	}
	if artist.Gender != "" && artist.Gender != "male" && artist.Gender != "female" {
		return utils.ValidationError("gender must be male or female")
	}
	return nil
}

func (s *ContentService) CreateArtistModel(ctx context.Context, artist *models.ArtistModel) error {
	if err := validateArtist(artist); err != nil {
		return err
	}
	return s.create(ctx, artist, "artist model")
}

func (s *ContentService) UpdateArtistModel(ctx context.Context, id string, artist *models.ArtistModel) (*models.ArtistModel, error) {
	if err := validateArtist(artist); err != nil {
		return nil, err
	}
	return replaceByID(ctx, s.db, id, artist, CodeArtistModelNotFound, "Artist model")
}

func (s *ContentService) DeleteArtistModel(ctx context.Context, id string) error {
	return deleteByID[models.ArtistModel](ctx, s.db, id, CodeArtistModelNotFound, "Artist model")
}
