package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pack is a commercial tier in the catalog; prices are whole KRW
type Pack struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	BasePrice   int64    `json:"base_price"`
	Videos      int      `json:"videos"`
	Revisions   int      `json:"revisions"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
}

// Catalog lists the packs in display order
var Catalog = []Pack{
	{Code: "READY", Name: "Ready Pack", BasePrice: 1_100_000, Videos: 1, Revisions: 1, Aliases: []string{"STARTER"}, Description: "Template-based short-form ad"},
	{Code: "FAST", Name: "Fast Pack", BasePrice: 2_200_000, Videos: 3, Revisions: 2, Aliases: []string{"GROWTH"}, Description: "Three variations tuned per platform"},
	{Code: "EXCLUSIVE", Name: "Exclusive Pack", BasePrice: 3_300_000, Videos: 5, Revisions: 3, Aliases: []string{"PERFORMANCE"}, Description: "Custom virtual model and full campaign set"},
}

// LookupPack resolves a pack code or alias case-insensitively
func LookupPack(code string) (Pack, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, pack := range Catalog {
		if pack.Code == code {
			return pack, true
		}
		for _, alias := range pack.Aliases {
			if alias == code {
				return pack, true
			}
		}
	}
	return Pack{}, false
}

// ApplyRate discounts price by rate percent and rounds to the nearest whole unit
func ApplyRate(price int64, rate int) int64 {
	if rate <= 0 {
		return price
	}
	discounted := decimal.NewFromInt(price).
		Mul(decimal.NewFromInt(int64(100 - rate))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return discounted.IntPart()
}

// Quote is the price breakdown for one pack
type Quote struct {
	Pack             string `json:"pack"`
	BasePrice        int64  `json:"base_price"`
	PromotionRate    int    `json:"promotion_rate"`
	PromotionPrice   int64  `json:"promotion_price"`
	InvoiceRate      int    `json:"invoice_rate"`
	FinalPrice       int64  `json:"final_price"`
	InvoiceApplied   bool   `json:"invoice_applied"`
	PromotionApplied bool   `json:"promotion_applied"`
}

// QuotePrice applies the promotion discount, rounds, then applies the invoice
// discount to the already-discounted price and rounds again.
func QuotePrice(base int64, promotionRate, invoiceRate int, invoice bool) Quote {
	quote := Quote{
		BasePrice:        base,
		PromotionRate:    promotionRate,
		PromotionPrice:   ApplyRate(base, promotionRate),
		PromotionApplied: promotionRate > 0,
	}
	quote.FinalPrice = quote.PromotionPrice
	if invoice {
		quote.InvoiceRate = invoiceRate
		quote.InvoiceApplied = true
		quote.FinalPrice = ApplyRate(quote.PromotionPrice, invoiceRate)
	}
	return quote
}

// CurrentPromotion returns the promotion in effect at now, or nil.
// When several qualify the most recently created one wins.
func CurrentPromotion(ctx context.Context, db *gorm.DB, now time.Time) (*models.Promotion, error) {
	var promotion models.Promotion
	now = now.UTC()
	err := db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date > ?", true, now, now).
		Order("created_at DESC").
		First(&promotion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.DatabaseError("Failed to load current promotion", err)
	}
	return &promotion, nil
}

// PricingService quotes catalog packs against the current promotion
type PricingService struct {
	db          *gorm.DB
	invoiceRate int
	now         func() time.Time
}

// NewPricingService creates a pricing service with the given invoice discount percent
func NewPricingService(db *gorm.DB, invoiceRate int) *PricingService {
	return &PricingService{db: db, invoiceRate: invoiceRate, now: time.Now}
}

// PriceList is the catalog priced at a point in time
type PriceList struct {
	Promotion *models.Promotion `json:"promotion"`
	Quotes    []Quote           `json:"quotes"`
	Invoice   bool              `json:"invoice"`
}

// PriceList quotes every pack in the catalog
func (s *PricingService) PriceList(ctx context.Context, invoice bool) (*PriceList, error) {
	promotion, err := CurrentPromotion(ctx, s.db, s.now())
	if err != nil {
		return nil, err
	}
	rate := 0
	if promotion != nil {
		rate = promotion.DiscountRate
	}

	list := &PriceList{Promotion: promotion, Invoice: invoice, Quotes: make([]Quote, 0, len(Catalog))}
	for _, pack := range Catalog {
		quote := QuotePrice(pack.BasePrice, rate, s.invoiceRate, invoice)
		quote.Pack = pack.Code
		list.Quotes = append(list.Quotes, quote)
	}
	return list, nil
}

// Quote prices one pack, resolving aliases
func (s *PricingService) Quote(ctx context.Context, packCode string, invoice bool) (Pack, Quote, error) {
	pack, ok := LookupPack(packCode)
	if !ok {
		return Pack{}, Quote{}, utils.ValidationError("Unknown pack: " + packCode)
	}
	promotion, err := CurrentPromotion(ctx, s.db, s.now())
	if err != nil {
		return Pack{}, Quote{}, err
	}
	rate := 0
	if promotion != nil {
		rate = promotion.DiscountRate
	}
	quote := QuotePrice(pack.BasePrice, rate, s.invoiceRate, invoice)
	quote.Pack = pack.Code
	return pack, quote, nil
}
