package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/metrics"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/utils"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"gorm.io/gorm"
)

const CodePaymentFailed = "PAYMENT_FAILED"

// CheckoutSessionRequest is what the payment provider needs to host a checkout page
type CheckoutSessionRequest struct {
	OrderID     string
	ProductName string
	Amount      int64 // whole currency units; KRW has no minor unit
	Email       string
	Metadata    map[string]string
}

// CheckoutSession is a hosted checkout page
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProvider creates hosted checkout sessions
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
}

// StripePaymentProvider implements PaymentProvider with Stripe Checkout
type StripePaymentProvider struct {
	client     *client.API
	currency   string
	successURL string
	cancelURL  string
}

var paymentProviderInstance PaymentProvider

// InitPaymentProvider registers a Stripe-backed payment provider
func InitPaymentProvider(secretKey, currency, successURL, cancelURL string) (PaymentProvider, error) {
	if secretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY not set")
	}
	paymentProviderInstance = &StripePaymentProvider{
		client:     client.New(secretKey, nil),
		currency:   strings.ToLower(currency),
		successURL: successURL,
		cancelURL:  cancelURL,
	}
	return paymentProviderInstance, nil
}

// GetPaymentProvider returns the registered payment provider, or nil
func GetPaymentProvider() PaymentProvider {
	return paymentProviderInstance
}

// SetPaymentProvider sets the payment provider (primarily for testing)
func SetPaymentProvider(provider PaymentProvider) {
	paymentProviderInstance = provider
}

func (p *StripePaymentProvider) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(p.successURL),
		CancelURL:         stripe.String(p.cancelURL),
		ClientReferenceID: stripe.String(req.OrderID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	session, err := p.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// CheckoutInput is a pack purchase request
type CheckoutInput struct {
	Pack          string
	Name          string
	Email         string
	Phone         string
	Company       string
	PaymentMethod string
}

// CheckoutResult is the saved order plus where to send the customer next
type CheckoutResult struct {
	Order       *models.Order `json:"order"`
	Quote       Quote         `json:"quote"`
	CheckoutURL string        `json:"checkout_url,omitempty"`
}

// CheckoutService prices a pack, saves the order and opens a payment session for card payments
type CheckoutService struct {
	db       *gorm.DB
	orders   *OrderService
	pricing  *PricingService
	provider PaymentProvider
}

func NewCheckoutService(db *gorm.DB, orders *OrderService, pricing *PricingService, provider PaymentProvider) *CheckoutService {
	return &CheckoutService{db: db, orders: orders, pricing: pricing, provider: provider}
}

// Checkout saves the order first and only then contacts the payment provider
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = models.PaymentCard
	}
	if method != models.PaymentCard && method != models.PaymentInvoice {
		return nil, utils.ValidationError("payment_method must be card or invoice")
	}
	if method == models.PaymentCard && s.provider == nil {
		return nil, utils.NewAppError(http.StatusServiceUnavailable, utils.CodeNotConfigured, "Card payments are not available")
	}

	pack, quote, err := s.pricing.Quote(ctx, in.Pack, method == models.PaymentInvoice)
	if err != nil {
		return nil, err
	}

	price := quote.FinalPrice
	order, err := s.orders.CreateCheckout(ctx, &models.Order{
		Name:          strings.TrimSpace(in.Name),
		Email:         in.Email,
		Phone:         strings.TrimSpace(in.Phone),
		Company:       strings.TrimSpace(in.Company),
		SelectedPack:  pack.Code,
		FinalPrice:    &price,
		PaymentMethod: method,
	})
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{Order: order, Quote: quote}
	if method == models.PaymentInvoice {
		return result, nil
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutSessionRequest{
		OrderID:     order.ID,
		ProductName: fmt.Sprintf("AdCut %s", pack.Name),
		Amount:      price,
		Email:       order.Email,
		Metadata:    map[string]string{"order_number": order.OrderNumber, "pack": pack.Code},
	})
	if err != nil {
		metrics.ProviderFailure("payment", providerFailureKind(err))
		logger.Get().Error(logger.Get().WithField(ctx, "order_id", order.ID), "checkout session creation failed", err)
		return nil, utils.ProviderError(http.StatusBadGateway, CodePaymentFailed, "Payment could not be started. Please try again.", err)
	}

	order.CheckoutSessionID = session.ID
	if err := s.db.WithContext(ctx).Model(order).Update("checkout_session_id", session.ID).Error; err != nil {
		logger.Get().Error(logger.Get().WithField(ctx, "order_id", order.ID), "failed to store checkout session id", err)
	}
	result.CheckoutURL = session.URL
	return result, nil
}
