package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(All()...))
	return db
}

func TestOrderStatusIsValid(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestContactStatusIsValid(t *testing.T) {
	assert.True(t, ContactNew.IsValid())
	assert.True(t, ContactClosed.IsValid())
	assert.False(t, ContactStatus("pending").IsValid())
}

func TestLooseStringUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LooseString
	}{
		{"string", `{"estimated_price":"1,100,000원"}`, "1,100,000원"},
		{"integer", `{"estimated_price":2200000}`, "2200000"},
		{"null", `{"estimated_price":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var summary OrderSummary
			require.NoError(t, json.Unmarshal([]byte(tt.input), &summary))
			assert.Equal(t, tt.expected, summary.EstimatedPrice)
		})
	}

	var summary OrderSummary
	assert.Error(t, json.Unmarshal([]byte(`{"estimated_price":{"a":1}}`), &summary))
}

func TestOrderBeforeCreate(t *testing.T) {
	db := setupTestDB(t)

	order := Order{
		Name:  "Kim",
		Email: "  Kim@Example.COM ",
		Phone: "010-1234-5678",
		ChatLog: []ChatMessage{
			{Role: "user", Content: "Hello"},
		},
		OrderSummary: &OrderSummary{Category: "beauty", RecommendedPack: "FAST"},
		Status:       StatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	assert.Len(t, order.ID, 36)
	assert.Regexp(t, `^AD-\d{8}-[0-9A-F]{6}$`, order.OrderNumber)
	assert.Equal(t, "kim@example.com", order.Email)

	var loaded Order
	require.NoError(t, db.First(&loaded, "id = ?", order.ID).Error)
	assert.Equal(t, order.ChatLog, loaded.ChatLog)
	require.NotNil(t, loaded.OrderSummary)
	assert.Equal(t, "FAST", loaded.OrderSummary.RecommendedPack)
	assert.Nil(t, loaded.DeliveredAt)
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "AD-20261015-3F9A2C", NewOrderNumber(now, "3f9a2c11-0000-4000-8000-000000000000"))
	assert.Equal(t, "AD-20261015-AB", NewOrderNumber(now, "ab"))
}

func TestContactBeforeCreateDefaults(t *testing.T) {
	db := setupTestDB(t)

	contact := Contact{Name: "Lee", Email: "LEE@example.com"}
	require.NoError(t, db.Create(&contact).Error)

	assert.NotEmpty(t, contact.ID)
	assert.Equal(t, "lee@example.com", contact.Email)
	assert.Equal(t, ContactNew, contact.Status)
}

func TestPromotionIsCurrent(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		promotion Promotion
		expected  bool
	}{
		{
			name:      "active inside window",
			promotion: Promotion{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
			expected:  true,
		},
		{
			name:      "active but expired",
			promotion: Promotion{IsActive: true, StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-time.Hour)},
			expected:  false,
		},
		{
			name:      "inactive inside window",
			promotion: Promotion{IsActive: false, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
			expected:  false,
		},
		{
			name:      "starts exactly now",
			promotion: Promotion{IsActive: true, StartDate: now, EndDate: now.Add(time.Hour)},
			expected:  true,
		},
		{
			name:      "ends exactly now",
			promotion: Promotion{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now},
			expected:  false,
		},
		{
			name:      "not started",
			promotion: Promotion{IsActive: true, StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.promotion.IsCurrent(now))
		})
	}
}

func TestNotificationEventIsValid(t *testing.T) {
	assert.True(t, EventOrderConfirmation.IsValid())
	assert.True(t, EventProposalSent.IsValid())
	assert.True(t, EventDeliveryComplete.IsValid())
	assert.False(t, NotificationEvent("welcome").IsValid())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "order_events", OrderEvent{}.TableName())
	assert.Equal(t, "notification_logs", NotificationLog{}.TableName())
	assert.Equal(t, "contacts", Contact{}.TableName())
	assert.Equal(t, "portfolio_items", PortfolioItem{}.TableName())
	assert.Equal(t, "promotions", Promotion{}.TableName())
	assert.Equal(t, "showcase_videos", ShowcaseVideo{}.TableName())
	assert.Equal(t, "artist_models", ArtistModel{}.TableName())
}
