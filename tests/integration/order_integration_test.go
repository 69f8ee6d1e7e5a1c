package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/services"
)

// OrderIntegrationTestSuite covers intake through delivery on the full router
type OrderIntegrationTestSuite struct {
	apiSuite
}

func (s *OrderIntegrationTestSuite) createChatOrder(email string) map[string]interface{} {
	w, response := s.request(http.MethodPost, "/api/v1/orders/chat", map[string]interface{}{
		"name":  "Kim Minji",
		"phone": "010-1234-5678",
		"email": email,
		"chat_log": []map[string]string{
			{"role": "user", "content": "I sell a vitamin serum"},
			{"role": "assistant", "content": "Great, which platform?"},
		},
		"order_summary": map[string]interface{}{
			"category": "beauty", "product": "vitamin serum", "platform": "Instagram Reels",
			"recommended_pack": "FAST", "estimated_price": 2200000,
		},
	}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return dataMap(response)
}

// TestOrderWorkflow_IntakeToDelivery walks one order through every admin step
func (s *OrderIntegrationTestSuite) TestOrderWorkflow_IntakeToDelivery() {
	order := s.createChatOrder("minji@example.com")
	id := order["id"].(string)
	token := s.adminToken()

	w, response := s.request(http.MethodGet, "/api/v1/admin/orders?status=pending", nil, token)
	s.Require().Equal(http.StatusOK, w.Code)
	assert.Len(s.T(), response["data"], 1)

	w, response = s.request(http.MethodPatch, "/api/v1/admin/orders/"+id+"/status", map[string]string{"status": "in_progress"}, token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Equal(s.T(), "in_progress", dataMap(response)["status"])

	w, _ = s.request(http.MethodPost, "/api/v1/admin/orders/"+id+"/proposal", map[string]interface{}{
		"urls": []string{"https://cdn.adcut.test/proposal/a.mp4", "https://cdn.adcut.test/proposal/b.mp4"},
		"note": "Two directions",
	}, token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// customer asks for changes; any status may follow any other
	w, _ = s.request(http.MethodPatch, "/api/v1/admin/orders/"+id+"/status", map[string]string{"status": "revision"}, token)
	s.Require().Equal(http.StatusOK, w.Code)

	w, response = s.request(http.MethodPost, "/api/v1/admin/orders/"+id+"/delivery", map[string]interface{}{
		"urls": []string{"https://cdn.adcut.test/final/a.mp4"},
	}, token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Equal(s.T(), "completed", dataMap(response)["status"])

	// customer view
	w, response = s.request(http.MethodGet, "/api/v1/track/"+order["order_number"].(string), nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	tracked := dataMap(response)
	assert.Equal(s.T(), float64(5), tracked["step"])
	assert.Equal(s.T(), []interface{}{"https://cdn.adcut.test/final/a.mp4"}, tracked["final_video_urls"])

	// audit trail: created, status, proposal, status, delivered
	w, response = s.request(http.MethodGet, "/api/v1/admin/orders/"+id+"/history", nil, token)
	s.Require().Equal(http.StatusOK, w.Code)
	history := response["data"].([]interface{})
	s.Require().Len(history, 5)
	assert.Equal(s.T(), "system", history[0].(map[string]interface{})["actor"])
	for _, entry := range history[1:] {
		assert.Equal(s.T(), "jiwoo", entry.(map[string]interface{})["actor"])
	}

	tagged := s.crm.Tagged()
	s.Require().Len(tagged, 3)
	assert.Equal(s.T(), services.EventTags[models.EventOrderConfirmation], tagged[0].Email.Tags)
	assert.Equal(s.T(), services.EventTags[models.EventProposalSent], tagged[1].Email.Tags)
	assert.Equal(s.T(), services.EventTags[models.EventDeliveryComplete], tagged[2].Email.Tags)
	assert.Contains(s.T(), tagged[2].Email.HTML, "https://adcut.test/track/"+id)
}

// TestOrderWorkflow_NotificationFailureDoesNotBlock keeps admin changes when the CRM is down
func (s *OrderIntegrationTestSuite) TestOrderWorkflow_NotificationFailureDoesNotBlock() {
	s.crm.Err = assert.AnError
	order := s.createChatOrder("minji@example.com")
	token := s.adminToken()

	w, response := s.request(http.MethodPost, "/api/v1/admin/orders/"+order["id"].(string)+"/proposal", map[string]interface{}{
		"urls": []string{"https://cdn.adcut.test/proposal/a.mp4"},
	}, token)
	s.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(s.T(), "review", dataMap(response)["status"])

	w, response = s.request(http.MethodGet, "/api/v1/admin/orders/"+order["id"].(string)+"/notifications", nil, token)
	s.Require().Equal(http.StatusOK, w.Code)
	logs := response["data"].([]interface{})
	s.Require().Len(logs, 2)
	for _, entry := range logs {
		assert.Equal(s.T(), "failed", entry.(map[string]interface{})["status"])
	}
}

// TestCheckout covers both payment methods
func (s *OrderIntegrationTestSuite) TestCheckout() {
	w, response := s.request(http.MethodPost, "/api/v1/checkout", map[string]string{
		"pack": "performance", "name": "Park", "email": "park@example.com", "payment_method": "invoice",
	}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	invoiceOrder := dataMap(response)["order"].(map[string]interface{})
	assert.Equal(s.T(), "EXCLUSIVE", invoiceOrder["selected_pack"])
	assert.Equal(s.T(), float64(2970000), invoiceOrder["final_price"])
	assert.Empty(s.T(), s.payments.Requests())

	w, response = s.request(http.MethodPost, "/api/v1/checkout", map[string]string{
		"pack": "READY", "name": "Park", "email": "park@example.com", "payment_method": "card",
	}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(s.T(), "https://checkout.stripe.test/pay/cs_test_1", dataMap(response)["checkout_url"])

	var order models.Order
	s.Require().NoError(s.db.Where("checkout_session_id = ?", "cs_test_1").First(&order).Error)
	assert.Equal(s.T(), int64(1100000), *order.FinalPrice)
	assert.Equal(s.T(), models.SourceCheckout, order.Source)

	w, response = s.request(http.MethodPost, "/api/v1/checkout", map[string]string{
		"pack": "PLATINUM", "name": "Park", "email": "park@example.com",
	}, "")
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "VALIDATION_ERROR", errorCode(response))
}

// TestTrackingByEmail returns orders and inquiries together, newest first
func (s *OrderIntegrationTestSuite) TestTrackingByEmail() {
	w, _ := s.request(http.MethodPost, "/api/v1/contacts", map[string]string{
		"name": "Kim Minji", "email": "minji@example.com", "message": "Do you shoot on location?",
	}, "")
	s.Require().Equal(http.StatusCreated, w.Code)
	order := s.createChatOrder("Minji@Example.com")

	w, response := s.request(http.MethodGet, "/api/v1/track?email=minji@example.com", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	items := response["data"].([]interface{})
	s.Require().Len(items, 2)
	assert.Equal(s.T(), order["id"], items[0].(map[string]interface{})["id"])
	assert.Equal(s.T(), "contact", items[1].(map[string]interface{})["kind"])
}

func TestOrderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderIntegrationTestSuite))
}
