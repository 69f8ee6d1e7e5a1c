package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/middleware"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/services"
)

// CreateChatOrderRequest represents a finished intake conversation submitted as an order
type CreateChatOrderRequest struct {
	Name         string               `json:"name" binding:"required"`
	Phone        string               `json:"phone" binding:"required"`
	Email        string               `json:"email" binding:"omitempty,email"`
	Company      string               `json:"company"`
	ChatLog      []models.ChatMessage `json:"chat_log" binding:"required,min=1,dive"`
	OrderSummary *models.OrderSummary `json:"order_summary" binding:"required"`
}

// CreateOrderRequest represents the plain order form
type CreateOrderRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Pack    string `json:"pack"`
	Message string `json:"message"`
}

// CheckoutRequest represents a pack purchase
type CheckoutRequest struct {
	Pack          string `json:"pack" binding:"required,pack"`
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=card invoice"`
}

// UpdateStatusRequest is the body of PATCH /admin/orders/:id/status
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// DeliverablesRequest carries proposal or final delivery links
type DeliverablesRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,dive,url"`
	Note string   `json:"note"`
}

// UpdateTermsRequest changes the commercial terms; omitted fields are left alone
type UpdateTermsRequest struct {
	SelectedPack *string `json:"selected_pack"`
	FinalPrice   *int64  `json:"final_price" binding:"omitempty,gte=0"`
}

// NotifyRequest is the body of POST /admin/orders/:id/notifications
type NotifyRequest struct {
	Event models.NotificationEvent `json:"event" binding:"required"`
}

// CreateChatOrder handles POST /api/v1/orders/chat
func CreateChatOrder(c *gin.Context) {
	var req CreateChatOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().CreateFromChat(c.Request.Context(), services.ChatOrderInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Company: req.Company,
		ChatLog: req.ChatLog,
		Summary: req.OrderSummary,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, order)
}

// CreateOrder handles POST /api/v1/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().CreateFromForm(c.Request.Context(), services.FormOrderInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Pack:    req.Pack,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, order)
}

// Checkout handles POST /api/v1/checkout
func Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := checkoutService().Checkout(c.Request.Context(), services.CheckoutInput{
		Pack:          req.Pack,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Company:       req.Company,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, result)
}

// ListOrders handles GET /api/v1/admin/orders?status=&q=&page=&page_size=
func ListOrders(c *gin.Context) {
	page, pageSize := pagination(c)

	orders, total, err := orderService().List(c.Request.Context(), services.ListOrdersParams{
		Status:   models.OrderStatus(c.Query("status")),
		Query:    c.Query("q"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, orders, total, page, pageSize)
}

// GetOrder handles GET /api/v1/admin/orders/:id (id or order number)
func GetOrder(c *gin.Context) {
	order, err := orderService().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().SetStatus(c.Request.Context(), c.Param("id"), req.Status, actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// SendProposal handles POST /api/v1/admin/orders/:id/proposal
func SendProposal(c *gin.Context) {
	var req DeliverablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().SendProposal(c.Request.Context(), c.Param("id"), req.URLs, req.Note, actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// DeliverOrder handles POST /api/v1/admin/orders/:id/delivery
func DeliverOrder(c *gin.Context) {
	var req DeliverablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().Deliver(c.Request.Context(), c.Param("id"), req.URLs, req.Note, actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// UpdateOrderTerms handles PATCH /api/v1/admin/orders/:id/terms
func UpdateOrderTerms(c *gin.Context) {
	var req UpdateTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().UpdateTerms(c.Request.Context(), c.Param("id"), req.SelectedPack, req.FinalPrice, actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// GetOrderHistory handles GET /api/v1/admin/orders/:id/history
func GetOrderHistory(c *gin.Context) {
	events, err := orderService().History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, events)
}

// SendOrderNotification handles POST /api/v1/admin/orders/:id/notifications
func SendOrderNotification(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := orderService().Notify(c.Request.Context(), c.Param("id"), req.Event)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, entry)
}

// ListOrderNotifications handles GET /api/v1/admin/orders/:id/notifications
func ListOrderNotifications(c *gin.Context) {
	order, err := orderService().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	logs, err := notificationDispatcher().History(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, logs)
}

func actorOf(c *gin.Context) string {
	actor, err := middleware.GetActor(c)
	if err != nil {
		return services.ActorSystem
	}
	return actor
}
