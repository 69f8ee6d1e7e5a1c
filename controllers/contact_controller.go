package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/services"
)

// CreateContactRequest represents the contact form
type CreateContactRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Company         string `json:"company"`
	Budget          string `json:"budget"`
	ProductInterest string `json:"product_interest"`
	Message         string `json:"message" binding:"max=5000"`
}

// UpdateContactStatusRequest is the body of PATCH /admin/contacts/:id/status
type UpdateContactStatusRequest struct {
	Status models.ContactStatus `json:"status" binding:"required"`
}

// CreateContact handles POST /api/v1/contacts
func CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := contactService().Create(c.Request.Context(), services.ContactInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Company:         req.Company,
		Budget:          req.Budget,
		ProductInterest: req.ProductInterest,
		Message:         req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, contact)
}

// ListContacts handles GET /api/v1/admin/contacts?status=
func ListContacts(c *gin.Context) {
	contacts, err := contactService().List(c.Request.Context(), models.ContactStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, contacts)
}

// UpdateContactStatus handles PATCH /api/v1/admin/contacts/:id/status
func UpdateContactStatus(c *gin.Context) {
	var req UpdateContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := contactService().SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, contact)
}
