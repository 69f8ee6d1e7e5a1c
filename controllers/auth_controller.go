package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminLoginRequest is the body of POST /api/v1/admin/session
type AdminLoginRequest struct {
	Name     string `json:"name" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /api/v1/admin/session - exchanges the shared password for a session token
func AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := adminAuthService().Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, session)
}
