package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/services"
	"github.com/adcut-studio/adcut-api/utils"
)

// TrackByID handles GET /api/v1/track/:id - an order id, order number or contact id
func TrackByID(c *gin.Context) {
	engagement, err := trackingService().LookupByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, engagement)
}

// TrackByEmail handles GET /api/v1/track?email=
func TrackByEmail(c *gin.Context) {
	engagements, err := trackingService().LookupByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, engagements)
}

// TrackingQRCode handles GET /api/v1/track/:id/qr?size= - a PNG QR code of the tracking page
func TrackingQRCode(c *gin.Context) {
	engagement, err := trackingService().LookupByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	size := services.TrackingQRSize
	if raw := c.Query("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 64 || size > 1024 {
			respondError(c, utils.ValidationError("size must be between 64 and 1024"))
			return
		}
	}

	png, err := services.TrackingQRCode(appConfig().TrackingURL(engagement.ID), size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
