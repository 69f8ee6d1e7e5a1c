package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/services"
)

// GetPricing handles GET /api/v1/pricing?invoice=true
func GetPricing(c *gin.Context) {
	list, err := pricingService().PriceList(c.Request.Context(), boolQuery(c, "invoice"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, list)
}

// GetCurrentPromotion handles GET /api/v1/promotions/current; data is null when none is running
func GetCurrentPromotion(c *gin.Context) {
	promotion, err := services.CurrentPromotion(c.Request.Context(), config.GetDB(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, promotion)
}
