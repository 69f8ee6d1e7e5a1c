package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/services"
)

// ListPortfolio handles GET /api/v1/portfolio?category=&type=&featured=true
func ListPortfolio(c *gin.Context) {
	listPortfolio(c, false)
}

// AdminListPortfolio handles GET /api/v1/admin/portfolio, inactive items included
func AdminListPortfolio(c *gin.Context) {
	listPortfolio(c, true)
}

func listPortfolio(c *gin.Context, includeInactive bool) {
	items, err := contentService().ListPortfolio(c.Request.Context(), services.PortfolioFilter{
		Category:        c.Query("category"),
		Type:            c.Query("type"),
		FeaturedOnly:    boolQuery(c, "featured"),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, items)
}

// CreatePortfolioItem handles POST /api/v1/admin/portfolio
func CreatePortfolioItem(c *gin.Context) {
	var item models.PortfolioItem
	if err := c.ShouldBindJSON(&item); err != nil {
		respondBindError(c, err)
		return
	}
	item.ID = ""

	if err := contentService().CreatePortfolio(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, item)
}

// UpdatePortfolioItem handles PUT /api/v1/admin/portfolio/:id
func UpdatePortfolioItem(c *gin.Context) {
	var item models.PortfolioItem
	if err := c.ShouldBindJSON(&item); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := contentService().UpdatePortfolio(c.Request.Context(), c.Param("id"), &item)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// DeletePortfolioItem handles DELETE /api/v1/admin/portfolio/:id
func DeletePortfolioItem(c *gin.Context) {
	if err := contentService().DeletePortfolio(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPromotions handles GET /api/v1/admin/promotions
func ListPromotions(c *gin.Context) {
	promotions, err := contentService().ListPromotions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, promotions)
}

// CreatePromotion handles POST /api/v1/admin/promotions
func CreatePromotion(c *gin.Context) {
	var promotion models.Promotion
	if err := c.ShouldBindJSON(&promotion); err != nil {
		respondBindError(c, err)
		return
	}
	promotion.ID = ""

	if err := contentService().CreatePromotion(c.Request.Context(), &promotion); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, promotion)
}

// UpdatePromotion handles PUT /api/v1/admin/promotions/:id
func UpdatePromotion(c *gin.Context) {
	var promotion models.Promotion
	if err := c.ShouldBindJSON(&promotion); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := contentService().UpdatePromotion(c.Request.Context(), c.Param("id"), &promotion)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// DeletePromotion handles DELETE /api/v1/admin/promotions/:id
func DeletePromotion(c *gin.Context) {
	if err := contentService().DeletePromotion(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListShowcase handles GET /api/v1/showcase
func ListShowcase(c *gin.Context) {
	listShowcase(c, false)
}

// AdminListShowcase handles GET /api/v1/admin/showcase
func AdminListShowcase(c *gin.Context) {
	listShowcase(c, true)
}

func listShowcase(c *gin.Context, includeInactive bool) {
	videos, err := contentService().ListShowcase(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, videos)
}

// UpdateShowcaseVideo handles PUT /api/v1/admin/showcase/:id
func UpdateShowcaseVideo(c *gin.Context) {
	var video models.ShowcaseVideo
	if err := c.ShouldBindJSON(&video); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := contentService().UpdateShowcase(c.Request.Context(), c.Param("id"), &video)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// DeleteShowcaseVideo handles DELETE /api/v1/admin/showcase/:id
func DeleteShowcaseVideo(c *gin.Context) {
	if err := contentService().DeleteShowcase(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListArtistModels handles GET /api/v1/artist-models?gender=
func ListArtistModels(c *gin.Context) {
	listArtistModels(c, false)
}

// AdminListArtistModels handles GET /api/v1/admin/artist-models
func AdminListArtistModels(c *gin.Context) {
	listArtistModels(c, true)
}

func listArtistModels(c *gin.Context, includeInactive bool) {
	artists, err := contentService().ListArtistModels(c.Request.Context(), c.Query("gender"), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, artists)
}

// CreateArtistModel handles POST /api/v1/admin/artist-models
func CreateArtistModel(c *gin.Context) {
	var artist models.ArtistModel
	if err := c.ShouldBindJSON(&artist); err != nil {
		respondBindError(c, err)
		return
	}
	artist.ID = ""

	if err := contentService().CreateArtistModel(c.Request.Context(), &artist); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, artist)
}

// UpdateArtistModel handles PUT /api/v1/admin/artist-models/:id
func UpdateArtistModel(c *gin.Context) {
	var artist models.ArtistModel
	if err := c.ShouldBindJSON(&artist); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := contentService().UpdateArtistModel(c.Request.Context(), c.Param("id"), &artist)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// DeleteArtistModel handles DELETE /api/v1/admin/artist-models/:id
func DeleteArtistModel(c *gin.Context) {
	if err := contentService().DeleteArtistModel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
