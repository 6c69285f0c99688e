package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/middleware"
	"github.com/harentsoaR/pharmaca-api/internal/models"
)

type CreateBannerRequest struct {
	BannerName  string `json:"bannerName" binding:"required"`
	Description string `json:"description" binding:"required"`
	Image       string `json:"image"`
}

func (h *Handler) CreateBanner(c *gin.Context) {
	var req CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	banner, err := h.Banners.Submit(c.Request.Context(), middleware.Email(c), &models.Banner{
		BannerName:  req.BannerName,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *Handler) ListBanners(c *gin.Context) {
	banners, err := h.Banners.All(c.Request.Context())
	respondBanners(c, banners, err)
}

func (h *Handler) ActiveBanners(c *gin.Context) {
	banners, err := h.Banners.Active(c.Request.Context())
	respondBanners(c, banners, err)
}

func (h *Handler) SellerBanners(c *gin.Context) {
	banners, err := h.Banners.BySeller(c.Request.Context(), c.Param("email"))
	respondBanners(c, banners, err)
}

func (h *Handler) SetBannerStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.BannerStatus `json:"status" binding:"required,oneof=active inactive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Banners.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "banner status updated", "status": req.Status})
}

func respondBanners(c *gin.Context, banners []models.Banner, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if banners == nil {
		banners = make([]models.Banner, 0)
	}
	c.JSON(http.StatusOK, banners)
}
