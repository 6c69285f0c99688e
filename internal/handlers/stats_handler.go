package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/services"
)

// dateRange reads ?startDate&endDate, answering 400 on a malformed bound.
func dateRange(c *gin.Context) (*services.DateRange, bool) {
	r, err := services.ParseDateRange(c.Query("startDate"), c.Query("endDate"), time.Now())
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	return r, true
}

// AdminStats totals pending and paid sales across all sellers.
func (h *Handler) AdminStats(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	totals, err := h.Stats.Admin(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *Handler) SellerStats(c *gin.Context) {
	totals, err := h.Stats.Seller(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// SalesReport lists one row per sold line item.
func (h *Handler) SalesReport(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	lines, err := h.Stats.Report(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	if lines == nil {
		lines = make([]models.SalesLine, 0)
	}
	c.JSON(http.StatusOK, lines)
}
