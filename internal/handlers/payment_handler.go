package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/access"
	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/services"
)

// --- CREATE PAYMENT (buyer) ---

// CreatePayment records a checkout the storefront has already charged.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !h.Gate.Allow(c, access.Checkout, access.Resource{OwnerEmail: req.Email}) {
		return
	}

	payment, err := h.Payments.Checkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("CreatePayment: %s recorded %d lines for %s", payment.ID.Hex(), len(payment.LineItems), payment.Email)
	c.JSON(http.StatusCreated, payment)
}

// --- PAYMENT HISTORY ---

func (h *Handler) PaymentHistory(c *gin.Context) {
	payments, err := h.Payments.History(c.Request.Context(), c.Param("email"))
	respondPayments(c, payments, err)
}

// ListPayments lists every payment; ?status=pending|paid narrows it.
func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.Payments.All(c.Request.Context(), models.PaymentStatus(c.Query("status")))
	respondPayments(c, payments, err)
}

// --- CONFIRM PAYMENT (admin) ---

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.PaymentStatus `json:"status" binding:"required,eq=paid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.Payments.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func respondPayments(c *gin.Context, payments []models.Payment, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if payments == nil {
		payments = make([]models.Payment, 0)
	}
	c.JSON(http.StatusOK, payments)
}
