package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/access"
	"github.com/harentsoaR/pharmaca-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required,objectid"`
	Email     string `json:"email" binding:"required,email"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !h.Gate.Allow(c, access.ManageCart, access.Resource{OwnerEmail: req.Email}) {
		return
	}

	productID, _ := primitive.ObjectIDFromHex(req.ProductID)
	line, err := h.Cart.Add(c.Request.Context(), &models.CartLine{
		ProductID: productID,
		Email:     req.Email,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

// GetCart returns the caller's cart priced at current product prices.
func (h *Handler) GetCart(c *gin.Context) {
	summary, err := h.Cart.Priced(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) AdjustCartQuantity(c *gin.Context) {
	line, ok := h.ownedCartLine(c)
	if !ok {
		return
	}
	var req struct {
		Delta int `json:"delta" binding:"required,oneof=-1 1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.Cart.Adjust(c.Request.Context(), line.ID, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) RemoveCartLine(c *gin.Context) {
	line, ok := h.ownedCartLine(c)
	if !ok {
		return
	}
	if err := h.Cart.Remove(c.Request.Context(), line.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart item removed"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	n, err := h.Cart.Clear(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": n})
}

// ownedCartLine loads the line named in the path and checks the caller owns it.
func (h *Handler) ownedCartLine(c *gin.Context) (*models.CartLine, bool) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return nil, false
	}
	line, err := h.Cart.Line(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !h.Gate.Allow(c, access.ManageCart, access.Resource{OwnerEmail: line.Email}) {
		return nil, false
	}
	return line, true
}
