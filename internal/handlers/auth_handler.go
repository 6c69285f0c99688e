package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/middleware"
	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
)

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// SignIn records a user the first time they sign in with the storefront's
// identity provider.
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Users.Register(c.Request.Context(), &models.User{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("SignIn: registered %s", user.Email)
	c.JSON(http.StatusCreated, user)
}

// IssueToken hands out a bearer token for an email the identity provider has
// already vouched for.
func (h *Handler) IssueToken(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.Tokens.Generate(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetRole answers the caller's own role; unknown users read as customers.
func (h *Handler) GetRole(c *gin.Context) {
	role, err := h.Users.Role(c.Request.Context(), c.Param("email"))
	if errors.Is(err, store.ErrNotFound) {
		role = models.RoleCustomer
	} else if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *Handler) SetRole(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Role models.Role `json:"role" binding:"required,oneof=customer seller admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Users.SetRole(c.Request.Context(), middleware.Email(c), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("SetRole: %s is now %s", user.Email, user.Role)
	c.JSON(http.StatusOK, user)
}
