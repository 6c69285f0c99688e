package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/access"
	"github.com/harentsoaR/pharmaca-api/internal/middleware"
	"github.com/harentsoaR/pharmaca-api/internal/services"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"github.com/harentsoaR/pharmaca-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler holds everything the route handlers need. Each feature talks only
// to its own service.
type Handler struct {
	Users      *services.UserService
	Catalog    *services.CatalogService
	Cart       *services.CartService
	Categories *services.CategoryService
	Banners    *services.BannerService
	Payments   *services.PaymentService
	Stats      *services.StatsService
	Tokens     *utils.TokenIssuer
	Gate       *middleware.Gate
}

func NewHandler(st *store.Store, tokens *utils.TokenIssuer, policy *access.Policy, notificationSvc *services.NotificationService) *Handler {
	users := services.NewUserService(st.Users)
	return &Handler{
		Users:      users,
		Catalog:    services.NewCatalogService(st.Products),
		Cart:       services.NewCartService(st.Carts, st.Products),
		Categories: services.NewCategoryService(st.Categories),
		Banners:    services.NewBannerService(st.Banners),
		Payments:   services.NewPaymentService(st.Payments, st.Carts, notificationSvc),
		Stats:      services.NewStatsService(st.Payments, st.Products),
		Tokens:     tokens,
		Gate:       middleware.NewGate(policy, users),
	}
}

// respondError maps service and store errors onto a status and a {message}
// body. Anything unrecognised is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, access.ErrDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": access.ErrDenied.Error()})
	default:
		log.Printf("[%s] %s %s: %v", middleware.RequestID(c), c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// objectIDParam parses a path parameter, answering 400 when it is not an id.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
