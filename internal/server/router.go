// Package server assembles the gin engine: middleware, validators and routes.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/harentsoaR/pharmaca-api/internal/access"
	"github.com/harentsoaR/pharmaca-api/internal/handlers"
	"github.com/harentsoaR/pharmaca-api/internal/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterValidators adds the custom binding rules used by request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func logFormatter(p gin.LogFormatterParams) string {
	requestID, _ := p.Keys[middleware.RequestIDKey].(string)
	return fmt.Sprintf("[GIN] %s | %s | %3d | %13v | %15s | %-7s %#v\n%s",
		p.TimeStamp.Format(time.RFC3339),
		requestID,
		p.StatusCode,
		p.Latency,
		p.ClientIP,
		p.Method,
		p.Path,
		p.ErrorMessage,
	)
}

// NewRouter wires every route. Authenticated routes verify the bearer token
// first, then evaluate the access policy, then reach the handler.
func NewRouter(h *handlers.Handler, corsOrigins []string) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(gin.LoggerWithFormatter(logFormatter))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(corsOrigins)))

	gate := h.Gate
	owner := middleware.OwnerParam("email")

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Pharmaca server is running")
	})

	// --- Public routes ---
	r.POST("/jwt", h.IssueToken)
	r.POST("/users", h.SignIn)
	r.GET("/products", h.ListProducts)
	r.GET("/products/discounted", h.DiscountedProducts)
	r.GET("/products/recommended", h.RecommendedProducts)
	r.GET("/products/category/:category", h.ProductsByCategory)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/categories", h.ListCategories)
	r.GET("/banners/active", h.ActiveBanners)

	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(h.Tokens))
	{
		// Users
		authed.GET("/users", gate.Require(access.ListUsers, nil), h.ListUsers)
		authed.GET("/users/role/:email", gate.Require(access.ReadOwnRole, owner), h.GetRole)
		authed.PATCH("/users/:id/role", gate.Require(access.ChangeRole, nil), h.SetRole)

		// Seller catalog
		authed.GET("/products/seller/:email", gate.Require(access.ListOwnProduct, owner), h.SellerProducts)
		authed.POST("/products", gate.Require(access.SubmitProduct, nil), h.CreateProduct)

		// Cart; owners of body or stored lines are checked in the handler
		authed.POST("/carts", h.AddToCart)
		authed.GET("/carts/:email", gate.Require(access.ManageCart, owner), h.GetCart)
		authed.PATCH("/carts/:id", h.AdjustCartQuantity)
		authed.DELETE("/carts/clear/:email", gate.Require(access.ManageCart, owner), h.ClearCart)
		authed.DELETE("/carts/:id", h.RemoveCartLine)

		// Categories
		authed.POST("/categories", gate.Require(access.ManageCategory, nil), h.CreateCategory)
		authed.PATCH("/categories/:id", gate.Require(access.ManageCategory, nil), h.UpdateCategory)
		authed.DELETE("/categories/:id", gate.Require(access.ManageCategory, nil), h.DeleteCategory)

		// Banners
		authed.POST("/banners", gate.Require(access.SubmitBanner, nil), h.CreateBanner)
		authed.GET("/banners", gate.Require(access.ManageBanner, nil), h.ListBanners)
		authed.GET("/banners/seller/:email", gate.Require(access.ListOwnBanner, owner), h.SellerBanners)
		authed.PATCH("/banners/:id/status", gate.Require(access.ManageBanner, nil), h.SetBannerStatus)

		// Payments
		authed.POST("/payments", h.CreatePayment)
		authed.GET("/payments/:email", gate.Require(access.ReadOwnPayment, owner), h.PaymentHistory)
		authed.GET("/payments", gate.Require(access.ListPayments, nil), h.ListPayments)
		authed.PATCH("/payments/:id/status", gate.Require(access.ConfirmPayment, nil), h.UpdatePaymentStatus)

		// Dashboards
		authed.GET("/admin/stats", gate.Require(access.AdminStats, nil), h.AdminStats)
		authed.GET("/admin/sales", gate.Require(access.AdminStats, nil), h.SalesReport)
		authed.GET("/seller/stats/:email", gate.Require(access.SellerStats, owner), h.SellerStats)
	}

	return r, nil
}
