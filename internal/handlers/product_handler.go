package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/middleware"
	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/services"
)

type CreateProductRequest struct {
	ItemName           string  `json:"itemName" binding:"required"`
	ItemGenericName    string  `json:"itemGenericName"`
	ShortDescription   string  `json:"shortDescription" binding:"required"`
	Company            string  `json:"company" binding:"required"`
	Category           string  `json:"category" binding:"required"`
	MassUnit           string  `json:"massUnit"`
	Image              string  `json:"image"`
	PerUnitPrice       float64 `json:"perUnitPrice" binding:"gte=0"`
	DiscountPercentage float64 `json:"discountPercentage" binding:"gte=0,lte=100"`
}

// --- CATALOG (public) ---

// ListProducts serves the paginated, searchable catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	q := services.CatalogQuery{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Limit:  queryInt(c, "limit"),
		Page:   queryInt(c, "page"),
	}
	page, err := h.Catalog.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) DiscountedProducts(c *gin.Context) {
	products, err := h.Catalog.Discounted(c.Request.Context())
	h.respondList(c, products, err)
}

func (h *Handler) RecommendedProducts(c *gin.Context) {
	products, err := h.Catalog.Recommended(c.Request.Context())
	h.respondList(c, products, err)
}

func (h *Handler) ProductsByCategory(c *gin.Context) {
	products, err := h.Catalog.ByCategory(c.Request.Context(), c.Param("category"))
	h.respondList(c, products, err)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- SELLER ---

func (h *Handler) SellerProducts(c *gin.Context) {
	products, err := h.Catalog.BySeller(c.Request.Context(), c.Param("email"))
	h.respondList(c, products, err)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.Catalog.Submit(c.Request.Context(), middleware.Email(c), &models.Product{
		ItemName:           req.ItemName,
		ItemGenericName:    req.ItemGenericName,
		ShortDescription:   req.ShortDescription,
		Company:            req.Company,
		Category:           req.Category,
		MassUnit:           req.MassUnit,
		Image:              req.Image,
		PerUnitPrice:       req.PerUnitPrice,
		DiscountPercentage: req.DiscountPercentage,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// queryInt reads an integer query parameter. Missing or malformed values read
// as 0, which the catalog replaces with its default.
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}

// respondList always answers with a JSON array, never null.
func (h *Handler) respondList(c *gin.Context, products []models.Product, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = make([]models.Product, 0)
	}
	c.JSON(http.StatusOK, products)
}
