package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPageSize  = 10
	RecommendedLimit = 6
)

// searchFields are matched, any of them, by the catalog search term.
var searchFields = []string{"itemName", "company", "itemGenericName", "category"}

type CatalogQuery struct {
	Search string
	Sort   string // "asc", "desc" or "" for unsorted
	Limit  int
	Page   int
}

type CatalogPage struct {
	Products      []models.Product `json:"products"`
	ProductsCount int64            `json:"productsCount"`
}

// Normalize applies the paging defaults.
func (q CatalogQuery) Normalize() CatalogQuery {
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// Skip is the offset of the first record on the page. It fails when the
// offset does not fit in an int64.
func (q CatalogQuery) Skip() (int64, error) {
	q = q.Normalize()
	if int64(q.Page-1) > math.MaxInt64/int64(q.Limit) {
		return 0, fmt.Errorf("%w: page %d is out of range", ErrInvalidInput, q.Page)
	}
	return int64(q.Page-1) * int64(q.Limit), nil
}

// SearchFilter matches the term as a case-insensitive substring of any search
// field. Only the empty term yields the empty filter, which matches everything.
func SearchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	or := make(bson.A, 0, len(searchFields))
	for _, field := range searchFields {
		or = append(or, bson.M{field: pattern})
	}
	return bson.M{"$or": or}
}

func FindOptions(q CatalogQuery) (*options.FindOptions, error) {
	q = q.Normalize()
	skip, err := q.Skip()
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSkip(skip).SetLimit(int64(q.Limit))
	switch q.Sort {
	case "":
	case "asc":
		opts.SetSort(bson.D{{Key: "perUnitPrice", Value: 1}, {Key: "_id", Value: 1}})
	case "desc":
		opts.SetSort(bson.D{{Key: "perUnitPrice", Value: -1}, {Key: "_id", Value: 1}})
	default:
		return nil, fmt.Errorf("%w: sort must be asc or desc", ErrInvalidInput)
	}
	return opts, nil
}

type CatalogService struct {
	products store.ProductStore
	now      func() time.Time
}

func NewCatalogService(products store.ProductStore) *CatalogService {
	return &CatalogService{products: products, now: time.Now}
}

func (s *CatalogService) Search(ctx context.Context, q CatalogQuery) (*CatalogPage, error) {
	opts, err := FindOptions(q)
	if err != nil {
		return nil, err
	}
	filter := SearchFilter(q.Search)

	products, err := s.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	count, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &CatalogPage{Products: products, ProductsCount: count}, nil
}

func (s *CatalogService) Discounted(ctx context.Context) ([]models.Product, error) {
	return s.products.Find(ctx, bson.M{"discountPercentage": bson.M{"$gt": 0}})
}

func (s *CatalogService) Recommended(ctx context.Context) ([]models.Product, error) {
	return s.products.Find(ctx, bson.M{"discountPercentage": 0}, options.Find().SetLimit(RecommendedLimit))
}

func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	exact := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(category) + "$", Options: "i"}
	return s.products.Find(ctx, bson.M{"category": exact})
}

func (s *CatalogService) BySeller(ctx context.Context, email string) ([]models.Product, error) {
	return s.products.Find(ctx, bson.M{"sellerEmail": email})
}

// Submit stores a seller's product unless one with the same item name and
// short description exists.
func (s *CatalogService) Submit(ctx context.Context, sellerEmail string, p *models.Product) (*models.Product, error) {
	if p.PerUnitPrice < 0 || p.DiscountPercentage < 0 || p.DiscountPercentage > 100 {
		return nil, fmt.Errorf("%w: price and discount out of range", ErrInvalidInput)
	}
	p.ID = primitive.NewObjectID()
	p.SellerEmail = sellerEmail
	p.CreatedAt = s.now()

	outcome, err := s.products.InsertIfAbsent(ctx, p)
	if err != nil {
		return nil, err
	}
	if outcome == store.AlreadyExists {
		return nil, fmt.Errorf("product %w", ErrConflict)
	}
	return p, nil
}
