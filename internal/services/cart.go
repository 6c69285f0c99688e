package services

import (
	"context"
	"fmt"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const unknownItem = "Unknown"

type CartService struct {
	carts    store.CartStore
	products store.ProductStore
	now      func() time.Time
}

func NewCartService(carts store.CartStore, products store.ProductStore) *CartService {
	return &CartService{carts: carts, products: products, now: time.Now}
}

// Add puts a product in the user's cart. Adding the same product twice is a
// conflict; quantities change through Adjust.
func (s *CartService) Add(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	if line.Quantity == 0 {
		line.Quantity = 1
	}
	if line.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	line.ID = primitive.NewObjectID()
	line.CreatedAt = s.now()

	outcome, err := s.carts.InsertIfAbsent(ctx, line)
	if err != nil {
		return nil, err
	}
	if outcome == store.AlreadyExists {
		return nil, fmt.Errorf("cart item %w", ErrConflict)
	}
	return line, nil
}

// Priced joins the user's cart lines with current product prices.
func (s *CartService) Priced(ctx context.Context, email string) (*models.CartSummary, error) {
	lines, err := s.carts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	summary := PriceCart(lines, products)
	summary.Email = email
	return &summary, nil
}

// PriceCart emits one priced line per cart line. A line whose product is gone
// is priced at zero under the name "Unknown" instead of being dropped.
func PriceCart(lines []models.CartLine, products []models.Product) models.CartSummary {
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var total decimal.Decimal
	priced := make([]models.PricedCartLine, 0, len(lines))
	for _, l := range lines {
		out := models.PricedCartLine{
			ID:        l.ID,
			ProductID: l.ProductID,
			ItemName:  unknownItem,
			Quantity:  l.Quantity,
		}
		if p, ok := byID[l.ProductID]; ok {
			out.ItemName = p.ItemName
			out.Company = p.Company
			out.PerUnitPrice = p.PerUnitPrice
			out.DiscountPercentage = p.DiscountPercentage
		}
		lineTotal := decimal.NewFromFloat(out.PerUnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
		out.LineTotal = lineTotal.InexactFloat64()
		total = total.Add(lineTotal)
		priced = append(priced, out)
	}
	return models.CartSummary{Lines: priced, Total: total.InexactFloat64()}
}

func (s *CartService) Line(ctx context.Context, id primitive.ObjectID) (*models.CartLine, error) {
	return s.carts.FindByID(ctx, id)
}

func (s *CartService) Adjust(ctx context.Context, id primitive.ObjectID, delta int) (*models.CartLine, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", ErrInvalidInput)
	}
	return s.carts.AdjustQuantity(ctx, id, delta)
}

func (s *CartService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return s.carts.Delete(ctx, id)
}

func (s *CartService) Clear(ctx context.Context, email string) (int64, error) {
	return s.carts.DeleteByEmail(ctx, email)
}
