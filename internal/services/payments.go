package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/sales"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckoutRequest is what the storefront submits after a successful charge.
// ProductIDs and ProductPrices are parallel: element i of each is one line.
type CheckoutRequest struct {
	Email         string    `json:"email" binding:"required,email"`
	Username      string    `json:"username"`
	ProductIDs    []string  `json:"productIds" binding:"required,min=1,dive,objectid"`
	ProductPrices []float64 `json:"productPrices" binding:"required,min=1,dive,gte=0"`
	TotalAmount   float64   `json:"totalAmount" binding:"gte=0"`
	TransactionID string    `json:"transactionId"`
}

// Lines validates the parallel arrays and zips them into line items.
func (r CheckoutRequest) Lines() ([]models.LineItem, error) {
	if len(r.ProductIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one product is required", ErrInvalidInput)
	}
	if len(r.ProductIDs) != len(r.ProductPrices) {
		return nil, fmt.Errorf("%w: %d product ids but %d prices", ErrInvalidInput, len(r.ProductIDs), len(r.ProductPrices))
	}
	lines := make([]models.LineItem, 0, len(r.ProductIDs))
	for i, raw := range r.ProductIDs {
		id, ok := models.NormalizeID(raw)
		if !ok {
			return nil, fmt.Errorf("%w: product id %q", ErrInvalidInput, raw)
		}
		price := r.ProductPrices[i]
		if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, fmt.Errorf("%w: price for product %s", ErrInvalidInput, raw)
		}
		lines = append(lines, models.LineItem{ProductID: id, PricePaid: price, Quantity: 1})
	}
	return lines, nil
}

type PaymentService struct {
	payments store.PaymentStore
	carts    store.CartStore
	notifier *NotificationService
	now      func() time.Time
}

func NewPaymentService(payments store.PaymentStore, carts store.CartStore, notifier *NotificationService) *PaymentService {
	if notifier == nil {
		notifier = NewNotificationService(nil)
	}
	return &PaymentService{payments: payments, carts: carts, notifier: notifier, now: time.Now}
}

// Checkout records a pending payment and empties the buyer's cart.
func (s *PaymentService) Checkout(ctx context.Context, req CheckoutRequest) (*models.Payment, error) {
	lines, err := req.Lines()
	if err != nil {
		return nil, err
	}
	p := &models.Payment{
		ID:            primitive.NewObjectID(),
		Email:         req.Email,
		Username:      req.Username,
		Status:        models.PaymentPending,
		LineItems:     lines,
		TotalAmount:   req.TotalAmount,
		TransactionID: req.TransactionID,
		CreatedAt:     s.now(),
	}
	sum := sales.LineSum(p)
	if p.TotalAmount == 0 {
		p.TotalAmount = sum
	} else if math.Abs(p.TotalAmount-sum) > 0.005 {
		log.Printf("Payment %s for %s: totalAmount %.2f differs from line sum %.2f", p.ID.Hex(), p.Email, p.TotalAmount, sum)
	}

	if err := s.payments.Insert(ctx, p); err != nil {
		return nil, err
	}
	if n, err := s.carts.DeleteByEmail(ctx, p.Email); err != nil {
		log.Printf("Failed to clear cart for %s after payment %s: %v", p.Email, p.ID.Hex(), err)
	} else {
		log.Printf("Cleared %d cart lines for %s", n, p.Email)
	}
	s.notifier.PaymentCreated(ctx, p)
	return p, nil
}

func (s *PaymentService) History(ctx context.Context, email string) ([]models.Payment, error) {
	return s.payments.Find(ctx, bson.M{"email": email})
}

// All lists payments, optionally only those with the given status.
func (s *PaymentService) All(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	filter := bson.M{}
	switch status {
	case "":
	case models.PaymentPending, models.PaymentPaid:
		filter["status"] = status
	default:
		return nil, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	return s.payments.Find(ctx, filter)
}

// MarkPaid moves a pending payment to paid. Only that one transition exists.
func (s *PaymentService) MarkPaid(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	p, err := s.payments.MarkPaid(ctx, id, s.now())
	if errors.Is(err, store.ErrNotFound) {
		existing, findErr := s.payments.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: payment %s is already %s", ErrInvalidTransition, id.Hex(), existing.Status)
	}
	if err != nil {
		return nil, err
	}
	s.notifier.PaymentPaid(ctx, p)
	return p, nil
}
