package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/sales"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const dateOnly = "2006-01-02"

// DateRange bounds payment creation times, both ends inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange reads optional start and end bounds. With neither given it
// returns nil, meaning no restriction. A missing start defaults to the epoch
// and a missing end to now. A date-only end covers the whole of that day.
func ParseDateRange(start, end string, now time.Time) (*DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	r := &DateRange{Start: time.Unix(0, 0).UTC(), End: now}
	if start != "" {
		t, _, err := parseBound(start)
		if err != nil {
			return nil, fmt.Errorf("%w: startDate: %v", ErrInvalidInput, err)
		}
		r.Start = t
	}
	if end != "" {
		t, wholeDay, err := parseBound(end)
		if err != nil {
			return nil, fmt.Errorf("%w: endDate: %v", ErrInvalidInput, err)
		}
		if wholeDay {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		r.End = t
	}
	if r.End.Before(r.Start) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	return r, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC3339 or %s, got %q", dateOnly, s)
	}
	return t, true, nil
}

// Filter is the createdAt restriction for a payment query.
func (r *DateRange) Filter() bson.M {
	if r == nil {
		return bson.M{}
	}
	return bson.M{"createdAt": bson.M{"$gte": r.Start, "$lte": r.End}}
}

type StatsService struct {
	payments store.PaymentStore
	products store.ProductStore
}

func NewStatsService(payments store.PaymentStore, products store.ProductStore) *StatsService {
	return &StatsService{payments: payments, products: products}
}

// Admin sums every payment line, optionally restricted to a date range.
func (s *StatsService) Admin(ctx context.Context, r *DateRange) (sales.Totals, error) {
	payments, err := s.payments.Find(ctx, r.Filter())
	if err != nil {
		return sales.Totals{}, err
	}
	products, err := s.products.FindByIDs(ctx, sales.ProductIDs(payments))
	if err != nil {
		return sales.Totals{}, err
	}
	return sales.Summarize(payments, sales.NewCatalog(products), ""), nil
}

// Seller sums only the lines for products the seller listed.
func (s *StatsService) Seller(ctx context.Context, email string) (sales.Totals, error) {
	products, err := s.products.Find(ctx, bson.M{"sellerEmail": email})
	if err != nil {
		return sales.Totals{}, err
	}
	if len(products) == 0 {
		return sales.Totals{}, nil
	}
	payments, err := s.payments.Find(ctx, referencingFilter(products))
	if err != nil {
		return sales.Totals{}, err
	}
	return sales.Summarize(payments, sales.NewCatalog(products), email), nil
}

// referencingFilter matches payments holding any of the products, whether as
// line items or in the legacy id array, where ids may be stored as strings.
func referencingFilter(products []models.Product) bson.M {
	ids := make(bson.A, 0, len(products))
	legacy := make(bson.A, 0, 2*len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		legacy = append(legacy, p.ID, p.ID.Hex())
	}
	return bson.M{"$or": bson.A{
		bson.M{"lineItems.productId": bson.M{"$in": ids}},
		bson.M{"productIds": bson.M{"$in": legacy}},
	}}
}

// Report lists every joined sales line, newest first.
func (s *StatsService) Report(ctx context.Context, r *DateRange) ([]models.SalesLine, error) {
	return s.payments.Report(ctx, SalesReportPipeline(r))
}

// SalesReportPipeline mirrors the in-memory join server side: payments are
// expanded into line items, legacy arrays are zipped, and lines whose product
// is missing fall out of the $unwind after the lookup.
func SalesReportPipeline(r *DateRange) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if r != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: r.Filter()}})
	}

	legacyLines := bson.M{"$map": bson.M{
		"input": bson.M{"$zip": bson.M{
			"inputs": bson.A{
				bson.M{"$ifNull": bson.A{"$productIds", bson.A{}}},
				bson.M{"$ifNull": bson.A{"$productPrices", bson.A{}}},
			},
			"useLongestLength": true,
		}},
		"as": "pair",
		"in": bson.M{
			"productId": bson.M{"$convert": bson.M{
				"input":   bson.M{"$arrayElemAt": bson.A{"$$pair", 0}},
				"to":      "objectId",
				"onError": nil,
				"onNull":  nil,
			}},
			"pricePaid": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$$pair", 1}}, 0}},
		},
	}}

	return append(pipeline,
		bson.D{{Key: "$project", Value: bson.M{
			"email":     1,
			"status":    1,
			"createdAt": 1,
			"lines":     bson.M{"$ifNull": bson.A{"$lineItems", legacyLines}},
		}}},
		bson.D{{Key: "$unwind", Value: "$lines"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         store.ProductsCollection,
			"localField":   "lines.productId",
			"foreignField": "_id",
			"as":           "product",
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":         0,
			"paymentId":   "$_id",
			"buyerEmail":  "$email",
			"status":      1,
			"createdAt":   1,
			"productId":   "$lines.productId",
			"itemName":    "$product.itemName",
			"company":     "$product.company",
			"sellerEmail": "$product.sellerEmail",
			"pricePaid":   "$lines.pricePaid",
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "paymentId", Value: 1}}}},
	)
}
