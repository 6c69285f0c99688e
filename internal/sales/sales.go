// Package sales turns payment records into dashboard totals.
//
// Every payment is read as a list of line items. Each line is joined to the
// product it references, and the line's own recorded price is summed into its
// payment's status bucket. The live product price and the payment's
// totalAmount are never used. A line whose product no longer exists is
// dropped, as is a line that belongs to another seller when the summary is
// scoped to one seller.
package sales

import (
	"strings"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Totals is the dashboard payload. Both fields are always present.
type Totals struct {
	TotalPendingAmount float64 `json:"totalPendingAmount"`
	TotalPaidAmount    float64 `json:"totalPaidAmount"`
}

// Catalog indexes products by identifier for the join.
type Catalog map[primitive.ObjectID]models.Product

func NewCatalog(products []models.Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}

// ProductIDs lists, without repeats, every product referenced by payments.
func ProductIDs(payments []models.Payment) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0)
	for i := range payments {
		for _, line := range payments[i].Lines() {
			if _, ok := seen[line.ProductID]; ok {
				continue
			}
			seen[line.ProductID] = struct{}{}
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}

// Line is one joined line item.
type Line struct {
	Payment   *models.Payment
	Product   models.Product
	PricePaid float64
}

// Join resolves each payment line against the catalog. Lines without a
// product are skipped. A non-empty seller keeps only that seller's lines;
// the filter runs per line, after the join.
func Join(payments []models.Payment, catalog Catalog, seller string) []Line {
	joined := make([]Line, 0)
	for i := range payments {
		p := &payments[i]
		for _, item := range p.Lines() {
			product, ok := catalog[item.ProductID]
			if !ok {
				continue
			}
			if seller != "" && !strings.EqualFold(product.SellerEmail, seller) {
				continue
			}
			joined = append(joined, Line{Payment: p, Product: product, PricePaid: item.PricePaid})
		}
	}
	return joined
}

// Summarize groups joined lines by payment status. Statuses other than
// pending and paid are ignored.
func Summarize(payments []models.Payment, catalog Catalog, seller string) Totals {
	var pending, paid decimal.Decimal
	for _, line := range Join(payments, catalog, seller) {
		price := decimal.NewFromFloat(line.PricePaid)
		switch line.Payment.Status {
		case models.PaymentPending:
			pending = pending.Add(price)
		case models.PaymentPaid:
			paid = paid.Add(price)
		}
	}
	return Totals{
		TotalPendingAmount: pending.InexactFloat64(),
		TotalPaidAmount:    paid.InexactFloat64(),
	}
}

// LineSum adds up a payment's recorded line prices.
func LineSum(p *models.Payment) float64 {
	var sum decimal.Decimal
	for _, line := range p.Lines() {
		sum = sum.Add(decimal.NewFromFloat(line.PricePaid))
	}
	return sum.InexactFloat64()
}
