package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type LineItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	PricePaid float64            `bson:"pricePaid" json:"pricePaid"`
	Quantity  int                `bson:"quantity,omitempty" json:"quantity,omitempty"`
}

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email         string             `bson:"email" json:"email"`
	Username      string             `bson:"username" json:"username"`
	Status        PaymentStatus      `bson:"status" json:"status"`
	LineItems     []LineItem         `bson:"lineItems,omitempty" json:"lineItems"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	PaidAt        *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`

	// Documents written before line items existed keep two parallel arrays;
	// element i of each describes the same line.
	ProductIDs    []interface{} `bson:"productIds,omitempty" json:"-"`
	ProductPrices []float64     `bson:"productPrices,omitempty" json:"-"`
}

// Lines returns the payment's line items, zipping the legacy parallel arrays
// when the document predates line items. Entries whose identifier cannot be
// normalised are skipped; a missing price reads as 0.
func (p *Payment) Lines() []LineItem {
	if len(p.LineItems) > 0 {
		return p.LineItems
	}
	lines := make([]LineItem, 0, len(p.ProductIDs))
	for i, raw := range p.ProductIDs {
		id, ok := NormalizeID(raw)
		if !ok {
			continue
		}
		var price float64
		if i < len(p.ProductPrices) {
			price = p.ProductPrices[i]
		}
		lines = append(lines, LineItem{ProductID: id, PricePaid: price})
	}
	return lines
}

// UpgradeLegacy fills LineItems from the legacy parallel arrays so readers
// and API responses see one shape.
func (p *Payment) UpgradeLegacy() {
	if len(p.LineItems) == 0 && len(p.ProductIDs) > 0 {
		p.LineItems = p.Lines()
	}
}

// NormalizeID reconciles the identifier forms found in stored documents and
// request bodies (ObjectID values and their hex strings) into an ObjectID.
func NormalizeID(v interface{}) (primitive.ObjectID, bool) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id, !id.IsZero()
	case *primitive.ObjectID:
		if id == nil {
			return primitive.NilObjectID, false
		}
		return *id, !id.IsZero()
	case string:
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			return primitive.NilObjectID, false
		}
		return oid, true
	}
	return primitive.NilObjectID, false
}

// SalesLine is one row of the admin sales report.
type SalesLine struct {
	PaymentID   primitive.ObjectID `bson:"paymentId" json:"paymentId"`
	BuyerEmail  string             `bson:"buyerEmail" json:"buyerEmail"`
	Status      PaymentStatus      `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ItemName    string             `bson:"itemName" json:"itemName"`
	Company     string             `bson:"company" json:"company"`
	SellerEmail string             `bson:"sellerEmail" json:"sellerEmail"`
	PricePaid   float64            `bson:"pricePaid" json:"pricePaid"`
}
