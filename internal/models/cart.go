package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartLine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Email     string             `bson:"email" json:"email"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PricedCartLine is a cart line joined against the current product price.
type PricedCartLine struct {
	ID                 primitive.ObjectID `json:"_id"`
	ProductID          primitive.ObjectID `json:"productId"`
	ItemName           string             `json:"itemName"`
	Company            string             `json:"company"`
	PerUnitPrice       float64            `json:"perUnitPrice"`
	DiscountPercentage float64            `json:"discountPercentage"`
	Quantity           int                `json:"quantity"`
	LineTotal          float64            `json:"lineTotal"`
}

type CartSummary struct {
	Email string           `json:"email"`
	Lines []PricedCartLine `json:"items"`
	Total float64          `json:"total"`
}
