package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ItemName           string             `bson:"itemName" json:"itemName"`
	ItemGenericName    string             `bson:"itemGenericName" json:"itemGenericName"`
	ShortDescription   string             `bson:"shortDescription" json:"shortDescription"`
	Company            string             `bson:"company" json:"company"`
	Category           string             `bson:"category" json:"category"`
	MassUnit           string             `bson:"massUnit,omitempty" json:"massUnit,omitempty"`
	Image              string             `bson:"image,omitempty" json:"image,omitempty"`
	PerUnitPrice       float64            `bson:"perUnitPrice" json:"perUnitPrice"`
	DiscountPercentage float64            `bson:"discountPercentage" json:"discountPercentage"` // 0 means not discounted
	SellerEmail        string             `bson:"sellerEmail" json:"sellerEmail"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

type Category struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CategoryName  string             `bson:"categoryName" json:"categoryName"`
	CategoryImage string             `bson:"categoryImage" json:"categoryImage"`
	ProductCount  int64              `bson:"productCount,omitempty" json:"productCount"` // only filled by the listing pipeline
}
