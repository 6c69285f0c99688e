package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BannerStatus string

const (
	BannerActive   BannerStatus = "active"
	BannerInactive BannerStatus = "inactive"
)

type Banner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BannerName  string             `bson:"bannerName" json:"bannerName"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	SellerEmail string             `bson:"sellerEmail" json:"sellerEmail"`
	Status      BannerStatus       `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
