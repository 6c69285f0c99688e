// Package store holds the MongoDB-backed collection stores. Each store wraps a
// single collection of the injected *mongo.Database.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection      = "Users"
	ProductsCollection   = "Products"
	CartsCollection      = "Carts"
	CategoriesCollection = "Categories"
	PaymentsCollection   = "Payments"
	BannersCollection    = "Banners"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// InsertOutcome reports what an insert-if-absent did.
type InsertOutcome int

const (
	Created InsertOutcome = iota + 1
	AlreadyExists
)

func (o InsertOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already exists"
	}
	return "unknown"
}

// Store groups every collection store built on one database.
type Store struct {
	Users      UserStore
	Products   ProductStore
	Carts      CartStore
	Categories CategoryStore
	Payments   PaymentStore
	Banners    BannerStore
}

func New(db *mongo.Database) *Store {
	return &Store{
		Users:      NewUserStore(db),
		Products:   NewProductStore(db),
		Carts:      NewCartStore(db),
		Categories: NewCategoryStore(db),
		Payments:   NewPaymentStore(db),
		Banners:    NewBannerStore(db),
	}
}

// insertIfAbsent inserts doc only when nothing matches key. The upsert is
// atomic on the server; a duplicate key raised by a unique index in a race
// counts as AlreadyExists too.
func insertIfAbsent(ctx context.Context, coll *mongo.Collection, key bson.M, doc interface{}) (InsertOutcome, error) {
	res, err := coll.UpdateOne(ctx, key, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return AlreadyExists, nil
		}
		return 0, fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	if res.UpsertedCount == 0 {
		return AlreadyExists, nil
	}
	return Created, nil
}

func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

// EnsureIndexes creates the unique indexes that back insert-if-absent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ProductsCollection: {
			{Keys: bson.D{{Key: "itemName", Value: 1}, {Key: "shortDescription", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "sellerEmail", Value: 1}}},
		},
		CartsCollection: {
			{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		CategoriesCollection: {
			{Keys: bson.D{{Key: "categoryName", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		PaymentsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		BannersCollection: {
			{Keys: bson.D{{Key: "bannerName", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "description", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		log.Printf("Indexes ensured on %s", name)
	}
	return nil
}
