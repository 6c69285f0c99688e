package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func upsertedResponse(id primitive.ObjectID) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 0},
		bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
	)
}

func matchedResponse() bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 0},
	)
}

func TestInsertIfAbsent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("created", func(mt *mtest.T) {
		product := &models.Product{ID: primitive.NewObjectID(), ItemName: "Napa", ShortDescription: "500mg"}
		mt.AddMockResponses(upsertedResponse(product.ID))

		outcome, err := NewProductStore(mt.DB).InsertIfAbsent(context.Background(), product)
		require.NoError(mt, err)
		assert.Equal(mt, Created, outcome)
	})

	mt.Run("existing document is left alone", func(mt *mtest.T) {
		product := &models.Product{ID: primitive.NewObjectID(), ItemName: "Napa", ShortDescription: "500mg"}
		mt.AddMockResponses(matchedResponse())

		outcome, err := NewProductStore(mt.DB).InsertIfAbsent(context.Background(), product)
		require.NoError(mt, err)
		assert.Equal(mt, AlreadyExists, outcome)
	})

	mt.Run("duplicate key race", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		outcome, err := NewUserStore(mt.DB).InsertIfAbsent(context.Background(), &models.User{Email: "a@b.c"})
		require.NoError(mt, err)
		assert.Equal(mt, AlreadyExists, outcome)
	})

	mt.Run("store failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		_, err := NewCartStore(mt.DB).InsertIfAbsent(context.Background(), &models.CartLine{Email: "a@b.c"})
		assert.Error(mt, err)
	})
}

func TestUserStore_FindByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "pharmaca.Users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "admin@pharmaca.com"},
			{Key: "role", Value: "admin"},
		}))

		user, err := NewUserStore(mt.DB).FindByEmail(context.Background(), "admin@pharmaca.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, models.RoleAdmin, user.Role)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "pharmaca.Users", mtest.FirstBatch))

		_, err := NewUserStore(mt.DB).FindByEmail(context.Background(), "nobody@pharmaca.com")
		assert.True(mt, errors.Is(err, ErrNotFound))
	})
}

func TestPaymentStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find decodes legacy parallel arrays", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "pharmaca.Payments", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "buyer@example.com"},
			{Key: "status", Value: "pending"},
			{Key: "productIds", Value: bson.A{a.Hex(), b.Hex()}},
			{Key: "productPrices", Value: bson.A{10.0, 25.0}},
		}))

		payments, err := NewPaymentStore(mt.DB).Find(context.Background(), bson.M{})
		require.NoError(mt, err)
		require.Len(mt, payments, 1)
		assert.Equal(mt, []models.LineItem{
			{ProductID: a, PricePaid: 10},
			{ProductID: b, PricePaid: 25},
		}, payments[0].Lines())
		assert.Equal(mt, payments[0].Lines(), payments[0].LineItems)
	})

	mt.Run("find by id exposes legacy lines as line items", func(mt *mtest.T) {
		id, product := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "pharmaca.Payments", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "buyer@example.com"},
			{Key: "status", Value: "paid"},
			{Key: "productIds", Value: bson.A{product.Hex()}},
			{Key: "productPrices", Value: bson.A{int32(20)}},
			{Key: "totalAmount", Value: 20.0},
		}))

		payment, err := NewPaymentStore(mt.DB).FindByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, []models.LineItem{{ProductID: product, PricePaid: 20}}, payment.LineItems)

		body, err := json.Marshal(payment)
		require.NoError(mt, err)
		assert.Contains(mt, string(body), `"lineItems":[{"productId":"`+product.Hex()+`","pricePaid":20}]`)
	})

	mt.Run("mark paid on a non-pending payment", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := NewPaymentStore(mt.DB).MarkPaid(context.Background(), primitive.NewObjectID(), time.Now())
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("mark paid", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "status", Value: "paid"},
		}}))

		payment, err := NewPaymentStore(mt.DB).MarkPaid(context.Background(), id, time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, models.PaymentPaid, payment.Status)
	})
}

func TestCartStore_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing line", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := NewCartStore(mt.DB).Delete(context.Background(), primitive.NewObjectID())
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("clear by email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		n, err := NewCartStore(mt.DB).DeleteByEmail(context.Background(), "buyer@example.com")
		require.NoError(mt, err)
		assert.EqualValues(mt, 3, n)
	})
}

func TestCategoryStore_ListWithCounts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes counts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "pharmaca.Categories", mtest.FirstBatch,
			bson.D{{Key: "categoryName", Value: "Syrup"}, {Key: "productCount", Value: int32(4)}},
			bson.D{{Key: "categoryName", Value: "Tablet"}, {Key: "productCount", Value: int32(0)}},
		))

		categories, err := NewCategoryStore(mt.DB).ListWithCounts(context.Background())
		require.NoError(mt, err)
		require.Len(mt, categories, 2)
		assert.EqualValues(mt, 4, categories[0].ProductCount)
		assert.EqualValues(mt, 0, categories[1].ProductCount)
	})
}

func TestCategoryCountPipeline(t *testing.T) {
	pipeline := categoryCountPipeline()
	require.Len(t, pipeline, 4)
	assert.Equal(t, "$lookup", pipeline[0][0].Key)
	lookup := pipeline[0][0].Value.(bson.M)
	assert.Equal(t, ProductsCollection, lookup["from"])
	assert.Equal(t, "category", lookup["foreignField"])
}
