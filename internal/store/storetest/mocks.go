// Package storetest provides testify mocks of the store interfaces.
package storetest

import (
	"context"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// New returns a store whose collections are all fresh mocks.
func New() (*store.Store, *Mocks) {
	m := &Mocks{
		Users:      new(UserStore),
		Products:   new(ProductStore),
		Carts:      new(CartStore),
		Categories: new(CategoryStore),
		Payments:   new(PaymentStore),
		Banners:    new(BannerStore),
	}
	return &store.Store{
		Users:      m.Users,
		Products:   m.Products,
		Carts:      m.Carts,
		Categories: m.Categories,
		Payments:   m.Payments,
		Banners:    m.Banners,
	}, m
}

type Mocks struct {
	Users      *UserStore
	Products   *ProductStore
	Carts      *CartStore
	Categories *CategoryStore
	Payments   *PaymentStore
	Banners    *BannerStore
}

func (m *Mocks) AssertExpectations(t mock.TestingT) {
	m.Users.AssertExpectations(t)
	m.Products.AssertExpectations(t)
	m.Carts.AssertExpectations(t)
	m.Categories.AssertExpectations(t)
	m.Payments.AssertExpectations(t)
	m.Banners.AssertExpectations(t)
}

type UserStore struct{ mock.Mock }

func (m *UserStore) InsertIfAbsent(ctx context.Context, user *models.User) (store.InsertOutcome, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(store.InsertOutcome), args.Error(1)
}

func (m *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *UserStore) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

type ProductStore struct{ mock.Mock }

func (m *ProductStore) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Product, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *ProductStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *ProductStore) InsertIfAbsent(ctx context.Context, product *models.Product) (store.InsertOutcome, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(store.InsertOutcome), args.Error(1)
}

type CartStore struct{ mock.Mock }

func (m *CartStore) InsertIfAbsent(ctx context.Context, line *models.CartLine) (store.InsertOutcome, error) {
	args := m.Called(ctx, line)
	return args.Get(0).(store.InsertOutcome), args.Error(1)
}

func (m *CartStore) FindByEmail(ctx context.Context, email string) ([]models.CartLine, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]models.CartLine), args.Error(1)
}

func (m *CartStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CartLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartLine), args.Error(1)
}

func (m *CartStore) AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) (*models.CartLine, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartLine), args.Error(1)
}

func (m *CartStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CartStore) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

type CategoryStore struct{ mock.Mock }

func (m *CategoryStore) ListWithCounts(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *CategoryStore) InsertIfAbsent(ctx context.Context, category *models.Category) (store.InsertOutcome, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(store.InsertOutcome), args.Error(1)
}

func (m *CategoryStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type PaymentStore struct{ mock.Mock }

func (m *PaymentStore) Insert(ctx context.Context, payment *models.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *PaymentStore) Find(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *PaymentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentStore) MarkPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Payment, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentStore) Report(ctx context.Context, pipeline mongo.Pipeline) ([]models.SalesLine, error) {
	args := m.Called(ctx, pipeline)
	return args.Get(0).([]models.SalesLine), args.Error(1)
}

type BannerStore struct{ mock.Mock }

func (m *BannerStore) InsertIfAbsent(ctx context.Context, banner *models.Banner) (store.InsertOutcome, error) {
	args := m.Called(ctx, banner)
	return args.Get(0).(store.InsertOutcome), args.Error(1)
}

func (m *BannerStore) Find(ctx context.Context, filter bson.M) ([]models.Banner, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Banner), args.Error(1)
}

func (m *BannerStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BannerStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
