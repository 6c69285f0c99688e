package services

import (
	"context"
	"testing"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"github.com/harentsoaR/pharmaca-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPriceCart_MissingProductDegrades(t *testing.T) {
	napa := models.Product{ID: primitive.NewObjectID(), ItemName: "Napa", Company: "Beximco", PerUnitPrice: 2.5}
	gone := primitive.NewObjectID()
	lines := []models.CartLine{
		{ID: primitive.NewObjectID(), ProductID: napa.ID, Quantity: 3},
		{ID: primitive.NewObjectID(), ProductID: gone, Quantity: 2},
	}

	summary := PriceCart(lines, []models.Product{napa})

	require.Len(t, summary.Lines, 2)
	assert.Equal(t, "Napa", summary.Lines[0].ItemName)
	assert.Equal(t, 7.5, summary.Lines[0].LineTotal)
	assert.Equal(t, "Unknown", summary.Lines[1].ItemName)
	assert.Equal(t, 0.0, summary.Lines[1].LineTotal)
	assert.Equal(t, 7.5, summary.Total)
}

func TestPriceCart_TotalIsExact(t *testing.T) {
	a := models.Product{ID: primitive.NewObjectID(), PerUnitPrice: 0.1}
	b := models.Product{ID: primitive.NewObjectID(), PerUnitPrice: 0.2}
	lines := []models.CartLine{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 1}}

	assert.Equal(t, 0.3, PriceCart(lines, []models.Product{a, b}).Total)
}

func TestPriceCart_Empty(t *testing.T) {
	summary := PriceCart(nil, nil)
	assert.NotNil(t, summary.Lines)
	assert.Empty(t, summary.Lines)
	assert.Zero(t, summary.Total)
}

func TestCartService_PricedLoadsProductsOnce(t *testing.T) {
	st, m := storetest.New()
	svc := NewCartService(st.Carts, st.Products)
	ctx := context.Background()

	p := models.Product{ID: primitive.NewObjectID(), ItemName: "Napa", PerUnitPrice: 4}
	lines := []models.CartLine{{ID: primitive.NewObjectID(), ProductID: p.ID, Email: "a@x.com", Quantity: 2}}
	m.Carts.On("FindByEmail", ctx, "a@x.com").Return(lines, nil)
	m.Products.On("FindByIDs", ctx, []primitive.ObjectID{p.ID}).Return([]models.Product{p}, nil).Once()

	summary, err := svc.Priced(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", summary.Email)
	assert.Equal(t, 8.0, summary.Total)
	m.AssertExpectations(t)
}

func TestCartService_AddDefaultsQuantity(t *testing.T) {
	st, m := storetest.New()
	svc := NewCartService(st.Carts, st.Products)
	ctx := context.Background()

	m.Carts.On("InsertIfAbsent", ctx, mock.MatchedBy(func(l *models.CartLine) bool {
		return l.Quantity == 1
	})).Return(store.Created, nil)

	line, err := svc.Add(ctx, &models.CartLine{ProductID: primitive.NewObjectID(), Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	m.AssertExpectations(t)
}

func TestCartService_AddTwiceIsConflict(t *testing.T) {
	st, m := storetest.New()
	svc := NewCartService(st.Carts, st.Products)
	ctx := context.Background()

	m.Carts.On("InsertIfAbsent", ctx, mock.Anything).Return(store.AlreadyExists, nil)

	_, err := svc.Add(ctx, &models.CartLine{ProductID: primitive.NewObjectID(), Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCartService_AdjustRejectsZero(t *testing.T) {
	st, m := storetest.New()
	svc := NewCartService(st.Carts, st.Products)

	_, err := svc.Adjust(context.Background(), primitive.NewObjectID(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	m.Carts.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything)
}
