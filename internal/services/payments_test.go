package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/events"
	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"github.com/harentsoaR/pharmaca-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newPaymentService(t *testing.T) (*PaymentService, *storetest.Mocks, *recordingPublisher) {
	t.Helper()
	st, m := storetest.New()
	pub := &recordingPublisher{}
	svc := NewPaymentService(st.Payments, st.Carts, NewNotificationService(pub))
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, m, pub
}

func TestCheckoutRequest_Lines(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	lines, err := CheckoutRequest{ProductIDs: []string{a.Hex(), " " + b.Hex()}, ProductPrices: []float64{10, 25}}.Lines()
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{{ProductID: a, PricePaid: 10, Quantity: 1}, {ProductID: b, PricePaid: 25, Quantity: 1}}, lines)

	bad := []CheckoutRequest{
		{},
		{ProductIDs: []string{a.Hex()}, ProductPrices: []float64{1, 2}},
		{ProductIDs: []string{"not-an-id"}, ProductPrices: []float64{1}},
		{ProductIDs: []string{a.Hex()}, ProductPrices: []float64{-1}},
	}
	for _, req := range bad {
		_, err := req.Lines()
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestPaymentService_CheckoutStoresPendingAndClearsCart(t *testing.T) {
	svc, m, pub := newPaymentService(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	m.Payments.On("Insert", ctx, mock.MatchedBy(func(p *models.Payment) bool {
		return p.Status == models.PaymentPending && len(p.LineItems) == 1 && p.TotalAmount == 12.5
	})).Return(nil)
	m.Carts.On("DeleteByEmail", ctx, "buyer@x.com").Return(int64(3), nil)

	p, err := svc.Checkout(ctx, CheckoutRequest{
		Email:         "buyer@x.com",
		ProductIDs:    []string{id.Hex()},
		ProductPrices: []float64{12.5},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypePaymentCreated, pub.events[0].Type)
	m.AssertExpectations(t)
}

func TestPaymentService_CheckoutKeepsDivergentTotal(t *testing.T) {
	svc, m, _ := newPaymentService(t)
	ctx := context.Background()

	m.Payments.On("Insert", ctx, mock.Anything).Return(nil)
	m.Carts.On("DeleteByEmail", ctx, "buyer@x.com").Return(int64(0), errors.New("boom"))

	p, err := svc.Checkout(ctx, CheckoutRequest{
		Email:         "buyer@x.com",
		ProductIDs:    []string{primitive.NewObjectID().Hex()},
		ProductPrices: []float64{10},
		TotalAmount:   11,
	})
	require.NoError(t, err)
	assert.Equal(t, 11.0, p.TotalAmount)
}

func TestPaymentService_CheckoutInvalidNeverWrites(t *testing.T) {
	svc, m, pub := newPaymentService(t)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{Email: "b@x.com", ProductIDs: []string{"x"}, ProductPrices: []float64{1}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	m.Payments.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Empty(t, pub.events)
}

func TestPaymentService_MarkPaid(t *testing.T) {
	svc, m, pub := newPaymentService(t)
	ctx := context.Background()
	id := primitive.NewObjectID()
	paidAt := svc.now()

	m.Payments.On("MarkPaid", ctx, id, paidAt).Return(&models.Payment{ID: id, Status: models.PaymentPaid, PaidAt: &paidAt}, nil)

	p, err := svc.MarkPaid(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypePaymentPaid, pub.events[0].Type)
}

func TestPaymentService_MarkPaidTwiceIsInvalidTransition(t *testing.T) {
	svc, m, pub := newPaymentService(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	m.Payments.On("MarkPaid", ctx, id, mock.Anything).Return(nil, store.ErrNotFound)
	m.Payments.On("FindByID", ctx, id).Return(&models.Payment{ID: id, Status: models.PaymentPaid}, nil)

	_, err := svc.MarkPaid(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, pub.events)
}

func TestPaymentService_MarkPaidUnknown(t *testing.T) {
	svc, m, _ := newPaymentService(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	m.Payments.On("MarkPaid", ctx, id, mock.Anything).Return(nil, store.ErrNotFound)
	m.Payments.On("FindByID", ctx, id).Return(nil, store.ErrNotFound)

	_, err := svc.MarkPaid(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPaymentService_PublishFailureDoesNotFail(t *testing.T) {
	svc, m, pub := newPaymentService(t)
	pub.err = errors.New("broker down")
	ctx := context.Background()
	id := primitive.NewObjectID()

	m.Payments.On("MarkPaid", ctx, id, mock.Anything).Return(&models.Payment{ID: id, Status: models.PaymentPaid}, nil)

	_, err := svc.MarkPaid(ctx, id)
	assert.NoError(t, err)
}

func TestPaymentService_AllFiltersStatus(t *testing.T) {
	svc, m, _ := newPaymentService(t)
	ctx := context.Background()

	m.Payments.On("Find", ctx, bson.M{"status": models.PaymentPaid}).Return([]models.Payment{}, nil)

	_, err := svc.All(ctx, models.PaymentPaid)
	require.NoError(t, err)
	_, err = svc.All(ctx, "refunded")
	assert.ErrorIs(t, err, ErrInvalidInput)
	m.AssertExpectations(t)
}
