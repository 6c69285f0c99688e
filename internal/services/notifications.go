package services

import (
	"context"
	"log"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/events"
	"github.com/harentsoaR/pharmaca-api/internal/models"
)

// NotificationService announces payment lifecycle changes to the event stream.
type NotificationService struct {
	publisher events.Publisher
	now       func() time.Time
}

func NewNotificationService(publisher events.Publisher) *NotificationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &NotificationService{publisher: publisher, now: time.Now}
}

func (s *NotificationService) PaymentCreated(ctx context.Context, p *models.Payment) {
	s.send(ctx, events.TypePaymentCreated, p)
}

func (s *NotificationService) PaymentPaid(ctx context.Context, p *models.Payment) {
	s.send(ctx, events.TypePaymentPaid, p)
}

// send never fails the caller; the store write has already happened.
func (s *NotificationService) send(ctx context.Context, eventType string, p *models.Payment) {
	evt := events.Event{
		Type:      eventType,
		PaymentID: p.ID.Hex(),
		Email:     p.Email,
		Status:    string(p.Status),
		Amount:    p.TotalAmount,
		At:        s.now(),
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Printf("Failed to publish %s for payment %s: %v", eventType, evt.PaymentID, err)
	}
}
