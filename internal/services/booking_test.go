package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamedevevents/internal/domain"
)

type fakeBookingRepository struct {
	byID      map[string]*domain.Booking
	nextID    int
	createErr error
}

func newFakeBookingRepository() *fakeBookingRepository {
	return &fakeBookingRepository{byID: map[string]*domain.Booking{}}
}

func (f *fakeBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	b.ID = fmt.Sprintf("bk-%d", f.nextID)
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.byID {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeEmailService struct {
	sent []*domain.BookingConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"dev.jane+jam@studio.example.org", true},
		{"  a@b.com  ", true},
		{"nodomain@", false},
		{"@nolocal.com", false},
		{"missing.dot@domain", false},
		{"spaces in@local.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidEmail(tt.email))
		})
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	seedEvent := func(t *testing.T, eventRepo *fakeEventRepository) *domain.Event {
		svc := NewEventService(eventRepo, time.Second)
		event, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)
		return event
	}

	t.Run("success is retrievable and confirmed by email", func(t *testing.T) {
		eventRepo := newFakeEventRepository()
		bookingRepo := newFakeBookingRepository()
		emails := &fakeEmailService{}
		event := seedEvent(t, eventRepo)

		svc := NewBookingService(bookingRepo, eventRepo, emails, time.Second)
		booking, err := svc.CreateBooking(ctx, event.ID, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, event.ID, booking.EventID)
		assert.Equal(t, "a@b.com", booking.Email)
		assert.NotEmpty(t, booking.ID)

		stored, err := bookingRepo.GetByID(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking, stored)

		require.Len(t, emails.sent, 1)
		assert.Equal(t, "a@b.com", emails.sent[0].Email)
		assert.Equal(t, event.Title, emails.sent[0].EventTitle)
	})

	t.Run("invalid email never reaches the store", func(t *testing.T) {
		eventRepo := newFakeEventRepository()
		bookingRepo := newFakeBookingRepository()
		event := seedEvent(t, eventRepo)

		svc := NewBookingService(bookingRepo, eventRepo, nil, time.Second)
		_, err := svc.CreateBooking(ctx, event.ID, "not-an-email")
		require.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.Empty(t, bookingRepo.byID)
	})

	t.Run("dangling event reference", func(t *testing.T) {
		eventRepo := newFakeEventRepository()
		bookingRepo := newFakeBookingRepository()

		svc := NewBookingService(bookingRepo, eventRepo, nil, time.Second)
		_, err := svc.CreateBooking(ctx, "ev-missing", "a@b.com")
		require.ErrorIs(t, err, domain.ErrEventNotFound)
		assert.Empty(t, bookingRepo.byID)
	})

	t.Run("foreign key violation during commit maps to dangling reference", func(t *testing.T) {
		eventRepo := newFakeEventRepository()
		bookingRepo := newFakeBookingRepository()
		event := seedEvent(t, eventRepo)
		bookingRepo.createErr = domain.ErrEventNotFound

		svc := NewBookingService(bookingRepo, eventRepo, nil, time.Second)
		_, err := svc.CreateBooking(ctx, event.ID, "a@b.com")
		require.ErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("storage failure does not partially commit", func(t *testing.T) {
		eventRepo := newFakeEventRepository()
		bookingRepo := newFakeBookingRepository()
		emails := &fakeEmailService{}
		event := seedEvent(t, eventRepo)
		bookingRepo.createErr = errors.New("disk full")

		svc := NewBookingService(bookingRepo, eventRepo, emails, time.Second)
		_, err := svc.CreateBooking(ctx, event.ID, "a@b.com")
		require.Error(t, err)
		assert.Empty(t, bookingRepo.byID)
		assert.Empty(t, emails.sent)
	})

	t.Run("email failure does not fail the booking", func(t *testing.T) {
		eventRepo := newFakeEventRepository()
		bookingRepo := newFakeBookingRepository()
		emails := &fakeEmailService{err: errors.New("ses throttled")}
		event := seedEvent(t, eventRepo)

		svc := NewBookingService(bookingRepo, eventRepo, emails, time.Second)
		booking, err := svc.CreateBooking(ctx, event.ID, "a@b.com")
		require.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
	})
}
