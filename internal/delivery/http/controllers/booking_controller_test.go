package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamedevevents/internal/domain"
)

// fakeBookingService implements domain.BookingService for handler tests.
type fakeBookingService struct {
	result      *domain.Booking
	err         error
	lastEventID string
	lastEmail   string
}

func (f *fakeBookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	f.lastEventID = eventID
	f.lastEmail = email
	return f.result, f.err
}

func TestBookingController_CreateBooking(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		svc         *fakeBookingService
		wantStatus  int
		wantSuccess bool
		skipService bool
	}{
		{
			name:        "booked",
			body:        `{"eventId":"ev-1","email":"a@b.com"}`,
			svc:         &fakeBookingService{result: &domain.Booking{ID: "bk-1", EventID: "ev-1", Email: "a@b.com"}},
			wantStatus:  http.StatusCreated,
			wantSuccess: true,
		},
		{
			name:        "missing fields rejected before the service",
			body:        `{}`,
			svc:         &fakeBookingService{},
			wantStatus:  http.StatusBadRequest,
			skipService: true,
		},
		{
			name:       "invalid email reports failure only",
			body:       `{"eventId":"ev-1","email":"nope"}`,
			svc:        &fakeBookingService{err: domain.ErrInvalidEmail},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "dangling event reference reports failure only",
			body:       `{"eventId":"ev-missing","email":"a@b.com"}`,
			svc:        &fakeBookingService{err: domain.ErrEventNotFound},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage failure",
			body:       `{"eventId":"ev-1","email":"a@b.com"}`,
			svc:        &fakeBookingService{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewBookingController(testLogger, tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			controller.CreateBooking(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.skipService {
				assert.Empty(t, tt.svc.lastEventID)
				return
			}

			body := rec.Body.String()
			var resp struct {
				Data CreateBookingResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &resp))
			assert.Equal(t, tt.wantSuccess, resp.Data.Success)

			// The body never carries the failure reason.
			assert.NotContains(t, body, "email must be")
		})
	}
}
