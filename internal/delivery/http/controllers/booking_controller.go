package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"gamedevevents/internal/delivery/http/helpers"
	"gamedevevents/internal/domain"
)

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	EventID string `json:"eventId"`
	Email   string `json:"email"`
}

// Validate implements Validator. Returns error messages for required fields.
func (c CreateBookingRequest) Validate() []string {
	var errs []string
	if c.EventID == "" {
		errs = append(errs, "eventId is required")
	}
	if c.Email == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// CreateBookingResponse reports whether the booking was committed. The
// detailed failure reason is logged server-side, not surfaced.
type CreateBookingResponse struct {
	Success bool `json:"success"`
}

// CreateBookingSuccessResponse is the response envelope for POST /bookings.
type CreateBookingSuccessResponse struct {
	Data  CreateBookingResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// CreateBooking godoc
// @Summary Book a spot at an event
// @Description Books a spot for the given email at the event referenced by eventId. The response carries only a success flag; validation details are logged server-side. A booking never partially commits.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} controllers.CreateBookingSuccessResponse "data.success is true"
// @Failure 400 {object} controllers.CreateBookingSuccessResponse "data.success is false"
// @Failure 500 {object} controllers.CreateBookingSuccessResponse "data.success is false"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	_, err := c.Service.CreateBooking(r.Context(), req.EventID, req.Email)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "create booking failed",
			"path", r.URL.Path, "method", r.Method, "eventId", req.EventID, "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidEmail) || errors.Is(err, domain.ErrEventNotFound) {
			status = http.StatusBadRequest
		}
		helpers.WriteJSONSuccess(w, status, CreateBookingResponse{Success: false})
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, CreateBookingResponse{Success: true})
}
