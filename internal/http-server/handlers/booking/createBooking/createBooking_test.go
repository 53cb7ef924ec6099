package createBooking

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatwise/internal/http-server/handlers/booking/createBooking/mocks"
	"seatwise/internal/http-server/middleware/auth"
	"seatwise/internal/lib/logger/handlers/slogdiscard"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	const userID = int64(7)

	booked := &models.Booking{
		ID:        1,
		TicketID:  "TICKET-1A2B3C4D5E6F7A8B",
		EventID:   42,
		UserID:    userID,
		Seats:     2,
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	testCases := []struct {
		name           string
		requestBody    string
		authenticated  bool
		mockSetup      func(m *mocks.SeatBooker)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:          "Success",
			requestBody:   `{"event_id": 42, "seats": 2}`,
			authenticated: true,
			mockSetup: func(m *mocks.SeatBooker) {
				m.On("BookSeats", mock.Anything, userID, int64(42), 2).Return(booked, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp BookingResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.Booking)
				assert.Equal(t, "TICKET-1A2B3C4D5E6F7A8B", resp.Booking.TicketID)
				assert.Equal(t, 2, resp.Booking.Seats)
			},
		},
		{
			name:          "Defaults to one seat",
			requestBody:   `{"event_id": 42}`,
			authenticated: true,
			mockSetup: func(m *mocks.SeatBooker) {
				m.On("BookSeats", mock.Anything, userID, int64(42), 1).Return(booked, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Unauthenticated",
			requestBody:    `{"event_id": 42}`,
			authenticated:  false,
			mockSetup:      func(m *mocks.SeatBooker) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","code":"unauthorized","error":"authentication required"}`,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			authenticated:  true,
			mockSetup:      func(m *mocks.SeatBooker) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Missing event_id",
			requestBody:    `{"seats": 2}`,
			authenticated:  true,
			mockSetup:      func(m *mocks.SeatBooker) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "EventID")
			},
		},
		{
			name:           "Negative seats",
			requestBody:    `{"event_id": 42, "seats": -3}`,
			authenticated:  true,
			mockSetup:      func(m *mocks.SeatBooker) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "Seats")
			},
		},
		{
			name:          "Event not found",
			requestBody:   `{"event_id": 42, "seats": 2}`,
			authenticated: true,
			mockSetup: func(m *mocks.SeatBooker) {
				m.On("BookSeats", mock.Anything, userID, int64(42), 2).Return(nil, storage.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","code":"not_found","error":"event not found"}`,
		},
		{
			name:          "Event not approved",
			requestBody:   `{"event_id": 42, "seats": 2}`,
			authenticated: true,
			mockSetup: func(m *mocks.SeatBooker) {
				m.On("BookSeats", mock.Anything, userID, int64(42), 2).Return(nil, storage.ErrEventNotApproved)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","code":"event_not_approved","error":"event is not approved for booking"}`,
		},
		{
			name:          "Event finished",
			requestBody:   `{"event_id": 42, "seats": 2}`,
			authenticated: true,
			mockSetup: func(m *mocks.SeatBooker) {
				m.On("BookSeats", mock.Anything, userID, int64(42), 2).Return(nil, storage.ErrEventFinished)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","code":"event_finished","error":"event date has already passed"}`,
		},
		{
			name:          "Not enough seats",
			requestBody:   `{"event_id": 42, "seats": 2}`,
			authenticated: true,
			mockSetup: func(m *mocks.SeatBooker) {
				m.On("BookSeats", mock.Anything, userID, int64(42), 2).Return(nil, storage.ErrInsufficientSeats)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","code":"insufficient_seats","error":"not enough seats available"}`,
		},
		{
			name:          "Internal server error",
			requestBody:   `{"event_id": 42, "seats": 2}`,
			authenticated: true,
			mockSetup: func(m *mocks.SeatBooker) {
				m.On("BookSeats", mock.Anything, userID, int64(42), 2).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to book seats"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockBooker := mocks.NewSeatBooker(t)
			tc.mockSetup(mockBooker)

			handler := New(logger, mockBooker)

			req, err := http.NewRequest("POST", "/bookings", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			if tc.authenticated {
				req = req.WithContext(auth.WithUser(req.Context(), userID, models.RoleUser))
			}

			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}

			mockBooker.AssertExpectations(t)
		})
	}
}
