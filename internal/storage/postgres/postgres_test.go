package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"seatwise/internal/config"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests against a real Postgres. They run only when TEST_DB_HOST
// is set, e.g.:
//
//	TEST_DB_HOST=localhost TEST_DB_PASSWORD=postgres go test ./internal/storage/postgres/
func testStorage(t *testing.T) *Storage {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres integration tests")
	}

	cfg := config.Database{
		Host:     host,
		Port:     5432,
		User:     envOr("TEST_DB_USER", "postgres"),
		Password: os.Getenv("TEST_DB_PASSWORD"),
		DBName:   envOr("TEST_DB_NAME", "seatwise_test"),
		SSLMode:  "disable",
	}

	s, err := InitDB(&cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func createTestUser(t *testing.T, s *Storage, role models.Role) *models.User {
	t.Helper()

	email := fmt.Sprintf("test-%s@example.com", uuid.NewString())

	user, err := s.CreateUser(context.Background(), "Test User", email, "not-a-real-hash", role)
	require.NoError(t, err)

	return user
}

func createTestEvent(t *testing.T, s *Storage, organizerID int64, seats int) *models.Event {
	t.Helper()

	event, err := s.CreateEvent(context.Background(), storage.NewEvent{
		Title:       "Integration Test Event " + uuid.NewString(),
		Description: "created by the storage integration tests",
		Date:        time.Now().Add(48 * time.Hour),
		Location:    "Test Hall",
		TotalSeats:  seats,
		OrganizerID: organizerID,
	})
	require.NoError(t, err)

	return event
}

func approveEvent(t *testing.T, s *Storage, eventID int64) {
	t.Helper()

	_, err := s.SetEventStatus(context.Background(), eventID, models.StatusApproved)
	require.NoError(t, err)
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	user := createTestUser(t, s, models.RoleUser)

	_, err := s.CreateUser(ctx, "Other Name", user.Email, "other-hash", models.RoleUser)
	require.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestCreatedEventStartsPending(t *testing.T) {
	s := testStorage(t)

	organizer := createTestUser(t, s, models.RoleOrganizer)
	event := createTestEvent(t, s, organizer.ID, 50)

	assert.Equal(t, models.StatusPending, event.Status)
	assert.Equal(t, 50, event.SeatsAvailable)
	assert.Equal(t, 50, event.TotalSeats)
}

func TestReserveRequiresApprovedEvent(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organizer := createTestUser(t, s, models.RoleOrganizer)
	event := createTestEvent(t, s, organizer.ID, 50)

	err := s.ReserveSeats(ctx, event.ID, 1)
	require.ErrorIs(t, err, storage.ErrEventNotApproved)

	got, err := s.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.SeatsAvailable)
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organizer := createTestUser(t, s, models.RoleOrganizer)
	event := createTestEvent(t, s, organizer.ID, 50)
	approveEvent(t, s, event.ID)

	require.NoError(t, s.ReserveSeats(ctx, event.ID, 10))

	got, err := s.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.SeatsAvailable)

	require.NoError(t, s.ReleaseSeats(ctx, event.ID, 10))

	got, err = s.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.SeatsAvailable)
}

func TestReleaseAboveCapacityRejected(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organizer := createTestUser(t, s, models.RoleOrganizer)
	event := createTestEvent(t, s, organizer.ID, 50)
	approveEvent(t, s, event.ID)

	err := s.ReleaseSeats(ctx, event.ID, 1)
	require.ErrorIs(t, err, storage.ErrReleaseOverflow)
}

func TestConcurrentReserveNeverOversells(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	const capacity = 20
	const callers = 60

	organizer := createTestUser(t, s, models.RoleOrganizer)
	event := createTestEvent(t, s, organizer.ID, capacity)
	approveEvent(t, s, event.ID)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.ReserveSeats(ctx, event.ID, 1)
			if err != nil {
				assert.ErrorIs(t, err, storage.ErrInsufficientSeats)
				return
			}

			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)

	got, err := s.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SeatsAvailable)
}

func TestDuplicateTicketDoesNotAbortTx(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organizer := createTestUser(t, s, models.RoleOrganizer)
	user := createTestUser(t, s, models.RoleUser)
	event := createTestEvent(t, s, organizer.ID, 50)
	approveEvent(t, s, event.ID)

	ticketID := "TICKET-" + uuid.NewString()

	err := s.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.InsertBooking(ctx, user.ID, event.ID, 1, ticketID); err != nil {
			return err
		}

		// Second insert with the same ticket must fail with the sentinel
		// and leave the transaction usable.
		_, err := s.InsertBooking(ctx, user.ID, event.ID, 1, ticketID)
		require.ErrorIs(t, err, storage.ErrDuplicateTicket)

		_, err = s.InsertBooking(ctx, user.ID, event.ID, 1, ticketID+"-2")
		return err
	})
	require.NoError(t, err)
}

func TestDeleteBookingOwnership(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organizer := createTestUser(t, s, models.RoleOrganizer)
	owner := createTestUser(t, s, models.RoleUser)
	stranger := createTestUser(t, s, models.RoleUser)
	event := createTestEvent(t, s, organizer.ID, 50)
	approveEvent(t, s, event.ID)

	booked, err := s.InsertBooking(ctx, owner.ID, event.ID, 3, "TICKET-"+uuid.NewString())
	require.NoError(t, err)

	_, _, err = s.DeleteBooking(ctx, booked.ID, stranger.ID)
	require.ErrorIs(t, err, storage.ErrNotOwner)

	eventID, seats, err := s.DeleteBooking(ctx, booked.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, eventID)
	assert.Equal(t, 3, seats)

	_, _, err = s.DeleteBooking(ctx, booked.ID, owner.ID)
	require.ErrorIs(t, err, storage.ErrBookingNotFound)
}

func TestSetEventStatusIsOneShot(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organizer := createTestUser(t, s, models.RoleOrganizer)
	event := createTestEvent(t, s, organizer.ID, 50)

	approved, err := s.SetEventStatus(ctx, event.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	_, err = s.SetEventStatus(ctx, event.ID, models.StatusRejected)
	require.ErrorIs(t, err, storage.ErrStatusAlreadySet)
}

func TestResizeBelowBookedSeatsRejected(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organizer := createTestUser(t, s, models.RoleOrganizer)
	user := createTestUser(t, s, models.RoleUser)
	event := createTestEvent(t, s, organizer.ID, 50)
	approveEvent(t, s, event.ID)

	require.NoError(t, s.ReserveSeats(ctx, event.ID, 30))
	_, err := s.InsertBooking(ctx, user.ID, event.ID, 30, "TICKET-"+uuid.NewString())
	require.NoError(t, err)

	tooSmall := 20
	_, err = s.UpdateEvent(ctx, event.ID, organizer.ID, false, storage.EventUpdate{TotalSeats: &tooSmall})
	require.ErrorIs(t, err, storage.ErrInvalidCapacity)

	bigger := 80
	updated, err := s.UpdateEvent(ctx, event.ID, organizer.ID, false, storage.EventUpdate{TotalSeats: &bigger})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.TotalSeats)
	assert.Equal(t, 50, updated.SeatsAvailable)
}

func TestDeleteEventWithBookingsRefused(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organizer := createTestUser(t, s, models.RoleOrganizer)
	user := createTestUser(t, s, models.RoleUser)
	event := createTestEvent(t, s, organizer.ID, 50)
	approveEvent(t, s, event.ID)

	require.NoError(t, s.ReserveSeats(ctx, event.ID, 1))
	booked, err := s.InsertBooking(ctx, user.ID, event.ID, 1, "TICKET-"+uuid.NewString())
	require.NoError(t, err)

	err = s.DeleteEvent(ctx, event.ID, organizer.ID, false)
	require.ErrorIs(t, err, storage.ErrEventHasBookings)

	_, _, err = s.DeleteBooking(ctx, booked.ID, user.ID)
	require.NoError(t, err)
	require.NoError(t, s.ReleaseSeats(ctx, event.ID, 1))

	require.NoError(t, s.DeleteEvent(ctx, event.ID, organizer.ID, false))

	_, err = s.GetEvent(ctx, event.ID)
	require.ErrorIs(t, err, storage.ErrEventNotFound)
}
