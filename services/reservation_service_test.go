package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"resavelo-backend/models"
	"resavelo-backend/services"
	"resavelo-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingInput(bikeID uuid.UUID, start, end time.Time) services.CreateReservationInput {
	return services.CreateReservationInput{
		BikeID:        bikeID,
		StartDate:     start,
		EndDate:       end,
		CustomerName:  "Jean Dupont",
		CustomerEmail: "jean.dupont@example.com",
		CustomerPhone: "+33612345678",
	}
}

func TestCreate_Success(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "VTT Rockrider", 10, 2)

	reservation, err := svc.Create(ctx(), bookingInput(bike.ID, futureDay(1), futureDay(7)))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, reservation.Status)
	assert.Equal(t, bike.ID, reservation.BikeID)
	// 7 inclusive days at 10/day with the 15% tier
	assert.Equal(t, 59.5, reservation.TotalPrice)
	assert.Equal(t, "VTT Rockrider", reservation.Bike.Name) // bike joined in
}

func TestCreate_PriceFrozenAfterRateChange(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "Vélo de ville", 10, 1)

	reservation, err := svc.Create(ctx(), bookingInput(bike.ID, futureDay(1), futureDay(2)))
	require.NoError(t, err)
	require.Equal(t, 20.0, reservation.TotalPrice)

	require.NoError(t, db.Model(&models.Bike{}).Where("id = ?", bike.ID).Update("price", 99).Error)

	reloaded, err := svc.GetByID(ctx(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, reloaded.TotalPrice, "total price must never be recomputed")
}

func TestCreate_ValidationFailures(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "Gravel", 15, 1)

	var validationErr *services.ValidationError

	t.Run("start in the past", func(t *testing.T) {
		_, err := svc.Create(ctx(), bookingInput(bike.ID, futureDay(-1), futureDay(2)))
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, string(utils.DateErrInvalidRange), validationErr.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := svc.Create(ctx(), bookingInput(bike.ID, futureDay(5), futureDay(2)))
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, string(utils.DateErrInvalidRange), validationErr.Code)
	})

	t.Run("duration exceeded", func(t *testing.T) {
		_, err := svc.Create(ctx(), bookingInput(bike.ID, futureDay(1), futureDay(31)))
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, string(utils.DateErrDurationExceeded), validationErr.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		input := bookingInput(bike.ID, futureDay(1), futureDay(2))
		input.CustomerName = ""
		_, err := svc.Create(ctx(), input)
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("bad email", func(t *testing.T) {
		input := bookingInput(bike.ID, futureDay(1), futureDay(2))
		input.CustomerEmail = "not-an-email"
		_, err := svc.Create(ctx(), input)
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown bike", func(t *testing.T) {
		_, err := svc.Create(ctx(), bookingInput(uuid.New(), futureDay(1), futureDay(2)))
		assert.ErrorIs(t, err, services.ErrBikeNotFound)
	})

	// none of the failures above may have persisted anything
	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAvailability_StockCap(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "Tandem", 12, 2)

	start, end := futureDay(3), futureDay(6)

	_, err := svc.Create(ctx(), bookingInput(bike.ID, start, end))
	require.NoError(t, err)
	second, err := svc.Create(ctx(), bookingInput(bike.ID, start, end))
	require.NoError(t, err)

	// both units taken: the third overlapping request is rejected
	_, err = svc.Create(ctx(), bookingInput(bike.ID, start, end))
	assert.ErrorIs(t, err, services.ErrUnavailable)

	available, err := svc.CheckAvailability(ctx(), bike.ID, start, end)
	require.NoError(t, err)
	assert.False(t, available)

	// cancelling one frees a unit
	_, err = svc.Cancel(ctx(), second.ID)
	require.NoError(t, err)

	available, err = svc.CheckAvailability(ctx(), bike.ID, start, end)
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.Create(ctx(), bookingInput(bike.ID, start, end))
	assert.NoError(t, err)
}

func TestAvailability_TouchingEndpointsOverlap(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "BMX", 8, 1)

	_, err := svc.Create(ctx(), bookingInput(bike.ID, futureDay(1), futureDay(4)))
	require.NoError(t, err)

	// a request starting the day the existing one ends still overlaps
	available, err := svc.CheckAvailability(ctx(), bike.ID, futureDay(4), futureDay(8))
	require.NoError(t, err)
	assert.False(t, available)

	// the day after is free
	available, err = svc.CheckAvailability(ctx(), bike.ID, futureDay(5), futureDay(8))
	require.NoError(t, err)
	assert.True(t, available)
}

func TestAvailability_UnknownOrOutOfStockBike(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)

	available, err := svc.CheckAvailability(ctx(), uuid.New(), futureDay(1), futureDay(2))
	require.NoError(t, err)
	assert.False(t, available)

	bike := createBike(t, db, "Hors stock", 10, 0)
	available, err = svc.CheckAvailability(ctx(), bike.ID, futureDay(1), futureDay(2))
	require.NoError(t, err)
	assert.False(t, available)
}

// TestCreate_ConcurrentSingleUnit is the regression test for the booking
// race. The original system checked availability and inserted in two
// unrelated steps, so simultaneous requests could over-book the last unit;
// here the transaction plus per-bike lock must let exactly one through.
func TestCreate_ConcurrentSingleUnit(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "Dernier vélo", 10, 1)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx(), bookingInput(bike.ID, futureDay(1), futureDay(3)))
		}(i)
	}
	wg.Wait()

	successes, unavailable := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, services.ErrUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, unavailable)

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "Cargo", 20, 3)

	reservation, err := svc.Create(ctx(), bookingInput(bike.ID, futureDay(1), futureDay(2)))
	require.NoError(t, err)

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx(), reservation.ID, models.ReservationStatus("archived"))
		assert.ErrorIs(t, err, services.ErrInvalidStatus)
	})

	t.Run("pending cannot jump to completed", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx(), reservation.ID, models.StatusCompleted)
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
	})

	t.Run("confirm is idempotent", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx(), reservation.ID, models.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, updated.Status)

		again, err := svc.UpdateStatus(ctx(), reservation.ID, models.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, again.Status)
	})

	t.Run("confirmed completes", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx(), reservation.ID, models.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, updated.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx(), reservation.ID, models.StatusCancelled)
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx(), uuid.New(), models.StatusConfirmed)
		assert.ErrorIs(t, err, services.ErrReservationNotFound)
	})
}

func TestList_FiltersAndOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bikeA := createBike(t, db, "Vélo A", 10, 5)
	bikeB := createBike(t, db, "Vélo B", 12, 5)

	today := utils.Today()
	older := insertReservation(t, db, bikeA.ID, today, today.AddDate(0, 0, 2), models.StatusConfirmed, 30)
	backdate(t, db, older, time.Now().UTC().Add(-48*time.Hour))
	middle := insertReservation(t, db, bikeB.ID, today.AddDate(0, 0, 5), today.AddDate(0, 0, 6), models.StatusPending, 24)
	backdate(t, db, middle, time.Now().UTC().Add(-24*time.Hour))
	newest := insertReservation(t, db, bikeA.ID, today.AddDate(0, 0, 8), today.AddDate(0, 0, 9), models.StatusCancelled, 20)

	t.Run("no filter, newest first, bike joined", func(t *testing.T) {
		list, err := svc.List(ctx(), services.ReservationFilter{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, newest.ID, list[0].ID)
		assert.Equal(t, middle.ID, list[1].ID)
		assert.Equal(t, older.ID, list[2].ID)
		assert.Equal(t, "Vélo A", list[0].Bike.Name)
	})

	t.Run("status filter", func(t *testing.T) {
		status := models.StatusPending
		list, err := svc.List(ctx(), services.ReservationFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, middle.ID, list[0].ID)
	})

	t.Run("bike filter", func(t *testing.T) {
		list, err := svc.List(ctx(), services.ReservationFilter{BikeID: &bikeA.ID})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("active filter", func(t *testing.T) {
		list, err := svc.List(ctx(), services.ReservationFilter{Active: true})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, older.ID, list[0].ID, "only the confirmed reservation covering today is active")
	})
}

func TestListByEmail(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "Vélo", 10, 5)

	today := utils.Today()
	mine := insertReservation(t, db, bike.ID, today, today.AddDate(0, 0, 1), models.StatusPending, 20)
	other := insertReservation(t, db, bike.ID, today, today.AddDate(0, 0, 1), models.StatusPending, 20)
	require.NoError(t, db.Model(other).UpdateColumn("customer_email", "autre@example.com").Error)

	list, err := svc.ListByEmail(ctx(), "jean.dupont@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	// surrounding whitespace must not hide the customer's bookings
	list, err = svc.ListByEmail(ctx(), "  jean.dupont@example.com  ")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	// a booking taken with a padded address is stored trimmed and found later
	padded := bookingInput(bike.ID, futureDay(1), futureDay(2))
	padded.CustomerEmail = " marie.curie@example.com "
	booked, err := svc.Create(ctx(), padded)
	require.NoError(t, err)
	assert.Equal(t, "marie.curie@example.com", booked.CustomerEmail)

	list, err = svc.ListByEmail(ctx(), "marie.curie@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, booked.ID, list[0].ID)

	var validationErr *services.ValidationError
	_, err = svc.ListByEmail(ctx(), "not-an-email")
	assert.ErrorAs(t, err, &validationErr)
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "Vélo", 10, 10)

	today := utils.Today()
	insertReservation(t, db, bike.ID, today, today.AddDate(0, 0, 1), models.StatusPending, 20)
	insertReservation(t, db, bike.ID, today, today.AddDate(0, 0, 1), models.StatusConfirmed, 30)
	insertReservation(t, db, bike.ID, today, today.AddDate(0, 0, 1), models.StatusCompleted, 50)
	insertReservation(t, db, bike.ID, today, today.AddDate(0, 0, 1), models.StatusCancelled, 999)

	// booked last month: counted in the total but not in the month revenue
	lastMonth := insertReservation(t, db, bike.ID, today, today.AddDate(0, 0, 1), models.StatusConfirmed, 40)
	backdate(t, db, lastMonth, time.Now().UTC().AddDate(0, -1, 0))

	stats, err := svc.Stats(ctx())
	require.NoError(t, err)

	assert.EqualValues(t, 5, stats.Total)
	assert.EqualValues(t, 1, stats.Pending)
	assert.EqualValues(t, 2, stats.Confirmed)
	assert.EqualValues(t, 1, stats.Completed)
	assert.EqualValues(t, 1, stats.Cancelled)
	assert.Equal(t, 140.0, stats.RevenueTotal, "cancelled revenue excluded")
	assert.Equal(t, 100.0, stats.RevenueMonth, "only this month's non-cancelled bookings")
}

func TestMostRented_ExcludesCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	popular := createBike(t, db, "Populaire", 10, 5)
	quiet := createBike(t, db, "Discret", 10, 5)
	unused := createBike(t, db, "Jamais loué", 10, 5)

	today := utils.Today()
	for i := 0; i < 3; i++ {
		insertReservation(t, db, popular.ID, today, today.AddDate(0, 0, 1), models.StatusConfirmed, 20)
	}
	insertReservation(t, db, popular.ID, today, today.AddDate(0, 0, 1), models.StatusCancelled, 20)
	insertReservation(t, db, quiet.ID, today, today.AddDate(0, 0, 1), models.StatusPending, 20)

	ranked, err := svc.MostRented(ctx(), 5)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, popular.ID, ranked[0].ID)
	assert.EqualValues(t, 3, ranked[0].RentalCount, "cancelled reservations do not count")
	assert.Equal(t, quiet.ID, ranked[1].ID)
	assert.EqualValues(t, 1, ranked[1].RentalCount)
	assert.Equal(t, unused.ID, ranked[2].ID)
	assert.EqualValues(t, 0, ranked[2].RentalCount)

	truncated, err := svc.MostRented(ctx(), 1)
	require.NoError(t, err)
	assert.Len(t, truncated, 1)
}

func TestOccupancyRate(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewReservationService(db)
	bike := createBike(t, db, "Vélo", 10, 1)

	today := utils.Today()
	// 5 of the 10 window days are booked and confirmed
	insertReservation(t, db, bike.ID, today, today.AddDate(0, 0, 4), models.StatusConfirmed, 45)
	// pending reservations do not count towards occupancy
	insertReservation(t, db, bike.ID, today.AddDate(0, 0, 5), today.AddDate(0, 0, 9), models.StatusPending, 45)

	rate, err := svc.OccupancyRate(ctx(), bike.ID, today, today.AddDate(0, 0, 9))
	require.NoError(t, err)
	assert.Equal(t, 50.0, rate)

	rate, err = svc.OccupancyRate(ctx(), uuid.New(), today, today.AddDate(0, 0, 9))
	require.NoError(t, err)
	assert.Zero(t, rate)
}
