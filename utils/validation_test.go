package utils_test

import (
	"testing"

	"resavelo-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReservationDates(t *testing.T) {
	today := utils.Today()

	t.Run("valid future range", func(t *testing.T) {
		v := utils.ValidateReservationDates(today.AddDate(0, 0, 1), today.AddDate(0, 0, 5))
		assert.True(t, v.Valid)
		assert.Empty(t, v.Reason)
	})

	t.Run("start today is allowed", func(t *testing.T) {
		v := utils.ValidateReservationDates(today, today)
		assert.True(t, v.Valid)
	})

	t.Run("start in the past", func(t *testing.T) {
		v := utils.ValidateReservationDates(today.AddDate(0, 0, -1), today.AddDate(0, 0, 3))
		require.False(t, v.Valid)
		assert.Equal(t, utils.DateErrInvalidRange, v.Code)
		assert.NotEmpty(t, v.Reason)
	})

	t.Run("end before start", func(t *testing.T) {
		v := utils.ValidateReservationDates(today.AddDate(0, 0, 5), today.AddDate(0, 0, 2))
		require.False(t, v.Valid)
		assert.Equal(t, utils.DateErrInvalidRange, v.Code)
	})

	t.Run("30-day span passes", func(t *testing.T) {
		v := utils.ValidateReservationDates(today, today.AddDate(0, 0, 29))
		assert.True(t, v.Valid)
	})

	t.Run("31-day span fails", func(t *testing.T) {
		v := utils.ValidateReservationDates(today, today.AddDate(0, 0, 30))
		require.False(t, v.Valid)
		assert.Equal(t, utils.DateErrDurationExceeded, v.Code)
	})
}

func TestParseDate(t *testing.T) {
	d, err := utils.ParseDate("2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-07", d.Format(utils.DateLayout))

	_, err = utils.ParseDate("07/03/2026")
	assert.Error(t, err)

	_, err = utils.ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, utils.ValidateEmail("jean.dupont@example.com"))
	assert.True(t, utils.ValidateEmail("a+b@sub.domain.fr"))
	assert.False(t, utils.ValidateEmail("not-an-email"))
	assert.False(t, utils.ValidateEmail("missing@tld"))
	assert.False(t, utils.ValidateEmail(""))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, utils.ValidatePhone("+33612345678"))
	assert.True(t, utils.ValidatePhone("+1 (555) 123-4567"))
	assert.False(t, utils.ValidatePhone("abc"))
	assert.False(t, utils.ValidatePhone(""))
}
