package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyha1/cherry/internal/model"
)

func newJSONContext(t *testing.T, body string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/listings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestNormalizeClock(t *testing.T) {
	got, ok := normalizeClock(strPtr("9:30"))
	require.True(t, ok)
	assert.Equal(t, "09:30:00", *got)

	got, ok = normalizeClock(strPtr("18:05:30"))
	require.True(t, ok)
	assert.Equal(t, "18:05:30", *got)

	got, ok = normalizeClock(nil)
	require.True(t, ok)
	assert.Nil(t, got)

	got, ok = normalizeClock(strPtr("  "))
	require.True(t, ok)
	assert.Nil(t, got)

	_, ok = normalizeClock(strPtr("25:00"))
	assert.False(t, ok)
	_, ok = normalizeClock(strPtr("noonish"))
	assert.False(t, ok)
}

func TestBindListing(t *testing.T) {
	t.Run("full slot", func(t *testing.T) {
		c := newJSONContext(t, `{
			"title": "Coffee walk",
			"description": "An hour around the park",
			"city": "Austin",
			"state": "TX",
			"available_date": "2024-07-01",
			"start_time": "09:00",
			"end_time": "10:00"
		}`)
		var l model.Listing
		msg, ok := bindListing(c, &l)
		require.True(t, ok, msg)
		assert.Equal(t, "Coffee walk", l.Title)
		require.NotNil(t, l.AvailableDate)
		assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), *l.AvailableDate)
		assert.Equal(t, "09:00:00", *l.StartTime)
		assert.Equal(t, "10:00:00", *l.EndTime)
	})

	t.Run("title required", func(t *testing.T) {
		c := newJSONContext(t, `{"title": "  "}`)
		var l model.Listing
		msg, ok := bindListing(c, &l)
		assert.False(t, ok)
		assert.Equal(t, "title required", msg)
	})

	t.Run("end must be after start", func(t *testing.T) {
		c := newJSONContext(t, `{"title": "x", "start_time": "10:00", "end_time": "09:00"}`)
		var l model.Listing
		msg, ok := bindListing(c, &l)
		assert.False(t, ok)
		assert.Equal(t, "end_time must be after start_time", msg)

		c = newJSONContext(t, `{"title": "x", "start_time": "10:00", "end_time": "10:00"}`)
		msg, ok = bindListing(c, &l)
		assert.False(t, ok)
		assert.Equal(t, "end_time must be after start_time", msg)
	})

	t.Run("open-ended slot is fine", func(t *testing.T) {
		c := newJSONContext(t, `{"title": "x", "start_time": "10:00"}`)
		var l model.Listing
		_, ok := bindListing(c, &l)
		require.True(t, ok)
		assert.Nil(t, l.EndTime)
		assert.Nil(t, l.AvailableDate)
	})

	t.Run("bad date", func(t *testing.T) {
		c := newJSONContext(t, `{"title": "x", "available_date": "July 1st"}`)
		var l model.Listing
		msg, ok := bindListing(c, &l)
		assert.False(t, ok)
		assert.Equal(t, "invalid available_date", msg)
	})
}

func strPtr(s string) *string { return &s }
