package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyha1/cherry/internal/model"
)

func datePtr(y int, mo time.Month, d int) *time.Time {
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

func TestEffectiveEnd(t *testing.T) {
	t.Run("combines date and end time in UTC", func(t *testing.T) {
		l := model.Listing{AvailableDate: datePtr(2024, time.January, 1), EndTime: strPtr("10:00:00")}
		end, ok := EffectiveEnd(l)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC), end)
	})

	t.Run("accepts minute precision clock", func(t *testing.T) {
		l := model.Listing{AvailableDate: datePtr(2024, time.March, 15), EndTime: strPtr("18:30")}
		end, ok := EffectiveEnd(l)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC), end)
	})

	t.Run("missing date means no end", func(t *testing.T) {
		l := model.Listing{EndTime: strPtr("10:00:00")}
		_, ok := EffectiveEnd(l)
		assert.False(t, ok)
	})

	t.Run("missing end time means no end", func(t *testing.T) {
		l := model.Listing{AvailableDate: datePtr(2024, time.January, 1)}
		_, ok := EffectiveEnd(l)
		assert.False(t, ok)
	})

	t.Run("malformed clock means no end", func(t *testing.T) {
		l := model.Listing{AvailableDate: datePtr(2024, time.January, 1), EndTime: strPtr("half past nine")}
		_, ok := EffectiveEnd(l)
		assert.False(t, ok)
	})
}

func TestExpired(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	ended := model.Listing{AvailableDate: datePtr(2024, time.January, 1), EndTime: strPtr("10:00:00")}
	assert.True(t, Expired(ended, now))

	future := model.Listing{AvailableDate: datePtr(2024, time.December, 1), EndTime: strPtr("10:00:00")}
	assert.False(t, Expired(future, now))

	// End exactly at now is not yet expired.
	atNow := model.Listing{AvailableDate: datePtr(2024, time.June, 1), EndTime: strPtr("00:00:00")}
	assert.False(t, Expired(atNow, now))

	open := model.Listing{AvailableDate: datePtr(2024, time.January, 1)}
	assert.False(t, Expired(open, now))
}

func TestParseBucket(t *testing.T) {
	for in, want := range map[string]Bucket{
		"":         BucketAll,
		"all":      BucketAll,
		"Pending":  BucketPending,
		"upcoming": BucketUpcoming,
		" past ":   BucketPast,
	} {
		got, ok := ParseBucket(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
	_, ok := ParseBucket("declined")
	assert.False(t, ok)
}

func TestMatches(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	ended := model.Listing{ID: 1, AvailableDate: datePtr(2024, time.January, 1), EndTime: strPtr("10:00:00")}
	future := model.Listing{ID: 2, AvailableDate: datePtr(2024, time.December, 1), EndTime: strPtr("10:00:00")}
	open := model.Listing{ID: 3}

	t.Run("accepted with ended listing is past only", func(t *testing.T) {
		r := model.Request{ID: 10, ListingID: 1, Status: model.StatusAccepted}
		assert.True(t, Matches(BucketAll, r, ended, now))
		assert.True(t, Matches(BucketPast, r, ended, now))
		assert.False(t, Matches(BucketUpcoming, r, ended, now))
		assert.False(t, Matches(BucketPending, r, ended, now))
	})

	t.Run("accepted with future listing is upcoming", func(t *testing.T) {
		r := model.Request{ID: 11, ListingID: 2, Status: model.StatusAccepted}
		assert.True(t, Matches(BucketUpcoming, r, future, now))
		assert.False(t, Matches(BucketPast, r, future, now))
	})

	t.Run("accepted with undetermined end stays upcoming forever", func(t *testing.T) {
		r := model.Request{ID: 12, ListingID: 3, Status: model.StatusAccepted}
		assert.True(t, Matches(BucketUpcoming, r, open, now))
		assert.False(t, Matches(BucketPast, r, open, now))
	})

	t.Run("pending matches pending regardless of end", func(t *testing.T) {
		r := model.Request{ID: 13, ListingID: 1, Status: model.StatusPending}
		assert.True(t, Matches(BucketPending, r, ended, now))
		assert.False(t, Matches(BucketUpcoming, r, ended, now))
		assert.False(t, Matches(BucketPast, r, ended, now))
	})

	t.Run("declined before the listing ends matches only all", func(t *testing.T) {
		r := model.Request{ID: 14, ListingID: 2, Status: model.StatusDeclined}
		assert.True(t, Matches(BucketAll, r, future, now))
		assert.False(t, Matches(BucketPending, r, future, now))
		assert.False(t, Matches(BucketUpcoming, r, future, now))
		assert.False(t, Matches(BucketPast, r, future, now))
	})

	t.Run("declined after the listing ends is past", func(t *testing.T) {
		r := model.Request{ID: 15, ListingID: 1, Status: model.StatusDeclined}
		assert.True(t, Matches(BucketPast, r, ended, now))
	})
}

func TestFilter(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	listings := map[uint64]model.Listing{
		1: {ID: 1, AvailableDate: datePtr(2024, time.December, 1), EndTime: strPtr("10:00:00")},
	}
	requests := []model.Request{
		{ID: 10, ListingID: 1, Status: model.StatusAccepted},
		{ID: 11, ListingID: 99, Status: model.StatusAccepted}, // listing missing
		{ID: 12, ListingID: 1, Status: model.StatusPending},
	}

	out, anomalies := Filter(BucketUpcoming, requests, listings, now)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(10), out[0].ID)

	require.Len(t, anomalies, 1)
	assert.Equal(t, uint64(11), anomalies[0].RequestID)
	assert.Equal(t, uint64(99), anomalies[0].ListingID)

	// The broken reference is dropped even from the all view.
	out, anomalies = Filter(BucketAll, requests, listings, now)
	assert.Len(t, out, 2)
	assert.Len(t, anomalies, 1)
}

func TestUnreadByRequest(t *testing.T) {
	const (
		host  uint64 = 1
		guest uint64 = 2
	)
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	at := func(d int) time.Time {
		return time.Date(2024, time.May, d, 12, 0, 0, 0, time.UTC)
	}
	future := map[uint64]model.Listing{
		1: {ID: 1, AvailableDate: datePtr(2024, time.December, 1), EndTime: strPtr("10:00:00")},
	}
	accepted := []model.Request{
		{ID: 10, ListingID: 1, HostID: host, GuestID: guest, Status: model.StatusAccepted},
	}

	t.Run("guest message unanswered by host is unread for host", func(t *testing.T) {
		msgs := []model.Message{
			{ID: 1, RequestID: 10, SenderID: guest, Body: "hi", CreatedAt: at(5)},
		}
		counts := UnreadByRequest(host, accepted, future, msgs, now)
		assert.Equal(t, 1, counts[10])
		// The sender sees nothing unread in their own thread.
		assert.Empty(t, UnreadByRequest(guest, accepted, future, msgs, now))
	})

	t.Run("viewer replying clears everything before the reply", func(t *testing.T) {
		msgs := []model.Message{
			{ID: 1, RequestID: 10, SenderID: guest, Body: "hi", CreatedAt: at(5)},
			{ID: 2, RequestID: 10, SenderID: host, Body: "hello", CreatedAt: at(6)},
			{ID: 3, RequestID: 10, SenderID: guest, Body: "are we on?", CreatedAt: at(7)},
			{ID: 4, RequestID: 10, SenderID: guest, Body: "?", CreatedAt: at(8)},
		}
		counts := UnreadByRequest(host, accepted, future, msgs, now)
		assert.Equal(t, 2, counts[10])
		counts = UnreadByRequest(guest, accepted, future, msgs, now)
		assert.Equal(t, 0, counts[10])
	})

	t.Run("message at exactly the viewer's last send stays read", func(t *testing.T) {
		msgs := []model.Message{
			{ID: 1, RequestID: 10, SenderID: guest, Body: "hi", CreatedAt: at(6)},
			{ID: 2, RequestID: 10, SenderID: host, Body: "hello", CreatedAt: at(6)},
		}
		counts := UnreadByRequest(host, accepted, future, msgs, now)
		assert.Equal(t, 0, counts[10])
	})

	t.Run("declined request contributes nothing", func(t *testing.T) {
		declined := []model.Request{
			{ID: 10, ListingID: 1, HostID: host, GuestID: guest, Status: model.StatusDeclined},
		}
		msgs := []model.Message{
			{ID: 1, RequestID: 10, SenderID: guest, Body: "hi", CreatedAt: at(5)},
		}
		assert.Empty(t, UnreadByRequest(host, declined, future, msgs, now))
	})

	t.Run("ended listing contributes nothing", func(t *testing.T) {
		ended := map[uint64]model.Listing{
			1: {ID: 1, AvailableDate: datePtr(2024, time.January, 1), EndTime: strPtr("10:00:00")},
		}
		msgs := []model.Message{
			{ID: 1, RequestID: 10, SenderID: guest, Body: "hi", CreatedAt: at(5)},
		}
		assert.Empty(t, UnreadByRequest(host, accepted, ended, msgs, now))
	})

	t.Run("undetermined end keeps counting", func(t *testing.T) {
		open := map[uint64]model.Listing{1: {ID: 1}}
		msgs := []model.Message{
			{ID: 1, RequestID: 10, SenderID: guest, Body: "hi", CreatedAt: at(5)},
		}
		counts := UnreadByRequest(host, accepted, open, msgs, now)
		assert.Equal(t, 1, counts[10])
	})

	t.Run("messages for unknown requests are ignored", func(t *testing.T) {
		msgs := []model.Message{
			{ID: 1, RequestID: 77, SenderID: guest, Body: "stray", CreatedAt: at(5)},
		}
		assert.Empty(t, UnreadByRequest(host, accepted, future, msgs, now))
	})
}

func TestUnreadTotal(t *testing.T) {
	const (
		host  uint64 = 1
		guest uint64 = 2
	)
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	listings := map[uint64]model.Listing{
		1: {ID: 1, AvailableDate: datePtr(2024, time.December, 1), EndTime: strPtr("10:00:00")},
		2: {ID: 2},
	}
	requests := []model.Request{
		{ID: 10, ListingID: 1, HostID: host, GuestID: guest, Status: model.StatusAccepted},
		{ID: 11, ListingID: 2, HostID: host, GuestID: guest, Status: model.StatusPending},
	}
	msgs := []model.Message{
		{ID: 1, RequestID: 10, SenderID: guest, CreatedAt: now.Add(-time.Hour)},
		{ID: 2, RequestID: 11, SenderID: guest, CreatedAt: now.Add(-time.Hour)},
		{ID: 3, RequestID: 11, SenderID: guest, CreatedAt: now.Add(-time.Minute)},
	}
	assert.Equal(t, 3, UnreadTotal(host, requests, listings, msgs, now))
	assert.Equal(t, 0, UnreadTotal(guest, requests, listings, msgs, now))
}
