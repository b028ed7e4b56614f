// Package booking derives per-view state for booking requests and
// their chat threads: which display bucket a request falls into,
// which threads hold unread messages for the viewing user, and
// whether a legacy inline note still needs migrating into its
// thread. Everything here is a pure function over snapshots loaded
// by the caller; nothing is cached or persisted, so every view
// recomputes from scratch.
package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeremyha1/cherry/internal/model"
)

// Bucket is one of the mutually exclusive display filters a request
// can be viewed under. All trivially matches every request with a
// resolvable listing; the other three partition requests by status
// and by the listing's end instant.
type Bucket string

const (
	BucketAll      Bucket = "all"
	BucketPending  Bucket = "pending"
	BucketUpcoming Bucket = "upcoming"
	BucketPast     Bucket = "past"
)

// ParseBucket maps a query-string filter value onto a Bucket. The
// empty string defaults to all.
func ParseBucket(s string) (Bucket, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return BucketAll, true
	case "pending":
		return BucketPending, true
	case "upcoming":
		return BucketUpcoming, true
	case "past":
		return BucketPast, true
	}
	return "", false
}

// EffectiveEnd combines a listing's calendar date and end time of day
// into the instant after which the listing counts as expired. Both
// parts are interpreted in UTC, matching how the database connection
// reads DATE and TIME columns. A listing missing either part has no
// determinable end and never expires; the second return value is
// false in that case.
func EffectiveEnd(l model.Listing) (time.Time, bool) {
	if l.AvailableDate == nil || l.EndTime == nil {
		return time.Time{}, false
	}
	h, m, s, err := parseClock(*l.EndTime)
	if err != nil {
		return time.Time{}, false
	}
	d := l.AvailableDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, s, 0, time.UTC), true
}

// parseClock splits a "15:04" or "15:04:05" clock string into its
// components.
func parseClock(clock string) (h, m, s int, err error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed time of day %q", clock)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("malformed time of day %q", clock)
		}
		nums[i] = n
	}
	if nums[0] < 0 || nums[0] > 23 || nums[1] < 0 || nums[1] > 59 || nums[2] < 0 || nums[2] > 59 {
		return 0, 0, 0, fmt.Errorf("time of day %q out of range", clock)
	}
	return nums[0], nums[1], nums[2], nil
}

// Expired reports whether the listing's effective end lies strictly
// before now. Listings without a determinable end never expire.
func Expired(l model.Listing, now time.Time) bool {
	end, ok := EffectiveEnd(l)
	return ok && end.Before(now)
}

// Matches reports whether request r, backed by listing l, belongs
// under filter f at instant now.
//
// The buckets deliberately do not cover every request: a declined
// request whose listing has not yet ended matches none of pending,
// upcoming or past and is only reachable under all.
func Matches(f Bucket, r model.Request, l model.Listing, now time.Time) bool {
	switch f {
	case BucketAll:
		return true
	case BucketPending:
		return r.Status == model.StatusPending
	case BucketUpcoming:
		return r.Status == model.StatusAccepted && !Expired(l, now)
	case BucketPast:
		if r.Status != model.StatusAccepted && r.Status != model.StatusDeclined {
			return false
		}
		return Expired(l, now)
	}
	return false
}

// Anomaly flags a request whose listing reference could not be
// resolved. Such requests are dropped from every filtered view, but
// the condition is a data-integrity problem and callers are expected
// to log it rather than hide the row silently.
type Anomaly struct {
	RequestID uint64
	ListingID uint64
}

func (a Anomaly) String() string {
	return fmt.Sprintf("request %d references missing listing %d", a.RequestID, a.ListingID)
}

// Filter returns the subset of requests matching f, in input order,
// together with anomalies for any request whose listing is absent
// from listings.
func Filter(f Bucket, requests []model.Request, listings map[uint64]model.Listing, now time.Time) ([]model.Request, []Anomaly) {
	var (
		out       []model.Request
		anomalies []Anomaly
	)
	for _, r := range requests {
		l, ok := listings[r.ListingID]
		if !ok {
			anomalies = append(anomalies, Anomaly{RequestID: r.ID, ListingID: r.ListingID})
			continue
		}
		if Matches(f, r, l, now) {
			out = append(out, r)
		}
	}
	return out, anomalies
}

// UnreadByRequest computes, per request thread, how many messages
// from the other party the viewer has not yet answered. A message
// counts as unread when its request is not declined, its listing has
// not ended, and it postdates the viewer's own latest message in the
// thread (or the viewer has sent nothing). The viewer's own messages
// are never unread, so a thread the viewer alone has written to
// counts zero.
//
// The partition shifts every time the viewer sends a message, so the
// result is recomputed fresh from the full message set on every call
// rather than maintained as a counter.
func UnreadByRequest(viewerID uint64, requests []model.Request, listings map[uint64]model.Listing, messages []model.Message, now time.Time) map[uint64]int {
	byID := make(map[uint64]model.Request, len(requests))
	for _, r := range requests {
		byID[r.ID] = r
	}

	// Latest own message per thread; absent means "before all time".
	lastMine := make(map[uint64]time.Time)
	for _, m := range messages {
		if m.SenderID != viewerID {
			continue
		}
		if cur, ok := lastMine[m.RequestID]; !ok || m.CreatedAt.After(cur) {
			lastMine[m.RequestID] = m.CreatedAt
		}
	}

	counts := make(map[uint64]int)
	for _, m := range messages {
		if m.SenderID == viewerID {
			continue
		}
		r, ok := byID[m.RequestID]
		if !ok {
			continue
		}
		if r.Status == model.StatusDeclined {
			continue
		}
		if l, ok := listings[r.ListingID]; ok && Expired(l, now) {
			continue
		}
		if last, ok := lastMine[m.RequestID]; ok && !m.CreatedAt.After(last) {
			continue
		}
		counts[m.RequestID]++
	}
	return counts
}

// UnreadTotal sums UnreadByRequest across all of the viewer's
// requests, for the dashboard badge.
func UnreadTotal(viewerID uint64, requests []model.Request, listings map[uint64]model.Listing, messages []model.Message, now time.Time) int {
	total := 0
	for _, n := range UnreadByRequest(viewerID, requests, listings, messages, now) {
		total += n
	}
	return total
}
