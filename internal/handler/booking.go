package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/booking"
	"github.com/jeremyha1/cherry/internal/model"
	"github.com/jeremyha1/cherry/internal/repository"
)

// BookingHandler serves the bookings dashboard: bucketed request
// lists with unread counts, the unread badge total, thread detail
// and message sending. Everything is derived per request from the
// stored rows; nothing here keeps read cursors or counters.
type BookingHandler struct {
	Requests *repository.RequestRepo
	Listings *repository.ListingRepo
	Messages *repository.MessageRepo
	Profiles *repository.ProfileRepo
}

func NewBookingHandler(r *repository.RequestRepo, l *repository.ListingRepo, m *repository.MessageRepo, p *repository.ProfileRepo) *BookingHandler {
	return &BookingHandler{Requests: r, Listings: l, Messages: m, Profiles: p}
}

type bookingItem struct {
	Request      requestResp  `json:"request"`
	Listing      *listingResp `json:"listing,omitempty"`
	Counterparty string       `json:"counterparty"`
	Unread       int          `json:"unread"`
	EffectiveEnd *string      `json:"effective_end,omitempty"`
}

type messageResp struct {
	ID        uint64 `json:"id"`
	RequestID uint64 `json:"request_id"`
	SenderID  uint64 `json:"sender_id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func messageView(m model.Message) messageResp {
	return messageResp{
		ID:        m.ID,
		RequestID: m.RequestID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// loadWorkingSet pulls the viewer's requests plus the listings and
// messages backing them.
func (h *BookingHandler) loadWorkingSet(c echo.Context, viewerID uint64) ([]model.Request, map[uint64]model.Listing, []model.Message, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	reqs, err := h.Requests.ListVisibleToUser(ctx, viewerID)
	if err != nil {
		return nil, nil, nil, err
	}
	listingIDs := make([]uint64, 0, len(reqs))
	requestIDs := make([]uint64, 0, len(reqs))
	for _, r := range reqs {
		listingIDs = append(listingIDs, r.ListingID)
		requestIDs = append(requestIDs, r.ID)
	}
	listings, err := h.Listings.MapByIDs(ctx, listingIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	msgs, err := h.Messages.ListForRequests(ctx, requestIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	return reqs, listings, msgs, nil
}

// List returns the viewer's bookings under ?filter=all|pending|
// upcoming|past, each with its unread count and the counterparty's
// display name. Requests whose listing row is gone are dropped from
// the response and logged as data anomalies.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	bucket, ok := booking.ParseBucket(c.QueryParam("filter"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown filter"})
	}

	reqs, listings, msgs, err := h.loadWorkingSet(c, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}

	now := time.Now().UTC()
	visible, anomalies := booking.Filter(bucket, reqs, listings, now)
	for _, a := range anomalies {
		c.Logger().Warnf("bookings: %s", a)
	}
	unread := booking.UnreadByRequest(uid, reqs, listings, msgs, now)

	otherIDs := make([]uint64, 0, len(visible))
	for _, r := range visible {
		otherIDs = append(otherIDs, r.Other(uid))
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	names, err := h.Profiles.NamesByIDs(ctx, otherIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profiles failed"})
	}

	items := make([]bookingItem, 0, len(visible))
	for _, r := range visible {
		item := bookingItem{
			Request:      requestView(r),
			Unread:       unread[r.ID],
			Counterparty: displayName(names[r.Other(uid)]),
		}
		if l, ok := listings[r.ListingID]; ok {
			lv := listingView(l)
			item.Listing = &lv
			if end, ok := booking.EffectiveEnd(l); ok {
				e := end.Format("2006-01-02T15:04:05Z")
				item.EffectiveEnd = &e
			}
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"filter":   string(bucket),
		"bookings": items,
	})
}

// UnreadTotal returns the dashboard badge count across all of the
// viewer's threads.
func (h *BookingHandler) UnreadTotal(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	reqs, listings, msgs, err := h.loadWorkingSet(c, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	total := booking.UnreadTotal(uid, reqs, listings, msgs, time.Now().UTC())
	return c.JSON(http.StatusOK, echo.Map{"unread": total})
}

// Detail returns one booking with its full thread. Opening the
// thread as the guest first migrates any legacy inline note into the
// thread, so the note appears exactly once, as the first message.
func (h *BookingHandler) Detail(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if !req.IsParticipant(uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}

	if req.Message != nil && uid == req.GuestID {
		req, err = h.Requests.BackfillLegacyNote(ctx, id, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "note migration failed"})
		}
	}

	thread, err := h.Messages.ListByRequest(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load thread failed"})
	}

	item := bookingItem{Request: requestView(req)}
	var listings map[uint64]model.Listing
	if l, lerr := h.Listings.GetByID(ctx, req.ListingID); lerr == nil {
		lv := listingView(l)
		item.Listing = &lv
		if end, ok := booking.EffectiveEnd(l); ok {
			e := end.Format("2006-01-02T15:04:05Z")
			item.EffectiveEnd = &e
		}
		listings = map[uint64]model.Listing{l.ID: l}
	} else if lerr == repository.ErrListingNotFound {
		c.Logger().Warnf("bookings: %s", booking.Anomaly{RequestID: req.ID, ListingID: req.ListingID})
	} else {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load listing failed"})
	}

	names, err := h.Profiles.NamesByIDs(ctx, []uint64{req.Other(uid)})
	if err == nil {
		item.Counterparty = displayName(names[req.Other(uid)])
	}
	item.Unread = booking.UnreadByRequest(uid, []model.Request{req}, listings, thread, time.Now().UTC())[req.ID]

	msgs := make([]messageResp, 0, len(thread))
	for _, m := range thread {
		msgs = append(msgs, messageView(m))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":  item,
		"messages": msgs,
	})
}

// SendMessage appends to a thread. Participants only; declined
// threads stay writable so the pair can wrap up, they just never
// count as unread.
func (h *BookingHandler) SendMessage(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	text := strings.TrimSpace(body.Body)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if !req.IsParticipant(uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}

	m := model.Message{RequestID: id, SenderID: uid, Body: text}
	if err := h.Messages.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}
	return c.JSON(http.StatusCreated, messageView(m))
}

// displayName mirrors the profile fallback for users who never
// filled in a name.
func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Cherry user"
	}
	return name
}
