package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/model"
	"github.com/jeremyha1/cherry/internal/repository"
)

// HostHandler bundles repositories for hosts to manage their
// listings.
type HostHandler struct {
	Listings *repository.ListingRepo
}

func NewHostHandler(l *repository.ListingRepo) *HostHandler {
	if l == nil {
		panic("nil repository passed to NewHostHandler")
	}
	return &HostHandler{Listings: l}
}

type listingReq struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	AvailableDate *string `json:"available_date"` // "2006-01-02"
	StartTime     *string `json:"start_time"`     // "15:04" or "15:04:05"
	EndTime       *string `json:"end_time"`
}

type listingResp struct {
	ID            uint64  `json:"id"`
	HostID        uint64  `json:"host_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Location      string  `json:"location,omitempty"`
	City          string  `json:"city,omitempty"`
	State         string  `json:"state,omitempty"`
	AvailableDate *string `json:"available_date"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	IsBooked      bool    `json:"is_booked"`
}

func listingView(l model.Listing) listingResp {
	var date *string
	if l.AvailableDate != nil {
		d := l.AvailableDate.UTC().Format("2006-01-02")
		date = &d
	}
	return listingResp{
		ID:            l.ID,
		HostID:        l.UserID,
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		City:          l.City,
		State:         l.State,
		AvailableDate: date,
		StartTime:     l.StartTime,
		EndTime:       l.EndTime,
		IsBooked:      l.IsBooked,
	}
}

// normalizeClock validates a time-of-day string and normalizes it to
// "15:04:05". Empty input stays nil.
func normalizeClock(s *string) (*string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, true
	}
	v := strings.TrimSpace(*s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			out := t.Format("15:04:05")
			return &out, true
		}
	}
	return nil, false
}

// bindListing validates the request body into a model.Listing.
func bindListing(c echo.Context, out *model.Listing) (string, bool) {
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return "invalid body", false
	}
	out.Title = strings.TrimSpace(req.Title)
	if out.Title == "" {
		return "title required", false
	}
	out.Description = strings.TrimSpace(req.Description)
	out.Location = strings.TrimSpace(req.Location)
	out.City = strings.TrimSpace(req.City)
	out.State = strings.TrimSpace(req.State)

	if req.AvailableDate != nil && strings.TrimSpace(*req.AvailableDate) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(*req.AvailableDate))
		if err != nil {
			return "invalid available_date", false
		}
		d = d.UTC()
		out.AvailableDate = &d
	}
	start, ok := normalizeClock(req.StartTime)
	if !ok {
		return "invalid start_time", false
	}
	end, ok := normalizeClock(req.EndTime)
	if !ok {
		return "invalid end_time", false
	}
	// A slot with both ends must not run backwards or be empty.
	if start != nil && end != nil && *end <= *start {
		return "end_time must be after start_time", false
	}
	out.StartTime = start
	out.EndTime = end
	return "", true
}

// Create publishes a new listing for the authenticated host.
func (h *HostHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var l model.Listing
	if msg, ok := bindListing(c, &l); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l.UserID = uid

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Listings.Create(ctx, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create listing failed"})
	}
	created, err := h.Listings.GetByID(ctx, l.ID)
	if err == nil {
		l = created
	}
	return c.JSON(http.StatusCreated, listingView(l))
}

// Update replaces the editable fields of one of the host's listings.
func (h *HostHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var l model.Listing
	if msg, ok := bindListing(c, &l); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()
	switch err := h.Listings.Update(ctx, uid, &l); err {
	case nil:
	case repository.ErrListingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your listing"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update listing failed"})
	}
	updated, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load listing failed"})
	}
	return c.JSON(http.StatusOK, listingView(updated))
}

// Delete removes one of the host's listings. Blocked with 409 while
// the listing still has non-declined requests.
func (h *HostHandler) Delete(c echo.Context) error {
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
	switch err := h.Listings.Delete(ctx, uid, id); err {
	case nil:
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	case repository.ErrListingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your listing"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "listing has open requests"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete listing failed"})
	}
}

// MyListings returns every listing the host has published, including
// booked ones.
func (h *HostHandler) MyListings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ls, err := h.Listings.ListByHost(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load listings failed"})
	}
	out := make([]listingResp, 0, len(ls))
	for _, l := range ls {
		out = append(out, listingView(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": out})
}
