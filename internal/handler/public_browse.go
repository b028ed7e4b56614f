package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/repository"
)

// BrowseHandler serves the public, unauthenticated marketplace
// surface: listing search and single-listing detail.
type BrowseHandler struct {
	Listings *repository.ListingRepo
}

func NewBrowseHandler(l *repository.ListingRepo) *BrowseHandler {
	return &BrowseHandler{Listings: l}
}

// Search lists open (unbooked) listings with optional filters:
// q (title/description), city, state, date (YYYY-MM-DD), page and
// page_size.
func (h *BrowseHandler) Search(c echo.Context) error {
	q := repository.ListingSearchQuery{
		Text:  strings.TrimSpace(c.QueryParam("q")),
		City:  strings.TrimSpace(c.QueryParam("city")),
		State: strings.TrimSpace(c.QueryParam("state")),
		Date:  strings.TrimSpace(c.QueryParam("date")),
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, total, err := h.Listings.SearchOpen(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"listings":  rows,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

// Get returns one listing by id. Booked listings stay retrievable by
// direct link even though browse hides them.
func (h *BrowseHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrListingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load listing failed"})
	}
	return c.JSON(http.StatusOK, listingView(l))
}
