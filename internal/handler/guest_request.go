package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/model"
	"github.com/jeremyha1/cherry/internal/repository"
)

// GuestHandler lets guests file booking requests and review the ones
// they have open.
type GuestHandler struct {
	Requests *repository.RequestRepo
	Listings *repository.ListingRepo
}

func NewGuestHandler(r *repository.RequestRepo, l *repository.ListingRepo) *GuestHandler {
	return &GuestHandler{Requests: r, Listings: l}
}

type createRequestReq struct {
	Message       *string `json:"message"`
	RequestedDate *string `json:"requested_date"`
}

type requestResp struct {
	ID            uint64  `json:"id"`
	ListingID     uint64  `json:"listing_id"`
	HostID        uint64  `json:"host_id"`
	GuestID       uint64  `json:"guest_id"`
	Message       *string `json:"message,omitempty"`
	RequestedDate *string `json:"requested_date,omitempty"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

func requestView(r model.Request) requestResp {
	return requestResp{
		ID:            r.ID,
		ListingID:     r.ListingID,
		HostID:        r.HostID,
		GuestID:       r.GuestID,
		Message:       r.Message,
		RequestedDate: r.RequestedDate,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Create files a request against a listing. Own listings, booked
// slots and duplicate requests are rejected before the row exists.
func (h *GuestHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body createRequestReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req := model.Request{ListingID: listingID, GuestID: uid}
	if body.Message != nil {
		if m := strings.TrimSpace(*body.Message); m != "" {
			req.Message = &m
		}
	}
	if body.RequestedDate != nil {
		if d := strings.TrimSpace(*body.RequestedDate); d != "" {
			req.RequestedDate = &d
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	switch err := h.Requests.Create(ctx, &req); err {
	case nil:
		return c.JSON(http.StatusCreated, requestView(req))
	case repository.ErrListingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot request your own listing"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "listing already booked"})
	case repository.ErrDuplicateRequest:
		return c.JSON(http.StatusConflict, echo.Map{"error": "request already exists"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
}

// Mine lists the requests the guest has filed, newest first.
func (h *GuestHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	reqs, err := h.Requests.ListByGuest(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load requests failed"})
	}
	out := make([]requestResp, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, requestView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": out})
}
