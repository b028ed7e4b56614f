package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/model"
	"github.com/jeremyha1/cherry/internal/queue"
	"github.com/jeremyha1/cherry/internal/repository"
	queue_publisher "github.com/jeremyha1/cherry/internal/service"
)

// HostRequestHandler lets hosts decide the requests filed against
// their listings.
type HostRequestHandler struct {
	Requests *repository.RequestRepo
	Listings *repository.ListingRepo
}

func NewHostRequestHandler(r *repository.RequestRepo, l *repository.ListingRepo) *HostRequestHandler {
	return &HostRequestHandler{Requests: r, Listings: l}
}

type decideReq struct {
	Status string `json:"status"` // accepted | declined
}

// Decide accepts or declines a pending request. Accepting books the
// listing. Either outcome emits a request.decided event; the
// decision stands even when the broker is unreachable.
func (h *HostRequestHandler) Decide(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body decideReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if status != model.StatusAccepted && status != model.StatusDeclined {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be accepted or declined"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	req, err := h.Requests.Decide(ctx, uid, id, status)
	switch err {
	case nil:
	case repository.ErrRequestNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your listing's request"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "request already decided"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decide request failed"})
	}

	ev := queue.RequestDecidedEvent{
		RequestID: req.ID,
		ListingID: req.ListingID,
		HostID:    req.HostID,
		GuestID:   req.GuestID,
		Status:    req.Status,
		DecidedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if l, lerr := h.Listings.GetByID(ctx, req.ListingID); lerr == nil {
		ev.ListingTitle = l.Title
		if l.AvailableDate != nil {
			d := l.AvailableDate.UTC().Format("2006-01-02")
			ev.AvailableDate = &d
		}
		ev.StartTime = l.StartTime
		ev.EndTime = l.EndTime
	}
	go func(ev queue.RequestDecidedEvent) {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishRequestDecided(pctx, ev)
	}(ev)

	return c.JSON(http.StatusOK, requestView(req))
}
