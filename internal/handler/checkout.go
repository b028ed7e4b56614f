package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/model"
	"github.com/jeremyha1/cherry/internal/payment"
	"github.com/jeremyha1/cherry/internal/repository"
)

// CheckoutHandler opens hosted payment sessions for accepted
// bookings.
type CheckoutHandler struct {
	Payments *payment.CheckoutClient
	Requests *repository.RequestRepo
	Listings *repository.ListingRepo
}

func NewCheckoutHandler(p *payment.CheckoutClient, r *repository.RequestRepo, l *repository.ListingRepo) *CheckoutHandler {
	return &CheckoutHandler{Payments: p, Requests: r, Listings: l}
}

type checkoutReq struct {
	RequestID   uint64 `json:"request_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

// Create opens a checkout session for one of the caller's accepted
// bookings and returns the provider redirect URL. Provider failures
// map to 502; the booking itself is untouched either way.
func (h *CheckoutHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	if h.Payments == nil || !h.Payments.Configured() {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payments unavailable"})
	}
	var body checkoutReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.RequestID == 0 || body.AmountCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "request_id and amount_cents required"})
	}
	if body.SuccessURL == "" || body.CancelURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "success_url and cancel_url required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	req, err := h.Requests.GetByID(ctx, body.RequestID)
	if err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if code, msg := checkoutEligible(req, uid); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	name := "Cherry booking"
	if l, lerr := h.Listings.GetByID(ctx, req.ListingID); lerr == nil && strings.TrimSpace(l.Title) != "" {
		name = l.Title
	}

	s, err := h.Payments.CreateSession(c.Request().Context(), payment.SessionParams{
		AmountCents: body.AmountCents,
		Currency:    body.Currency,
		ProductName: name,
		Quantity:    1,
		SuccessURL:  body.SuccessURL,
		CancelURL:   body.CancelURL,
		Reference:   strconv.FormatUint(req.ID, 10),
		ListingID:   req.ListingID,
		HostID:      req.HostID,
		GuestID:     req.GuestID,
	})
	if err != nil {
		if err == payment.ErrNotConfigured {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payments unavailable"})
		}
		c.Logger().Errorf("checkout: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id": s.ID,
		"url":        s.URL,
	})
}

// checkoutEligible decides whether uid may pay for this booking.
// Returns a zero code when eligible, otherwise the HTTP status and
// message to send. Only accepted bookings have anything to pay for.
func checkoutEligible(r model.Request, uid uint64) (int, string) {
	if !r.IsParticipant(uid) {
		return http.StatusForbidden, "not a participant"
	}
	if r.Status != model.StatusAccepted {
		return http.StatusConflict, "booking not accepted"
	}
	return 0, ""
}
