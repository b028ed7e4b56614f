package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeremyha1/cherry/internal/model"
)

func TestCheckoutEligible(t *testing.T) {
	req := model.Request{ID: 7, ListingID: 3, HostID: 10, GuestID: 20, Status: model.StatusAccepted}

	t.Run("accepted booking, guest pays", func(t *testing.T) {
		code, _ := checkoutEligible(req, 20)
		assert.Equal(t, 0, code)
	})

	t.Run("host side is eligible too", func(t *testing.T) {
		code, _ := checkoutEligible(req, 10)
		assert.Equal(t, 0, code)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		code, msg := checkoutEligible(req, 99)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "not a participant", msg)
	})

	t.Run("pending booking cannot open a session", func(t *testing.T) {
		r := req
		r.Status = model.StatusPending
		code, msg := checkoutEligible(r, 20)
		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, "booking not accepted", msg)
	})

	t.Run("declined booking cannot open a session", func(t *testing.T) {
		r := req
		r.Status = model.StatusDeclined
		code, _ := checkoutEligible(r, 20)
		assert.Equal(t, http.StatusConflict, code)
	})
}
