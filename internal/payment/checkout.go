// Package payment creates hosted checkout sessions with the payment
// provider. The server never touches card data; it opens a session
// and redirects the guest to the provider's page.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no provider secret is set. The
// checkout endpoint reports the feature as unavailable.
var ErrNotConfigured = errors.New("payment provider not configured")

// CheckoutClient talks to the provider's session API with a secret
// key over HTTPS.
type CheckoutClient struct {
	apiURL string
	secret string
	client *http.Client
}

// NewCheckoutClient builds a CheckoutClient. secret may be empty, in
// which case CreateSession returns ErrNotConfigured.
func NewCheckoutClient(apiURL, secret string) *CheckoutClient {
	return &CheckoutClient{
		apiURL: apiURL,
		secret: secret,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether a provider secret is present.
func (c *CheckoutClient) Configured() bool { return c.secret != "" }

// SessionParams describes one payment session: a single line item
// priced in the smallest currency unit, plus the URLs the provider
// redirects to afterwards. The listing/host/guest ids travel as
// session metadata so webhooks can be tied back to the booking.
type SessionParams struct {
	AmountCents int64
	Currency    string
	ProductName string
	Quantity    int64
	SuccessURL  string
	CancelURL   string
	Reference   string // our side's id, echoed back in webhooks
	ListingID   uint64
	HostID      uint64
	GuestID     uint64
}

// Session is the provider's created checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateSession opens a hosted checkout session and returns its
// redirect URL. Provider failures surface as errors for the handler
// to map onto a 502.
func (c *CheckoutClient) CreateSession(ctx context.Context, p SessionParams) (Session, error) {
	var s Session
	if !c.Configured() {
		return s, ErrNotConfigured
	}
	if p.Quantity <= 0 {
		p.Quantity = 1
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}

	form := url.Values{}
	form.Add("mode", "payment")
	form.Add("line_items[0][price_data][currency]", p.Currency)
	form.Add("line_items[0][price_data][product_data][name]", p.ProductName)
	form.Add("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.AmountCents, 10))
	form.Add("line_items[0][quantity]", strconv.FormatInt(p.Quantity, 10))
	form.Add("success_url", p.SuccessURL)
	form.Add("cancel_url", p.CancelURL)
	if p.Reference != "" {
		form.Add("client_reference_id", p.Reference)
	}
	if p.ListingID != 0 {
		form.Add("metadata[listing_id]", strconv.FormatUint(p.ListingID, 10))
	}
	if p.HostID != 0 {
		form.Add("metadata[host_id]", strconv.FormatUint(p.HostID, 10))
	}
	if p.GuestID != 0 {
		form.Add("metadata[guest_id]", strconv.FormatUint(p.GuestID, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return s, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	res, err := c.client.Do(req)
	if err != nil {
		return s, fmt.Errorf("checkout session: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return s, fmt.Errorf("checkout session: read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		var perr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &perr) == nil && perr.Error.Message != "" {
			return s, fmt.Errorf("checkout session: provider returned %d: %s", res.StatusCode, perr.Error.Message)
		}
		return s, fmt.Errorf("checkout session: provider returned %d", res.StatusCode)
	}
	if err := json.Unmarshal(body, &s); err != nil {
		return s, fmt.Errorf("checkout session: decode response: %w", err)
	}
	if s.URL == "" {
		return s, errors.New("checkout session: provider returned no url")
	}
	return s, nil
}
