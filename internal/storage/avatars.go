// Package storage uploads profile avatars to an external image host.
// Uploads are signed form posts over HTTPS; the provider stores the
// bytes and hands back a public URL that goes into the profile row.
package storage

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the avatar provider credentials
// are absent. The profile endpoints keep working; only image upload
// is refused.
var ErrNotConfigured = errors.New("avatar storage not configured")

// AvatarStore signs and posts base64 images to the configured
// provider.
type AvatarStore struct {
	uploadURL string
	apiKey    string
	apiSecret string
	folder    string
	client    *http.Client
}

// NewAvatarStore builds an AvatarStore. uploadURL, apiKey and
// apiSecret may be empty, in which case Upload returns
// ErrNotConfigured.
func NewAvatarStore(uploadURL, apiKey, apiSecret, folder string) *AvatarStore {
	return &AvatarStore{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether provider credentials are present.
func (s *AvatarStore) Configured() bool {
	return s.uploadURL != "" && s.apiKey != "" && s.apiSecret != ""
}

// Upload posts a base64-encoded image under the given public id and
// returns the hosted URL. A data-URI prefix on the input is
// tolerated and stripped.
func (s *AvatarStore) Upload(ctx context.Context, base64Image, publicID string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	if base64Image == "" {
		return "", errors.New("empty image payload")
	}
	payload := base64Image
	if i := strings.Index(payload, ","); i != -1 {
		payload = payload[i+1:]
	}

	finalID := publicID
	if s.folder != "" {
		finalID = s.folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", s.apiKey)
	form.Add("public_id", finalID)

	// Signed upload: SHA1 over the signed params plus the secret.
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)
	sigInput := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalID, timestamp, s.apiSecret)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(sigInput))))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("avatar upload: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("avatar upload: read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar upload: provider returned %d", res.StatusCode)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("avatar upload: decode response: %w", err)
	}
	if out.Error.Message != "" {
		return "", fmt.Errorf("avatar upload: %s", out.Error.Message)
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", errors.New("avatar upload: provider returned no url")
}
