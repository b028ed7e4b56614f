package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTokenActive(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	tok := RefreshToken{UserID: 1, ExpiresAt: now.Add(time.Hour)}

	assert.True(t, tok.Active(now))

	expired := tok
	expired.ExpiresAt = now.Add(-time.Minute)
	assert.False(t, expired.Active(now))

	atExpiry := tok
	atExpiry.ExpiresAt = now
	assert.False(t, atExpiry.Active(now), "expiry instant itself no longer authenticates")

	revokedAt := now.Add(-time.Minute)
	revoked := tok
	revoked.RevokedAt = &revokedAt
	assert.False(t, revoked.Active(now))
}
