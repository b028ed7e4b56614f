package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusAccepted))
	assert.True(t, ValidStatus(StatusDeclined))
	assert.False(t, ValidStatus("cancelled"))
	assert.False(t, ValidStatus(""))
}

func TestRequestParticipants(t *testing.T) {
	r := Request{HostID: 1, GuestID: 2}
	assert.True(t, r.IsParticipant(1))
	assert.True(t, r.IsParticipant(2))
	assert.False(t, r.IsParticipant(3))

	assert.Equal(t, uint64(2), r.Other(1))
	assert.Equal(t, uint64(1), r.Other(2))
}

func TestProfileDisplayName(t *testing.T) {
	p := Profile{FullName: "Ada"}
	assert.Equal(t, "Ada", p.DisplayName())
	assert.Equal(t, "Cherry user", Profile{}.DisplayName())
}
