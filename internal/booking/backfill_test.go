package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyha1/cherry/internal/model"
)

func TestPlanBackfill(t *testing.T) {
	created := time.Date(2024, time.April, 2, 9, 30, 0, 0, time.UTC)
	req := model.Request{
		ID:        10,
		HostID:    1,
		GuestID:   2,
		Status:    model.StatusAccepted,
		Message:   strPtr("looking forward to it"),
		CreatedAt: created,
	}

	t.Run("guest opening an empty thread inserts the note", func(t *testing.T) {
		assert.Equal(t, BackfillInsert, PlanBackfill(req, nil, req.GuestID))
	})

	t.Run("host view never migrates", func(t *testing.T) {
		assert.Equal(t, BackfillNone, PlanBackfill(req, nil, req.HostID))
	})

	t.Run("no note means nothing to do", func(t *testing.T) {
		r := req
		r.Message = nil
		assert.Equal(t, BackfillNone, PlanBackfill(r, nil, r.GuestID))
		empty := ""
		r.Message = &empty
		assert.Equal(t, BackfillNone, PlanBackfill(r, nil, r.GuestID))
	})

	t.Run("non-empty thread blocks the insert", func(t *testing.T) {
		thread := []model.Message{
			{ID: 1, RequestID: 10, SenderID: 1, Body: "hello", CreatedAt: created.Add(time.Hour)},
		}
		assert.Equal(t, BackfillNone, PlanBackfill(req, thread, req.GuestID))
	})

	t.Run("leftover note beside its synthesized message clears only", func(t *testing.T) {
		thread := []model.Message{SynthesizeNote(req)}
		assert.Equal(t, BackfillClearOnly, PlanBackfill(req, thread, req.GuestID))
	})

	t.Run("rerun after a full migration is a no-op", func(t *testing.T) {
		migrated := req
		migrated.Message = nil
		thread := []model.Message{SynthesizeNote(req)}
		assert.Equal(t, BackfillNone, PlanBackfill(migrated, thread, migrated.GuestID))
	})
}

func TestSynthesizeNote(t *testing.T) {
	created := time.Date(2024, time.April, 2, 9, 30, 0, 0, time.UTC)
	req := model.Request{
		ID:        10,
		GuestID:   2,
		Message:   strPtr("see you there"),
		CreatedAt: created,
	}
	m := SynthesizeNote(req)
	require.Equal(t, req.ID, m.RequestID)
	assert.Equal(t, req.GuestID, m.SenderID)
	assert.Equal(t, "see you there", m.Body)
	// Timestamped at request creation so it sorts first and reruns
	// can find it.
	assert.True(t, m.CreatedAt.Equal(created))
}
