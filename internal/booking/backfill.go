package booking

import "github.com/jeremyha1/cherry/internal/model"

// BackfillAction is the outcome of planning a legacy-note migration
// for one view of a request thread.
type BackfillAction int

const (
	// BackfillNone leaves the request untouched.
	BackfillNone BackfillAction = iota
	// BackfillInsert appends the synthesized note message and clears
	// the inline note column.
	BackfillInsert
	// BackfillClearOnly clears the inline note column because the
	// thread already contains the synthesized message. This arises
	// when an earlier run inserted the message but failed before the
	// clear landed.
	BackfillClearOnly
)

// PlanBackfill decides whether opening a thread must migrate the
// request's legacy inline note into the thread as its first message.
// Only the guest's own view triggers migration: the note was written
// by the guest at request time, so it is attributed to them, and the
// host may open the thread first without racing the migration.
//
// The plan is computed from a snapshot; the repository re-checks the
// same conditions under a row lock before applying it.
func PlanBackfill(r model.Request, thread []model.Message, viewerID uint64) BackfillAction {
	if r.Message == nil || *r.Message == "" {
		return BackfillNone
	}
	if viewerID != r.GuestID {
		return BackfillNone
	}
	if len(thread) == 0 {
		return BackfillInsert
	}
	// A prior partial run is recognizable by the exact message it
	// left behind: same sender, same body, timestamped at request
	// creation rather than at insert time.
	for _, m := range thread {
		if m.SenderID == r.GuestID && m.Body == *r.Message && m.CreatedAt.Equal(r.CreatedAt) {
			return BackfillClearOnly
		}
	}
	return BackfillNone
}

// SynthesizeNote builds the message a BackfillInsert plan appends.
// Its timestamp is the request's creation time, not now, so the note
// sorts ahead of any later chat and reruns of the plan can recognize
// it.
func SynthesizeNote(r model.Request) model.Message {
	return model.Message{
		RequestID: r.ID,
		SenderID:  r.GuestID,
		Body:      *r.Message,
		CreatedAt: r.CreatedAt,
	}
}
