package ops

import (
	"database/sql"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/spark/internal/db"
	"github.com/hpungsan/spark/internal/logging"
	"github.com/hpungsan/spark/internal/store"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	EntryID string // optional filter
	Limit   int
	Offset  int
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Items      []db.UnlockEvent `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// History lists recorded unlocks, most recent first.
func History(database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	var filters db.ListUnlocksFilters
	if id := strings.TrimSpace(input.EntryID); id != "" {
		filters.EntryID = &id
	}

	items, total, err := db.ListUnlocks(database, filters, limit, offset)
	if err != nil {
		return nil, err
	}
	return &HistoryOutput{
		Items:      items,
		Pagination: newPagination(limit, offset, total),
	}, nil
}

// RecordUnlocks appends an unlock event to the history for every entry the
// store unlocks. The returned func stops recording.
func RecordUnlocks(database *sql.DB, st *store.Store, log logrus.FieldLogger) (cancel func()) {
	log = logging.OrDiscard(log)
	return st.Subscribe(func(c store.Change) {
		if c.Kind != store.ChangeUnlocked {
			return
		}
		for _, id := range c.IDs {
			e, err := st.Get(id)
			if err != nil || e.UnlockedAt == nil {
				continue
			}
			ev := &db.UnlockEvent{EntryID: e.ID, Title: e.Title, UnlockedAt: e.UnlockedAt.Unix()}
			if err := db.RecordUnlock(database, ev); err != nil {
				log.WithError(err).WithField("entry_id", e.ID).Warn("failed to record unlock")
			}
		}
	})
}
