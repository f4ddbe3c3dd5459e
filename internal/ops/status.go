package ops

import (
	"time"

	"github.com/hpungsan/spark/internal/sensors"
	"github.com/hpungsan/spark/internal/store"
)

// StatusOutput summarizes the collection and the current readings.
type StatusOutput struct {
	Total    int            `json:"total"`
	Locked   int            `json:"locked"`
	Unlocked int            `json:"unlocked"`
	Context  ContextSummary `json:"context"`

	// NextTimeUnlock is the soonest future earliest-unlock among locked entries.
	NextTimeUnlock *time.Time `json:"next_time_unlock,omitempty"`
}

// Status reports counts and context without changing anything.
func Status(st *store.Store, sn *sensors.Sensors) *StatusOutput {
	ctx := sn.Context()
	out := &StatusOutput{Context: summarizeContext(sn, ctx)}

	for _, e := range st.Snapshot() {
		out.Total++
		if !e.IsLocked() {
			out.Unlocked++
			continue
		}
		out.Locked++
		if e.HasTimeCondition() && e.EarliestUnlock.After(ctx.Now) {
			if out.NextTimeUnlock == nil || e.EarliestUnlock.Before(*out.NextTimeUnlock) {
				at := e.EarliestUnlock
				out.NextTimeUnlock = &at
			}
		}
	}
	return out
}
