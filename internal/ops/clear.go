package ops

import (
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/store"
)

// ClearInput contains parameters for the Clear operation.
type ClearInput struct {
	Confirm bool // must be true
}

// ClearOutput contains the result of the Clear operation.
type ClearOutput struct {
	Cleared int `json:"cleared"`
}

// Clear deletes every entry.
func Clear(st *store.Store, input ClearInput) (*ClearOutput, error) {
	if !input.Confirm {
		return nil, errors.NewInvalidRequest("clear deletes every entry; set confirm to proceed")
	}
	n, err := st.ClearAll()
	if err != nil {
		return nil, err
	}
	return &ClearOutput{Cleared: n}, nil
}
