package ops

import (
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/store"
)

// QueryInput contains parameters for the Query operation.
type QueryInput struct {
	Text    string
	Lock    string // all (default), locked, unlocked
	Emotion string
	Weather string
	Sort    string // newest (default), oldest, recently_unlocked
	Limit   int
	Offset  int
}

// QueryOutput contains the result of the Query operation.
type QueryOutput struct {
	Items      []SummaryItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// Query searches and lists entries.
func Query(st *store.Store, input QueryInput) (*QueryOutput, error) {
	lock, err := entry.ParseLockFilter(input.Lock)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	order, err := entry.ParseSortOrder(input.Sort)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	q := entry.Query{Text: input.Text, Lock: lock, Sort: order}
	if input.Emotion != "" {
		em, err := entry.ParseEmotion(input.Emotion)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		q.Emotion = &em
	}
	if input.Weather != "" {
		w, err := entry.ParseWeather(input.Weather)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		q.Weather = &w
	}

	limit, offset := clampPage(input.Limit, input.Offset)
	matched := st.Query(q)
	total := len(matched)

	page := []entry.Entry{}
	if offset < total {
		end := min(offset+limit, total)
		page = matched[offset:end]
	}

	return &QueryOutput{
		Items:      summarizeAll(page),
		Pagination: newPagination(limit, offset, total),
	}, nil
}
