package ops

import (
	"slices"

	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/sensors"
	"github.com/hpungsan/spark/internal/store"
)

// EmotionOutput reports the current mood and the choices.
type EmotionOutput struct {
	Emotion   entry.Emotion   `json:"emotion"`
	Available []entry.Emotion `json:"available"`
	Unlocked  []SummaryItem   `json:"unlocked,omitempty"`
}

// GetEmotion returns the current mood.
func GetEmotion(sn *sensors.Sensors) *EmotionOutput {
	return &EmotionOutput{
		Emotion:   sn.Emotion.Current(),
		Available: slices.Clone(entry.AllEmotions),
	}
}

// SetEmotionInput contains parameters for the SetEmotion operation.
type SetEmotionInput struct {
	Emotion string // required
}

// SetEmotion records the mood and re-evaluates locked entries against it.
func SetEmotion(st *store.Store, sn *sensors.Sensors, input SetEmotionInput) (*EmotionOutput, error) {
	if input.Emotion == "" {
		return nil, errors.NewInvalidRequest("emotion is required")
	}
	res, err := Reevaluate(st, sn, ReevaluateInput{Emotion: &input.Emotion})
	if err != nil {
		return nil, err
	}
	return &EmotionOutput{
		Emotion:   res.Context.Emotion,
		Available: slices.Clone(entry.AllEmotions),
		Unlocked:  res.Unlocked,
	}, nil
}
