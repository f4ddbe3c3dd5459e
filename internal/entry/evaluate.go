package entry

import "time"

// Status is the outcome of evaluating an entry against a context.
type Status string

const (
	StatusAlreadyUnlocked Status = "already_unlocked"
	StatusShouldUnlockNow Status = "should_unlock_now"
	StatusRemainsLocked   Status = "remains_locked"
)

// Condition names one unlock requirement.
type Condition string

const (
	ConditionLocation Condition = "location"
	ConditionWeather  Condition = "weather"
	ConditionEmotion  Condition = "emotion"
	ConditionTime     Condition = "time"
)

// Context holds the current readings. A nil reading means none is available.
type Context struct {
	Coordinate *Coordinate
	Weather    *Weather
	Emotion    *Emotion
	Now        time.Time
}

// Evaluation is the result of Evaluate.
type Evaluation struct {
	Status Status
	// Unmet lists failing conditions in the order location, weather, emotion, time.
	Unmet []Condition
}

// Evaluate decides whether e should unlock given ctx. Conditions are
// conjunctive and unset conditions are vacuously satisfied. Missing
// readings only fail the condition that needs them.
func Evaluate(e Entry, ctx Context) Evaluation {
	if e.UnlockedAt != nil {
		return Evaluation{Status: StatusAlreadyUnlocked}
	}

	var unmet []Condition

	if e.Geofence != nil {
		if ctx.Coordinate == nil || !IsWithin(*e.Geofence, *ctx.Coordinate) {
			unmet = append(unmet, ConditionLocation)
		}
	}

	if e.Weather != nil {
		if ctx.Weather == nil || *ctx.Weather == WeatherUnknown || *ctx.Weather != *e.Weather {
			unmet = append(unmet, ConditionWeather)
		}
	}

	if e.Emotion != nil {
		if ctx.Emotion == nil || *ctx.Emotion != *e.Emotion {
			unmet = append(unmet, ConditionEmotion)
		}
	}

	if e.HasTimeCondition() && ctx.Now.Before(e.EarliestUnlock) {
		unmet = append(unmet, ConditionTime)
	}

	if len(unmet) > 0 {
		return Evaluation{Status: StatusRemainsLocked, Unmet: unmet}
	}
	return Evaluation{Status: StatusShouldUnlockNow}
}
