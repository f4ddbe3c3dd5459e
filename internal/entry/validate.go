package entry

import (
	"strings"

	"github.com/hpungsan/spark/internal/errors"
)

// Validate checks user-supplied fields of e. maxChars <= 0 disables the size check.
func Validate(e Entry, maxChars int) error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.NewInvalidRequest("title is required")
	}

	if maxChars > 0 {
		if n := CountChars(e.Content); n > maxChars {
			return errors.NewEntryTooLarge(maxChars, n)
		}
	}

	if e.Geofence != nil {
		if err := ValidateGeofence(*e.Geofence); err != nil {
			return err
		}
	}

	if e.Weather != nil {
		if *e.Weather == WeatherUnknown {
			return errors.NewInvalidRequest("weather \"unknown\" cannot be used as an unlock condition")
		}
		if _, err := ParseWeather(string(*e.Weather)); err != nil {
			return errors.NewInvalidRequest(err.Error())
		}
	}

	if e.Emotion != nil {
		if _, err := ParseEmotion(string(*e.Emotion)); err != nil {
			return errors.NewInvalidRequest(err.Error())
		}
	}

	if e.UnlockedAt != nil && e.UnlockedAt.Before(e.CreationDate) {
		return errors.NewInvalidRequest("unlockedAt must not be before creationDate")
	}

	return nil
}

// ValidateGeofence checks coordinate ranges and that the radius is positive.
// NaN fails every check.
func ValidateGeofence(g Geofence) error {
	if !(g.Radius > 0) {
		return errors.NewInvalidRequest("geofence radius must be greater than 0")
	}
	if !(g.Latitude >= -90 && g.Latitude <= 90) {
		return errors.NewInvalidRequest("geofence latitude must be between -90 and 90")
	}
	if !(g.Longitude >= -180 && g.Longitude <= 180) {
		return errors.NewInvalidRequest("geofence longitude must be between -180 and 180")
	}
	return nil
}

// ValidateCoordinate checks latitude and longitude ranges.
func ValidateCoordinate(c Coordinate) error {
	if !(c.Latitude >= -90 && c.Latitude <= 90) {
		return errors.NewInvalidRequest("latitude must be between -90 and 90")
	}
	if !(c.Longitude >= -180 && c.Longitude <= 180) {
		return errors.NewInvalidRequest("longitude must be between -180 and 180")
	}
	return nil
}
