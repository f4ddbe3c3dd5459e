package sensors

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/spark/internal/db"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/logging"
)

// Permission is the location authorization state.
type Permission string

const (
	PermissionNotDetermined Permission = "notDetermined"
	PermissionDenied        Permission = "denied"
	PermissionAuthorized    Permission = "authorized"
)

// ParsePermission parses a permission tag.
func ParsePermission(s string) (Permission, error) {
	switch Permission(s) {
	case PermissionNotDetermined, PermissionDenied, PermissionAuthorized:
		return Permission(s), nil
	}
	return "", fmt.Errorf("permission must be one of: notDetermined, denied, authorized")
}

// Location holds the latest device position. Without authorization it reports none.
type Location struct {
	mu         sync.Mutex
	permission Permission
	coord      *entry.Coordinate
	prefs      Preferences
	log        logrus.FieldLogger
}

// NewLocation restores the remembered permission. prefs may be nil.
func NewLocation(prefs Preferences, log logrus.FieldLogger) *Location {
	l := &Location{
		permission: PermissionNotDetermined,
		prefs:      prefs,
		log:        logging.OrDiscard(log),
	}
	if prefs == nil {
		return l
	}
	v, ok, err := prefs.Get(db.PrefLocationAllowed)
	if err != nil {
		l.log.WithError(err).Warn("could not read location permission")
		return l
	}
	if ok {
		if p, err := ParsePermission(v); err == nil {
			l.permission = p
		}
	}
	return l
}

// Permission returns the current authorization state.
func (l *Location) Permission() Permission {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.permission
}

// SetPermission records the authorization state. Leaving the authorized state
// drops the last position.
func (l *Location) SetPermission(p Permission) error {
	if _, err := ParsePermission(string(p)); err != nil {
		return errors.NewInvalidRequest(err.Error())
	}

	l.mu.Lock()
	l.permission = p
	if p != PermissionAuthorized {
		l.coord = nil
	}
	l.mu.Unlock()

	if l.prefs != nil {
		return l.prefs.Set(db.PrefLocationAllowed, string(p))
	}
	return nil
}

// Set records a position fix. Fixes arriving without authorization are ignored.
func (l *Location) Set(c entry.Coordinate) error {
	if err := entry.ValidateCoordinate(c); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.permission != PermissionAuthorized {
		l.log.WithField("permission", l.permission).Debug("ignoring location fix without authorization")
		return nil
	}
	l.coord = &c
	return nil
}

// Clear forgets the last position.
func (l *Location) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coord = nil
}

// Current returns a copy of the last position, or nil.
func (l *Location) Current() *entry.Coordinate {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.coord == nil || l.permission != PermissionAuthorized {
		return nil
	}
	c := *l.coord
	return &c
}
