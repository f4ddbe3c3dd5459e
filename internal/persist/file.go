// Package persist stores the entry collection as a single JSON document on disk.
package persist

import (
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/logging"
)

const lockFileSuffix = ".lock"

// File is the entries document adapter. Load never fails: a missing document
// is an empty collection and an unreadable one is quarantined and treated as empty.
// Save replaces the document atomically.
type File struct {
	path string
	log  logrus.FieldLogger

	mu   sync.Mutex
	lock *flock.Flock
}

// NewFile returns an adapter for the document at path.
func NewFile(path string, log logrus.FieldLogger) *File {
	return &File{
		path: path,
		log:  logging.OrDiscard(log),
		lock: flock.New(path + lockFileSuffix),
	}
}

// Path returns the document path.
func (f *File) Path() string {
	return f.path
}

// Load reads the document.
func (f *File) Load() ([]entry.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.acquire(); err != nil {
		f.log.WithError(err).Warn("loading entries without file lock")
	} else {
		defer f.release()
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return []entry.Entry{}, nil
		}
		f.log.WithError(errors.NewCorruptStorage(f.path, err)).Warn("entries document unreadable, starting empty")
		return []entry.Entry{}, nil
	}

	entries, err := Decode(data)
	if err != nil {
		f.log.WithError(errors.NewCorruptStorage(f.path, err)).Warn("entries document corrupt, starting empty")
		f.quarantine()
		return []entry.Entry{}, nil
	}

	f.log.WithFields(logrus.Fields{"path": f.path, "entries": len(entries)}).Debug("entries loaded")
	return entries, nil
}

// Save replaces the document with entries under the file lock.
// On failure the previous document is intact.
func (f *File) Save(entries []entry.Entry) error {
	data, err := Encode(entries)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to encode entries: %w", err))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.acquire(); err != nil {
		return errors.NewWriteFailure(err)
	}
	defer f.release()

	if err := WriteAtomic(f.path, data); err != nil {
		return errors.NewWriteFailure(err)
	}

	f.log.WithFields(logrus.Fields{"path": f.path, "entries": len(entries)}).Debug("entries saved")
	return nil
}

// quarantine moves a corrupt document aside so the next save cannot destroy it.
func (f *File) quarantine() {
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		f.log.WithError(err).Warn("could not name quarantine file")
		return
	}
	dest := f.path + ".corrupt-" + id.String()
	if err := os.Rename(f.path, dest); err != nil {
		f.log.WithError(err).Warn("could not quarantine corrupt entries document")
		return
	}
	f.log.WithField("quarantined", dest).Warn("corrupt entries document moved aside")
}

// acquire takes the cross-process lock, waiting if another process holds it.
func (f *File) acquire() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	locked, err := f.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", f.lock.Path(), err)
	}
	if !locked {
		f.log.WithField("lock", f.lock.Path()).Info("another process is writing entries, waiting")
		if err := f.lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s after waiting: %w", f.lock.Path(), err)
		}
	}
	return nil
}

func (f *File) release() {
	if err := f.lock.Unlock(); err != nil && !os.IsNotExist(err) {
		f.log.WithError(err).Warn("failed to release entries lock")
	}
}
