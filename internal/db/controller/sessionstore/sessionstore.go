// Package sessionstore implements the fiber storage interface on top of the
// portal's gorm sqlite database. It is the durable backing for cached
// identities: sessions written here survive a restart and are read back at
// startup instead of forcing a re-login.
package sessionstore

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/staffdesk/staffdesk/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Store persists sessions in the local database.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a session store over the given database.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db, now: time.Now}, nil
}

// Get returns the payload of a live session, or nil for missing/expired
// ids. A corrupt or missing record is "no session", never an error the
// caller has to distinguish.
func (s *Store) Get(key string) ([]byte, error) {
	var sess models.Session

	err := s.db.Where("id = ?", key).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(s.now()) {
		// lazily drop the expired record
		_ = s.db.Delete(&models.Session{}, "id = ?", key).Error

		return nil, nil
	}

	return sess.Payload, nil
}

// Set writes a session payload with the given lifetime.
func (s *Store) Set(key string, val []byte, exp time.Duration) error {
	sess := models.Session{
		ID:      key,
		Payload: val,
	}

	if exp > 0 {
		sess.ExpiresAt = s.now().Add(exp)
	}

	return s.db.Save(&sess).Error
}

// Delete removes a session record. Deleting a missing id is a no-op.
func (s *Store) Delete(key string) error {
	return s.db.Delete(&models.Session{}, "id = ?", key).Error
}

// Reset drops every session record.
func (s *Store) Reset() error {
	return s.db.Where("1 = 1").Delete(&models.Session{}).Error
}

// Close is a no-op; the daemon owns the database handle.
func (s *Store) Close() error {
	return nil
}
