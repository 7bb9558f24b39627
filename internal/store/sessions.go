package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pantrypal-backend/internal/apperr"
	"pantrypal-backend/internal/models"
)

// SessionStore persists refresh-token records. Invariant: at most one
// non-revoked, non-expired record exists per user at any time.
//
// Create and Rotate serialize per user through an in-process mutex, and the
// revoke-then-insert sequence runs inside a single transaction. The store is
// single-node, so the mutex is sufficient to keep two concurrent rotations
// for one user from each minting a live token.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time

	locks sync.Map // user id -> *sync.Mutex
}

func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

func (s *SessionStore) lockFor(userID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create removes every existing record for the user, then inserts a fresh
// one with an opaque random token and the configured TTL.
func (s *SessionStore) Create(userID uint) (*models.RefreshToken, error) {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()
	return s.createLocked(s.db, userID)
}

func (s *SessionStore) createLocked(db *gorm.DB, userID uint) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(rt).Error
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *SessionStore) Find(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := s.db.Where("token = ?", token).First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("refresh token not found")
		}
		return nil, err
	}
	return &rt, nil
}

// Rotate revokes rt and issues a replacement for the same user in one
// transaction.
func (s *SessionStore) Rotate(rt *models.RefreshToken) (*models.RefreshToken, error) {
	mu := s.lockFor(rt.UserID)
	mu.Lock()
	defer mu.Unlock()

	fresh := &models.RefreshToken{
		UserID:    rt.UserID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RefreshToken{}).
			Where("id = ?", rt.ID).
			Update("revoked", true).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", rt.UserID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(fresh).Error
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

// Revoke marks the record revoked. Idempotent: already-revoked and unknown
// tokens are a no-op.
func (s *SessionStore) Revoke(token string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ?", token, false).
		Update("revoked", true).Error
}

// IsValid reports whether a record exists for token that is neither revoked
// nor expired at now.
func (s *SessionStore) IsValid(token string, now time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ? AND expires_at > ?", token, false, now).
		Count(&count).Error
	return count > 0, err
}

// PurgeExpired deletes rows already logically dead: expired or revoked.
// Safe to run concurrently with the request path.
func (s *SessionStore) PurgeExpired(now time.Time) (int64, error) {
	res := s.db.Where("expires_at < ? OR revoked = ?", now, true).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
