package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pantrypal-backend/internal/apperr"
	"pantrypal-backend/internal/models"
)

// ResetStore persists single-use, time-boxed password-reset tokens.
type ResetStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewResetStore(db *gorm.DB, ttl time.Duration) *ResetStore {
	return &ResetStore{db: db, ttl: ttl, now: time.Now}
}

func (s *ResetStore) Create(userID uint) (*models.PasswordResetToken, error) {
	prt := &models.PasswordResetToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.db.Create(prt).Error; err != nil {
		return nil, err
	}
	return prt, nil
}

// Consume validates the token and marks it used inside one transaction,
// then hands the owning user id to apply for the password update. The
// not-found, expired and already-used checks run in that fixed order; no
// interleaving consume can succeed twice on the same token.
func (s *ResetStore) Consume(token string, apply func(tx *gorm.DB, userID uint) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var prt models.PasswordResetToken
		if err := tx.Where("token = ?", token).First(&prt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("reset token not found")
			}
			return err
		}

		expired := s.now().After(prt.ExpiresAt)
		used := prt.Used
		if expired {
			return apperr.Validation("reset token is expired")
		}
		if used {
			return apperr.Validation("reset token already used")
		}

		// Guard against a concurrent consume that won the race after our
		// read: the update is conditional on used still being false.
		res := tx.Model(&models.PasswordResetToken{}).
			Where("id = ? AND used = ?", prt.ID, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Validation("reset token already used")
		}

		return apply(tx, prt.UserID)
	})
}

// PurgeExpired deletes expired-or-used rows.
func (s *ResetStore) PurgeExpired(now time.Time) (int64, error) {
	res := s.db.Where("expires_at < ? OR used = ?", now, true).Delete(&models.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
