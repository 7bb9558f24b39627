package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pantrypal-backend/internal/apperr"
	"pantrypal-backend/internal/email"
	"pantrypal-backend/internal/models"
	"pantrypal-backend/internal/store"
	"pantrypal-backend/pkg/security"
)

// AuthService orchestrates credential verification, access-token minting
// and the refresh-session lifecycle. It is the entry point the HTTP layer
// and the email dispatcher hang off.
type AuthService struct {
	users     *store.UserStore
	sessions  *store.SessionStore
	resets    *store.ResetStore
	codec     *security.TokenCodec
	hasher    *security.PasswordHasher
	mailer    email.Dispatcher
	accessTTL time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewAuthService(
	users *store.UserStore,
	sessions *store.SessionStore,
	resets *store.ResetStore,
	codec *security.TokenCodec,
	hasher *security.PasswordHasher,
	mailer email.Dispatcher,
	accessTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		resets:    resets,
		codec:     codec,
		hasher:    hasher,
		mailer:    mailer,
		accessTTL: accessTTL,
		log:       log,
		now:       time.Now,
	}
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResult struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

func (s *AuthService) Register(emailAddr, username, password string) (*AuthResult, error) {
	if err := ValidateRegistration(emailAddr, username, password); err != nil {
		return nil, err
	}

	if taken, err := s.users.ExistsByEmail(emailAddr); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Validation("Email already registered")
	}
	if taken, err := s.users.ExistsByUsername(username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Validation("Username already taken")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    emailAddr,
		Password: hash,
		Enabled:  true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID))

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.mailer.SendWelcome(user.Email, user.Username)
	return result, nil
}

func (s *AuthService) Login(emailAddr, password string) (*AuthResult, error) {
	if err := ValidateLogin(emailAddr, password); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if !user.Enabled {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	match, err := s.hasher.Matches(password, user.Password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	s.log.Info("user logged in", zap.Uint("user_id", user.ID))
	return s.issueTokens(user)
}

// Logout revokes the presented refresh token. Idempotent: unknown and
// already-revoked tokens are a no-op.
func (s *AuthService) Logout(refreshToken string) error {
	return s.sessions.Revoke(refreshToken)
}

// Refresh rotates a valid refresh session and mints a new access token.
// The revoked and expired predicates are both computed before branching so
// the failure does not disclose which one tripped.
func (s *AuthService) Refresh(refreshToken string) (*AuthResult, error) {
	rt, err := s.sessions.Find(refreshToken)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorized("Refresh token is expired or revoked")
		}
		return nil, err
	}

	revoked := rt.Revoked
	expired := s.now().After(rt.ExpiresAt)
	if revoked || expired {
		return nil, apperr.Unauthorized("Refresh token is expired or revoked")
	}

	user, err := s.users.FindByID(rt.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorized("Refresh token is expired or revoked")
		}
		return nil, err
	}

	fresh, err := s.sessions.Rotate(rt)
	if err != nil {
		return nil, err
	}

	token, err := s.mintAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("token refreshed", zap.Uint("user_id", user.ID))
	return &AuthResult{Token: token, RefreshToken: fresh.Token, User: toUserResponse(user)}, nil
}

// Verify checks the access token by signature and embedded expiry alone.
// It never consults the session store: a rotated or logged-out access token
// stays valid until its own short expiry elapses.
func (s *AuthService) Verify(accessToken string) (*UserResponse, error) {
	claims, err := s.codec.Verify(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	emailAddr, _ := claims["sub"].(string)
	user, err := s.users.FindByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid or expired token")
		}
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ForgotPassword issues a reset token and dispatches the reset email.
// An unknown email fails with a not-found, which discloses whether an
// account exists for it.
func (s *AuthService) ForgotPassword(emailAddr string) error {
	user, err := s.users.FindByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("Email not found")
		}
		return err
	}

	prt, err := s.resets.Create(user.ID)
	if err != nil {
		return err
	}

	s.log.Info("password reset requested", zap.Uint("user_id", user.ID))
	s.mailer.SendPasswordReset(user.Email, prt.Token)
	return nil
}

// ResetPassword consumes a reset token and installs the new password hash.
// The consume-and-update runs as one transaction; a token is spent at most
// once.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := ValidateNewPassword(newPassword); err != nil {
		return err
	}

	return s.resets.Consume(token, func(tx *gorm.DB, userID uint) error {
		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("password", hash).Error; err != nil {
			return err
		}
		s.log.Info("password reset", zap.Uint("user_id", userID))
		return nil
	})
}

// PurgeExpiredTokens drops refresh and reset rows that are expired, revoked
// or used. Run periodically from the server entry point.
func (s *AuthService) PurgeExpiredTokens() {
	now := s.now()
	if n, err := s.sessions.PurgeExpired(now); err != nil {
		s.log.Error("failed to purge refresh tokens", zap.Error(err))
	} else if n > 0 {
		s.log.Info("purged refresh tokens", zap.Int64("count", n))
	}
	if n, err := s.resets.PurgeExpired(now); err != nil {
		s.log.Error("failed to purge reset tokens", zap.Error(err))
	} else if n > 0 {
		s.log.Info("purged reset tokens", zap.Int64("count", n))
	}
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResult, error) {
	token, err := s.mintAccessToken(user)
	if err != nil {
		return nil, err
	}
	rt, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, RefreshToken: rt.Token, User: toUserResponse(user)}, nil
}

func (s *AuthService) mintAccessToken(user *models.User) (string, error) {
	return s.codec.Mint(user.Email, map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	}, s.accessTTL)
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}
