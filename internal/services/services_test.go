package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pantrypal-backend/internal/config"
	"pantrypal-backend/internal/store"
	"pantrypal-backend/pkg/security"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svctest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := config.ConnectDB(dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

// fakeMailer records dispatches instead of sending.
type fakeMailer struct {
	mu          sync.Mutex
	welcomes    []string
	resetTokens []string
}

func (f *fakeMailer) SendWelcome(to, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomes = append(f.welcomes, to)
}

func (f *fakeMailer) SendPasswordReset(to, resetToken string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetTokens = append(f.resetTokens, resetToken)
}

func (f *fakeMailer) lastResetToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.resetTokens) == 0 {
		return ""
	}
	return f.resetTokens[len(f.resetTokens)-1]
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeMailer) {
	t.Helper()

	db := newTestDB(t)
	mailer := &fakeMailer{}
	svc := NewAuthService(
		store.NewUserStore(db),
		store.NewSessionStore(db, 7*24*time.Hour),
		store.NewResetStore(db, 15*time.Minute),
		security.NewTokenCodec("test-secret-that-is-long-enough-for-hs256"),
		security.NewPasswordHasher(bcrypt.MinCost),
		mailer,
		15*time.Minute,
		zap.NewNop(),
	)
	return svc, mailer
}
