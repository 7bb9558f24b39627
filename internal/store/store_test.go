package store

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"pantrypal-backend/internal/config"
	"pantrypal-backend/internal/models"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", testDBSeq.Add(1))
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

func createTestUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	u := &models.User{Username: username, Email: email, Password: "x", Enabled: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}
