package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pantrypal-backend/internal/config"
	httproutes "pantrypal-backend/internal/http"
	"pantrypal-backend/internal/http/handlers"
	"pantrypal-backend/internal/services"
	"pantrypal-backend/internal/store"
	"pantrypal-backend/pkg/security"
)

var testDBSeq atomic.Int64

type fakeMailer struct {
	mu          sync.Mutex
	resetTokens []string
}

func (f *fakeMailer) SendWelcome(to, username string) {}

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

func setupServer(t *testing.T) (*http.ServeMux, *fakeMailer) {
	t.Helper()

	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := config.ConnectDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	logger := zap.NewNop()
	codec := security.NewTokenCodec("test-secret-that-is-long-enough-for-hs256")
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	mailer := &fakeMailer{}

	authSvc := services.NewAuthService(
		store.NewUserStore(db),
		store.NewSessionStore(db, 7*24*time.Hour),
		store.NewResetStore(db, 15*time.Minute),
		codec, hasher, mailer, 15*time.Minute, logger,
	)

	mux := http.NewServeMux()
	httproutes.Routes(mux, httproutes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc, logger),
		Inventory: handlers.NewInventoryHandler(services.NewInventoryService(db, logger), logger),
		Stats:     handlers.NewStatsHandler(services.NewStatsService(db, logger), logger),
		Codec:     codec,
	})
	return mux, mailer
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func registerAlice(t *testing.T, mux *http.ServeMux) map[string]any {
	t.Helper()

	resp := doJSON(t, mux, http.MethodPost, "/auth/register", map[string]string{
		"email":    "a@b.com",
		"username": "alice",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeBody(t, resp)
}
