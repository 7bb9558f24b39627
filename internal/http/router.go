package http

import (
	"net/http"

	"pantrypal-backend/internal/http/handlers"
	"pantrypal-backend/internal/http/middleware"
	"pantrypal-backend/pkg/security"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Inventory *handlers.InventoryHandler
	Stats     *handlers.StatsHandler
	Codec     *security.TokenCodec
}

func Routes(mux *http.ServeMux, d Deps) {
	// Auth
	mux.HandleFunc("POST /auth/register", d.Auth.Register)
	mux.HandleFunc("POST /auth/login", d.Auth.Login)
	mux.HandleFunc("POST /auth/logout", d.Auth.Logout)
	mux.HandleFunc("POST /auth/refresh", d.Auth.Refresh)
	mux.HandleFunc("POST /auth/forgot-password", d.Auth.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", d.Auth.ResetPassword)
	mux.HandleFunc("GET /auth/verify", d.Auth.Verify)

	// Inventory
	auth := func(h middleware.AuthedHandler) http.HandlerFunc {
		return middleware.RequireJWT(d.Codec, h)
	}
	mux.HandleFunc("GET /items", auth(d.Inventory.List))
	mux.HandleFunc("POST /items", auth(d.Inventory.Create))
	mux.HandleFunc("POST /items/bulk", auth(d.Inventory.BulkCreate))
	mux.HandleFunc("POST /items/bulk-delete", auth(d.Inventory.BulkDelete))
	mux.HandleFunc("GET /items/{id}", auth(d.Inventory.Get))
	mux.HandleFunc("PUT /items/{id}", auth(d.Inventory.Update))
	mux.HandleFunc("PATCH /items/{id}", auth(d.Inventory.Patch))
	mux.HandleFunc("PATCH /items/{id}/status", auth(d.Inventory.UpdateStatus))
	mux.HandleFunc("DELETE /items/{id}", auth(d.Inventory.Delete))

	// Stats
	mux.HandleFunc("GET /stats/summary", auth(d.Stats.Summary))
	mux.HandleFunc("GET /stats/monthly-spending", auth(d.Stats.MonthlySpending))
	mux.HandleFunc("GET /stats/category-breakdown", auth(d.Stats.CategoryBreakdown))
	mux.HandleFunc("GET /stats/frequency-report", auth(d.Stats.FrequencyReport))
}
