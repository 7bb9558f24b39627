package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pantrypal-backend/internal/http/middleware"
	"pantrypal-backend/internal/response"
	"pantrypal-backend/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.svc.Register(in.Email, in.Username, in.Password)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.svc.Login(in.Email, in.Password)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.Header.Get("Refresh-Token")
	if err := h.svc.Logout(refreshToken); err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.Header.Get("Refresh-Token")
	if refreshToken == "" {
		response.WriteErr(w, http.StatusBadRequest, "Refresh-Token header is required")
		return
	}

	result, err := h.svc.Refresh(refreshToken)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.svc.ForgotPassword(in.Email); err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &in); err != nil {
		response.WriteErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.svc.ResetPassword(in.Token, in.NewPassword); err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		response.WriteErr(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	user, err := h.svc.Verify(token)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}
