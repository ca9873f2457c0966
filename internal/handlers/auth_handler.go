package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"engrave-backend/internal/auth"
	"engrave-backend/pkg/utils"
)

// AuthHandler signs in the single configured admin.
type AuthHandler struct {
	JWT          *auth.JWTManager
	Username     string
	PasswordHash string
}

func NewAuthHandler(jwt *auth.JWTManager, username, passwordHash string) *AuthHandler {
	return &AuthHandler{JWT: jwt, Username: username, PasswordHash: passwordHash}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.Username == "" || h.PasswordHash == "" {
		utils.Error(w, http.StatusServiceUnavailable, "Admin login not configured")
		return
	}

	if req.Username != h.Username || !auth.VerifyPassword(h.PasswordHash, req.Password) {
		log.Printf("[Auth] Failed login attempt for %q", req.Username)
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.JWT.GenerateToken(req.Username)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"token": token})
}
