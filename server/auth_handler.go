package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"photofolio/core/auth"
	"photofolio/logger"
)

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler handles admin login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("[Login] failed to parse request body", logger.ErrorField(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	admin, err := h.adminRepo.GetAdminByUsername(req.Username)
	if err != nil {
		logger.Error("[Login] failed to query admin", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Unknown user and wrong password answer identically.
	if admin == nil {
		logger.Warn("[Login] unknown admin", logger.String("username", req.Username))
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if !auth.VerifyPassword(req.Password, admin.PasswordHash) {
		logger.Warn("[Login] password verification failed", logger.String("username", req.Username))
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		logger.Error("[Login] failed to generate token", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("[Login] login successful", logger.String("username", admin.Username))

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AuthMiddleware checks for a valid bearer token before every mutating
// operation.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), adminIDKey, claims.AdminID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

type contextKey string

const (
	adminIDKey  contextKey = "adminID"
	usernameKey contextKey = "username"
)

// GetAdminIDFromContext extracts the admin ID from the request context.
func GetAdminIDFromContext(ctx context.Context) (int64, error) {
	adminID, ok := ctx.Value(adminIDKey).(int64)
	if !ok {
		return 0, fmt.Errorf("admin ID not found in context")
	}
	return adminID, nil
}

// GetUsernameFromContext extracts the admin username from the request context.
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameKey).(string)
	if !ok {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}
