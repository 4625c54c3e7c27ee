package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   types.NewValidator(),
		logger:      zap.NewNop(),
	}
}

// WithLogger sets the logger used for server-side failures.
func (h *AuthHandler) WithLogger(logger *zap.Logger) *AuthHandler {
	h.logger = logger
	return h
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// UpdatePasswordWithUserID handles password update requests with an explicit user ID.
func (h *AuthHandler) UpdatePasswordWithUserID(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	if userID == uuid.Nil {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.UpdatePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// UpdateProfileWithUserID changes the handle name of an explicit user ID.
func (h *AuthHandler) UpdateProfileWithUserID(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	if userID == uuid.Nil {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, status, types.LoginResponse{User: user, Token: token})
}

func (h *AuthHandler) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.Error(err))
		writeJSONError(w, status, "internal server error")
		return
	}
	writeJSONError(w, status, err.Error())
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		// Return first validation error for simplicity
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}
