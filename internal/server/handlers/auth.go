package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/database/models"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
)

// AuthHandler serves registration, login, and token refresh.
type AuthHandler struct {
	users  UserStore
	tokens *auth.JWTManager
	log    *logger.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(users UserStore, tokens *auth.JWTManager, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
	Department string `json:"department,omitempty"`
	Semester   string `json:"semester,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse bundles the issued tokens with the user record.
type LoginResponse struct {
	User   *models.User    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	rw := response.NewResponseWriter(w, requestID(r.Context()))

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fieldErrors := map[string]string{}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		fieldErrors["name"] = "name is required"
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		fieldErrors["email"] = "a valid email is required"
	}
	if len(req.Password) < 8 {
		fieldErrors["password"] = "password must be at least 8 characters"
	}
	role := auth.Role(req.Role)
	if req.Role == "" {
		role = auth.RoleStudent
	} else if !role.Valid() {
		fieldErrors["role"] = "role must be student, proctor, or admin"
	}
	if len(fieldErrors) > 0 {
		rw.ValidationError(fieldErrors)
		return
	}

	taken, err := h.users.EmailExists(r.Context(), req.Email)
	if err != nil {
		rw.InternalServerError("Failed to check email", nil)
		return
	}
	if taken {
		rw.Error(http.StatusConflict, response.ErrorCodeEmailTaken, "Email is already registered", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		rw.InternalServerError("Failed to hash password", nil)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         string(role),
		RollNumber:   req.RollNumber,
		Department:   req.Department,
		Semester:     req.Semester,
		Phone:        req.Phone,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrConflict) {
			rw.Error(http.StatusConflict, response.ErrorCodeEmailTaken, "Email is already registered", nil)
			return
		}
		h.log.WithContext(r.Context()).WithError(err).Error("failed to create user")
		rw.InternalServerError("Failed to create user", nil)
		return
	}

	h.log.WithContext(r.Context()).WithField("user_id", user.ID.String()).Info("user registered")
	rw.Created(user)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	rw := response.NewResponseWriter(w, requestID(r.Context()))

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.Error(http.StatusUnauthorized, response.ErrorCodeInvalidCredentials, "Invalid email or password", nil)
			return
		}
		rw.InternalServerError("Failed to look up user", nil)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		rw.Error(http.StatusUnauthorized, response.ErrorCodeInvalidCredentials, "Invalid email or password", nil)
		return
	}

	tokens, err := h.tokens.CreateTokenPair(user.ID, user.Name, user.Email, auth.Role(user.Role))
	if err != nil {
		h.log.WithContext(r.Context()).WithError(err).Error("failed to issue tokens")
		rw.InternalServerError("Failed to issue tokens", nil)
		return
	}

	rw.Success(LoginResponse{User: user, Tokens: tokens}, nil)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	rw := response.NewResponseWriter(w, requestID(r.Context()))

	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		rw.BadRequest("refresh_token is required", nil)
		return
	}

	accessToken, err := h.tokens.RefreshToken(req.RefreshToken)
	if err != nil {
		rw.Unauthorized("Invalid refresh token")
		return
	}

	rw.Success(map[string]string{
		"access_token": accessToken,
		"token_type":   "Bearer",
	}, nil)
}
