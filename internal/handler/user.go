package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mallfront/mallfront/internal/auth"
	"github.com/mallfront/mallfront/internal/handler/dto"
	"github.com/mallfront/mallfront/internal/service"
)

// guestCartCookie is the cookie carrying the anonymous cart identifier.
const guestCartCookie = "cart_id"

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// UsernameCount handles GET /usernames/{username}/count/.
func (h *UserHandler) UsernameCount(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_USERNAME", "Username is required")
		return
	}

	count, err := h.svc.UsernameCount(r.Context(), username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UsernameCountResponse{
		Username: username,
		Count:    count,
	})
}

// MobileCount handles GET /mobiles/{mobile}/count/.
func (h *UserHandler) MobileCount(w http.ResponseWriter, r *http.Request) {
	mobile := chi.URLParam(r, "mobile")
	if mobile == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_MOBILE", "Mobile number is required")
		return
	}

	count, err := h.svc.MobileCount(r.Context(), mobile)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MobileCountResponse{
		Mobile: mobile,
		Count:  count,
	})
}

// Register handles POST /users/.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, token, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Mobile:   user.Mobile,
		Token:    token,
	})
}

// Detail handles GET /user/.
func (h *UserHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserDetailResponse(user))
}

// Login handles POST /authorizations/.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	input := service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}
	if cookie, err := r.Cookie(guestCartCookie); err == nil {
		input.GuestCartID = cookie.Value
	}

	user, token, err := h.svc.Login(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_in",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
	})
}

// UpdateEmail handles PUT /email/.
func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	var req dto.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.svc.UpdateEmail(r.Context(), userID, req.Email); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("email_updated", "user_id", userID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "verification email sent",
	})
}

// VerifyEmail handles GET /emails/verification/.
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_TOKEN", "Verification token is required")
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), token); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "email verified",
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		h.writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already taken")
	case errors.Is(err, service.ErrMobileTaken):
		h.writeError(w, http.StatusConflict, "MOBILE_TAKEN", "Mobile number already registered")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
	case errors.Is(err, service.ErrInvalidVerifyToken):
		h.writeError(w, http.StatusBadRequest, "INVALID_VERIFY_TOKEN", "Invalid or expired verification token")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *UserHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
