package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mallfront/mallfront/internal/auth"
	"github.com/mallfront/mallfront/internal/handler/dto"
	"github.com/mallfront/mallfront/internal/service"
)

// AddressHandler handles HTTP requests for address book operations.
type AddressHandler struct {
	svc    *service.AddressService
	logger *slog.Logger
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(svc *service.AddressService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /addresses/.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	book, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := dto.ToAddressListResponse(book.UserID, book.DefaultAddressID, book.Limit, book.Addresses)
	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /addresses/.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	var req dto.AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	address, err := h.svc.Create(r.Context(), userID, service.CreateAddressInput{
		Title:    req.Title,
		Receiver: req.Receiver,
		Province: req.Province,
		City:     req.City,
		District: req.District,
		Place:    req.Place,
		Mobile:   req.Mobile,
		Tel:      req.Tel,
		Email:    req.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("address_created",
		"user_id", userID,
		"address_id", address.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToAddressResponse(address))
}

// Delete handles DELETE /addresses/{id}/.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Address ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("address_deleted",
		"user_id", userID,
		"address_id", id,
	)

	w.WriteHeader(http.StatusNoContent)
}

// SetDefault handles PUT /addresses/{id}/status/.
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Address ID is required")
		return
	}

	if err := h.svc.SetDefault(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("default_address_set",
		"user_id", userID,
		"address_id", id,
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "default address set",
	})
}

// RenameTitle handles PUT /addresses/{id}/title/.
func (h *AddressHandler) RenameTitle(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Address ID is required")
		return
	}

	var req dto.AddressTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	address, err := h.svc.RenameTitle(r.Context(), userID, id, req.Title)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAddressResponse(address))
}

// handleServiceError maps service errors to HTTP responses.
func (h *AddressHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAddressNotFound):
		h.writeError(w, http.StatusNotFound, "ADDRESS_NOT_FOUND", "Address not found")
	case errors.Is(err, service.ErrAddressLimit):
		h.writeError(w, http.StatusBadRequest, "ADDRESS_LIMIT_REACHED",
			fmt.Sprintf("Address limit of %d reached", h.svc.Limit()))
	case errors.Is(err, service.ErrInvalidTitle):
		h.writeError(w, http.StatusBadRequest, "INVALID_TITLE", "Invalid address title")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *AddressHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
