package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrforge/qrforge/internal/auth"
	"github.com/qrforge/qrforge/internal/encode"
	"github.com/qrforge/qrforge/internal/handler/dto"
	"github.com/qrforge/qrforge/internal/model"
	"github.com/qrforge/qrforge/internal/service"
)

// QRCodeHandler handles HTTP requests for QR code operations.
type QRCodeHandler struct {
	svc    *service.QRCodeService
	logger *slog.Logger
}

// NewQRCodeHandler creates a new QRCodeHandler.
func NewQRCodeHandler(svc *service.QRCodeService, logger *slog.Logger) *QRCodeHandler {
	return &QRCodeHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /qrcodes.
func (h *QRCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.CreateQRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateInput{
		Content:     req.Content,
		Name:        req.Name,
		Description: req.Description,
		Size:        req.Size,
		ECLevel:     model.ECLevel(req.ErrorCorrectionLevel),
		Format:      model.Format(req.Format),
	}

	qr, err := h.svc.Create(r.Context(), identity.UserID, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("qrcode_created",
		"qrcode_id", qr.ID,
		"user_id", identity.UserID,
		"format", qr.Format,
	)

	writeJSON(w, http.StatusCreated, dto.ToQRCodeResponse(qr))
}

// List handles GET /qrcodes.
func (h *QRCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	qrs, err := h.svc.List(r.Context(), identity.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToQRCodeListResponse(qrs))
}

// Get handles GET /qrcodes/{id}.
func (h *QRCodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "QR code ID is required")
		return
	}

	qr, err := h.svc.Get(r.Context(), id, identity.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToQRCodeResponse(qr))
}

// Update handles PUT /qrcodes/{id}.
func (h *QRCodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "QR code ID is required")
		return
	}

	var req dto.UpdateQRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	patch := service.UpdatePatch{
		Content:     req.Content,
		Name:        req.Name,
		Description: req.Description,
		Size:        req.Size,
	}
	if req.ErrorCorrectionLevel != nil {
		level := model.ECLevel(*req.ErrorCorrectionLevel)
		patch.ECLevel = &level
	}

	qr, err := h.svc.Update(r.Context(), id, identity.UserID, patch)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("qrcode_updated",
		"qrcode_id", qr.ID,
		"user_id", identity.UserID,
	)

	writeJSON(w, http.StatusOK, dto.ToQRCodeResponse(qr))
}

// Delete handles DELETE /qrcodes/{id}.
func (h *QRCodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "QR code ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id, identity.UserID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("qrcode_deleted", "qrcode_id", id, "user_id", identity.UserID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "QR Code deleted successfully"})
}

// Preview handles POST /qrcodes/preview. No authentication required;
// nothing is persisted.
func (h *QRCodeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.PreviewInput{
		Content: req.Content,
		Size:    req.Size,
		ECLevel: model.ECLevel(req.ErrorCorrectionLevel),
		Format:  model.Format(req.Format),
	}

	imageData, format, err := h.svc.Preview(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PreviewResponse{
		ImageData: imageData,
		Format:    string(format),
	})
}

// handleServiceError maps QR code service errors to HTTP responses.
func (h *QRCodeHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrQRCodeNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "QR code not found")
	case errors.Is(err, service.ErrContentRequired):
		writeError(w, http.StatusBadRequest, "CONTENT_REQUIRED", "Content is required")
	case errors.Is(err, service.ErrContentTooLong):
		writeError(w, http.StatusBadRequest, "CONTENT_TOO_LONG", "Content exceeds maximum length")
	case errors.Is(err, service.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Name is required")
	case errors.Is(err, service.ErrNameTooLong):
		writeError(w, http.StatusBadRequest, "NAME_TOO_LONG", "Name exceeds maximum length")
	case errors.Is(err, service.ErrDescriptionTooLong):
		writeError(w, http.StatusBadRequest, "DESCRIPTION_TOO_LONG", "Description exceeds maximum length")
	case errors.Is(err, service.ErrInvalidSize):
		writeError(w, http.StatusBadRequest, "INVALID_SIZE", "Size must be between 100 and 1000")
	case errors.Is(err, service.ErrInvalidECLevel):
		writeError(w, http.StatusBadRequest, "INVALID_EC_LEVEL", "Error correction level must be L, M, Q, or H")
	case errors.Is(err, service.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, "INVALID_FORMAT", "Format must be png or svg")
	case errors.Is(err, encode.ErrCapacityExceeded):
		writeError(w, http.StatusBadRequest, "CAPACITY_EXCEEDED", "Content does not fit at the requested error correction level")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
