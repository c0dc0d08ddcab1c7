package dto

import (
	"time"

	"github.com/qrforge/qrforge/internal/model"
)

// CreateQRCodeRequest represents the request body for creating a QR code.
// Size, errorCorrectionLevel and format fall back to server defaults
// when omitted.
type CreateQRCodeRequest struct {
	Content              string `json:"content"`
	Name                 string `json:"name"`
	Description          string `json:"description,omitempty"`
	Size                 int    `json:"size,omitempty"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel,omitempty"`
	Format               string `json:"format,omitempty"`
}

// UpdateQRCodeRequest represents the request body for updating a QR code.
// Pointer fields distinguish "absent" from "set to zero value"; format is
// immutable after creation and therefore not accepted here.
type UpdateQRCodeRequest struct {
	Content              *string `json:"content,omitempty"`
	Name                 *string `json:"name,omitempty"`
	Description          *string `json:"description,omitempty"`
	Size                 *int    `json:"size,omitempty"`
	ErrorCorrectionLevel *string `json:"errorCorrectionLevel,omitempty"`
}

// PreviewRequest represents the request body for a stateless preview render.
type PreviewRequest struct {
	Content              string `json:"content"`
	Size                 int    `json:"size,omitempty"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel,omitempty"`
	Format               string `json:"format,omitempty"`
}

// QRCodeResponse represents a QR code record in API responses.
type QRCodeResponse struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Content              string    `json:"content"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	ImageData            string    `json:"imageData"`
	Format               string    `json:"format"`
	Size                 int       `json:"size"`
	ErrorCorrectionLevel string    `json:"errorCorrectionLevel"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// PreviewResponse carries a rendered preview artifact.
type PreviewResponse struct {
	ImageData string `json:"imageData"`
	Format    string `json:"format"`
}

// ToQRCodeResponse converts a QRCode model to QRCodeResponse DTO.
func ToQRCodeResponse(qr *model.QRCode) *QRCodeResponse {
	return &QRCodeResponse{
		ID:                   qr.ID,
		UserID:               qr.UserID,
		Content:              qr.Content,
		Name:                 qr.Name,
		Description:          qr.Description,
		ImageData:            qr.ImageData,
		Format:               string(qr.Format),
		Size:                 qr.Size,
		ErrorCorrectionLevel: string(qr.ErrorCorrectionLevel),
		CreatedAt:            qr.CreatedAt,
		UpdatedAt:            qr.UpdatedAt,
	}
}

// ToQRCodeListResponse converts a slice of QRCode models to response DTOs.
// Returns an empty slice rather than nil so the JSON encodes as [].
func ToQRCodeListResponse(qrs []*model.QRCode) []*QRCodeResponse {
	out := make([]*QRCodeResponse, 0, len(qrs))
	for _, qr := range qrs {
		out = append(out, ToQRCodeResponse(qr))
	}
	return out
}
