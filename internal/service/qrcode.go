package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/qrforge/qrforge/internal/cache"
	"github.com/qrforge/qrforge/internal/encode"
	"github.com/qrforge/qrforge/internal/metrics"
	"github.com/qrforge/qrforge/internal/model"
	"github.com/qrforge/qrforge/internal/repository"
)

// QR code service errors.
var (
	ErrContentRequired    = errors.New("content is required")
	ErrContentTooLong     = errors.New("content exceeds maximum length")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	ErrInvalidSize        = errors.New("size must be between 100 and 1000")
	ErrInvalidECLevel     = errors.New("invalid error correction level")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrQRCodeNotFound     = errors.New("qr code not found")
)

// Validation limits.
const (
	maxContentLength     = 2048
	maxNameLength        = 255
	maxDescriptionLength = 1024
)

// QRCodeRepository defines persistence operations for QR code records.
type QRCodeRepository interface {
	CreateQRCode(ctx context.Context, qr *model.QRCode) error
	GetQRCode(ctx context.Context, id, userID string) (*model.QRCode, error)
	ListQRCodesByUser(ctx context.Context, userID string) ([]*model.QRCode, error)
	UpdateQRCode(ctx context.Context, qr *model.QRCode) error
	DeleteQRCode(ctx context.Context, id, userID string) error
}

// PreviewCache caches preview artifacts. Safe because encoding is
// deterministic: a cached artifact never differs from a fresh one.
type PreviewCache interface {
	GetPreview(ctx context.Context, key string) (string, error)
	SetPreview(ctx context.Context, key, artifact string) error
}

// QRCodeService orchestrates the encoding engine and persistence.
// Records are only written after a successful encode, so ImageData is
// never missing or stale relative to the encoding inputs.
type QRCodeService struct {
	repo     QRCodeRepository
	previews PreviewCache
	metrics  metrics.Recorder
}

// NewQRCodeService creates a new QRCodeService.
// previews may be nil to disable preview caching.
func NewQRCodeService(repo QRCodeRepository, previews PreviewCache, recorder metrics.Recorder) *QRCodeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &QRCodeService{
		repo:     repo,
		previews: previews,
		metrics:  recorder,
	}
}

// CreateInput defines input for creating a QR code record.
// Zero values for Size, ECLevel, and Format select the defaults.
type CreateInput struct {
	Content     string
	Name        string
	Description string
	Size        int
	ECLevel     model.ECLevel
	Format      model.Format
}

// Create encodes the content and persists a new record owned by ownerID.
// Nothing is written if encoding fails.
func (s *QRCodeService) Create(ctx context.Context, ownerID string, input CreateInput) (*model.QRCode, error) {
	size, level, format := applyDefaults(input.Size, input.ECLevel, input.Format)

	if err := validateContent(input.Content); err != nil {
		return nil, err
	}
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateEncodingParams(size, level, format); err != nil {
		return nil, err
	}

	imageData, err := s.encodeArtifact(input.Content, size, level, format)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	qr := &model.QRCode{
		ID:                   ulid.Make().String(),
		UserID:               ownerID,
		Content:              input.Content,
		Name:                 input.Name,
		Description:          input.Description,
		ImageData:            imageData,
		Format:               format,
		Size:                 size,
		ErrorCorrectionLevel: level,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.CreateQRCode(ctx, qr); err != nil {
		return nil, fmt.Errorf("failed to create qr code: %w", err)
	}

	s.metrics.IncQRCodeCreated()

	return qr, nil
}

// List returns all records owned by ownerID, most recent first.
func (s *QRCodeService) List(ctx context.Context, ownerID string) ([]*model.QRCode, error) {
	qrcodes, err := s.repo.ListQRCodesByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list qr codes: %w", err)
	}
	return qrcodes, nil
}

// Get retrieves a record by ID. A record owned by another user and a
// record that does not exist yield the same ErrQRCodeNotFound.
func (s *QRCodeService) Get(ctx context.Context, id, ownerID string) (*model.QRCode, error) {
	qr, err := s.repo.GetQRCode(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrQRCodeNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("failed to get qr code: %w", err)
	}
	return qr, nil
}

// UpdatePatch defines a partial update. A nil field means "leave
// unchanged"; a non-nil field is applied even when it points at a
// zero value, so a description can be cleared with an empty string.
// Format is never patchable.
type UpdatePatch struct {
	Content     *string
	Name        *string
	Description *string
	Size        *int
	ECLevel     *model.ECLevel
}

// needsEncode reports whether the patch touches an encoding input.
func (p *UpdatePatch) needsEncode() bool {
	return p.Content != nil || p.Size != nil || p.ECLevel != nil
}

// Update applies a partial update to a record. When content, size, or
// error correction level change, the artifact is regenerated before
// anything is persisted; name and description are replaced whenever
// present. The format set at creation is kept.
func (s *QRCodeService) Update(ctx context.Context, id, ownerID string, patch UpdatePatch) (*model.QRCode, error) {
	existing, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	merged := *existing

	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		merged.Name = *patch.Name
	}
	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return nil, err
		}
		merged.Description = *patch.Description
	}

	if patch.needsEncode() {
		if patch.Content != nil {
			if err := validateContent(*patch.Content); err != nil {
				return nil, err
			}
			merged.Content = *patch.Content
		}
		if patch.Size != nil {
			merged.Size = *patch.Size
		}
		if patch.ECLevel != nil {
			merged.ErrorCorrectionLevel = *patch.ECLevel
		}
		if err := validateEncodingParams(merged.Size, merged.ErrorCorrectionLevel, merged.Format); err != nil {
			return nil, err
		}

		imageData, err := s.encodeArtifact(merged.Content, merged.Size, merged.ErrorCorrectionLevel, merged.Format)
		if err != nil {
			return nil, err
		}
		merged.ImageData = imageData
	}

	merged.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateQRCode(ctx, &merged); err != nil {
		if errors.Is(err, repository.ErrQRCodeNotFound) {
			// Deleted between fetch and write.
			return nil, ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("failed to update qr code: %w", err)
	}

	s.metrics.IncQRCodeUpdated()

	return &merged, nil
}

// Delete removes a record. The ownership check and the delete are a
// single conditional statement, with the same not-found semantics as Get.
func (s *QRCodeService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.DeleteQRCode(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrQRCodeNotFound) {
			return ErrQRCodeNotFound
		}
		return fmt.Errorf("failed to delete qr code: %w", err)
	}

	s.metrics.IncQRCodeDeleted()

	return nil
}

// PreviewInput defines input for a stateless preview.
// Zero values select the same defaults as record creation.
type PreviewInput struct {
	Content string
	Size    int
	ECLevel model.ECLevel
	Format  model.Format
}

// Preview encodes content without persisting anything. Results are
// served from the preview cache when available.
func (s *QRCodeService) Preview(ctx context.Context, input PreviewInput) (string, model.Format, error) {
	size, level, format := applyDefaults(input.Size, input.ECLevel, input.Format)

	if err := validateContent(input.Content); err != nil {
		return "", "", err
	}
	if err := validateEncodingParams(size, level, format); err != nil {
		return "", "", err
	}

	var key string
	if s.previews != nil {
		key = cache.PreviewKey(input.Content, size, level, format)
		if artifact, err := s.previews.GetPreview(ctx, key); err == nil {
			s.metrics.IncPreviewCacheHit()
			return artifact, format, nil
		}
		s.metrics.IncPreviewCacheMiss()
	}

	artifact, err := s.encodeArtifact(input.Content, size, level, format)
	if err != nil {
		return "", "", err
	}

	if s.previews != nil {
		// Best effort: a failed cache write only costs the next
		// preview a re-encode.
		_ = s.previews.SetPreview(ctx, key, artifact)
	}

	return artifact, format, nil
}

// encodeArtifact runs the encoding engine with metrics instrumentation.
func (s *QRCodeService) encodeArtifact(content string, size int, level model.ECLevel, format model.Format) (string, error) {
	start := time.Now()
	artifact, err := encode.Encode(content, size, level, format)
	if err != nil {
		s.metrics.IncEncodeError()
		return "", err
	}
	s.metrics.ObserveEncodeDuration(time.Since(start))
	return artifact, nil
}

// applyDefaults fills in zero-valued encoding parameters.
func applyDefaults(size int, level model.ECLevel, format model.Format) (int, model.ECLevel, model.Format) {
	if size == 0 {
		size = model.DefaultSize
	}
	if level == "" {
		level = model.DefaultECLevel
	}
	if format == "" {
		format = model.DefaultFormat
	}
	return size, level, format
}

func validateContent(content string) error {
	if content == "" {
		return ErrContentRequired
	}
	if len(content) > maxContentLength {
		return ErrContentTooLong
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func validateEncodingParams(size int, level model.ECLevel, format model.Format) error {
	if !model.IsValidSize(size) {
		return ErrInvalidSize
	}
	if !level.IsValid() {
		return ErrInvalidECLevel
	}
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	return nil
}
