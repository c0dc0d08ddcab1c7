package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qrforge/qrforge/internal/model"
)

// ErrQRCodeNotFound is returned when a record does not exist or is
// owned by a different user. The two cases are indistinguishable so
// callers cannot probe for other users' record IDs.
var ErrQRCodeNotFound = errors.New("qr code not found")

// CreateQRCode inserts a new QR code record into the database.
func (r *Repository) CreateQRCode(ctx context.Context, qr *model.QRCode) error {
	query := `
		INSERT INTO qrcodes (id, user_id, content, name, description, image_data, format, size, error_correction_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		qr.ID,
		qr.UserID,
		qr.Content,
		qr.Name,
		qr.Description,
		qr.ImageData,
		qr.Format,
		qr.Size,
		qr.ErrorCorrectionLevel,
		qr.CreatedAt,
		qr.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create qr code: %w", err)
	}

	return nil
}

// GetQRCode retrieves a record by ID, scoped to its owner.
func (r *Repository) GetQRCode(ctx context.Context, id, userID string) (*model.QRCode, error) {
	query := `
		SELECT id, user_id, content, name, description, image_data, format, size, error_correction_level, created_at, updated_at
		FROM qrcodes
		WHERE id = $1 AND user_id = $2
	`

	qr, err := scanQRCode(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("failed to get qr code: %w", err)
	}

	return qr, nil
}

// ListQRCodesByUser retrieves all records owned by a user,
// most recently created first.
func (r *Repository) ListQRCodesByUser(ctx context.Context, userID string) ([]*model.QRCode, error) {
	query := `
		SELECT id, user_id, content, name, description, image_data, format, size, error_correction_level, created_at, updated_at
		FROM qrcodes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list qr codes: %w", err)
	}
	defer rows.Close()

	qrcodes := make([]*model.QRCode, 0)
	for rows.Next() {
		qr, err := scanQRCode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan qr code: %w", err)
		}
		qrcodes = append(qrcodes, qr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate qr codes: %w", err)
	}

	return qrcodes, nil
}

// UpdateQRCode persists a merged record. The write is conditional on
// (id, user_id) in a single statement, so a record that vanished or
// was never owned by the caller reports ErrQRCodeNotFound without a
// separate existence check.
func (r *Repository) UpdateQRCode(ctx context.Context, qr *model.QRCode) error {
	query := `
		UPDATE qrcodes
		SET content = $1,
			name = $2,
			description = $3,
			image_data = $4,
			size = $5,
			error_correction_level = $6,
			updated_at = $7
		WHERE id = $8 AND user_id = $9
	`

	tag, err := r.pool.Exec(ctx, query,
		qr.Content,
		qr.Name,
		qr.Description,
		qr.ImageData,
		qr.Size,
		qr.ErrorCorrectionLevel,
		qr.UpdatedAt,
		qr.ID,
		qr.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update qr code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQRCodeNotFound
	}

	return nil
}

// DeleteQRCode removes a record, conditional on ownership.
// Hard delete: the record is gone permanently.
func (r *Repository) DeleteQRCode(ctx context.Context, id, userID string) error {
	query := `DELETE FROM qrcodes WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete qr code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQRCodeNotFound
	}

	return nil
}

// scanQRCode scans a QR code record from a row.
func scanQRCode(row pgx.Row) (*model.QRCode, error) {
	var qr model.QRCode
	err := row.Scan(
		&qr.ID,
		&qr.UserID,
		&qr.Content,
		&qr.Name,
		&qr.Description,
		&qr.ImageData,
		&qr.Format,
		&qr.Size,
		&qr.ErrorCorrectionLevel,
		&qr.CreatedAt,
		&qr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &qr, nil
}
