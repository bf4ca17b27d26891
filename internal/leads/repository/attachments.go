package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

// Attachment is the metadata row for a file uploaded against a lead.
// The file payload itself lives in object storage under ObjectKey.
type Attachment struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	ObjectKey   string
	CreatedAt   time.Time
}

type CreateAttachmentParams struct {
	LeadID      uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	ObjectKey   string
}

func (r *Repository) CreateAttachment(ctx context.Context, params CreateAttachmentParams) (Attachment, error) {
	var att Attachment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_attachments (lead_id, file_name, content_type, size_bytes, object_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, file_name, content_type, size_bytes, object_key, created_at
	`, params.LeadID, params.FileName, params.ContentType, params.SizeBytes, params.ObjectKey).Scan(
		&att.ID, &att.LeadID, &att.FileName, &att.ContentType, &att.SizeBytes, &att.ObjectKey, &att.CreatedAt,
	)
	if err != nil {
		return Attachment{}, err
	}
	return att, nil
}

func (r *Repository) ListAttachments(ctx context.Context, leadID uuid.UUID) ([]Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, file_name, content_type, size_bytes, object_key, created_at
		FROM lead_attachments
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Attachment, 0)
	for rows.Next() {
		var att Attachment
		if err := rows.Scan(&att.ID, &att.LeadID, &att.FileName, &att.ContentType, &att.SizeBytes, &att.ObjectKey, &att.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, att)
	}

	return items, rows.Err()
}

func (r *Repository) GetAttachment(ctx context.Context, leadID, attachmentID uuid.UUID) (Attachment, error) {
	var att Attachment
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, file_name, content_type, size_bytes, object_key, created_at
		FROM lead_attachments
		WHERE id = $1 AND lead_id = $2
	`, attachmentID, leadID).Scan(
		&att.ID, &att.LeadID, &att.FileName, &att.ContentType, &att.SizeBytes, &att.ObjectKey, &att.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attachment{}, ErrAttachmentNotFound
	}
	return att, err
}
