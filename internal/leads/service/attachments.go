package service

import (
	"context"
	"errors"
	"io"

	"homni_backend/internal/leads/pipeline"
	"homni_backend/internal/leads/repository"
	"homni_backend/internal/storage"
	"homni_backend/platform/apperr"

	"github.com/google/uuid"
)

// SetStorage wires the optional object storage used for lead attachments.
func (s *Service) SetStorage(store storage.StorageService, bucket string) {
	s.storage = store
	s.attachmentBucket = bucket
}

// UploadAttachment validates and stores a file against a lead, recording
// its metadata in the database.
func (s *Service) UploadAttachment(ctx context.Context, scope pipeline.Scope, leadID uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (repository.Attachment, error) {
	if s.storage == nil {
		return repository.Attachment{}, apperr.Unavailable("attachment storage is not configured")
	}

	if _, err := s.GetByID(ctx, scope, leadID); err != nil {
		return repository.Attachment{}, err
	}

	if err := s.storage.ValidateContentType(contentType); err != nil {
		return repository.Attachment{}, apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return repository.Attachment{}, apperr.Validation(err.Error())
	}

	objectKey, err := s.storage.UploadFile(ctx, s.attachmentBucket, leadID.String(), fileName, contentType, reader, size)
	if err != nil {
		return repository.Attachment{}, apperr.Wrap(apperr.KindUnavailable, "failed to store attachment", err).WithOp("leads.UploadAttachment")
	}

	att, err := s.repo.CreateAttachment(ctx, repository.CreateAttachmentParams{
		LeadID:      leadID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		ObjectKey:   objectKey,
	})
	if err != nil {
		// The object is already in the bucket; drop it rather than leak it.
		_ = s.storage.DeleteObject(ctx, s.attachmentBucket, objectKey)
		return repository.Attachment{}, apperr.Wrap(apperr.KindUnavailable, "failed to record attachment", err).WithOp("leads.UploadAttachment")
	}

	return att, nil
}

// ListAttachments returns the attachment metadata for a visible lead.
func (s *Service) ListAttachments(ctx context.Context, scope pipeline.Scope, leadID uuid.UUID) ([]repository.Attachment, error) {
	if _, err := s.GetByID(ctx, scope, leadID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListAttachments(ctx, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to list attachments", err).WithOp("leads.ListAttachments")
	}
	return items, nil
}

// AttachmentDownloadURL returns a presigned download link for one
// attachment of a visible lead.
func (s *Service) AttachmentDownloadURL(ctx context.Context, scope pipeline.Scope, leadID, attachmentID uuid.UUID) (*storage.PresignedURL, error) {
	if s.storage == nil {
		return nil, apperr.Unavailable("attachment storage is not configured")
	}

	if _, err := s.GetByID(ctx, scope, leadID); err != nil {
		return nil, err
	}

	att, err := s.repo.GetAttachment(ctx, leadID, attachmentID)
	if errors.Is(err, repository.ErrAttachmentNotFound) {
		return nil, apperr.NotFound("attachment not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to fetch attachment", err).WithOp("leads.AttachmentDownloadURL")
	}

	url, err := s.storage.GenerateDownloadURL(ctx, s.attachmentBucket, att.ObjectKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to presign download", err).WithOp("leads.AttachmentDownloadURL")
	}
	return url, nil
}
