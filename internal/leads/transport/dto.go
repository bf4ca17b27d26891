package transport

import (
	"time"

	"homni_backend/internal/leads/domain"
	"homni_backend/internal/leads/pipeline"
	"homni_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// Request DTOs

type SubmitLeadRequest struct {
	Title         string         `json:"title" validate:"required,min=3,max=200"`
	Description   string         `json:"description" validate:"required,min=3,max=4000"`
	Category      string         `json:"category" validate:"required,min=1,max=100"`
	CustomerName  string         `json:"customerName" validate:"required,min=1,max=200"`
	CustomerEmail string         `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerPhone string         `json:"customerPhone,omitempty" validate:"omitempty,min=5,max=20"`
	ServiceType   string         `json:"serviceType,omitempty" validate:"omitempty,max=100"`
	Metadata      map[string]any `json:"metadata,omitempty" validate:"-"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new qualified contacted negotiating paused converted lost"`
}

type MoveCardRequest struct {
	From string `json:"from" validate:"required,oneof=new in_progress won lost"`
	To   string `json:"to" validate:"required,oneof=new in_progress won lost"`
}

type AssignLeadRequest struct {
	CompanyID uuid.UUID `json:"companyId" validate:"required"`
}

// Response DTOs

type LeadResponse struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	CustomerName  string         `json:"customerName"`
	CustomerEmail *string        `json:"customerEmail,omitempty"`
	CustomerPhone *string        `json:"customerPhone,omitempty"`
	ServiceType   *string        `json:"serviceType,omitempty"`
	Status        string         `json:"status"`
	Stage         string         `json:"stage"`
	SubmittedBy   *uuid.UUID     `json:"submittedBy,omitempty"`
	CompanyID     *uuid.UUID     `json:"companyId,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type ColumnResponse struct {
	Stage string         `json:"stage"`
	Title string         `json:"title"`
	Count int            `json:"count"`
	Leads []LeadResponse `json:"leads"`
}

type CountsResponse struct {
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Won        int `json:"won"`
	Lost       int `json:"lost"`
}

type BoardResponse struct {
	Columns []ColumnResponse `json:"columns"`
	Counts  CountsResponse   `json:"counts"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"leadId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Mappers

func ToLeadResponse(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:            lead.ID,
		Title:         lead.Title,
		Description:   lead.Description,
		Category:      lead.Category,
		CustomerName:  lead.CustomerName,
		CustomerEmail: lead.CustomerEmail,
		CustomerPhone: lead.CustomerPhone,
		ServiceType:   lead.ServiceType,
		Status:        string(lead.Status),
		Stage:         string(lead.Stage()),
		SubmittedBy:   lead.SubmittedBy,
		CompanyID:     lead.CompanyID,
		Metadata:      lead.Metadata,
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
}

func ToLeadResponses(leads []domain.Lead) []LeadResponse {
	items := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadResponse(lead))
	}
	return items
}

func ToAttachmentResponse(att repository.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          att.ID,
		LeadID:      att.LeadID,
		FileName:    att.FileName,
		ContentType: att.ContentType,
		SizeBytes:   att.SizeBytes,
		CreatedAt:   att.CreatedAt,
	}
}

func ToAttachmentResponses(atts []repository.Attachment) []AttachmentResponse {
	items := make([]AttachmentResponse, 0, len(atts))
	for _, att := range atts {
		items = append(items, ToAttachmentResponse(att))
	}
	return items
}

func ToCountsResponse(counts pipeline.StageCounts) CountsResponse {
	return CountsResponse{
		New:        counts.New,
		InProgress: counts.InProgress,
		Won:        counts.Won,
		Lost:       counts.Lost,
	}
}

func ToBoardResponse(columns []pipeline.Column, counts pipeline.StageCounts) BoardResponse {
	cols := make([]ColumnResponse, 0, len(columns))
	for _, col := range columns {
		cols = append(cols, ColumnResponse{
			Stage: string(col.Stage),
			Title: col.Title,
			Count: col.Count,
			Leads: ToLeadResponses(col.Leads),
		})
	}
	return BoardResponse{
		Columns: cols,
		Counts:  ToCountsResponse(counts),
	}
}
