package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is one customer service request moving through the sales pipeline.
//
// Metadata is an open extension bag (postcode, urgency, source, ...) that
// is persisted and returned verbatim; nothing in this service inspects it.
type Lead struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Category      string
	CustomerName  string
	CustomerEmail *string
	CustomerPhone *string
	ServiceType   *string
	Status        RawStatus
	SubmittedBy   *uuid.UUID
	CompanyID     *uuid.UUID
	Metadata      map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Stage returns the pipeline stage the lead currently sits in.
func (l Lead) Stage() PipelineStage {
	return StageFor(l.Status)
}
