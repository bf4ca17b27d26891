// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"homni_backend/platform/events"
	"homni_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when an end user submits a new lead.
type LeadCreated struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published after a lead status transition has been
// persisted. From carries the pre-transition status for consumers that
// care about the direction of the move.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID  `json:"leadId"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	FromStage string     `json:"fromStage"`
	ToStage   string     `json:"toStage"`
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadAssigned is published when a company purchases or is assigned a lead.
type LeadAssigned struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	CompanyID uuid.UUID `json:"companyId"`
	Title     string    `json:"title"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }
