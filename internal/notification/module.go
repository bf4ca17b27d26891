// Package notification provides event handlers for sending notifications
// in response to domain events. This module subscribes to events and inverts
// the dependency: domain modules never need to know about email providers
// or templates.
package notification

import (
	"context"

	companyrepo "homni_backend/internal/companies/repository"
	"homni_backend/internal/email"
	"homni_backend/internal/events"
	"homni_backend/internal/leads/domain"
	"homni_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadReader loads lead details for notification fan-out.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// CompanyReader loads a company's contact details.
type CompanyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (companyrepo.Company, error)
}

// Module wires domain events to outgoing emails.
type Module struct {
	sender    email.Sender
	leads     LeadReader
	companies CompanyReader
	log       *logger.Logger
}

func New(sender email.Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

func (m *Module) Name() string { return "notification" }

// SetLeadReader wires the lead lookup used by the assignment handler.
func (m *Module) SetLeadReader(reader LeadReader) { m.leads = reader }

// SetCompanyReader wires the company contact lookup.
func (m *Module) SetCompanyReader(reader CompanyReader) { m.companies = reader }

// RegisterHandlers subscribes this module to the domain events it cares about.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}
		return m.handleLeadCreated(ctx, e)
	}))

	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadAssigned)
		if !ok {
			return nil
		}
		return m.handleLeadAssigned(ctx, e)
	}))
}

// handleLeadCreated confirms receipt to the customer. Leads submitted
// without an email address are skipped.
func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	if e.CustomerEmail == "" {
		return nil
	}

	if err := m.sender.SendLeadConfirmationEmail(ctx, e.CustomerEmail, e.CustomerName, e.Title); err != nil {
		m.log.Error("failed to send lead confirmation email", "error", err, "leadId", e.LeadID)
		return err
	}

	m.log.Info("lead confirmation email sent", "leadId", e.LeadID)
	return nil
}

// handleLeadAssigned notifies the assigned company's contact person.
func (m *Module) handleLeadAssigned(ctx context.Context, e events.LeadAssigned) error {
	if m.companies == nil || m.leads == nil {
		return nil
	}

	company, err := m.companies.GetByID(ctx, e.CompanyID)
	if err != nil {
		m.log.Error("failed to look up assigned company", "error", err, "companyId", e.CompanyID)
		return err
	}

	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		m.log.Error("failed to look up assigned lead", "error", err, "leadId", e.LeadID)
		return err
	}

	if err := m.sender.SendLeadAssignedEmail(ctx, company.ContactEmail, company.Name, lead.Title, lead.Category); err != nil {
		m.log.Error("failed to send lead assigned email", "error", err, "leadId", e.LeadID, "companyId", e.CompanyID)
		return err
	}

	m.log.Info("lead assigned email sent", "leadId", e.LeadID, "companyId", e.CompanyID)
	return nil
}
