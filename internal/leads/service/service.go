// Package service implements lead management use cases on top of the
// repository and the pipeline board.
package service

import (
	"context"
	"errors"
	"time"

	"homni_backend/internal/events"
	"homni_backend/internal/leads/domain"
	"homni_backend/internal/leads/pipeline"
	"homni_backend/internal/leads/repository"
	"homni_backend/internal/leads/transport"
	"homni_backend/internal/storage"
	"homni_backend/platform/apperr"
	"homni_backend/platform/logger"
	"homni_backend/platform/phone"

	"github.com/google/uuid"
)

// FollowUpScheduler schedules a delayed follow-up nudge for a lead.
// Implemented by the asynq scheduler client; nil when Redis is not
// configured.
type FollowUpScheduler interface {
	ScheduleLeadFollowUp(ctx context.Context, leadID uuid.UUID, runAt time.Time) error
}

// followUpStatuses are the transitions that arm a follow-up reminder:
// contact has been made but the deal is not moving.
var followUpStatuses = map[domain.RawStatus]struct{}{
	domain.StatusContacted: {},
	domain.StatusPaused:    {},
}

type Service struct {
	repo             *repository.Repository
	bus              events.Bus
	followUp         FollowUpScheduler
	followUpDelay    time.Duration
	storage          storage.StorageService
	attachmentBucket string
	log              *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
	}
}

// SetFollowUpScheduler wires the optional reminder scheduler.
func (s *Service) SetFollowUpScheduler(scheduler FollowUpScheduler, delay time.Duration) {
	s.followUp = scheduler
	s.followUpDelay = delay
}

// Submit creates a new lead from a public submission. The customer phone
// is normalized to E.164; the metadata bag is stored verbatim.
func (s *Service) Submit(ctx context.Context, req transport.SubmitLeadRequest) (domain.Lead, error) {
	params := repository.CreateLeadParams{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		CustomerName: req.CustomerName,
		Metadata:     req.Metadata,
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = &req.CustomerEmail
	}
	if req.CustomerPhone != "" {
		normalized := phone.NormalizeE164(req.CustomerPhone)
		params.CustomerPhone = &normalized
	}
	if req.ServiceType != "" {
		params.ServiceType = &req.ServiceType
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindUnavailable, "failed to create lead", err).WithOp("leads.Submit")
	}

	created := events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		Title:        lead.Title,
		Category:     lead.Category,
		CustomerName: lead.CustomerName,
	}
	if lead.CustomerEmail != nil {
		created.CustomerEmail = *lead.CustomerEmail
	}
	s.bus.Publish(ctx, created)

	return lead, nil
}

// SubmitForUser creates a lead on behalf of an authenticated end user.
func (s *Service) SubmitForUser(ctx context.Context, userID uuid.UUID, req transport.SubmitLeadRequest) (domain.Lead, error) {
	lead, err := s.Submit(ctx, req)
	if err != nil {
		return domain.Lead{}, err
	}

	// Attach ownership after the fact so the public and authenticated
	// paths share one creation flow.
	lead.SubmittedBy = &userID
	if err := s.repo.SetSubmitter(ctx, lead.ID, userID); err != nil {
		s.log.DatabaseError("leads.SetSubmitter", err)
	}
	return lead, nil
}

// List returns the scope's leads with statuses normalized for output.
func (s *Service) List(ctx context.Context, scope pipeline.Scope) ([]domain.Lead, error) {
	leads, err := s.repo.ListLeads(ctx, scope)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to list leads", err).WithOp("leads.List")
	}
	for i := range leads {
		leads[i].Status = domain.NormalizeStatus(string(leads[i].Status))
	}
	return leads, nil
}

// GetByID returns one lead if it is visible inside the scope.
func (s *Service) GetByID(ctx context.Context, scope pipeline.Scope, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindUnavailable, "failed to fetch lead", err).WithOp("leads.GetByID")
	}

	if !visibleInScope(scope, lead) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}

	lead.Status = domain.NormalizeStatus(string(lead.Status))
	return lead, nil
}

// Board builds and loads a pipeline board for the scope.
func (s *Service) Board(ctx context.Context, scope pipeline.Scope) (*pipeline.Board, error) {
	board := pipeline.New(s.repo, scope, s.log)
	if err := board.Load(ctx); err != nil {
		return nil, err
	}
	return board, nil
}

// Counts returns the scope's aggregate stage counts.
func (s *Service) Counts(ctx context.Context, scope pipeline.Scope) (pipeline.StageCounts, error) {
	counts, err := s.repo.CountLeadsByStatus(ctx, scope)
	if err != nil {
		return pipeline.StageCounts{}, apperr.Wrap(apperr.KindUnavailable, "failed to count leads", err).WithOp("leads.Counts")
	}
	return counts, nil
}

// ChangeStatus moves a lead to a new raw status through the pipeline
// board's optimistic-update path, then publishes the transition and arms a
// follow-up reminder when the new status calls for one.
func (s *Service) ChangeStatus(ctx context.Context, scope pipeline.Scope, id uuid.UUID, status domain.RawStatus) (domain.Lead, error) {
	board, err := s.Board(ctx, scope)
	if err != nil {
		return domain.Lead{}, err
	}

	before, ok := board.Lead(id)
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}

	if err := board.ChangeStatus(ctx, id, status); err != nil {
		return domain.Lead{}, err
	}

	after, _ := board.Lead(id)
	s.publishStatusChange(ctx, before, after)
	s.maybeScheduleFollowUp(ctx, after)

	return after, nil
}

// MoveCard applies a kanban drag between stages through the board.
func (s *Service) MoveCard(ctx context.Context, scope pipeline.Scope, id uuid.UUID, from, to domain.PipelineStage) (domain.Lead, error) {
	board, err := s.Board(ctx, scope)
	if err != nil {
		return domain.Lead{}, err
	}

	before, ok := board.Lead(id)
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}

	if err := board.MoveCard(ctx, id, from, to); err != nil {
		return domain.Lead{}, err
	}

	after, _ := board.Lead(id)
	if before.Status != after.Status {
		s.publishStatusChange(ctx, before, after)
		s.maybeScheduleFollowUp(ctx, after)
	}

	return after, nil
}

// Assign records a company's purchase of a lead.
func (s *Service) Assign(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Lead, error) {
	lead, err := s.repo.AssignCompany(ctx, id, companyID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindUnavailable, "failed to assign lead", err).WithOp("leads.Assign")
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		CompanyID: companyID,
		Title:     lead.Title,
	})

	return lead, nil
}

func (s *Service) publishStatusChange(ctx context.Context, before, after domain.Lead) {
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    after.ID,
		From:      string(before.Status),
		To:        string(after.Status),
		FromStage: string(before.Stage()),
		ToStage:   string(after.Stage()),
		CompanyID: after.CompanyID,
	})
}

func (s *Service) maybeScheduleFollowUp(ctx context.Context, lead domain.Lead) {
	if s.followUp == nil {
		return
	}
	if _, ok := followUpStatuses[lead.Status]; !ok {
		return
	}

	runAt := time.Now().Add(s.followUpDelay)
	if err := s.followUp.ScheduleLeadFollowUp(ctx, lead.ID, runAt); err != nil {
		s.log.Error("failed to schedule lead follow-up", "error", err, "leadId", lead.ID)
	}
}

func visibleInScope(scope pipeline.Scope, lead domain.Lead) bool {
	switch {
	case scope.CompanyID != nil:
		// A company sees its own purchases and the open marketplace.
		return lead.CompanyID == nil || *lead.CompanyID == *scope.CompanyID
	case scope.SubmitterID != nil:
		return lead.SubmittedBy != nil && *lead.SubmittedBy == *scope.SubmitterID
	default:
		return true
	}
}
