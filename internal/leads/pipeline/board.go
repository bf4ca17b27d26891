// Package pipeline implements the kanban pipeline manager: an in-memory
// view of one scope's leads, projected into stage columns, with optimistic
// status transitions against the lead store.
package pipeline

import (
	"context"
	"sort"
	"sync"

	"homni_backend/internal/leads/domain"
	"homni_backend/platform/apperr"
	"homni_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Scope restricts a board to one company's purchased leads or one end
// user's submissions. The zero value is unscoped (admin view).
type Scope struct {
	CompanyID   *uuid.UUID
	SubmitterID *uuid.UUID
}

// StageCounts holds the per-stage aggregate counts fetched from the store.
// They come from a separate, cheaper query than the lead list and are not
// guaranteed to agree with the board's own column lengths at every instant.
type StageCounts struct {
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Won        int `json:"won"`
	Lost       int `json:"lost"`
}

// Total sums the stage counts.
func (c StageCounts) Total() int {
	return c.New + c.InProgress + c.Won + c.Lost
}

// Store is the persistence collaborator the board mediates against.
// Implemented by the leads repository in production and by fakes in tests.
type Store interface {
	// ListLeads returns the full lead set for the scope, in no particular
	// order. Ordering is the board's responsibility.
	ListLeads(ctx context.Context, scope Scope) ([]domain.Lead, error)
	// UpdateLeadStatus persists a single lead's raw status.
	UpdateLeadStatus(ctx context.Context, id uuid.UUID, status domain.RawStatus) error
	// CountLeadsByStatus returns aggregate counts bucketed by stage.
	CountLeadsByStatus(ctx context.Context, scope Scope) (StageCounts, error)
}

// Column is one kanban column: a stage, its display title and the leads
// currently in it, newest first.
type Column struct {
	Stage domain.PipelineStage
	Title string
	Count int
	Leads []domain.Lead
}

// Board owns the in-memory lead collection for one scope. Loads replace
// the collection wholesale; status changes are applied optimistically and
// rolled back per call on store failure. The mutex only guards the map —
// it is never held across store I/O, so in-flight calls interleave.
type Board struct {
	store Store
	scope Scope
	log   *logger.Logger

	mu     sync.Mutex
	leads  map[uuid.UUID]domain.Lead
	counts StageCounts
}

// New creates a board over the given store and scope. The board is empty
// until the first successful Load.
func New(store Store, scope Scope, log *logger.Logger) *Board {
	return &Board{
		store: store,
		scope: scope,
		log:   log,
		leads: make(map[uuid.UUID]domain.Lead),
	}
}

// Load fetches the scope's lead list and stage counts, replacing the
// in-memory collection entirely. The two fetches are independent store
// calls issued concurrently; they are not atomically consistent with each
// other, which is accepted. On any failure the previous collection is
// kept so callers can keep serving stale-but-valid data.
func (b *Board) Load(ctx context.Context) error {
	var (
		leads  []domain.Lead
		counts StageCounts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listed, err := b.store.ListLeads(gctx, b.scope)
		if err != nil {
			return err
		}
		leads = listed
		return nil
	})
	g.Go(func() error {
		fetched, err := b.store.CountLeadsByStatus(gctx, b.scope)
		if err != nil {
			return err
		}
		counts = fetched
		return nil
	})

	if err := g.Wait(); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to load leads", err).WithOp("pipeline.Load")
	}

	fresh := make(map[uuid.UUID]domain.Lead, len(leads))
	for _, lead := range leads {
		raw := string(lead.Status)
		lead.Status = domain.NormalizeStatus(raw)
		if !domain.IsKnownStatus(raw) {
			b.log.StatusFallback(lead.ID.String(), raw)
		}
		fresh[lead.ID] = lead
	}

	b.mu.Lock()
	b.leads = fresh
	b.counts = counts
	b.mu.Unlock()

	return nil
}

// Columns projects the current collection into the four kanban columns,
// ordered new, in_progress, won, lost. Every column is present even when
// empty. Leads within a column are ordered newest first, ties broken by
// descending ID so the projection is deterministic.
func (b *Board) Columns() []Column {
	grouped := make(map[domain.PipelineStage][]domain.Lead, len(domain.Stages))

	b.mu.Lock()
	for _, lead := range b.leads {
		stage := lead.Stage()
		grouped[stage] = append(grouped[stage], lead)
	}
	b.mu.Unlock()

	columns := make([]Column, 0, len(domain.Stages))
	for _, stage := range domain.Stages {
		leads := grouped[stage]
		sort.Slice(leads, func(i, j int) bool {
			if !leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
				return leads[i].CreatedAt.After(leads[j].CreatedAt)
			}
			return leads[i].ID.String() > leads[j].ID.String()
		})
		if leads == nil {
			leads = []domain.Lead{}
		}
		columns = append(columns, Column{
			Stage: stage,
			Title: stage.Title(),
			Count: len(leads),
			Leads: leads,
		})
	}

	return columns
}

// Counts returns the stage counts from the most recent fetch. They may
// momentarily disagree with Columns while an optimistic change is in
// flight; consumers accept that staleness window.
func (b *Board) Counts() StageCounts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Lead returns the in-memory lead by ID.
func (b *Board) Lead(id uuid.UUID) (domain.Lead, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lead, ok := b.leads[id]
	return lead, ok
}

// Size returns the number of leads currently held.
func (b *Board) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.leads)
}

// ChangeStatus applies a status transition optimistically: the in-memory
// lead is updated before the store call so projections reflect the new
// grouping immediately. On store failure the change is rolled back to the
// status captured by this call, and only if no later call has already
// overwritten it; rollback never clobbers a newer in-flight transition.
//
// Stage transitions are fully permissive: any stage may move to any other,
// including backwards out of won/lost.
func (b *Board) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.RawStatus) error {
	status = domain.NormalizeStatus(string(status))

	b.mu.Lock()
	lead, ok := b.leads[id]
	if !ok {
		b.mu.Unlock()
		return apperr.NotFound("lead not found").WithOp("pipeline.ChangeStatus")
	}
	previous := lead.Status
	lead.Status = status
	b.leads[id] = lead
	b.mu.Unlock()

	if err := b.store.UpdateLeadStatus(ctx, id, status); err != nil {
		b.mu.Lock()
		if current, ok := b.leads[id]; ok && current.Status == status {
			current.Status = previous
			b.leads[id] = current
		}
		b.mu.Unlock()
		return apperr.Wrap(apperr.KindUnavailable, "failed to update lead status", err).WithOp("pipeline.ChangeStatus")
	}

	// Keep the aggregate counts roughly in step with the optimistic
	// mutation. A refresh failure is tolerated: the counts simply stay
	// stale until the next Load.
	if counts, err := b.store.CountLeadsByStatus(ctx, b.scope); err == nil {
		b.mu.Lock()
		b.counts = counts
		b.mu.Unlock()
	} else {
		b.log.Debug("stage count refresh failed", "error", err, "leadId", id)
	}

	return nil
}
