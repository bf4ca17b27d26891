package pipeline

import (
	"context"

	"homni_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// MoveCard translates a drag-and-drop gesture between kanban columns into
// a single status change. The destination stage is collapsed to its
// representative raw status, so dropping into in_progress always yields
// qualified regardless of the card's previous in-progress status.
//
// Dropping a card onto the column it already occupies is a no-op and makes
// no store call.
func (b *Board) MoveCard(ctx context.Context, id uuid.UUID, from, to domain.PipelineStage) error {
	if from == to {
		return nil
	}
	return b.ChangeStatus(ctx, id, domain.RepresentativeStatus(to))
}
