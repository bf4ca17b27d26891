package pipeline

import (
	"context"
	"testing"
	"time"

	"homni_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestMoveCardSameColumnIsNoOp(t *testing.T) {
	id := uuid.MustParse(leadID1)
	store := &fakeStore{leads: []domain.Lead{lead(leadID1, domain.StatusNegotiating, time.Now())}}
	board := loadedBoard(t, store)

	if err := board.MoveCard(context.Background(), id, domain.StageInProgress, domain.StageInProgress); err != nil {
		t.Fatalf("MoveCard failed: %v", err)
	}

	if len(store.updateCalls) != 0 {
		t.Errorf("same-column drop made %d store calls, want 0", len(store.updateCalls))
	}
	final, _ := board.Lead(id)
	if final.Status != domain.StatusNegotiating {
		t.Errorf("status changed on no-op drop: %q", final.Status)
	}
}

func TestMoveCardUsesRepresentativeStatus(t *testing.T) {
	tests := []struct {
		name string
		from domain.PipelineStage
		to   domain.PipelineStage
		want domain.RawStatus
	}{
		{"into in_progress collapses to qualified", domain.StageNew, domain.StageInProgress, domain.StatusQualified},
		{"into won", domain.StageInProgress, domain.StageWon, domain.StatusConverted},
		{"into lost", domain.StageNew, domain.StageLost, domain.StatusLost},
		{"backwards out of won is permitted", domain.StageWon, domain.StageNew, domain.StatusNew},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := uuid.MustParse(leadID1)
			start := domain.RepresentativeStatus(tc.from)
			store := &fakeStore{leads: []domain.Lead{lead(leadID1, start, time.Now())}}
			board := loadedBoard(t, store)

			if err := board.MoveCard(context.Background(), id, tc.from, tc.to); err != nil {
				t.Fatalf("MoveCard failed: %v", err)
			}

			if len(store.updateCalls) != 1 {
				t.Fatalf("made %d store calls, want 1", len(store.updateCalls))
			}
			if store.updateCalls[0].status != tc.want {
				t.Errorf("persisted status %q, want %q", store.updateCalls[0].status, tc.want)
			}
			final, _ := board.Lead(id)
			if final.Status != tc.want {
				t.Errorf("in-memory status %q, want %q", final.Status, tc.want)
			}
		})
	}
}

func TestMoveCardCollapsesFinerInProgressStatus(t *testing.T) {
	// A negotiating lead dragged out of and back into in_progress ends up
	// qualified: the drag target carries only the stage.
	id := uuid.MustParse(leadID1)
	store := &fakeStore{leads: []domain.Lead{lead(leadID1, domain.StatusNegotiating, time.Now())}}
	board := loadedBoard(t, store)

	if err := board.MoveCard(context.Background(), id, domain.StageInProgress, domain.StageNew); err != nil {
		t.Fatalf("MoveCard failed: %v", err)
	}
	if err := board.MoveCard(context.Background(), id, domain.StageNew, domain.StageInProgress); err != nil {
		t.Fatalf("MoveCard failed: %v", err)
	}

	final, _ := board.Lead(id)
	if final.Status != domain.StatusQualified {
		t.Errorf("status = %q, want %q", final.Status, domain.StatusQualified)
	}
}
