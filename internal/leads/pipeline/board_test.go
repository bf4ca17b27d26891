package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"homni_backend/internal/leads/domain"
	"homni_backend/platform/apperr"
	"homni_backend/platform/logger"

	"github.com/google/uuid"
)

type updateCall struct {
	id     uuid.UUID
	status domain.RawStatus
}

// fakeStore is a scriptable in-memory Store. updateHook, when set, runs in
// place of the default update behavior so tests can fail specific calls or
// interleave concurrent transitions.
type fakeStore struct {
	leads  []domain.Lead
	counts StageCounts

	listErr   error
	updateErr error
	countErr  error

	listCalls   int
	countCalls  int
	updateCalls []updateCall

	updateHook func(id uuid.UUID, status domain.RawStatus) error
}

func (f *fakeStore) ListLeads(_ context.Context, _ Scope) ([]domain.Lead, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Lead, len(f.leads))
	copy(out, f.leads)
	return out, nil
}

func (f *fakeStore) UpdateLeadStatus(_ context.Context, id uuid.UUID, status domain.RawStatus) error {
	f.updateCalls = append(f.updateCalls, updateCall{id: id, status: status})
	if f.updateHook != nil {
		return f.updateHook(id, status)
	}
	return f.updateErr
}

func (f *fakeStore) CountLeadsByStatus(_ context.Context, _ Scope) (StageCounts, error) {
	f.countCalls++
	if f.countErr != nil {
		return StageCounts{}, f.countErr
	}
	return f.counts, nil
}

func testLogger() *logger.Logger {
	return logger.New("development")
}

func lead(id string, status domain.RawStatus, createdAt time.Time) domain.Lead {
	return domain.Lead{
		ID:        uuid.MustParse(id),
		Title:     "lead " + id[:8],
		Status:    status,
		CreatedAt: createdAt,
	}
}

const (
	leadID1 = "00000000-0000-0000-0000-000000000001"
	leadID2 = "00000000-0000-0000-0000-000000000002"
	leadID3 = "00000000-0000-0000-0000-000000000003"
)

func loadedBoard(t *testing.T, store *fakeStore) *Board {
	t.Helper()
	board := New(store, Scope{}, testLogger())
	if err := board.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return board
}

func columnByStage(t *testing.T, columns []Column, stage domain.PipelineStage) Column {
	t.Helper()
	for _, col := range columns {
		if col.Stage == stage {
			return col
		}
	}
	t.Fatalf("no column for stage %q", stage)
	return Column{}
}

func TestColumnsAlwaysFourEvenWhenEmpty(t *testing.T) {
	board := loadedBoard(t, &fakeStore{})

	columns := board.Columns()
	if len(columns) != 4 {
		t.Fatalf("Columns() returned %d columns, want 4", len(columns))
	}

	wantOrder := []domain.PipelineStage{domain.StageNew, domain.StageInProgress, domain.StageWon, domain.StageLost}
	for i, col := range columns {
		if col.Stage != wantOrder[i] {
			t.Errorf("column %d has stage %q, want %q", i, col.Stage, wantOrder[i])
		}
		if col.Count != 0 {
			t.Errorf("empty column %q has count %d", col.Stage, col.Count)
		}
		if col.Leads == nil || len(col.Leads) != 0 {
			t.Errorf("empty column %q should carry an empty slice", col.Stage)
		}
	}
}

func TestColumnsGroupByStage(t *testing.T) {
	now := time.Now()
	store := &fakeStore{leads: []domain.Lead{
		lead(leadID1, domain.StatusNew, now),
		lead(leadID2, domain.StatusConverted, now),
		lead(leadID3, domain.StatusContacted, now),
	}}
	board := loadedBoard(t, store)

	columns := board.Columns()

	newCol := columnByStage(t, columns, domain.StageNew)
	if newCol.Count != 1 || newCol.Leads[0].ID != uuid.MustParse(leadID1) {
		t.Errorf("new column = %+v, want exactly lead 1", newCol)
	}
	progressCol := columnByStage(t, columns, domain.StageInProgress)
	if progressCol.Count != 1 || progressCol.Leads[0].ID != uuid.MustParse(leadID3) {
		t.Errorf("in_progress column = %+v, want exactly lead 3", progressCol)
	}
	wonCol := columnByStage(t, columns, domain.StageWon)
	if wonCol.Count != 1 || wonCol.Leads[0].ID != uuid.MustParse(leadID2) {
		t.Errorf("won column = %+v, want exactly lead 2", wonCol)
	}
	lostCol := columnByStage(t, columns, domain.StageLost)
	if lostCol.Count != 0 {
		t.Errorf("lost column count = %d, want 0", lostCol.Count)
	}

	total := 0
	for _, col := range columns {
		total += col.Count
	}
	if total != board.Size() {
		t.Errorf("column counts sum to %d, board holds %d leads", total, board.Size())
	}
}

func TestColumnsOrderNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{leads: []domain.Lead{
		lead(leadID1, domain.StatusNew, base),
		lead(leadID2, domain.StatusNew, base.Add(time.Hour)),
		// Same timestamp as lead 1: tie broken by descending ID.
		lead(leadID3, domain.StatusNew, base),
	}}
	board := loadedBoard(t, store)

	newCol := columnByStage(t, board.Columns(), domain.StageNew)
	wantIDs := []string{leadID2, leadID3, leadID1}
	if len(newCol.Leads) != len(wantIDs) {
		t.Fatalf("new column has %d leads, want %d", len(newCol.Leads), len(wantIDs))
	}
	for i, want := range wantIDs {
		if newCol.Leads[i].ID != uuid.MustParse(want) {
			t.Errorf("new column position %d = %s, want %s", i, newCol.Leads[i].ID, want)
		}
	}
}

func TestLoadNormalizesUnknownStatuses(t *testing.T) {
	store := &fakeStore{leads: []domain.Lead{
		lead(leadID1, domain.RawStatus("bogus_value"), time.Now()),
	}}
	board := loadedBoard(t, store)

	got, ok := board.Lead(uuid.MustParse(leadID1))
	if !ok {
		t.Fatal("lead missing after load")
	}
	if got.Status != domain.StatusNew {
		t.Errorf("unknown status normalized to %q, want %q", got.Status, domain.StatusNew)
	}
}

func TestLoadFailureKeepsPreviousCollection(t *testing.T) {
	store := &fakeStore{
		leads:  []domain.Lead{lead(leadID1, domain.StatusNew, time.Now())},
		counts: StageCounts{New: 1},
	}
	board := loadedBoard(t, store)

	store.listErr = errors.New("connection refused")
	err := board.Load(context.Background())
	if err == nil {
		t.Fatal("Load should fail when the store is unreachable")
	}
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Errorf("Load error kind = %v, want KindUnavailable", apperr.GetKind(err))
	}

	// Stale-but-valid data stays served.
	if board.Size() != 1 {
		t.Errorf("board size after failed reload = %d, want 1", board.Size())
	}
	if board.Counts() != (StageCounts{New: 1}) {
		t.Errorf("counts after failed reload = %+v, want previous value", board.Counts())
	}
}

func TestChangeStatusNotFoundMakesNoStoreCall(t *testing.T) {
	store := &fakeStore{}
	board := loadedBoard(t, store)

	err := board.ChangeStatus(context.Background(), uuid.New(), domain.StatusQualified)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("error kind = %v, want KindNotFound", apperr.GetKind(err))
	}
	if len(store.updateCalls) != 0 {
		t.Errorf("store received %d update calls, want 0", len(store.updateCalls))
	}
}

func TestChangeStatusOptimisticThenFinal(t *testing.T) {
	id := uuid.MustParse(leadID1)
	store := &fakeStore{leads: []domain.Lead{lead(leadID1, domain.StatusNew, time.Now())}}
	board := loadedBoard(t, store)

	// Observe the in-memory status while the store call is in flight: the
	// optimistic mutation must already be visible.
	var statusDuringCall domain.RawStatus
	store.updateHook = func(uuid.UUID, domain.RawStatus) error {
		current, _ := board.Lead(id)
		statusDuringCall = current.Status
		return nil
	}

	if err := board.ChangeStatus(context.Background(), id, domain.StatusQualified); err != nil {
		t.Fatalf("ChangeStatus failed: %v", err)
	}

	if statusDuringCall != domain.StatusQualified {
		t.Errorf("status during store call = %q, want optimistic %q", statusDuringCall, domain.StatusQualified)
	}
	final, _ := board.Lead(id)
	if final.Status != domain.StatusQualified {
		t.Errorf("final status = %q, want %q", final.Status, domain.StatusQualified)
	}
	if store.countCalls < 2 {
		t.Errorf("counts were not refreshed after the successful update (%d fetches)", store.countCalls)
	}
}

func TestChangeStatusRollsBackOnStoreFailure(t *testing.T) {
	id := uuid.MustParse(leadID1)
	store := &fakeStore{
		leads:     []domain.Lead{lead(leadID1, domain.StatusContacted, time.Now())},
		updateErr: errors.New("row lock timeout"),
	}
	board := loadedBoard(t, store)

	err := board.ChangeStatus(context.Background(), id, domain.StatusLost)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("error kind = %v, want KindUnavailable", apperr.GetKind(err))
	}

	final, _ := board.Lead(id)
	if final.Status != domain.StatusContacted {
		t.Errorf("status after rollback = %q, want %q", final.Status, domain.StatusContacted)
	}
}

func TestChangeStatusCountRefreshFailureIsTolerated(t *testing.T) {
	id := uuid.MustParse(leadID1)
	store := &fakeStore{
		leads:  []domain.Lead{lead(leadID1, domain.StatusNew, time.Now())},
		counts: StageCounts{New: 1},
	}
	board := loadedBoard(t, store)

	store.countErr = errors.New("aggregate query failed")
	if err := board.ChangeStatus(context.Background(), id, domain.StatusQualified); err != nil {
		t.Fatalf("ChangeStatus should tolerate a counts refresh failure, got %v", err)
	}

	final, _ := board.Lead(id)
	if final.Status != domain.StatusQualified {
		t.Errorf("final status = %q, want %q", final.Status, domain.StatusQualified)
	}
	// Counts stay stale until the next successful load.
	if board.Counts() != (StageCounts{New: 1}) {
		t.Errorf("counts = %+v, want stale previous value", board.Counts())
	}
}

func TestInterleavedChangeStatusKeepsLaterWrite(t *testing.T) {
	// Two transitions for the same lead in flight at once: the first store
	// call fails only after a second transition has been applied and
	// persisted. The first call's rollback must not clobber the second
	// call's result.
	id := uuid.MustParse(leadID1)
	store := &fakeStore{leads: []domain.Lead{lead(leadID1, domain.StatusNew, time.Now())}}
	board := loadedBoard(t, store)

	firstCall := true
	store.updateHook = func(uuid.UUID, domain.RawStatus) error {
		if !firstCall {
			return nil
		}
		firstCall = false
		// While the first call is suspended in the store, the second
		// transition runs to completion.
		if err := board.ChangeStatus(context.Background(), id, domain.StatusLost); err != nil {
			t.Fatalf("second ChangeStatus failed: %v", err)
		}
		return errors.New("first call loses the race")
	}

	err := board.ChangeStatus(context.Background(), id, domain.StatusQualified)
	if err == nil {
		t.Fatal("first ChangeStatus should report its store failure")
	}

	final, _ := board.Lead(id)
	if final.Status != domain.StatusLost {
		t.Errorf("final status = %q, want %q from the later successful call", final.Status, domain.StatusLost)
	}
}
