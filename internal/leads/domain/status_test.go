package domain

import "testing"

func TestNormalizeStatusTotality(t *testing.T) {
	inputs := []string{
		"", "new", "qualified", "contacted", "negotiating", "paused",
		"converted", "lost", "bogus_value", "NEW", "Qualified", "won",
		"in_progress", "null", "undefined", "  new  ", "deleted",
	}

	for _, input := range inputs {
		status := NormalizeStatus(input)
		if !IsKnownStatus(string(status)) {
			t.Errorf("NormalizeStatus(%q) = %q, not a canonical status", input, status)
		}

		stage := StageFor(status)
		if stage.Title() == "" {
			t.Errorf("StageFor(%q) = %q, not a known stage", status, stage)
		}
	}
}

func TestNormalizeStatusIdempotent(t *testing.T) {
	inputs := []string{"", "new", "qualified", "paused", "converted", "lost", "garbage"}

	for _, input := range inputs {
		once := NormalizeStatus(input)
		twice := NormalizeStatus(string(once))
		if once != twice {
			t.Errorf("NormalizeStatus not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNormalizeStatusFallsBackToNew(t *testing.T) {
	if got := NormalizeStatus("bogus_value"); got != StatusNew {
		t.Errorf("NormalizeStatus(\"bogus_value\") = %q, want %q", got, StatusNew)
	}
	// Matching is case-sensitive, so "New" is not canonical.
	if got := NormalizeStatus("New"); got != StatusNew {
		t.Errorf("NormalizeStatus(\"New\") = %q, want %q", got, StatusNew)
	}
}

func TestStageFor(t *testing.T) {
	tests := []struct {
		status RawStatus
		want   PipelineStage
	}{
		{StatusNew, StageNew},
		{StatusQualified, StageInProgress},
		{StatusContacted, StageInProgress},
		{StatusNegotiating, StageInProgress},
		{StatusPaused, StageInProgress},
		{StatusConverted, StageWon},
		{StatusLost, StageLost},
	}

	for _, tc := range tests {
		if got := StageFor(tc.status); got != tc.want {
			t.Errorf("StageFor(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestRepresentativeStatusRoundTrip(t *testing.T) {
	// Dropping a card into a stage must yield a status that maps back to
	// that same stage.
	for _, stage := range Stages {
		status := RepresentativeStatus(stage)
		if got := StageFor(status); got != stage {
			t.Errorf("StageFor(RepresentativeStatus(%q)) = %q, want %q", stage, got, stage)
		}
	}

	if got := RepresentativeStatus(StageInProgress); got != StatusQualified {
		t.Errorf("RepresentativeStatus(in_progress) = %q, want %q", got, StatusQualified)
	}
}

func TestStagesOrder(t *testing.T) {
	want := []PipelineStage{StageNew, StageInProgress, StageWon, StageLost}
	if len(Stages) != len(want) {
		t.Fatalf("Stages has %d entries, want %d", len(Stages), len(want))
	}
	for i := range want {
		if Stages[i] != want[i] {
			t.Errorf("Stages[%d] = %q, want %q", i, Stages[i], want[i])
		}
	}
}
