// Package domain holds the lead pipeline domain model: raw statuses,
// pipeline stages and the mappings between them.
package domain

// RawStatus is the fine-grained lead status as persisted in the store.
type RawStatus string

const (
	StatusNew         RawStatus = "new"
	StatusQualified   RawStatus = "qualified"
	StatusContacted   RawStatus = "contacted"
	StatusNegotiating RawStatus = "negotiating"
	StatusPaused      RawStatus = "paused"
	StatusConverted   RawStatus = "converted"
	StatusLost        RawStatus = "lost"
)

// PipelineStage is the coarse kanban bucket derived from a raw status.
type PipelineStage string

const (
	StageNew        PipelineStage = "new"
	StageInProgress PipelineStage = "in_progress"
	StageWon        PipelineStage = "won"
	StageLost       PipelineStage = "lost"
)

// Stages lists the pipeline stages in display order. Kanban projections
// iterate this slice, so the board column order follows from it.
var Stages = []PipelineStage{StageNew, StageInProgress, StageWon, StageLost}

var stageTitles = map[PipelineStage]string{
	StageNew:        "New",
	StageInProgress: "In progress",
	StageWon:        "Won",
	StageLost:       "Lost",
}

// Title returns the display title for a stage.
func (s PipelineStage) Title() string {
	return stageTitles[s]
}

var knownStatuses = map[RawStatus]struct{}{
	StatusNew:         {},
	StatusQualified:   {},
	StatusContacted:   {},
	StatusNegotiating: {},
	StatusPaused:      {},
	StatusConverted:   {},
	StatusLost:        {},
}

// IsKnownStatus reports whether raw exactly matches a canonical status.
func IsKnownStatus(raw string) bool {
	_, ok := knownStatuses[RawStatus(raw)]
	return ok
}

// NormalizeStatus coerces an arbitrary status string to a canonical raw
// status. Matching is exact and case-sensitive; empty, legacy and
// unrecognized values fall back to StatusNew. This fail-open-to-earliest-
// stage policy mirrors how upstream data has always been treated, so
// unknown values surface in the first kanban column rather than vanish.
func NormalizeStatus(raw string) RawStatus {
	if IsKnownStatus(raw) {
		return RawStatus(raw)
	}
	return StatusNew
}

// StageFor maps a canonical raw status to its pipeline stage. The mapping
// is total: statuses outside the canonical set land in StageNew, matching
// NormalizeStatus.
func StageFor(status RawStatus) PipelineStage {
	switch status {
	case StatusQualified, StatusContacted, StatusNegotiating, StatusPaused:
		return StageInProgress
	case StatusConverted:
		return StageWon
	case StatusLost:
		return StageLost
	default:
		return StageNew
	}
}

// RepresentativeStatus returns the raw status a lead receives when dropped
// into a stage. Dropping into in_progress always yields qualified, which
// discards any finer-grained in-progress status the lead had before. That
// is intentional: the drag target is the stage, not the raw status.
func RepresentativeStatus(stage PipelineStage) RawStatus {
	switch stage {
	case StageInProgress:
		return StatusQualified
	case StageWon:
		return StatusConverted
	case StageLost:
		return StatusLost
	default:
		return StatusNew
	}
}
