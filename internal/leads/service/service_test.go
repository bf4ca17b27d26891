package service

import (
	"context"
	"testing"
	"time"

	"homni_backend/internal/leads/domain"
	"homni_backend/internal/leads/pipeline"
	"homni_backend/platform/logger"

	"github.com/google/uuid"
)

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

func TestVisibleInScope(t *testing.T) {
	companyID := uuid.New()
	otherCompanyID := uuid.New()
	userID := uuid.New()
	otherUserID := uuid.New()

	tests := []struct {
		name    string
		scope   pipeline.Scope
		lead    domain.Lead
		visible bool
	}{
		{
			name:    "unscoped sees everything",
			scope:   pipeline.Scope{},
			lead:    domain.Lead{CompanyID: uuidPtr(companyID)},
			visible: true,
		},
		{
			name:    "company sees own purchase",
			scope:   pipeline.Scope{CompanyID: uuidPtr(companyID)},
			lead:    domain.Lead{CompanyID: uuidPtr(companyID)},
			visible: true,
		},
		{
			name:    "company sees unassigned marketplace lead",
			scope:   pipeline.Scope{CompanyID: uuidPtr(companyID)},
			lead:    domain.Lead{},
			visible: true,
		},
		{
			name:    "company cannot see competitor purchase",
			scope:   pipeline.Scope{CompanyID: uuidPtr(companyID)},
			lead:    domain.Lead{CompanyID: uuidPtr(otherCompanyID)},
			visible: false,
		},
		{
			name:    "submitter sees own lead",
			scope:   pipeline.Scope{SubmitterID: uuidPtr(userID)},
			lead:    domain.Lead{SubmittedBy: uuidPtr(userID)},
			visible: true,
		},
		{
			name:    "submitter cannot see other users leads",
			scope:   pipeline.Scope{SubmitterID: uuidPtr(userID)},
			lead:    domain.Lead{SubmittedBy: uuidPtr(otherUserID)},
			visible: false,
		},
		{
			name:    "submitter cannot see anonymous leads",
			scope:   pipeline.Scope{SubmitterID: uuidPtr(userID)},
			lead:    domain.Lead{},
			visible: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := visibleInScope(tc.scope, tc.lead); got != tc.visible {
				t.Errorf("visibleInScope = %v, want %v", got, tc.visible)
			}
		})
	}
}

type fakeFollowUpScheduler struct {
	calls  int
	leadID uuid.UUID
	runAt  time.Time
}

func (f *fakeFollowUpScheduler) ScheduleLeadFollowUp(_ context.Context, leadID uuid.UUID, runAt time.Time) error {
	f.calls++
	f.leadID = leadID
	f.runAt = runAt
	return nil
}

func TestMaybeScheduleFollowUpArmsForWaitingStatuses(t *testing.T) {
	tests := []struct {
		status    domain.RawStatus
		scheduled bool
	}{
		{domain.StatusNew, false},
		{domain.StatusQualified, false},
		{domain.StatusContacted, true},
		{domain.StatusNegotiating, false},
		{domain.StatusPaused, true},
		{domain.StatusConverted, false},
		{domain.StatusLost, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			fake := &fakeFollowUpScheduler{}
			svc := New(nil, nil, logger.New("development"))
			svc.SetFollowUpScheduler(fake, 48*time.Hour)

			lead := domain.Lead{ID: uuid.New(), Status: tc.status}
			svc.maybeScheduleFollowUp(context.Background(), lead)

			if tc.scheduled && fake.calls != 1 {
				t.Fatalf("expected follow-up for status %s, got %d calls", tc.status, fake.calls)
			}
			if !tc.scheduled && fake.calls != 0 {
				t.Fatalf("expected no follow-up for status %s, got %d calls", tc.status, fake.calls)
			}
			if tc.scheduled && fake.leadID != lead.ID {
				t.Errorf("scheduled wrong lead: %s", fake.leadID)
			}
		})
	}
}

func TestMaybeScheduleFollowUpNoopWithoutScheduler(t *testing.T) {
	svc := New(nil, nil, logger.New("development"))
	// Must not panic when no scheduler is wired.
	svc.maybeScheduleFollowUp(context.Background(), domain.Lead{ID: uuid.New(), Status: domain.StatusContacted})
}
