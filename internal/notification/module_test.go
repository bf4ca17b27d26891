package notification

import (
	"context"
	"errors"
	"testing"

	companyrepo "homni_backend/internal/companies/repository"
	"homni_backend/internal/events"
	"homni_backend/internal/leads/domain"
	"homni_backend/platform/logger"

	"github.com/google/uuid"
)

type testSender struct {
	confirmationCalls int
	assignedCalls     int
	lastToEmail       string
	lastLeadTitle     string
}

func (s *testSender) SendLeadConfirmationEmail(_ context.Context, toEmail, _, leadTitle string) error {
	s.confirmationCalls++
	s.lastToEmail = toEmail
	s.lastLeadTitle = leadTitle
	return nil
}

func (s *testSender) SendLeadAssignedEmail(_ context.Context, toEmail, _, leadTitle, _ string) error {
	s.assignedCalls++
	s.lastToEmail = toEmail
	s.lastLeadTitle = leadTitle
	return nil
}

func (s *testSender) SendFollowUpReminderEmail(context.Context, string, string, string, string) error {
	return nil
}

func (s *testSender) SendCustomEmail(context.Context, string, string, string) error { return nil }

type testLeadReader struct {
	lead domain.Lead
	err  error
}

func (r testLeadReader) GetByID(context.Context, uuid.UUID) (domain.Lead, error) {
	return r.lead, r.err
}

type testCompanyReader struct {
	company companyrepo.Company
	err     error
}

func (r testCompanyReader) GetByID(context.Context, uuid.UUID) (companyrepo.Company, error) {
	return r.company, r.err
}

func TestHandleLeadCreatedSendsConfirmation(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.New("development"))

	err := m.handleLeadCreated(context.Background(), events.LeadCreated{
		LeadID:        uuid.New(),
		Title:         "Bytte av varmtvannsbereder",
		CustomerName:  "Kari Nordmann",
		CustomerEmail: "kari@example.com",
	})
	if err != nil {
		t.Fatalf("handleLeadCreated returned error: %v", err)
	}
	if sender.confirmationCalls != 1 {
		t.Fatalf("expected 1 confirmation email, got %d", sender.confirmationCalls)
	}
	if sender.lastToEmail != "kari@example.com" {
		t.Errorf("expected email to kari@example.com, got %s", sender.lastToEmail)
	}
}

func TestHandleLeadCreatedSkipsWithoutEmail(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.New("development"))

	err := m.handleLeadCreated(context.Background(), events.LeadCreated{
		LeadID:       uuid.New(),
		Title:        "Maling av fasade",
		CustomerName: "Ola Nordmann",
	})
	if err != nil {
		t.Fatalf("handleLeadCreated returned error: %v", err)
	}
	if sender.confirmationCalls != 0 {
		t.Fatalf("expected no confirmation email, got %d", sender.confirmationCalls)
	}
}

func TestHandleLeadAssignedNotifiesCompanyContact(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.New("development"))
	m.SetLeadReader(testLeadReader{lead: domain.Lead{
		ID:       uuid.New(),
		Title:    "Drenering rundt grunnmur",
		Category: "groundwork",
	}})
	m.SetCompanyReader(testCompanyReader{company: companyrepo.Company{
		ID:           uuid.New(),
		Name:         "Bygg og Anlegg AS",
		ContactEmail: "post@byggoganlegg.no",
	}})

	err := m.handleLeadAssigned(context.Background(), events.LeadAssigned{
		LeadID:    uuid.New(),
		CompanyID: uuid.New(),
		Title:     "Drenering rundt grunnmur",
	})
	if err != nil {
		t.Fatalf("handleLeadAssigned returned error: %v", err)
	}
	if sender.assignedCalls != 1 {
		t.Fatalf("expected 1 assignment email, got %d", sender.assignedCalls)
	}
	if sender.lastToEmail != "post@byggoganlegg.no" {
		t.Errorf("expected email to company contact, got %s", sender.lastToEmail)
	}
}

func TestHandleLeadAssignedPropagatesLookupError(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.New("development"))
	m.SetLeadReader(testLeadReader{})
	m.SetCompanyReader(testCompanyReader{err: errors.New("connection refused")})

	err := m.handleLeadAssigned(context.Background(), events.LeadAssigned{
		LeadID:    uuid.New(),
		CompanyID: uuid.New(),
	})
	if err == nil {
		t.Fatal("expected error from company lookup")
	}
	if sender.assignedCalls != 0 {
		t.Fatalf("expected no assignment email, got %d", sender.assignedCalls)
	}
}

func TestHandleLeadAssignedNoopsWithoutReaders(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.New("development"))

	err := m.handleLeadAssigned(context.Background(), events.LeadAssigned{
		LeadID:    uuid.New(),
		CompanyID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("handleLeadAssigned returned error: %v", err)
	}
	if sender.assignedCalls != 0 {
		t.Fatalf("expected no assignment email, got %d", sender.assignedCalls)
	}
}
