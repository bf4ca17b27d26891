package scheduler

import (
	"context"
	"errors"
	"fmt"

	companyrepo "homni_backend/internal/companies/repository"
	"homni_backend/internal/email"
	"homni_backend/internal/leads/domain"
	leadrepo "homni_backend/internal/leads/repository"
	"homni_backend/platform/config"
	"homni_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	leads     *leadrepo.Repository
	companies *companyrepo.Repository
	sender    email.Sender
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		leads:     leadrepo.New(pool),
		companies: companyrepo.New(pool),
		sender:    sender,
		log:       log,
	}

	mux.HandleFunc(TaskLeadFollowUp, w.handleLeadFollowUp)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleLeadFollowUp reminds the assigned company about a lead that is
// still waiting on customer contact. The status is re-checked here: a
// lead that moved on since the reminder was scheduled is skipped.
func (w *Worker) handleLeadFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadFollowUpPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadrepo.ErrNotFound) {
			return nil
		}
		return err
	}

	if lead.Status != domain.StatusContacted && lead.Status != domain.StatusPaused {
		return nil
	}
	if lead.CompanyID == nil {
		return nil
	}

	company, err := w.companies.GetByID(ctx, *lead.CompanyID)
	if err != nil {
		return err
	}

	if err := w.sender.SendFollowUpReminderEmail(ctx, company.ContactEmail, company.Name, lead.Title, string(lead.Status)); err != nil {
		return err
	}

	w.log.Info("follow-up reminder sent", "leadId", leadID, "companyId", company.ID)
	return nil
}
