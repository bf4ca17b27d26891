// Package leads provides the lead pipeline bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"time"

	"homni_backend/internal/events"
	apphttp "homni_backend/internal/http"
	"homni_backend/internal/leads/handler"
	"homni_backend/internal/leads/repository"
	"homni_backend/internal/leads/service"
	"homni_backend/internal/storage"
	"homni_backend/platform/httpkit"
	"homni_backend/platform/logger"
	"homni_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Repository returns the lead repository for cross-module readers.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for external use (scheduler worker,
// composition root wiring).
func (m *Module) Service() *service.Service {
	return m.service
}

// SetStorage enables attachment uploads against the given bucket.
func (m *Module) SetStorage(store storage.StorageService, bucket string) {
	m.service.SetStorage(store, bucket)
}

// SetFollowUpScheduler enables follow-up reminders for stalled leads.
func (m *Module) SetFollowUpScheduler(scheduler service.FollowUpScheduler, delay time.Duration) {
	m.service.SetFollowUpScheduler(scheduler, delay)
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public submission form, rate limited rather than authenticated.
	publicGroup := ctx.V1.Group("/leads")
	publicGroup.Use(ctx.SubmitRateLimiter.RateLimit(), httpkit.OptionalAuth(ctx.Config))
	m.handler.RegisterPublicRoutes(publicGroup)

	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)

	adminGroup := ctx.Admin.Group("/leads")
	m.handler.RegisterAdminRoutes(adminGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
