// Package companies provides the company administration bounded context module.
package companies

import (
	"homni_backend/internal/companies/handler"
	"homni_backend/internal/companies/repository"
	"homni_backend/internal/companies/service"
	apphttp "homni_backend/internal/http"
	"homni_backend/platform/logger"
	"homni_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the companies bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the companies module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "companies"
}

// Service returns the company service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts company administration routes. All of them are
// admin-only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	companiesGroup := ctx.Admin.Group("/companies")
	m.handler.RegisterRoutes(companiesGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
