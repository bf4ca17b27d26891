package service

import (
	"context"

	"homni_backend/internal/companies/repository"
	"homni_backend/internal/companies/transport"
	"homni_backend/platform/apperr"
	"homni_backend/platform/logger"
	"homni_backend/platform/phone"

	"github.com/google/uuid"
)

// Service handles company administration. All operations here are
// admin-only; company users never manage their own records.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) Create(ctx context.Context, req transport.CreateCompanyRequest) (repository.Company, error) {
	company := repository.Company{
		Name:           req.Name,
		OrgNumber:      req.OrgNumber,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		Active:         true,
		EnabledModules: req.Modules,
	}
	if company.EnabledModules == nil {
		company.EnabledModules = []string{"leads", "board"}
	}
	if req.ContactPhone != "" {
		normalized := phone.NormalizeE164(req.ContactPhone)
		company.ContactPhone = &normalized
	}
	if req.City != "" {
		company.City = &req.City
	}

	created, err := s.repo.Create(ctx, company)
	if err != nil {
		return repository.Company{}, apperr.Wrap(apperr.KindUnavailable, "failed to create company", err).WithOp("companies.Create")
	}

	s.log.Info("company created", "companyId", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]repository.Company, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to list companies", err).WithOp("companies.List")
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Company, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCompanyRequest) (repository.Company, error) {
	update := repository.CompanyUpdate{
		ID:           id,
		Name:         req.Name,
		OrgNumber:    req.OrgNumber,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		City:         req.City,
		Active:       req.Active,
	}
	if req.ContactPhone != nil {
		normalized := phone.NormalizeE164(*req.ContactPhone)
		update.ContactPhone = &normalized
	}

	return s.repo.Update(ctx, update)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("company deleted", "companyId", id)
	return nil
}

// SetModules replaces the company's enabled product modules.
func (s *Service) SetModules(ctx context.Context, id uuid.UUID, modules []string) (repository.Company, error) {
	company, err := s.repo.SetEnabledModules(ctx, id, modules)
	if err != nil {
		return repository.Company{}, err
	}
	s.log.Info("company modules updated", "companyId", id, "modules", modules)
	return company, nil
}
