package transport

import (
	"time"

	"homni_backend/internal/companies/repository"

	"github.com/google/uuid"
)

type CreateCompanyRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=200"`
	OrgNumber    string   `json:"orgNumber" validate:"required,len=9,numeric"`
	ContactName  string   `json:"contactName" validate:"required,min=1,max=200"`
	ContactEmail string   `json:"contactEmail" validate:"required,email"`
	ContactPhone string   `json:"contactPhone,omitempty" validate:"omitempty,min=5,max=20"`
	City         string   `json:"city,omitempty" validate:"omitempty,max=100"`
	Modules      []string `json:"modules,omitempty" validate:"omitempty,dive,oneof=leads board reports"`
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	OrgNumber    *string `json:"orgNumber,omitempty" validate:"omitempty,len=9,numeric"`
	ContactName  *string `json:"contactName,omitempty" validate:"omitempty,min=1,max=200"`
	ContactEmail *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contactPhone,omitempty" validate:"omitempty,min=5,max=20"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Active       *bool   `json:"active,omitempty"`
}

type SetModulesRequest struct {
	Modules []string `json:"modules" validate:"required,dive,oneof=leads board reports"`
}

type CompanyResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	OrgNumber      string    `json:"orgNumber"`
	ContactName    string    `json:"contactName"`
	ContactEmail   string    `json:"contactEmail"`
	ContactPhone   *string   `json:"contactPhone,omitempty"`
	City           *string   `json:"city,omitempty"`
	Active         bool      `json:"active"`
	EnabledModules []string  `json:"enabledModules"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Total int               `json:"total"`
}

func ToCompanyResponse(company repository.Company) CompanyResponse {
	modules := company.EnabledModules
	if modules == nil {
		modules = []string{}
	}
	return CompanyResponse{
		ID:             company.ID,
		Name:           company.Name,
		OrgNumber:      company.OrgNumber,
		ContactName:    company.ContactName,
		ContactEmail:   company.ContactEmail,
		ContactPhone:   company.ContactPhone,
		City:           company.City,
		Active:         company.Active,
		EnabledModules: modules,
		CreatedAt:      company.CreatedAt,
		UpdatedAt:      company.UpdatedAt,
	}
}

func ToCompanyResponses(companies []repository.Company) []CompanyResponse {
	items := make([]CompanyResponse, 0, len(companies))
	for _, company := range companies {
		items = append(items, ToCompanyResponse(company))
	}
	return items
}
