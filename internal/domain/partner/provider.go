package partner

import (
	"net/mail"
	"strings"

	"github.com/preload/backend/internal/domain/shared"
)

// Provider is an external vendor that submits billing documents.
// SAPAccount is the vendor account number in the SAP ledger.
type Provider struct {
	shared.BaseAggregateRoot
	CUIT         string
	BusinessName string
	SearchName   string
	SAPAccount   string
	Email        string
	Active       bool
}

// NewProvider creates an active provider
func NewProvider(cuit, businessName, sapAccount, email string) (*Provider, error) {
	if err := validateCUIT(cuit); err != nil {
		return nil, err
	}
	p := &Provider{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CUIT:              NormalizeCUIT(cuit),
		Active:            true,
	}
	if err := p.apply(businessName, sapAccount, email); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the provider's descriptive data; the CUIT is immutable
func (p *Provider) Update(businessName, sapAccount, email string) error {
	if err := p.apply(businessName, sapAccount, email); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Provider) apply(businessName, sapAccount, email string) error {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot be empty")
	}
	if len(businessName) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot exceed 200 characters")
	}
	sapAccount = strings.TrimSpace(sapAccount)
	if sapAccount == "" {
		return shared.NewDomainError("INVALID_SAP_ACCOUNT", "SAP account cannot be empty")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Email is not valid")
		}
	}
	p.BusinessName = businessName
	p.SearchName = NormalizeName(businessName)
	p.SAPAccount = sapAccount
	p.Email = email
	return nil
}

// Deactivate blocks new submissions from the provider
func (p *Provider) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.Touch()
	p.IncrementVersion()
}

// Activate re-enables the provider
func (p *Provider) Activate() {
	if p.Active {
		return
	}
	p.Active = true
	p.Touch()
	p.IncrementVersion()
}
