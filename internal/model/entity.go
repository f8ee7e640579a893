package model

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/evidence"
)

// Entity is a resolved company. The two required fields are evidence-backed
// by construction; optional fields stay nil until enrichment attaches
// evidence for them. An Entity never stores a bare value.
type Entity struct {
	CompanyName *evidence.Evidence `json:"company_name"`
	Domain      *evidence.Evidence `json:"domain"`

	Industry  *evidence.Evidence `json:"industry,omitempty"`
	SizeRange *evidence.Evidence `json:"size_range,omitempty"`
	Country   *evidence.Evidence `json:"country,omitempty"`
	Intent    *evidence.Evidence `json:"intent,omitempty"`
}

// NewEntity builds an entity from its required evidence. Both records must be
// present and non-empty; a caller holding a name or domain without evidence
// has a bug upstream, not a data problem.
func NewEntity(name, domain *evidence.Evidence) (*Entity, error) {
	if name == nil || name.Value == "" {
		return nil, eris.New("model: entity requires company name evidence")
	}
	if domain == nil || domain.Value == "" {
		return nil, eris.New("model: entity requires domain evidence")
	}
	if name.FieldName != "company_name" {
		return nil, eris.Errorf("model: expected company_name evidence, got %s", name.FieldName)
	}
	if domain.FieldName != "domain" {
		return nil, eris.Errorf("model: expected domain evidence, got %s", domain.FieldName)
	}
	return &Entity{CompanyName: name, Domain: domain}, nil
}

// Name returns the company name value.
func (e *Entity) Name() string { return e.CompanyName.Value }

// DomainName returns the registrable domain value.
func (e *Entity) DomainName() string { return e.Domain.Value }

// EvidenceList returns every evidence record attached to the entity,
// required fields first, in a fixed order.
func (e *Entity) EvidenceList() []*evidence.Evidence {
	out := []*evidence.Evidence{e.CompanyName, e.Domain}
	for _, opt := range []*evidence.Evidence{e.Intent, e.Industry, e.SizeRange, e.Country} {
		if opt != nil {
			out = append(out, opt)
		}
	}
	return out
}
