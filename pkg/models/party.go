package models

// PartyKind distinguishes legal entities from natural persons
type PartyKind string

const (
	PartyKindLegalEntity PartyKind = "legal_entity"
	PartyKindIndividual  PartyKind = "individual"
)

// PartyDescriptor describes one side of a case: a free-text name plus the
// identifier channel matching its kind. CompanyID is the legal-entity tax
// number (INN, 9 or 12 digits); PersonID is the individual national
// identifier (PINFL, 14 digits). Both may be empty when unknown.
type PartyDescriptor struct {
	Name      string    `json:"name"`
	Kind      PartyKind `json:"kind"`
	CompanyID string    `json:"company_id,omitempty"`
	PersonID  string    `json:"person_id,omitempty"`
}

// IsEmpty reports whether the descriptor carries no usable information.
func (p PartyDescriptor) IsEmpty() bool {
	return p.Name == "" && p.CompanyID == "" && p.PersonID == ""
}

// DisplayName returns the name, falling back to whichever identifier is set.
func (p PartyDescriptor) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.CompanyID != "" {
		return p.CompanyID
	}
	return p.PersonID
}

// RoleCategory tags an affiliated entity with its relation to the case party
type RoleCategory string

const (
	RoleRelatedCompany    RoleCategory = "related_company"
	RoleRelatedIndividual RoleCategory = "related_individual"
	RoleFounder           RoleCategory = "founder"
	RoleDirector          RoleCategory = "director"
	RoleBeneficiary       RoleCategory = "beneficiary"
)

// RoleCategories lists all categories in their canonical order.
var RoleCategories = []RoleCategory{
	RoleRelatedCompany,
	RoleRelatedIndividual,
	RoleFounder,
	RoleDirector,
	RoleBeneficiary,
}

// Label returns the human-readable role name used in reason strings.
func (r RoleCategory) Label() string {
	switch r {
	case RoleRelatedCompany:
		return "связанная компания"
	case RoleRelatedIndividual:
		return "связанное лицо"
	case RoleFounder:
		return "учредитель"
	case RoleDirector:
		return "руководитель"
	case RoleBeneficiary:
		return "бенефициар"
	default:
		return string(r)
	}
}

// IsPersonLike reports whether entries of this category are natural persons
// and should additionally be checked against the parties of existing cases.
func (r RoleCategory) IsPersonLike() bool {
	return r == RoleRelatedIndividual || r == RoleFounder
}

// AffiliatedEntity is a company or person attached to a case under a role
// category (related company, related individual, founder, director,
// beneficiary).
type AffiliatedEntity struct {
	PartyDescriptor
	Role RoleCategory `json:"role"`
}
