package models

import "strconv"

// CaseSnapshot is the matching unit passed into the conflict engine. It is
// built fresh per check and never mutated once built. ID is 0 for ad-hoc
// checks that have not been persisted yet.
type CaseSnapshot struct {
	ID         int64              `json:"id"`
	CaseNumber string             `json:"case_number"`
	Client     PartyDescriptor    `json:"client"`
	Opponent   PartyDescriptor    `json:"opponent"`
	Affiliates []AffiliatedEntity `json:"affiliates,omitempty"`
	LawyerIDs  []int64            `json:"lawyer_ids,omitempty"`
}

// AffiliatesByRole returns the affiliated entities of a single role category,
// preserving their original order.
func (c *CaseSnapshot) AffiliatesByRole(role RoleCategory) []AffiliatedEntity {
	var out []AffiliatedEntity
	for _, a := range c.Affiliates {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out
}

// Ref returns the human-readable case number, falling back to the numeric
// identifier when no number was assigned.
func (c *CaseSnapshot) Ref() string {
	if c.CaseNumber != "" {
		return c.CaseNumber
	}
	return "#" + strconv.FormatInt(c.ID, 10)
}

// HasLawyer reports whether the given lawyer is assigned to the case.
func (c *CaseSnapshot) HasLawyer(id int64) bool {
	for _, l := range c.LawyerIDs {
		if l == id {
			return true
		}
	}
	return false
}
