package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/laurel/pkg/models"
)

func TestSnapshotDeterministic(t *testing.T) {
	cs := models.CaseSnapshot{
		Client:    models.PartyDescriptor{Name: "ООО Барака", Kind: models.PartyKindLegalEntity, CompanyID: "301234567"},
		Opponent:  models.PartyDescriptor{Name: "Каримов А.", Kind: models.PartyKindIndividual, PersonID: "12345678901234"},
		LawyerIDs: []int64{3, 1, 2},
	}

	assert.Equal(t, Snapshot(cs), Snapshot(cs))
	assert.Len(t, Snapshot(cs), 64)
}

func TestSnapshotLawyerOrderIndependent(t *testing.T) {
	a := models.CaseSnapshot{
		Client:    models.PartyDescriptor{Name: "ООО Барака"},
		LawyerIDs: []int64{3, 1, 2},
	}
	b := models.CaseSnapshot{
		Client:    models.PartyDescriptor{Name: "ООО Барака"},
		LawyerIDs: []int64{1, 2, 3},
	}

	assert.Equal(t, Snapshot(a), Snapshot(b))
}

func TestSnapshotNormalizesFormatting(t *testing.T) {
	a := models.CaseSnapshot{
		Client: models.PartyDescriptor{Name: "ООО «Барака»", Kind: models.PartyKindLegalEntity, CompanyID: "301-234-567"},
	}
	b := models.CaseSnapshot{
		Client: models.PartyDescriptor{Name: "ооо Барака", Kind: models.PartyKindLegalEntity, CompanyID: "301234567"},
	}

	assert.Equal(t, Snapshot(a), Snapshot(b))
}

func TestSnapshotDistinguishesParties(t *testing.T) {
	base := models.CaseSnapshot{
		Client:   models.PartyDescriptor{Name: "ООО Барака"},
		Opponent: models.PartyDescriptor{Name: "АО Замин"},
	}
	swapped := models.CaseSnapshot{
		Client:   base.Opponent,
		Opponent: base.Client,
	}

	assert.NotEqual(t, Snapshot(base), Snapshot(swapped))
}

func TestSnapshotDistinguishesAffiliates(t *testing.T) {
	base := models.CaseSnapshot{
		Client:   models.PartyDescriptor{Name: "ООО Барака"},
		Opponent: models.PartyDescriptor{Name: "АО Замин"},
	}
	withDirector := base
	withDirector.Affiliates = []models.AffiliatedEntity{
		{
			PartyDescriptor: models.PartyDescriptor{Name: "Каримов А.", Kind: models.PartyKindIndividual},
			Role:            models.RoleDirector,
		},
	}

	assert.NotEqual(t, Snapshot(base), Snapshot(withDirector))
}

func TestSnapshotDistinguishesAffiliateRole(t *testing.T) {
	director := models.CaseSnapshot{
		Affiliates: []models.AffiliatedEntity{
			{PartyDescriptor: models.PartyDescriptor{Name: "Каримов А."}, Role: models.RoleDirector},
		},
	}
	founder := models.CaseSnapshot{
		Affiliates: []models.AffiliatedEntity{
			{PartyDescriptor: models.PartyDescriptor{Name: "Каримов А."}, Role: models.RoleFounder},
		},
	}

	assert.NotEqual(t, Snapshot(director), Snapshot(founder))
}

func TestSnapshotAffiliateOrderIndependent(t *testing.T) {
	first := models.AffiliatedEntity{
		PartyDescriptor: models.PartyDescriptor{Name: "Каримов А."},
		Role:            models.RoleDirector,
	}
	second := models.AffiliatedEntity{
		PartyDescriptor: models.PartyDescriptor{Name: "ООО Фаргона", CompanyID: "301234567"},
		Role:            models.RoleRelatedCompany,
	}

	a := models.CaseSnapshot{Affiliates: []models.AffiliatedEntity{first, second}}
	b := models.CaseSnapshot{Affiliates: []models.AffiliatedEntity{second, first}}

	assert.Equal(t, Snapshot(a), Snapshot(b))
}

func TestSnapshotDistinguishesCaseID(t *testing.T) {
	a := models.CaseSnapshot{ID: 0, Client: models.PartyDescriptor{Name: "ООО Барака"}}
	b := models.CaseSnapshot{ID: 7, Client: models.PartyDescriptor{Name: "ООО Барака"}}

	assert.NotEqual(t, Snapshot(a), Snapshot(b))
}

func TestSnapshotDistinguishesLawyers(t *testing.T) {
	a := models.CaseSnapshot{LawyerIDs: []int64{1}}
	b := models.CaseSnapshot{LawyerIDs: []int64{2}}

	assert.NotEqual(t, Snapshot(a), Snapshot(b))
}
