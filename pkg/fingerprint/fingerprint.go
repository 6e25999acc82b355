// Package fingerprint derives deterministic cache keys from case snapshots.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/normalizers"
)

// Snapshot creates a deterministic fingerprint for a case snapshot.
// The fingerprint is a SHA256 hash of the canonicalized party identifiers,
// normalized names, affiliated entities and sorted lawyer ids, so
// semantically identical requests hash identically regardless of field
// formatting or list order. The snapshot id is included because it
// excludes the case's own row from the candidate fetch and therefore
// changes the result.
func Snapshot(cs models.CaseSnapshot) string {
	parts := []string{
		"id:" + strconv.FormatInt(cs.ID, 10),
		"client:" + canonicalParty(cs.Client),
		"opponent:" + canonicalParty(cs.Opponent),
		"affiliates:" + canonicalAffiliates(cs.Affiliates),
		"lawyers:" + canonicalIDs(cs.LawyerIDs),
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}

func canonicalAffiliates(affiliates []models.AffiliatedEntity) string {
	if len(affiliates) == 0 {
		return ""
	}
	parts := make([]string, len(affiliates))
	for i, a := range affiliates {
		parts[i] = string(a.Role) + ":" + canonicalParty(a.PartyDescriptor)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func canonicalParty(p models.PartyDescriptor) string {
	fields := []string{
		string(p.Kind),
		normalizers.CompanyID(p.CompanyID),
		normalizers.PersonID(p.PersonID),
		normalizers.MatchName(p.Name),
	}
	return strings.Join(fields, ",")
}

func canonicalIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
