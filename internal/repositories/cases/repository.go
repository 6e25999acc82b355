// Package cases implements the candidate-case prefilter over Postgres. It
// is deliberately a superset filter: the rule engine re-validates every
// returned row through the entity matcher, so over-returning is safe and
// under-returning is not.
package cases

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/conflicts"
	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// candidateLimit bounds a single prefilter query.
const candidateLimit = 200

// Repository reads case rows for conflict checks
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// NewRepository creates a new case repository
func NewRepository(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type caseRow struct {
	ID                int64                                     `db:"id"`
	CaseNumber        string                                    `db:"case_number"`
	ClientName        string                                    `db:"client_name"`
	ClientKind        string                                    `db:"client_kind"`
	ClientCompanyID   string                                    `db:"client_company_id"`
	ClientPersonID    string                                    `db:"client_person_id"`
	OpponentName      string                                    `db:"opponent_name"`
	OpponentKind      string                                    `db:"opponent_kind"`
	OpponentCompanyID string                                    `db:"opponent_company_id"`
	OpponentPersonID  string                                    `db:"opponent_person_id"`
	Affiliates        database.JSONB[[]models.AffiliatedEntity] `db:"affiliates"`
	LawyerIDs         pq.Int64Array                             `db:"lawyer_ids"`
}

func (r caseRow) toSnapshot() models.CaseSnapshot {
	return models.CaseSnapshot{
		ID:         r.ID,
		CaseNumber: r.CaseNumber,
		Client: models.PartyDescriptor{
			Name:      r.ClientName,
			Kind:      models.PartyKind(r.ClientKind),
			CompanyID: r.ClientCompanyID,
			PersonID:  r.ClientPersonID,
		},
		Opponent: models.PartyDescriptor{
			Name:      r.OpponentName,
			Kind:      models.PartyKind(r.OpponentKind),
			CompanyID: r.OpponentCompanyID,
			PersonID:  r.OpponentPersonID,
		},
		Affiliates: r.Affiliates.GetValue(),
		LawyerIDs:  []int64(r.LawyerIDs),
	}
}

// FetchCandidates returns existing cases linked to any of the query's
// identifiers or names. Implements conflicts.CaseSource.
func (r *Repository) FetchCandidates(ctx context.Context, query conflicts.CandidateQuery) ([]models.CaseSnapshot, error) {
	ctx, span := tracing.StartSpan(ctx, "cases.Repository.FetchCandidates")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(
		"c.id", "c.case_number",
		"c.client_name", "c.client_kind", "c.client_company_id", "c.client_person_id",
		"c.opponent_name", "c.opponent_kind", "c.opponent_company_id", "c.opponent_person_id",
		"c.affiliates",
		"COALESCE(array_agg(cl.lawyer_id) FILTER (WHERE cl.lawyer_id IS NOT NULL), '{}') AS lawyer_ids",
	)
	sb.From("cases c")
	sb.JoinWithOption("LEFT", "case_lawyers cl", "cl.case_id = c.id")

	var conditions []string
	for _, id := range query.CompanyIDs {
		conditions = append(conditions,
			sb.Equal("c.client_company_id", id),
			sb.Equal("c.opponent_company_id", id),
		)
	}
	for _, id := range query.PersonIDs {
		conditions = append(conditions,
			sb.Equal("c.client_person_id", id),
			sb.Equal("c.opponent_person_id", id),
		)
	}
	for _, name := range query.Names {
		pattern := "%" + name + "%"
		conditions = append(conditions,
			sb.ILike("c.client_name", pattern),
			sb.ILike("c.opponent_name", pattern),
		)
	}
	if len(conditions) == 0 {
		return nil, nil
	}
	sb.Where(sb.Or(conditions...))
	if query.ExcludeCaseID != 0 {
		sb.Where(sb.NotEqual("c.id", query.ExcludeCaseID))
	}
	sb.GroupBy("c.id")
	sb.Limit(candidateLimit)

	sql, args := sb.Build()
	var rows []caseRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.Error("failed to fetch candidate cases", zap.Error(err))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to fetch candidate cases")
	}

	snapshots := make([]models.CaseSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, row.toSnapshot())
	}

	r.logger.Debug("candidate cases fetched", zap.Int("count", len(snapshots)))
	return snapshots, nil
}
