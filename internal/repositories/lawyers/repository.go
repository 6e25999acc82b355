// Package lawyers resolves lawyer ids to display names.
package lawyers

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// Repository reads lawyer rows
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// NewRepository creates a new lawyer repository
func NewRepository(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type lawyerRow struct {
	ID       int64  `db:"id"`
	FullName string `db:"full_name"`
}

// GetNames returns display names for the given lawyer ids in one batched
// query. Unknown ids are simply absent from the result. Implements
// conflicts.LawyerSource.
func (r *Repository) GetNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	ctx, span := tracing.StartSpan(ctx, "lawyers.Repository.GetNames")
	defer span.End()

	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	sb := database.NewSelectBuilder()
	sb.Select("id", "full_name")
	sb.From("lawyers")
	sb.Where(sb.In("id", values...))

	sql, args := sb.Build()
	var rows []lawyerRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.Error("failed to fetch lawyer names", zap.Error(err))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to fetch lawyer names")
	}

	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.FullName
	}
	return names, nil
}
