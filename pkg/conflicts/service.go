package conflicts

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/cache"
	"github.com/Ramsey-B/laurel/pkg/fingerprint"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/normalizers"
	"github.com/Ramsey-B/laurel/pkg/tracing"
	"github.com/Ramsey-B/laurel/pkg/translit"
)

// CandidateQuery is the superset prefilter handed to the case store:
// identifier equality on any listed identifier OR a name match on any
// listed name. The store may over-return; every rule re-validates through
// the entity matcher.
type CandidateQuery struct {
	CompanyIDs    []string
	PersonIDs     []string
	Names         []string
	ExcludeCaseID int64
}

// CaseSource fetches candidate cases potentially related to a check.
type CaseSource interface {
	FetchCandidates(ctx context.Context, query CandidateQuery) ([]models.CaseSnapshot, error)
}

// LawyerSource resolves lawyer ids to display names.
type LawyerSource interface {
	GetNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Notifier observes completed conflict checks. Notification is best
// effort; failures are logged and never affect the report.
type Notifier interface {
	ConflictChecked(ctx context.Context, snapshot models.CaseSnapshot, report models.ConflictReport)
}

// Service runs full conflict checks: cache lookup, candidate fetch, rule
// evaluation, classification and report caching.
type Service struct {
	engine    *Engine
	caches    *cache.Service
	cases     CaseSource
	lawyers   LawyerSource
	notifiers []Notifier
	logger    *zap.Logger
}

// NewService creates the conflict check service.
func NewService(engine *Engine, caches *cache.Service, cases CaseSource, lawyers LawyerSource, logger *zap.Logger, notifiers ...Notifier) *Service {
	return &Service{
		engine:    engine,
		caches:    caches,
		cases:     cases,
		lawyers:   lawyers,
		notifiers: notifiers,
		logger:    logger,
	}
}

// CheckConflicts evaluates a case snapshot against the case store. An
// upstream fetch failure produces a degraded report with severity "error"
// rather than a Go error, so callers can never mistake a failed check for
// a clean one.
func (s *Service) CheckConflicts(ctx context.Context, snapshot models.CaseSnapshot) models.ConflictReport {
	ctx, span := tracing.StartSpan(ctx, "conflicts.Check")
	defer span.End()

	key := fingerprint.Snapshot(snapshot)
	if report, ok := s.caches.GetReport(key); ok {
		s.logger.Debug("conflict report served from cache", zap.String("fingerprint", key))
		return report
	}

	candidates, err := s.cases.FetchCandidates(ctx, buildCandidateQuery(snapshot))
	if err != nil {
		s.logger.Error("candidate fetch failed", zap.Error(err))
		return s.degradedReport("Не удалось выполнить проверку конфликтов: ошибка доступа к базе дел")
	}

	lawyerNames, err := s.resolveLawyerNames(ctx, snapshot, candidates)
	if err != nil {
		s.logger.Error("lawyer name fetch failed", zap.Error(err))
		return s.degradedReport("Не удалось выполнить проверку конфликтов: ошибка получения данных адвокатов")
	}

	var findings []models.ConflictFinding
	for _, candidate := range candidates {
		findings = append(findings, s.engine.Evaluate(snapshot, candidate, lawyerNames)...)
	}

	severity := Classify(findings)
	report := models.ConflictReport{
		Severity:        severity,
		Reasons:         dedupeReasons(findings),
		CaseIDs:         dedupeCaseIDs(findings),
		Recommendations: Recommendations(severity),
		CheckedAt:       time.Now().UTC(),
	}

	s.caches.PutReport(key, report)

	for _, n := range s.notifiers {
		n.ConflictChecked(ctx, snapshot, report)
	}

	s.logger.Info("conflict check completed",
		zap.String("severity", string(report.Severity)),
		zap.Int("candidates", len(candidates)),
		zap.Int("findings", len(findings)),
	)
	return report
}

// degradedReport is never cached: the next call should retry the fetch.
func (s *Service) degradedReport(reason string) models.ConflictReport {
	return models.ConflictReport{
		Severity:        models.SeverityError,
		Reasons:         []string{reason},
		Recommendations: Recommendations(models.SeverityError),
		CheckedAt:       time.Now().UTC(),
	}
}

// resolveLawyerNames serves display names from the lookup cache and fetches
// only the missing ids from the lawyer source.
func (s *Service) resolveLawyerNames(ctx context.Context, snapshot models.CaseSnapshot, candidates []models.CaseSnapshot) (map[int64]string, error) {
	ids := make(map[int64]struct{})
	for _, id := range snapshot.LawyerIDs {
		ids[id] = struct{}{}
	}
	for _, c := range candidates {
		for _, id := range c.LawyerIDs {
			ids[id] = struct{}{}
		}
	}

	names := make(map[int64]string, len(ids))
	var missing []int64
	for id := range ids {
		if name, ok := s.caches.GetLawyerName(id); ok {
			names[id] = name
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return names, nil
	}

	fetched, err := s.lawyers.GetNames(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, name := range fetched {
		names[id] = name
		s.caches.PutLawyerName(id, name)
	}
	return names, nil
}

// buildCandidateQuery collects every identifier and name on the snapshot,
// parties and affiliates alike, so the store's prefilter catches candidates
// linked through any of them. Names go in raw (trimmed) plus their
// transliteration variants: the store matches by containment against the
// stored spelling, so a normalized or single-script name would miss rows
// the engine can match.
func buildCandidateQuery(snapshot models.CaseSnapshot) CandidateQuery {
	query := CandidateQuery{ExcludeCaseID: snapshot.ID}

	parties := []models.PartyDescriptor{snapshot.Client, snapshot.Opponent}
	for _, a := range snapshot.Affiliates {
		parties = append(parties, a.PartyDescriptor)
	}

	seenCompany := make(map[string]struct{})
	seenPerson := make(map[string]struct{})
	seenName := make(map[string]struct{})
	for _, p := range parties {
		if id := normalizers.CompanyID(p.CompanyID); id != "" {
			if _, ok := seenCompany[id]; !ok {
				seenCompany[id] = struct{}{}
				query.CompanyIDs = append(query.CompanyIDs, id)
			}
		}
		if id := normalizers.PersonID(p.PersonID); id != "" {
			if _, ok := seenPerson[id]; !ok {
				seenPerson[id] = struct{}{}
				query.PersonIDs = append(query.PersonIDs, id)
			}
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		for _, variant := range translit.Variants(name) {
			if _, ok := seenName[variant]; !ok {
				seenName[variant] = struct{}{}
				query.Names = append(query.Names, variant)
			}
		}
	}

	return query
}

func dedupeReasons(findings []models.ConflictFinding) []string {
	seen := make(map[string]struct{}, len(findings))
	var out []string
	for _, f := range findings {
		if _, ok := seen[f.Reason]; ok {
			continue
		}
		seen[f.Reason] = struct{}{}
		out = append(out, f.Reason)
	}
	return out
}

func dedupeCaseIDs(findings []models.ConflictFinding) []int64 {
	seen := make(map[int64]struct{}, len(findings))
	var out []int64
	for _, f := range findings {
		if f.CaseID == 0 {
			continue
		}
		if _, ok := seen[f.CaseID]; ok {
			continue
		}
		seen[f.CaseID] = struct{}{}
		out = append(out, f.CaseID)
	}
	return out
}
