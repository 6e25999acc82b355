package conflicts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/cache"
	"github.com/Ramsey-B/laurel/pkg/matching"
	"github.com/Ramsey-B/laurel/pkg/models"
)

type fakeCaseSource struct {
	candidates []models.CaseSnapshot
	err        error
	calls      int
	lastQuery  CandidateQuery
}

func (f *fakeCaseSource) FetchCandidates(_ context.Context, query CandidateQuery) ([]models.CaseSnapshot, error) {
	f.calls++
	f.lastQuery = query
	return f.candidates, f.err
}

type fakeLawyerSource struct {
	names map[int64]string
	err   error
	calls int
}

func (f *fakeLawyerSource) GetNames(_ context.Context, ids []int64) (map[int64]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]string)
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type recordingNotifier struct {
	reports []models.ConflictReport
}

func (r *recordingNotifier) ConflictChecked(_ context.Context, _ models.CaseSnapshot, report models.ConflictReport) {
	r.reports = append(r.reports, report)
}

func newTestService(cases CaseSource, lawyers LawyerSource, notifiers ...Notifier) (*Service, *cache.Service) {
	matcher := matching.NewMatcher(matching.DefaultConfig(), zap.NewNop())
	engine := NewEngine(DefaultEngineConfig(), matcher, zap.NewNop())
	caches := cache.NewService(cache.DefaultConfig(), zap.NewNop(), nil)
	return NewService(engine, caches, cases, lawyers, zap.NewNop(), notifiers...), caches
}

func conflictingSnapshot() (models.CaseSnapshot, models.CaseSnapshot) {
	candidate := models.CaseSnapshot{
		Client:   models.PartyDescriptor{Name: "ООО Ромашка", Kind: models.PartyKindLegalEntity},
		Opponent: models.PartyDescriptor{Name: "Quyosh MCHJ", Kind: models.PartyKindLegalEntity, CompanyID: "123456789012"},
	}
	existing := models.CaseSnapshot{
		ID:         42,
		CaseNumber: "А-2024-17",
		Client:     models.PartyDescriptor{Name: "Quyosh MCHJ", Kind: models.PartyKindLegalEntity, CompanyID: "123456789012"},
		Opponent:   models.PartyDescriptor{Name: "Boshqa LLC", Kind: models.PartyKindLegalEntity},
	}
	return candidate, existing
}

func TestCheckConflictsHighSeverity(t *testing.T) {
	candidate, existing := conflictingSnapshot()
	cases := &fakeCaseSource{candidates: []models.CaseSnapshot{existing}}
	svc, _ := newTestService(cases, &fakeLawyerSource{})

	report := svc.CheckConflicts(context.Background(), candidate)

	assert.Equal(t, models.SeverityHigh, report.Severity)
	assert.Equal(t, []int64{42}, report.CaseIDs)
	require.NotEmpty(t, report.Reasons)
	assert.NotEmpty(t, report.Recommendations)
	assert.False(t, report.CheckedAt.IsZero())
	assert.True(t, report.HasConflicts())
}

func TestCheckConflictsNoCandidates(t *testing.T) {
	candidate, _ := conflictingSnapshot()
	svc, _ := newTestService(&fakeCaseSource{}, &fakeLawyerSource{})

	report := svc.CheckConflicts(context.Background(), candidate)

	assert.Equal(t, models.SeverityNone, report.Severity)
	assert.Empty(t, report.Reasons)
	assert.False(t, report.HasConflicts())
}

func TestCheckConflictsCachesResult(t *testing.T) {
	candidate, existing := conflictingSnapshot()
	cases := &fakeCaseSource{candidates: []models.CaseSnapshot{existing}}
	svc, _ := newTestService(cases, &fakeLawyerSource{})

	first := svc.CheckConflicts(context.Background(), candidate)
	second := svc.CheckConflicts(context.Background(), candidate)

	assert.Equal(t, first.Severity, second.Severity)
	assert.Equal(t, 1, cases.calls, "second check must be served from cache")
}

func TestCheckConflictsAffiliateChangeBypassesCache(t *testing.T) {
	existing := models.CaseSnapshot{
		ID:       42,
		Client:   models.PartyDescriptor{Name: "ООО Барака"},
		Opponent: models.PartyDescriptor{Name: "Рахимов Бекзод", Kind: models.PartyKindIndividual},
	}
	clean := models.CaseSnapshot{
		Client:   models.PartyDescriptor{Name: "АО Замин"},
		Opponent: models.PartyDescriptor{Name: "ООО Фаргона"},
	}

	cases := &fakeCaseSource{candidates: []models.CaseSnapshot{existing}}
	svc, _ := newTestService(cases, &fakeLawyerSource{})

	first := svc.CheckConflicts(context.Background(), clean)
	require.Equal(t, models.SeverityNone, first.Severity)
	require.Equal(t, 1, cases.calls)

	// Same parties plus a director who opposes case 42: a different check,
	// never the cached clean report.
	withDirector := clean
	withDirector.Affiliates = []models.AffiliatedEntity{
		{
			PartyDescriptor: models.PartyDescriptor{Name: "Рахимов Бекзод", Kind: models.PartyKindIndividual},
			Role:            models.RoleDirector,
		},
	}

	second := svc.CheckConflicts(context.Background(), withDirector)
	assert.Equal(t, 2, cases.calls, "affiliate change must trigger a fresh evaluation")
	assert.Equal(t, models.SeverityMedium, second.Severity)
	assert.Contains(t, second.CaseIDs, int64(42))
}

func TestCheckConflictsDegradedOnCaseFetchFailure(t *testing.T) {
	candidate, _ := conflictingSnapshot()
	cases := &fakeCaseSource{err: errors.New("connection refused")}
	svc, _ := newTestService(cases, &fakeLawyerSource{})

	report := svc.CheckConflicts(context.Background(), candidate)

	assert.Equal(t, models.SeverityError, report.Severity)
	require.Len(t, report.Reasons, 1)
	assert.Equal(t, []string{"Обратитесь к администратору"}, report.Recommendations)
	assert.False(t, report.HasConflicts())

	// Degraded reports are never cached; the next call retries.
	svc.CheckConflicts(context.Background(), candidate)
	assert.Equal(t, 2, cases.calls)
}

func TestCheckConflictsDegradedOnLawyerFetchFailure(t *testing.T) {
	candidate, existing := conflictingSnapshot()
	candidate.LawyerIDs = []int64{5}
	existing.LawyerIDs = []int64{5}

	cases := &fakeCaseSource{candidates: []models.CaseSnapshot{existing}}
	lawyers := &fakeLawyerSource{err: errors.New("timeout")}
	svc, _ := newTestService(cases, lawyers)

	report := svc.CheckConflicts(context.Background(), candidate)

	assert.Equal(t, models.SeverityError, report.Severity)
}

func TestCheckConflictsNotifiesListeners(t *testing.T) {
	candidate, existing := conflictingSnapshot()
	notifier := &recordingNotifier{}
	svc, _ := newTestService(&fakeCaseSource{candidates: []models.CaseSnapshot{existing}}, &fakeLawyerSource{}, notifier)

	svc.CheckConflicts(context.Background(), candidate)

	require.Len(t, notifier.reports, 1)
	assert.Equal(t, models.SeverityHigh, notifier.reports[0].Severity)
}

func TestCheckConflictsLawyerNamesCached(t *testing.T) {
	candidate, existing := conflictingSnapshot()
	candidate.LawyerIDs = []int64{5}
	existing.LawyerIDs = []int64{5}

	cases := &fakeCaseSource{candidates: []models.CaseSnapshot{existing}}
	lawyers := &fakeLawyerSource{names: map[int64]string{5: "Каримов А."}}
	svc, caches := newTestService(cases, lawyers)

	svc.CheckConflicts(context.Background(), candidate)
	require.Equal(t, 1, lawyers.calls)

	name, ok := caches.GetLawyerName(5)
	require.True(t, ok)
	assert.Equal(t, "Каримов А.", name)

	// A rerun with the report cache cleared still skips the lawyer fetch.
	caches.InvalidateReports()
	svc.CheckConflicts(context.Background(), candidate)
	assert.Equal(t, 1, lawyers.calls)
}

func TestCheckConflictsDeduplicatesReasons(t *testing.T) {
	candidate, existing := conflictingSnapshot()
	// The same existing case returned twice by a sloppy prefilter.
	cases := &fakeCaseSource{candidates: []models.CaseSnapshot{existing, existing}}
	svc, _ := newTestService(cases, &fakeLawyerSource{})

	report := svc.CheckConflicts(context.Background(), candidate)

	seen := map[string]int{}
	for _, r := range report.Reasons {
		seen[r]++
	}
	for r, n := range seen {
		assert.Equal(t, 1, n, "reason %q duplicated", r)
	}
	assert.Equal(t, []int64{42}, report.CaseIDs)
}

func TestCheckConflictsQueryIncludesAllIdentifiers(t *testing.T) {
	candidate := models.CaseSnapshot{
		ID:       77,
		Client:   models.PartyDescriptor{Name: "ООО Барака", CompanyID: "301-234-567"},
		Opponent: models.PartyDescriptor{Name: "Каримов Азиз", PersonID: "12345678901234"},
		Affiliates: []models.AffiliatedEntity{
			{PartyDescriptor: models.PartyDescriptor{Name: "ООО Дочка", CompanyID: "309999999"}, Role: models.RoleRelatedCompany},
		},
	}
	cases := &fakeCaseSource{}
	svc, _ := newTestService(cases, &fakeLawyerSource{})

	svc.CheckConflicts(context.Background(), candidate)

	query := cases.lastQuery
	assert.Equal(t, int64(77), query.ExcludeCaseID)
	assert.ElementsMatch(t, []string{"301234567", "309999999"}, query.CompanyIDs)
	assert.Equal(t, []string{"12345678901234"}, query.PersonIDs)
	assert.Contains(t, query.Names, "ООО Барака")
	assert.Contains(t, query.Names, "Каримов Азиз")
	assert.Contains(t, query.Names, "ООО Дочка")
}

func TestCheckConflictsQueryNamesKeepStoredSpelling(t *testing.T) {
	// The store matches by containment against the raw stored value, so the
	// query must carry the original spelling (quotes included) and its
	// transliteration variants, not the normalized form.
	candidate := models.CaseSnapshot{
		Client:   models.PartyDescriptor{Name: `ООО «Ромашка»`},
		Opponent: models.PartyDescriptor{Name: "Алишер Навоий"},
	}
	cases := &fakeCaseSource{}
	svc, _ := newTestService(cases, &fakeLawyerSource{})

	svc.CheckConflicts(context.Background(), candidate)

	query := cases.lastQuery
	assert.Contains(t, query.Names, `ООО «Ромашка»`)
	assert.Contains(t, query.Names, "Алишер Навоий")
	assert.Contains(t, query.Names, "Alisher Navoiy")
}
