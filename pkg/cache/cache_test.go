package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/models"
)

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func testReport(severity models.Severity) models.ConflictReport {
	return models.ConflictReport{Severity: severity, CheckedAt: time.Now()}
}

func TestReportCacheRoundTrip(t *testing.T) {
	clock := newFakeClock()
	c := NewReportCache(5*time.Minute, 1000, clock.Now)

	report := testReport(models.SeverityHigh)
	c.Put("abc", report)

	got, ok := c.Get("abc")
	require.True(t, ok)
	assert.Equal(t, report.Severity, got.Severity)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestReportCacheTTLExpiry(t *testing.T) {
	clock := newFakeClock()
	c := NewReportCache(5*time.Minute, 1000, clock.Now)

	c.Put("abc", testReport(models.SeverityLow))

	clock.Advance(4 * time.Minute)
	_, ok := c.Get("abc")
	assert.True(t, ok, "entry should survive within TTL")

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("abc")
	assert.False(t, ok, "entry should expire after TTL")
	assert.Equal(t, 0, c.Len(), "expired entry is removed on read")
}

func TestReportCacheEviction(t *testing.T) {
	clock := newFakeClock()
	c := NewReportCache(time.Hour, 10, clock.Now)

	for i := 0; i < 11; i++ {
		c.Put(fmt.Sprintf("fp-%02d", i), testReport(models.SeverityNone))
		clock.Advance(time.Second)
	}

	// Crossing the ceiling evicts the oldest tranche by insertion time.
	assert.Equal(t, 10, c.Len())
	_, ok := c.Get("fp-00")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.Get("fp-10")
	assert.True(t, ok, "newest entry kept")
}

func TestReportCacheEvictionIgnoresAccess(t *testing.T) {
	clock := newFakeClock()
	c := NewReportCache(time.Hour, 10, clock.Now)

	for i := 0; i < 10; i++ {
		c.Put(fmt.Sprintf("fp-%02d", i), testReport(models.SeverityNone))
		clock.Advance(time.Second)
	}

	// Reading the oldest entry does not protect it; eviction is FIFO.
	_, ok := c.Get("fp-00")
	require.True(t, ok)

	c.Put("fp-10", testReport(models.SeverityNone))
	_, ok = c.Get("fp-00")
	assert.False(t, ok)
}

func TestReportCachePutSameKeyTwice(t *testing.T) {
	clock := newFakeClock()
	c := NewReportCache(time.Hour, 10, clock.Now)

	c.Put("abc", testReport(models.SeverityLow))
	c.Put("abc", testReport(models.SeverityHigh))

	assert.Equal(t, 1, c.Len())
	got, ok := c.Get("abc")
	require.True(t, ok)
	assert.Equal(t, models.SeverityHigh, got.Severity)
}

func TestReportCacheClear(t *testing.T) {
	c := NewReportCache(time.Hour, 10, nil)

	c.Put("a", testReport(models.SeverityNone))
	c.Put("b", testReport(models.SeverityNone))
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestReportCacheConcurrentAccess(t *testing.T) {
	c := NewReportCache(time.Hour, 100, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("fp-%d-%d", n, j)
				c.Put(key, testReport(models.SeverityNone))
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 100)
}

func TestLookupCacheRoundTrip(t *testing.T) {
	c := NewLookupCache(10*time.Minute, nil)

	c.Put(7, "Каримов Азиз")

	name, ok := c.Get(7)
	require.True(t, ok)
	assert.Equal(t, "Каримов Азиз", name)

	_, ok = c.Get(8)
	assert.False(t, ok)
}

func TestLookupCacheSweep(t *testing.T) {
	clock := newFakeClock()
	c := NewLookupCache(10*time.Minute, clock.Now)

	c.Put(1, "старый")
	clock.Advance(11 * time.Minute)
	c.Put(2, "свежий")

	removed := c.Sweep()
	assert.Equal(t, 1, removed)

	_, ok := c.Get(1)
	assert.False(t, ok)
	_, ok = c.Get(2)
	assert.True(t, ok)
}

func TestLookupCacheSweepSkipsWhenRunning(t *testing.T) {
	clock := newFakeClock()
	c := NewLookupCache(10*time.Minute, clock.Now)

	c.Put(1, "старый")
	clock.Advance(11 * time.Minute)

	// While one sweep holds the lock, a concurrent cycle skips instead of
	// queueing behind it.
	c.sweeping.Lock()
	removed := c.Sweep()
	assert.Equal(t, 0, removed)
	_, ok := c.Get(1)
	assert.True(t, ok, "a skipped sweep must not evict")
	c.sweeping.Unlock()

	removed = c.Sweep()
	assert.Equal(t, 1, removed)
	_, ok = c.Get(1)
	assert.False(t, ok)
}

func TestLookupCacheGetServesStaleUntilSweep(t *testing.T) {
	clock := newFakeClock()
	c := NewLookupCache(10*time.Minute, clock.Now)

	c.Put(1, "имя")
	clock.Advance(time.Hour)

	// Eviction is the sweep's job, not Get's.
	_, ok := c.Get(1)
	assert.True(t, ok)

	c.Sweep()
	_, ok = c.Get(1)
	assert.False(t, ok)
}

func TestServiceDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	s := NewService(cfg, zap.NewNop(), nil)

	s.PutReport("abc", testReport(models.SeverityHigh))
	_, ok := s.GetReport("abc")
	assert.False(t, ok)

	s.PutLawyerName(1, "имя")
	_, ok = s.GetLawyerName(1)
	assert.False(t, ok)
}

func TestServiceInvalidateReports(t *testing.T) {
	s := NewService(DefaultConfig(), zap.NewNop(), nil)

	s.PutReport("abc", testReport(models.SeverityHigh))
	s.InvalidateReports()

	_, ok := s.GetReport("abc")
	assert.False(t, ok)
}

func TestServiceStartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SweepInterval = 10 * time.Millisecond
	s := NewService(cfg, zap.NewNop(), nil)

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, s.Stop(ctx))
}

func TestServiceStopWithoutStart(t *testing.T) {
	s := NewService(DefaultConfig(), zap.NewNop(), nil)
	assert.NoError(t, s.Stop(context.Background()))
}
