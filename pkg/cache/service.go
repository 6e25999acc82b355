package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/models"
)

// Config holds cache sizing and lifetime settings
type Config struct {
	Enabled       bool
	ReportTTL     time.Duration
	ReportMaxSize int
	LookupTTL     time.Duration
	SweepInterval time.Duration
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		ReportTTL:     5 * time.Minute,
		ReportMaxSize: 1000,
		LookupTTL:     10 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// Service owns both caches and the background sweep of the lookup cache.
// It participates in the process lifecycle as a startup dependency: Start
// launches the sweep loop, Stop terminates it.
type Service struct {
	reports *ReportCache
	lookups *LookupCache

	config Config
	logger *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates the cache service. A nil clock uses time.Now.
func NewService(config Config, logger *zap.Logger, clock Clock) *Service {
	return &Service{
		reports: NewReportCache(config.ReportTTL, config.ReportMaxSize, clock),
		lookups: NewLookupCache(config.LookupTTL, clock),
		config:  config,
		logger:  logger,
	}
}

// GetReport returns a cached conflict report if caching is enabled.
func (s *Service) GetReport(fingerprint string) (models.ConflictReport, bool) {
	if !s.config.Enabled {
		return models.ConflictReport{}, false
	}
	return s.reports.Get(fingerprint)
}

// PutReport stores a conflict report if caching is enabled.
func (s *Service) PutReport(fingerprint string, report models.ConflictReport) {
	if !s.config.Enabled {
		return
	}
	s.reports.Put(fingerprint, report)
}

// InvalidateReports drops every cached report.
func (s *Service) InvalidateReports() {
	s.reports.Clear()
}

// GetLawyerName returns a cached lawyer display name.
func (s *Service) GetLawyerName(id int64) (string, bool) {
	if !s.config.Enabled {
		return "", false
	}
	return s.lookups.Get(id)
}

// PutLawyerName stores a lawyer display name.
func (s *Service) PutLawyerName(id int64, name string) {
	if !s.config.Enabled {
		return
	}
	s.lookups.Put(id, name)
}

// GetName implements startup.StartupDependency
func (s *Service) GetName() string {
	return "cache"
}

// DependsOn implements startup.StartupDependency
func (s *Service) DependsOn() []string {
	return nil
}

// Start launches the periodic lookup-cache sweep.
func (s *Service) Start(ctx context.Context) error {
	if !s.config.Enabled {
		return nil
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.sweepLoop(sweepCtx)
	return nil
}

// Stop terminates the sweep loop and waits for it to exit.
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) sweepLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.lookups.Sweep(); removed > 0 {
				s.logger.Debug("lookup cache sweep", zap.Int("removed", removed))
			}
		}
	}
}
