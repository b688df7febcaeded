// Package scheduler runs the periodic cache maintenance worker.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

//go:generate moq -out mocks/analysis_cache.go -pkg mocks -skip-ensure -fmt goimports . AnalysisCache
//go:generate moq -out mocks/related_cache.go -pkg mocks -skip-ensure -fmt goimports . RelatedCache

// AnalysisCache is the analysis cache maintenance surface
type AnalysisCache interface {
	CleanupExpired(ctx context.Context, ttl time.Duration) (int64, error)
}

// RelatedCache is the related content cache maintenance surface
type RelatedCache interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// Config holds scheduler configuration
type Config struct {
	AnalysisTTL     time.Duration // max age for cached analyses
	CleanupInterval time.Duration // how often the sweep runs
}

// Scheduler sweeps expired cache entries on startup and on an interval
type Scheduler struct {
	analysis AnalysisCache
	related  RelatedCache
	ttl      time.Duration
	interval time.Duration
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// NewScheduler creates a new cache maintenance scheduler
func NewScheduler(analysis AnalysisCache, related RelatedCache, cfg Config) *Scheduler {
	if cfg.AnalysisTTL == 0 {
		cfg.AnalysisTTL = 7 * 24 * time.Hour
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = 6 * time.Hour
	}

	return &Scheduler{
		analysis: analysis,
		related:  related,
		ttl:      cfg.AnalysisTTL,
		interval: cfg.CleanupInterval,
	}
}

// Start begins the cleanup worker
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.cleanupWorker(ctx)

	lgr.Printf("[INFO] scheduler started with analysis ttl %v, cleanup interval %v", s.ttl, s.interval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// cleanupWorker periodically removes expired cache entries
func (s *Scheduler) cleanupWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

// cleanup sweeps both caches once
func (s *Scheduler) cleanup(ctx context.Context) {
	analyses, err := s.analysis.CleanupExpired(ctx, s.ttl)
	if err != nil {
		lgr.Printf("[ERROR] failed to clean analysis cache: %v", err)
	}

	related, err := s.related.CleanupExpired(ctx)
	if err != nil {
		lgr.Printf("[ERROR] failed to clean related cache: %v", err)
	}

	if analyses > 0 || related > 0 {
		lgr.Printf("[INFO] cache cleanup removed %d analyses, %d related entries", analyses, related)
	}
}
