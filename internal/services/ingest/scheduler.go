package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/interfaces"
)

// Scheduler runs the ingestion pipeline on a cron schedule. A run that is
// still in flight when the next tick fires makes the tick a no-op; two runs
// never overlap.
type Scheduler struct {
	pipeline interfaces.IngestService
	cron     *cron.Cron
	logger   arbor.ILogger
	mu       sync.Mutex
	running  bool
	inFlight bool
}

// NewScheduler creates a scheduler around the ingestion pipeline
func NewScheduler(pipeline interfaces.IngestService, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start begins scheduled ingestion with the given cron expression
func (s *Scheduler) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if cronExpr == "" {
		return fmt.Errorf("cron expression is required")
	}

	if _, err := s.cron.AddFunc(cronExpr, s.runScheduledIngest); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Msg("Ingestion scheduler started")

	return nil
}

// Stop halts the scheduler, waiting for an in-flight run to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info().Msg("Ingestion scheduler stopped")
	return nil
}

func (s *Scheduler) runScheduledIngest() {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Warn().Msg("Skipping scheduled ingestion, previous run still in flight")
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	reports, err := s.pipeline.Run(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled ingestion failed")
		return
	}

	stored := 0
	for _, report := range reports {
		stored += report.Stored
	}
	s.logger.Info().
		Int("source_count", len(reports)).
		Int("stored", stored).
		Msg("Scheduled ingestion completed")
}
