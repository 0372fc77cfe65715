package ingest

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the structured logger used across ingest runs.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// Scheduler fans a finite, pre-enumerated set of work units out over a
// bounded worker pool. Units are independent and idempotent, so no ordering
// is guaranteed across them; within a unit the processor runs its stages
// strictly in sequence.
type Scheduler[T any] struct {
	workers int
	logger  *logrus.Logger
	process func(context.Context, T) UnitResult
}

// NewScheduler creates a scheduler running process on at most workers units
// concurrently.
func NewScheduler[T any](workers int, logger *logrus.Logger, process func(context.Context, T) UnitResult) *Scheduler[T] {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler[T]{
		workers: workers,
		logger:  logger,
		process: process,
	}
}

// Run executes every unit to a terminal state and returns all results in
// input order. It logs exactly one line per terminal unit and a run summary
// at the end. A failed unit never aborts the run; only the caller's
// enumeration step can do that, before Run is invoked.
func (s *Scheduler[T]) Run(ctx context.Context, units []T) []UnitResult {
	results := make([]UnitResult, len(units))

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, unit := range units {
		wg.Add(1)
		go func(i int, unit T) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result := s.process(ctx, unit)
			results[i] = result
			s.logResult(result)
		}(i, unit)
	}

	wg.Wait()

	done, failedCount := 0, 0
	for _, result := range results {
		if result.Outcome == OutcomeDone {
			done++
		} else {
			failedCount++
		}
	}
	s.logger.WithFields(logrus.Fields{
		"units":  len(units),
		"done":   done,
		"failed": failedCount,
	}).Info("Run complete")

	return results
}

func (s *Scheduler[T]) logResult(result UnitResult) {
	fields := logrus.Fields{
		"unit":    result.Unit,
		"outcome": result.Outcome,
		"rows":    result.Rows,
	}

	if result.Err == nil {
		s.logger.WithFields(fields).Info("Unit finished")
		return
	}

	fields["kind"] = result.Err.Kind
	fields["error"] = result.Err.Err

	if result.Err.Kind == FailMissingColumns {
		s.logger.WithFields(fields).Warn("Unit skipped")
		return
	}
	s.logger.WithFields(fields).Error("Unit failed")
}
