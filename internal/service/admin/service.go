// Package admin loads dashboard records and keeps the latest computed state.
package admin

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mamadbah2/dairy/internal/dashboard"
	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository"
)

const loadTimeout = 2 * time.Minute

// Service fetches the three collections, runs the dashboard pipeline and
// remembers the outcome.
type Service struct {
	source repository.Source
	opts   dashboard.Options
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group

	mu    sync.RWMutex
	state State
}

// NewService wires a new dashboard service. A nil location means UTC.
func NewService(source repository.Source, opts dashboard.Options, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source: source,
		opts:   opts,
		loc:    loc,
		logger: logger,
		now:    time.Now,
		state:  State{Status: StatusPending},
	}
}

// Current returns the last computed state without touching the source.
func (s *Service) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Refresh loads fresh data and recomputes the dashboard. Concurrent callers
// share one load, which runs detached from any single caller. A caller whose
// ctx ends first gets the last stored state.
func (s *Service) Refresh(ctx context.Context) State {
	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.refresh(loadCtx), nil
	})

	select {
	case res := <-ch:
		return res.Val.(State)
	case <-ctx.Done():
		return s.Current()
	}
}

func (s *Service) refresh(ctx context.Context) State {
	now := s.now().In(s.loc)

	snapshot, err := s.load(ctx)
	if errors.Is(err, context.Canceled) {
		s.logger.Warn("dashboard refresh cancelled", zap.Error(err))
		return s.Current()
	}
	if err != nil {
		s.logger.Error("dashboard data unavailable", zap.Error(err))
		return s.store(State{Status: StatusFailed, Err: err, UpdatedAt: now})
	}

	dash, err := dashboard.Build(snapshot, now, s.opts)
	if err != nil {
		s.logger.Warn("entries left out of the daily series", zap.Error(err))
	}

	s.logger.Info("dashboard refreshed",
		zap.Int("entries", len(snapshot.Entries)),
		zap.Int("payments", len(snapshot.Payments)),
		zap.Int("users", len(snapshot.Users)),
		zap.Int("skipped", snapshot.Skipped))

	return s.store(State{Status: StatusReady, Dashboard: &dash, UpdatedAt: now})
}

func (s *Service) store(st State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	return st
}

// load fetches all three collections concurrently. Any failure fails the
// whole load so the pipeline never runs on partial data.
func (s *Service) load(ctx context.Context) (models.Snapshot, error) {
	var milk, payments, users []models.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.source.FetchMilkEntries(gctx)
		if err != nil {
			return &models.FetchError{Resource: models.ResourceMilk, Err: err}
		}
		milk = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.source.FetchPayments(gctx)
		if err != nil {
			return &models.FetchError{Resource: models.ResourcePayments, Err: err}
		}
		payments = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.source.FetchUsers(gctx)
		if err != nil {
			return &models.FetchError{Resource: models.ResourceUsers, Err: err}
		}
		users = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}

	var snapshot models.Snapshot
	var err error

	snapshot.Entries, err = models.DecodeMilkEntries(milk)
	snapshot.Skipped += s.logSkipped(err)

	snapshot.Payments, err = models.DecodePayments(payments)
	snapshot.Skipped += s.logSkipped(err)

	snapshot.Users = models.DecodeUsers(users)

	return snapshot, nil
}

func (s *Service) logSkipped(err error) int {
	errs := multierr.Errors(err)
	for _, e := range errs {
		s.logger.Debug("skip malformed record", zap.Error(e))
	}
	return len(errs)
}
