package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/service/admin"
	"github.com/mamadbah2/dairy/pkg/clients/whatsapp"
)

const jobTimeout = 2 * time.Minute

var (
	// ErrNotifierDisabled is returned when WhatsApp is not configured.
	ErrNotifierDisabled = errors.New("whatsapp notifier disabled")
	// ErrNoRecipient is returned when neither the request nor the config names a recipient.
	ErrNoRecipient = errors.New("no digest recipient")
)

// Refresher recomputes the cached dashboard state.
type Refresher interface {
	Refresh(ctx context.Context) admin.State
}

// DigestGenerator produces the plain-text daily digest.
type DigestGenerator interface {
	GenerateDailyDigest(ctx context.Context) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	dashboards Refresher
	digests    DigestGenerator
	notifier   whatsapp.Notifier
	cfg        config.Config
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler running in loc. A nil notifier
// disables the digest job.
func NewScheduler(cfg config.Config, loc *time.Location, dashboards Refresher, digests DigestGenerator, notifier whatsapp.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		dashboards: dashboards,
		digests:    digests,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Dashboard.RefreshSchedule, s.refreshDashboard); err != nil {
		return fmt.Errorf("schedule dashboard refresh: %w", err)
	}

	if s.notifier != nil {
		if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.sendDailyDigest); err != nil {
			return fmt.Errorf("schedule daily digest: %w", err)
		}
	} else {
		s.logger.Warn("whatsapp not configured, daily digest disabled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping scheduler")
	return s.cron.Stop()
}

// SendDigest generates the digest and sends it to `to`, or to the manager
// when `to` is empty.
func (s *Scheduler) SendDigest(ctx context.Context, to string) (models.DigestReceipt, error) {
	if s.notifier == nil {
		return models.DigestReceipt{}, ErrNotifierDisabled
	}
	if to == "" {
		to = s.cfg.WhatsApp.ManagerID
	}
	if to == "" {
		return models.DigestReceipt{}, ErrNoRecipient
	}

	digest, err := s.digests.GenerateDailyDigest(ctx)
	if err != nil {
		return models.DigestReceipt{}, fmt.Errorf("generate daily digest: %w", err)
	}

	id, err := s.notifier.SendText(ctx, to, digest)
	if err != nil {
		return models.DigestReceipt{}, fmt.Errorf("send daily digest: %w", err)
	}

	return models.DigestReceipt{To: to, MessageID: id, Digest: digest}, nil
}

func (s *Scheduler) refreshDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	state := s.dashboards.Refresh(ctx)
	if state.Status == admin.StatusFailed {
		s.logger.Warn("scheduled dashboard refresh failed", zap.String("resource", state.FailedResource()))
		return
	}
	s.logger.Debug("dashboard refreshed on schedule")
}

func (s *Scheduler) sendDailyDigest() {
	s.logger.Info("generating daily digest")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	receipt, err := s.SendDigest(ctx, "")
	if err != nil {
		s.logger.Error("failed to send daily digest", zap.Error(err))
		return
	}
	s.logger.Info("daily digest sent", zap.String("to", receipt.To), zap.String("message_id", receipt.MessageID))
}
