package donation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = 30 * time.Second

var ErrInvalidSweepInterval = errors.New("sweep interval must be at least one second")

// Sweeper runs SweepExpired on a fixed interval. Overlapping runs are skipped
// rather than queued.
type Sweeper struct {
	service  DonationService
	interval time.Duration
	log      logrus.FieldLogger
	cron     *cron.Cron
}

func NewSweeper(service DonationService, interval time.Duration, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		log:      log,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
	}
}

func (s *Sweeper) Start() error {
	if s.interval < time.Second {
		return ErrInvalidSweepInterval
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.run); err != nil {
		return err
	}
	s.cron.Start()

	s.log.WithField("interval", s.interval.String()).Info("expiry sweeper started")
	return nil
}

// Stop prevents further runs and returns a context that is done once a run in
// progress has finished.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	return s.service.SweepExpired(ctx)
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.log.WithError(err).Error("expiry sweep failed")
	}
}
