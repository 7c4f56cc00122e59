package usecase

import (
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain/marketplace"
)

type SchedulerCfg struct {
	Registry marketplace.ViewRegistry
	// Spec is a cron spec such as "@every 1m" or "*/5 * * * *"
	Spec string
	// IdleTimeout evicts views nobody read for this long. 0 keeps them.
	IdleTimeout time.Duration
	Timeout     time.Duration
}

// Scheduler periodically refreshes every live view
type Scheduler struct {
	cron     *cron.Cron
	registry marketplace.ViewRegistry
	idle     time.Duration
	timeout  time.Duration
}

func NewScheduler(cfg *SchedulerCfg) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		registry: cfg.Registry,
		idle:     cfg.IdleTimeout,
		timeout:  cfg.Timeout,
	}
	if s.timeout <= 0 {
		s.timeout = defaultRefreshTimeout
	}
	if _, err := s.cron.AddFunc(cfg.Spec, s.RunOnce); err != nil {
		return nil, xerrors.Errorf("invalid refresh schedule %q: %w", cfg.Spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunOnce() {
	c, cancel := ctx.WithTimeout(ctx.WithValue(ctx.Background(), "job", "scheduledRefresh"), s.timeout)
	defer cancel()

	if s.idle > 0 {
		s.registry.Evict(c, s.idle)
	}
	s.registry.RefreshAll(c)
}
