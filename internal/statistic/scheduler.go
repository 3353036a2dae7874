package statistic

import (
	"context"
	"github.com/roylee0704/gron"
	"sitestats/internal/providers"
	"sitestats/internal/services"
	"sitestats/internal/statistic/interfaces"
	"sitestats/internal/structures"
	"sync"
	"time"
)

type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	service   services.StatsServiceInterface
	persister interfaces.PersisterInterface
	metrics   providers.MetricsProviderInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
}

const defaultSaveInterval = 30 * time.Second

// saveEvery reads bare numbers as seconds, so both "30" and "30s" work.
func saveEvery(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultSaveInterval
	}
	if d < time.Second {
		return d * time.Second
	}
	return d
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := saveEvery(s.config.Persistence.SaveInterval)

	s.cron.AddFunc(gron.Every(interval), func() {
		// a save still running when the next tick fires gives up
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if err := s.persist(ctx); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		synced, rejected := s.service.SyncStats()
		s.logger.Infof(providers.TypeApp, "Persisted %d records of %d sites (synced=%d rejected=%d)",
			s.service.RecordsCount(), len(s.service.GetBlogs()), synced, rejected)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore(ctx context.Context) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.persister.Restore(ctx)
}

func (s *Scheduler) Persist(ctx context.Context) error {
	s.logger.Infof(providers.TypeApp, "Persisting site stats...")
	err := s.persist(ctx)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

// persist skips the save when ctx ended while waiting for a running one.
func (s *Scheduler) persist(ctx context.Context) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := s.persister.Persist(ctx)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.StatsServiceInterface, persister interfaces.PersisterInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		service:   service,
		persister: persister,
		metrics:   metrics,
	}
}
