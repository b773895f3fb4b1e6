package kvstore

import (
	"akd/internal/kvstore/interfaces"
	"akd/internal/providers"
	"akd/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

// Scheduler owns the persistence cadence of the file store: restore on
// boot, periodic flush while running, final flush on shutdown.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	store   *FileStore
	metrics providers.MetricsProviderInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if !s.store.Dirty() {
			return
		}
		start := time.Now()
		err := s.store.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting store: %s", err)
			return
		}
		s.metrics.ObservePersistenceDuration(time.Since(start))
		s.metrics.SetStoreKeysTotal(s.store.Len())
		s.logger.Infof(providers.TypeApp, "Persisted store to file %s", s.config.Persistence.FilePath)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	err := s.store.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	s.metrics.SetStoreKeysTotal(s.store.Len())
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	start := time.Now()
	err := s.store.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting store: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store *FileStore, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		store:   store,
		metrics: metrics,
	}
}
