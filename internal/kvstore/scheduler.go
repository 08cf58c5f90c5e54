package kvstore

import (
	"github.com/roylee0704/gron"
	"spotr/internal/providers"
	"spotr/internal/structures"
	"sync"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

// Scheduler periodically flushes a persistent backend and restores it on boot.
// For non-persistent backends every method is a no-op.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	backend Persistent
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	if s.backend == nil || s.config.Storage.FlushInterval <= 0 {
		return
	}
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Storage.FlushInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.backend.Flush(); err != nil {
			s.logger.Errorf(providers.TypeStorage, "Error while flushing data: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeStorage, "Flushed data to %s", s.config.Storage.FilePath)
	})
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Restore()
}

func (s *Scheduler) Persist() error {
	if s.backend == nil {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStorage, "Flushing store to %s...", s.config.Storage.FilePath)
	if err := s.backend.Flush(); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error while flushing data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, backend Backend) SchedulerInterface {
	s := &Scheduler{
		config: config,
		logger: logger,
	}
	if p, ok := backend.(Persistent); ok && config.Storage.Driver == DriverFile {
		s.backend = p
	}
	return s
}
