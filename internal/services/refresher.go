package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefresherService rebuilds the dataset on a schedule so the dashboard
// picks up edits to the source files without a restart.
type RefresherService struct {
	dataset  *DatasetService
	logger   *logrus.Logger
	cron     *cron.Cron
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastError string
}

// NewRefresherService creates a refresher around the dataset service.
func NewRefresherService(dataset *DatasetService, logger *logrus.Logger, interval time.Duration) *RefresherService {
	return &RefresherService{
		dataset:  dataset,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start schedules the periodic rebuild.
func (s *RefresherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.rebuild); err != nil {
		return fmt.Errorf("failed to schedule dataset refresh: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Dataset refresher started, interval %s", s.interval)
	return nil
}

// Stop halts the schedule, waiting for a running rebuild to finish.
func (s *RefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("Dataset refresher stopped")
}

// RebuildNow triggers an immediate rebuild in the background.
func (s *RefresherService) RebuildNow() {
	go s.rebuild()
}

// Status reports the last scheduled run.
type RefresherStatus struct {
	Running   bool      `json:"running"`
	Interval  string    `json:"interval"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
}

func (s *RefresherService) Status() RefresherStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RefresherStatus{
		Running:   s.isRunning,
		Interval:  s.interval.String(),
		LastRun:   s.lastRun,
		LastError: s.lastError,
	}
}

func (s *RefresherService) rebuild() {
	started := time.Now()
	_, err := s.dataset.Build()

	s.mu.Lock()
	s.lastRun = started
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Errorf("Scheduled dataset rebuild failed: %v", err)
		return
	}
	s.logger.Infof("Scheduled dataset rebuild finished in %s", time.Since(started).Round(time.Millisecond))
}
