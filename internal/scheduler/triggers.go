package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
)

// TriggerStatus is the operator-facing view of one registered daily trigger.
type TriggerStatus struct {
	ConnectionID string     `json:"connection_id"`
	Timezone     string     `json:"timezone"`
	TriggerTime  string     `json:"trigger_time"`
	NextRun      *time.Time `json:"next_run,omitempty"`
}

// TriggerService keeps one daily trigger per active connection, firing at the
// configured local time in the connection's own timezone. Each connection
// gets its own gocron scheduler because gocron binds the timezone at
// scheduler level, not per job.
type TriggerService struct {
	cfg            *config.Config
	connectionRepo repository.ConnectionRepository
	syncJobRepo    repository.SyncJobRepository
	runner         SyncRunner

	mutex      sync.Mutex
	schedulers map[string]*gocron.Scheduler
}

func NewTriggerService(
	cfg *config.Config,
	connectionRepo repository.ConnectionRepository,
	syncJobRepo repository.SyncJobRepository,
	runner SyncRunner,
) *TriggerService {
	return &TriggerService{
		cfg:            cfg,
		connectionRepo: connectionRepo,
		syncJobRepo:    syncJobRepo,
		runner:         runner,
		schedulers:     make(map[string]*gocron.Scheduler),
	}
}

// Start reconciles persisted state into the in-memory trigger registry and
// keeps running until the context is cancelled.
func (s *TriggerService) Start(ctx context.Context) error {
	if err := s.reconcile(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		logrus.Info("scheduler: stopping daily triggers")
		s.Shutdown()
	}()

	return nil
}

// reconcile rebuilds the registry from the database on startup: registers a
// trigger for every active connection, resumes jobs interrupted by the last
// shutdown and kicks off onboarding for connections that never finished it.
func (s *TriggerService) reconcile() error {
	connections, err := s.connectionRepo.ListActive()
	if err != nil {
		return errors.Wrap(err, "listing active connections")
	}

	for _, conn := range connections {
		s.ScheduleConnection(conn)
	}

	incomplete, err := s.syncJobRepo.ListIncomplete()
	if err != nil {
		return errors.Wrap(err, "listing incomplete jobs")
	}

	for _, job := range incomplete {
		// Re-running an interrupted RUNNING job is safe: raw upserts and
		// harmonized writes are idempotent on their natural keys.
		go func(job *domain.SyncJob) {
			if err := s.runner.Run(job); err != nil {
				logrus.WithError(err).WithField("job_id", job.ID).Error("scheduler: resumed job failed")
			}
		}(job)
	}

	onboarding := 0
	for _, conn := range connections {
		if conn.InitialSyncCompleted {
			continue
		}
		onboarding++
		go s.runner.EnqueueAndRun(conn, domain.SyncJobInitial)
	}

	logrus.WithFields(logrus.Fields{
		"connections": len(connections),
		"resumed":     len(incomplete),
		"onboarding":  onboarding,
	}).Info("scheduler: startup reconciliation finished")

	return nil
}

// ScheduleConnection registers (or replaces) the connection's daily trigger.
func (s *TriggerService) ScheduleConnection(conn *domain.Connection) {
	location, err := time.LoadLocation(conn.Timezone)
	if err != nil || conn.Timezone == "" {
		if conn.Timezone != "" {
			logrus.WithFields(logrus.Fields{
				"connection_id": conn.ID,
				"timezone":      conn.Timezone,
			}).Warn("scheduler: unknown timezone, falling back to UTC")
		}
		location = time.UTC
	}

	triggerTime := s.cfg.Sync.DailyTriggerTime
	if triggerTime == "" {
		triggerTime = "00:10"
	}

	connectionID := conn.ID

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, ok := s.schedulers[connectionID]; ok {
		existing.Stop()
		delete(s.schedulers, connectionID)
	}

	sched := gocron.NewScheduler(location)
	_, err = sched.Every(1).Day().At(triggerTime).Do(func() {
		s.runDaily(connectionID)
	})
	if err != nil {
		logrus.WithError(err).WithField("connection_id", connectionID).Error("scheduler: could not register daily trigger")
		return
	}

	sched.StartAsync()
	s.schedulers[connectionID] = sched

	logrus.WithFields(logrus.Fields{
		"connection_id": connectionID,
		"timezone":      location.String(),
		"trigger_time":  triggerTime,
	}).Info("scheduler: daily trigger registered")
}

// RemoveSchedule drops the connection's daily trigger, if any.
func (s *TriggerService) RemoveSchedule(connectionID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if sched, ok := s.schedulers[connectionID]; ok {
		sched.Stop()
		delete(s.schedulers, connectionID)
		logrus.WithField("connection_id", connectionID).Info("scheduler: daily trigger removed")
	}
}

// Shutdown stops every registered trigger.
func (s *TriggerService) Shutdown() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for connectionID, sched := range s.schedulers {
		sched.Stop()
		delete(s.schedulers, connectionID)
	}
}

// Status reports the registered triggers and their next fire times.
func (s *TriggerService) Status() []TriggerStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	statuses := make([]TriggerStatus, 0, len(s.schedulers))
	for connectionID, sched := range s.schedulers {
		status := TriggerStatus{
			ConnectionID: connectionID,
			Timezone:     sched.Location().String(),
			TriggerTime:  s.cfg.Sync.DailyTriggerTime,
		}
		if jobs := sched.Jobs(); len(jobs) > 0 {
			next := jobs[0].NextRun()
			status.NextRun = &next
		}
		statuses = append(statuses, status)
	}

	return statuses
}

// runDaily re-reads the connection before each fire so deactivation between
// fires wins even if the trigger was never removed.
func (s *TriggerService) runDaily(connectionID string) {
	conn, err := s.connectionRepo.GetByID(connectionID)
	if err != nil {
		logrus.WithError(err).WithField("connection_id", connectionID).Error("scheduler: loading connection for daily sync failed")
		return
	}
	if conn == nil || !conn.IsActive {
		logrus.WithField("connection_id", connectionID).Warn("scheduler: connection gone or inactive, removing trigger")
		s.RemoveSchedule(connectionID)
		return
	}

	s.runner.EnqueueAndRun(conn, domain.SyncJobDaily)
}
