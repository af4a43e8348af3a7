package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/internal/usecases/harmonizing"
	"github.com/vfg2006/creative-performance-api/pkg/secrets"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

// TokenRefresher exchanges a refresh token for a fresh access token. Only the
// Google connector needs it; the other platforms issue long-lived tokens.
type TokenRefresher interface {
	Refresh(refreshToken string) (accessToken string, expiresIn int, err error)
}

// SyncRunner drives the full pipeline for one connection and one date range:
// create the job record, fetch and upsert raw rows chunk by chunk, backfill
// creative metadata, then harmonize what landed.
type SyncRunner interface {
	Enqueue(conn *domain.Connection, jobType domain.SyncJobType) (*domain.SyncJob, error)
	Run(job *domain.SyncJob) error
	EnqueueAndRun(conn *domain.Connection, jobType domain.SyncJobType)
}

type syncRunner struct {
	cfg            *config.Config
	connectionRepo repository.ConnectionRepository
	syncJobRepo    repository.SyncJobRepository
	rawRepos       map[domain.Platform]repository.RawPerformanceRepository
	ingestors      map[domain.Platform]integrator.Ingestor
	harmonizer     harmonizing.Service
	box            *secrets.Box
	refresher      TokenRefresher

	// One pipeline run per connection at a time. Platform rate limits are
	// per account, so concurrent runs for the same connection only fight
	// each other.
	runningMutex sync.Mutex
	running      map[string]bool
}

func NewSyncRunner(
	cfg *config.Config,
	connectionRepo repository.ConnectionRepository,
	syncJobRepo repository.SyncJobRepository,
	rawRepos map[domain.Platform]repository.RawPerformanceRepository,
	ingestors map[domain.Platform]integrator.Ingestor,
	harmonizer harmonizing.Service,
	box *secrets.Box,
	refresher TokenRefresher,
) SyncRunner {
	return &syncRunner{
		cfg:            cfg,
		connectionRepo: connectionRepo,
		syncJobRepo:    syncJobRepo,
		rawRepos:       rawRepos,
		ingestors:      ingestors,
		harmonizer:     harmonizer,
		box:            box,
		refresher:      refresher,
		running:        make(map[string]bool),
	}
}

// Enqueue creates a PENDING job for the connection. Initial and historical
// stages are deduplicated: a second enqueue while one is still pending or
// running returns the existing nil job without creating another.
func (s *syncRunner) Enqueue(conn *domain.Connection, jobType domain.SyncJobType) (*domain.SyncJob, error) {
	stage := jobType
	if jobType == domain.SyncJobManual {
		stage = s.outstandingStage(conn)
	}

	if stage == domain.SyncJobInitial || stage == domain.SyncJobHistorical {
		busy, err := s.syncJobRepo.HasPendingOrRunning(conn.ID, []domain.SyncJobType{stage, domain.SyncJobManual})
		if err != nil {
			return nil, errors.Wrap(err, "checking for in-flight jobs")
		}
		if busy {
			logrus.WithFields(logrus.Fields{
				"connection_id": conn.ID,
				"stage":         stage,
			}).Info("sync: stage already pending or running, not enqueueing again")
			return nil, nil
		}
	}

	window := syncWindow(stage, s.cfg.Sync, time.Now().UTC())

	job := &domain.SyncJob{
		ConnectionID: &conn.ID,
		JobType:      jobType,
		Status:       domain.SyncJobPending,
		DateFrom:     window.From,
		DateTo:       window.To,
	}
	if jobType == domain.SyncJobManual {
		job.Metadata = map[string]any{"stage": string(stage)}
	}

	if err := s.syncJobRepo.Create(job); err != nil {
		return nil, errors.Wrap(err, "creating sync job")
	}

	logrus.WithFields(logrus.Fields{
		"job_id":        job.ID,
		"connection_id": conn.ID,
		"job_type":      jobType,
		"date_from":     window.From.Format(utils.DateLayout),
		"date_to":       window.To.Format(utils.DateLayout),
	}).Info("sync: job enqueued")

	return job, nil
}

// EnqueueAndRun is the fire-and-forget entry used by triggers and handlers.
func (s *syncRunner) EnqueueAndRun(conn *domain.Connection, jobType domain.SyncJobType) {
	job, err := s.Enqueue(conn, jobType)
	if err != nil {
		logrus.WithError(err).WithField("connection_id", conn.ID).Error("sync: could not enqueue job")
		return
	}
	if job == nil {
		return
	}

	if err := s.Run(job); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"job_id":        job.ID,
			"connection_id": conn.ID,
		}).Error("sync: job run failed")
	}
}

func (s *syncRunner) Run(job *domain.SyncJob) error {
	conn, stage, err := s.run(job)
	if err != nil {
		return err
	}

	// Initial success unlocks the long historical crawl. Callers already run
	// jobs off the request path, so chaining synchronously keeps the two
	// stages strictly ordered per connection.
	if conn != nil && stage == domain.SyncJobInitial && job.Status == domain.SyncJobCompleted {
		s.EnqueueAndRun(conn, domain.SyncJobHistorical)
	}

	return nil
}

func (s *syncRunner) run(job *domain.SyncJob) (*domain.Connection, domain.SyncJobType, error) {
	if job.ConnectionID == nil {
		return nil, "", errors.New("sync job has no connection")
	}
	connectionID := *job.ConnectionID

	if !s.tryAcquire(connectionID) {
		// The job stays PENDING; startup reconciliation or the next manual
		// trigger picks it up again.
		logrus.WithFields(logrus.Fields{
			"job_id":        job.ID,
			"connection_id": connectionID,
		}).Info("sync: connection already syncing, leaving job pending")
		return nil, "", nil
	}
	defer s.release(connectionID)

	conn, err := s.connectionRepo.GetByID(connectionID)
	if err != nil {
		return nil, "", errors.Wrap(err, "loading connection")
	}
	if conn == nil {
		return nil, "", s.failJob(job, nil, "connection not found")
	}
	if !conn.IsActive {
		return nil, "", s.failJob(job, nil, "connection is deactivated")
	}

	ingestor, ok := s.ingestors[conn.Platform]
	if !ok {
		return nil, "", s.failJob(job, conn, fmt.Sprintf("no ingestion adapter for platform %s", conn.Platform))
	}
	rawRepo, ok := s.rawRepos[conn.Platform]
	if !ok {
		return nil, "", s.failJob(job, conn, fmt.Sprintf("no raw repository for platform %s", conn.Platform))
	}

	startedAt := time.Now().UTC()
	if err := s.syncJobRepo.MarkRunning(job.ID, startedAt); err != nil {
		return nil, "", errors.Wrap(err, "marking job running")
	}
	job.Status = domain.SyncJobRunning
	job.StartedAt = &startedAt

	logrus.WithFields(logrus.Fields{
		"job_id":        job.ID,
		"connection_id": conn.ID,
		"platform":      conn.Platform,
		"job_type":      job.JobType,
		"date_from":     job.DateFrom.Format(utils.DateLayout),
		"date_to":       job.DateTo.Format(utils.DateLayout),
	}).Info("sync: job started")

	accessToken, err := s.accessToken(conn)
	if err != nil {
		return nil, "", s.failJob(job, conn, errors.Wrap(err, "resolving access token").Error())
	}

	fetched, upserted, chunkErrs := s.ingestRange(conn, ingestor, rawRepo, accessToken, job)

	if len(chunkErrs) > 0 && fetched == 0 {
		job.RecordsFetched = 0
		return nil, "", s.failJob(job, conn, strings.Join(chunkErrs, "; "))
	}

	if fetched > 0 || job.JobType == domain.SyncJobManual {
		s.backfillCreatives(conn, ingestor, rawRepo, accessToken)
	}

	dateFrom, dateTo := job.DateFrom, job.DateTo
	processed, err := s.harmonizer.Harmonize(conn, &dateFrom, &dateTo)
	if err != nil {
		job.RecordsFetched = fetched
		return nil, "", s.failJob(job, conn, errors.Wrap(err, "harmonizing").Error())
	}

	job.RecordsFetched = fetched
	job.RecordsProcessed = processed

	completedAt := time.Now().UTC()
	job.Status = domain.SyncJobCompleted
	job.CompletedAt = &completedAt
	if len(chunkErrs) > 0 {
		msg := fmt.Sprintf("completed with partial chunk failures: %s", strings.Join(chunkErrs, "; "))
		job.ErrorMessage = &msg
	}

	if err := s.syncJobRepo.Finalize(job); err != nil {
		return nil, "", errors.Wrap(err, "finalizing job")
	}

	stage := s.effectiveStage(job, conn)
	s.recordSuccess(conn, stage, completedAt)

	logrus.WithFields(logrus.Fields{
		"job_id":      job.ID,
		"platform":    conn.Platform,
		"fetched":     fetched,
		"upserted":    upserted,
		"harmonized":  processed,
		"chunk_fails": len(chunkErrs),
		"duration":    completedAt.Sub(startedAt).String(),
	}).Info("sync: job completed")

	return conn, stage, nil
}

func (s *syncRunner) tryAcquire(connectionID string) bool {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if s.running[connectionID] {
		return false
	}
	s.running[connectionID] = true
	return true
}

func (s *syncRunner) release(connectionID string) {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()
	delete(s.running, connectionID)
}

func (s *syncRunner) ingestRange(
	conn *domain.Connection,
	ingestor integrator.Ingestor,
	rawRepo repository.RawPerformanceRepository,
	accessToken string,
	job *domain.SyncJob,
) (fetched, upserted int, chunkErrs []string) {
	chunks := utils.ChunkRange(job.DateFrom, job.DateTo, s.cfg.Sync.ChunkDays)

	for _, chunk := range chunks {
		rows, err := ingestor.FetchPerformance(conn, accessToken, chunk)
		if err != nil {
			// A failed chunk does not abort the rest of the range; the
			// failure lands in the job record instead.
			logrus.WithError(err).WithFields(logrus.Fields{
				"job_id":     job.ID,
				"platform":   conn.Platform,
				"chunk_from": chunk.From.Format(utils.DateLayout),
				"chunk_to":   chunk.To.Format(utils.DateLayout),
			}).Error("sync: chunk fetch failed")
			chunkErrs = append(chunkErrs, fmt.Sprintf(
				"%s..%s: %s",
				chunk.From.Format(utils.DateLayout),
				chunk.To.Format(utils.DateLayout),
				err.Error(),
			))
			continue
		}

		if len(rows) == 0 {
			continue
		}

		for _, row := range rows {
			row.SyncJobID = &job.ID
		}

		count, err := rawRepo.BulkUpsert(rows)
		if err != nil {
			chunkErrs = append(chunkErrs, fmt.Sprintf(
				"%s..%s: upsert: %s",
				chunk.From.Format(utils.DateLayout),
				chunk.To.Format(utils.DateLayout),
				err.Error(),
			))
			continue
		}

		fetched += len(rows)
		upserted += count
	}

	return fetched, upserted, chunkErrs
}

// backfillCreatives resolves creative metadata for raw rows that landed
// without any. Failures are logged only: missing thumbnails must never block
// the metrics pipeline.
func (s *syncRunner) backfillCreatives(
	conn *domain.Connection,
	ingestor integrator.Ingestor,
	rawRepo repository.RawPerformanceRepository,
	accessToken string,
) {
	adIDs, err := rawRepo.ListAdIDsMissingCreative(conn.ID)
	if err != nil {
		logrus.WithError(err).WithField("connection_id", conn.ID).Error("sync: listing ads missing creatives failed")
		return
	}
	if len(adIDs) == 0 {
		return
	}

	updates, err := ingestor.BackfillCreatives(conn, accessToken, adIDs)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"connection_id": conn.ID,
			"platform":      conn.Platform,
			"ads":           len(adIDs),
		}).Error("sync: creative backfill failed")
		return
	}

	applied := 0
	for adID, update := range updates {
		if err := rawRepo.UpdateCreative(conn.ID, adID, update); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"connection_id": conn.ID,
				"ad_id":         adID,
			}).Error("sync: applying creative update failed")
			continue
		}
		applied++
	}

	logrus.WithFields(logrus.Fields{
		"connection_id": conn.ID,
		"platform":      conn.Platform,
		"missing":       len(adIDs),
		"resolved":      len(updates),
		"applied":       applied,
	}).Info("sync: creative backfill finished")
}

func (s *syncRunner) failJob(job *domain.SyncJob, conn *domain.Connection, message string) error {
	completedAt := time.Now().UTC()
	job.Status = domain.SyncJobFailed
	job.CompletedAt = &completedAt
	job.ErrorMessage = &message

	if err := s.syncJobRepo.Finalize(job); err != nil {
		logrus.WithError(err).WithField("job_id", job.ID).Error("sync: could not finalize failed job")
	}

	if conn != nil {
		if err := s.connectionRepo.UpdateSyncStatus(conn.ID, domain.SyncStatusError); err != nil {
			logrus.WithError(err).WithField("connection_id", conn.ID).Error("sync: could not flag connection error")
		}
	}

	logrus.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"job_type": job.JobType,
		"error":    message,
	}).Error("sync: job failed")

	return nil
}

func (s *syncRunner) recordSuccess(conn *domain.Connection, stage domain.SyncJobType, completedAt time.Time) {
	conn.LastSyncedAt = &completedAt
	conn.SyncStatus = domain.SyncStatusActive

	switch stage {
	case domain.SyncJobInitial:
		conn.InitialSyncCompleted = true
	case domain.SyncJobHistorical:
		conn.HistoricalSyncCompleted = true
	}

	if err := s.connectionRepo.UpdateSyncProgress(conn); err != nil {
		logrus.WithError(err).WithField("connection_id", conn.ID).Error("sync: could not record connection progress")
	}
}

// effectiveStage maps a job back to the pipeline stage it executed. Manual
// jobs carry their resolved stage in metadata; the connection flags are the
// fallback for older rows.
func (s *syncRunner) effectiveStage(job *domain.SyncJob, conn *domain.Connection) domain.SyncJobType {
	if job.JobType != domain.SyncJobManual {
		return job.JobType
	}
	if stage, ok := job.Metadata["stage"].(string); ok && stage != "" {
		return domain.SyncJobType(stage)
	}
	return s.outstandingStage(conn)
}

// outstandingStage picks what a manual sync should do next: finish onboarding
// stages in order, then behave like a daily refresh.
func (s *syncRunner) outstandingStage(conn *domain.Connection) domain.SyncJobType {
	switch {
	case !conn.InitialSyncCompleted:
		return domain.SyncJobInitial
	case !conn.HistoricalSyncCompleted:
		return domain.SyncJobHistorical
	default:
		return domain.SyncJobDaily
	}
}

func (s *syncRunner) accessToken(conn *domain.Connection) (string, error) {
	if conn.Platform == domain.PlatformYouTube && tokenExpired(conn) {
		return s.refreshToken(conn)
	}

	token, err := s.box.Open(conn.AccessTokenEncrypted)
	if err != nil {
		return "", errors.Wrap(err, "opening access token")
	}
	return token, nil
}

// refreshToken rotates an expired Google access token through the refresh
// grant and persists the re-sealed replacement.
func (s *syncRunner) refreshToken(conn *domain.Connection) (string, error) {
	if s.refresher == nil {
		return "", errors.New("access token expired and no token refresher configured")
	}
	if conn.RefreshTokenEncrypted == "" {
		return "", errors.New("access token expired and connection has no refresh token")
	}

	refreshToken, err := s.box.Open(conn.RefreshTokenEncrypted)
	if err != nil {
		return "", errors.Wrap(err, "opening refresh token")
	}

	accessToken, expiresIn, err := s.refresher.Refresh(refreshToken)
	if err != nil {
		return "", errors.Wrap(err, "refreshing access token")
	}

	sealed, err := s.box.Seal(accessToken)
	if err != nil {
		return "", errors.Wrap(err, "sealing refreshed token")
	}

	expiry := time.Now().UTC().Add(time.Duration(expiresIn) * time.Second)
	if err := s.connectionRepo.UpdateTokens(conn.ID, sealed, &expiry); err != nil {
		return "", errors.Wrap(err, "persisting refreshed token")
	}

	conn.AccessTokenEncrypted = sealed
	conn.TokenExpiry = &expiry

	logrus.WithFields(logrus.Fields{
		"connection_id": conn.ID,
		"token_expiry":  expiry.Format(time.RFC3339),
	}).Info("sync: access token refreshed")

	return accessToken, nil
}

// tokenExpired treats tokens inside a five-minute window of their expiry as
// already expired, so a long chunked crawl does not start on a dying token.
func tokenExpired(conn *domain.Connection) bool {
	if conn.TokenExpiry == nil {
		return false
	}
	return time.Now().UTC().After(conn.TokenExpiry.Add(-5 * time.Minute))
}
