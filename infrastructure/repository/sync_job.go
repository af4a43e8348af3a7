package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/creative-performance-api/infrastructure/database/postgres"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

const (
	syncJobsTable   = "sync_jobs sj"
	syncJobColumns  = "sj.id, sj.connection_id, sj.job_type, sj.status, sj.date_from, sj.date_to, sj.records_fetched, sj.records_processed, sj.error_message, sj.metadata, sj.started_at, sj.completed_at, sj.created_at"
	defaultJobLimit = 50
)

type SyncJobRepository interface {
	Create(job *domain.SyncJob) error
	GetByID(id string) (*domain.SyncJob, error)
	MarkRunning(id string, startedAt time.Time) error
	Finalize(job *domain.SyncJob) error
	ListByConnection(connectionID string, limit uint64) ([]*domain.SyncJob, error)
	ListIncomplete() ([]*domain.SyncJob, error)
	HasPendingOrRunning(connectionID string, jobTypes []domain.SyncJobType) (bool, error)
}

type syncJobRepository struct {
	conn *postgres.Connection
}

func NewSyncJobRepository(conn *postgres.Connection) SyncJobRepository {
	return &syncJobRepository{
		conn: conn,
	}
}

func (r *syncJobRepository) Create(job *domain.SyncJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = domain.SyncJobPending
	}

	metadata, err := utils.MarshalJSONB(job.Metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	query, args, err := squirrel.
		Insert("sync_jobs").
		Columns(
			"id",
			"connection_id",
			"job_type",
			"status",
			"date_from",
			"date_to",
			"metadata",
		).
		Values(
			job.ID,
			job.ConnectionID,
			string(job.JobType),
			string(job.Status),
			job.DateFrom.Format(utils.DateLayout),
			job.DateTo.Format(utils.DateLayout),
			metadata,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

func (r *syncJobRepository) GetByID(id string) (*domain.SyncJob, error) {
	query, args, err := squirrel.
		Select(syncJobColumns).
		From(syncJobsTable).
		Where(squirrel.Eq{"sj.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	job, err := scanSyncJob(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning sync job: %w", err)
	}

	return job, nil
}

func (r *syncJobRepository) MarkRunning(id string, startedAt time.Time) error {
	query, args, err := squirrel.
		Update("sync_jobs").
		Set("status", string(domain.SyncJobRunning)).
		Set("started_at", startedAt).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

// Finalize writes the terminal state of a job: status, counters, error
// message and completion timestamp.
func (r *syncJobRepository) Finalize(job *domain.SyncJob) error {
	query, args, err := squirrel.
		Update("sync_jobs").
		Set("status", string(job.Status)).
		Set("records_fetched", job.RecordsFetched).
		Set("records_processed", job.RecordsProcessed).
		Set("error_message", job.ErrorMessage).
		Set("completed_at", job.CompletedAt).
		Where(squirrel.Eq{"id": job.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

func (r *syncJobRepository) ListByConnection(connectionID string, limit uint64) ([]*domain.SyncJob, error) {
	if limit == 0 {
		limit = defaultJobLimit
	}

	query, args, err := squirrel.
		Select(syncJobColumns).
		From(syncJobsTable).
		Where(squirrel.Eq{"sj.connection_id": connectionID}).
		OrderBy("sj.created_at DESC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	return r.query(query, args)
}

// ListIncomplete returns jobs still pending or running, oldest first. Used
// by the startup reconciliation to resume work interrupted by a restart.
func (r *syncJobRepository) ListIncomplete() ([]*domain.SyncJob, error) {
	query, args, err := squirrel.
		Select(syncJobColumns).
		From(syncJobsTable).
		Where(squirrel.Eq{"sj.status": []string{
			string(domain.SyncJobPending),
			string(domain.SyncJobRunning),
		}}).
		OrderBy("sj.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	return r.query(query, args)
}

func (r *syncJobRepository) HasPendingOrRunning(connectionID string, jobTypes []domain.SyncJobType) (bool, error) {
	types := make([]string, 0, len(jobTypes))
	for _, jt := range jobTypes {
		types = append(types, string(jt))
	}

	builder := squirrel.
		Select("COUNT(1)").
		From(syncJobsTable).
		Where(squirrel.Eq{"sj.connection_id": connectionID}).
		Where(squirrel.Eq{"sj.status": []string{
			string(domain.SyncJobPending),
			string(domain.SyncJobRunning),
		}})

	if len(types) > 0 {
		builder = builder.Where(squirrel.Eq{"sj.job_type": types})
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return false, fmt.Errorf("building query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("scanning count: %w", err)
	}

	return count > 0, nil
}

func (r *syncJobRepository) query(query string, args []interface{}) ([]*domain.SyncJob, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.SyncJob, 0)
	for rows.Next() {
		job, err := scanSyncJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sync job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return jobs, nil
}

func scanSyncJob(s rowScanner) (*domain.SyncJob, error) {
	job := &domain.SyncJob{}
	var (
		connectionID sql.NullString
		errorMessage sql.NullString
		metadata     []byte
		startedAt    sql.NullTime
		completedAt  sql.NullTime
	)

	err := s.Scan(
		&job.ID,
		&connectionID,
		&job.JobType,
		&job.Status,
		&job.DateFrom,
		&job.DateTo,
		&job.RecordsFetched,
		&job.RecordsProcessed,
		&errorMessage,
		&metadata,
		&startedAt,
		&completedAt,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if connectionID.Valid {
		job.ConnectionID = &connectionID.String
	}
	if errorMessage.Valid {
		job.ErrorMessage = &errorMessage.String
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if err := utils.UnmarshalJSONB(metadata, &job.Metadata); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}

	return job, nil
}
