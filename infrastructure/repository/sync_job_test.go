package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/database/postgres"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/internal/domain"
)

// stubDB records every statement the repository executes and serves queued
// rows back to queries, so the SQL built by the repository can be asserted
// without a live database.
type stubDB struct {
	statements []recordedStatement
	columns    []string
	rows       [][]driver.Value
}

type recordedStatement struct {
	query string
	args  []driver.Value
}

type stubConnector struct{ db *stubDB }

func (c *stubConnector) Connect(context.Context) (driver.Conn, error) {
	return &stubConn{db: c.db}, nil
}

func (c *stubConnector) Driver() driver.Driver { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("use OpenDB")
}

type stubConn struct{ db *stubDB }

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{db: c.db, query: query}, nil
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

type stubStmt struct {
	db    *stubDB
	query string
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return -1 }

func (s *stubStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.db.statements = append(s.db.statements, recordedStatement{query: s.query, args: args})
	return driver.RowsAffected(1), nil
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.db.statements = append(s.db.statements, recordedStatement{query: s.query, args: args})
	return &stubRows{columns: s.db.columns, rows: s.db.rows}, nil
}

type stubRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *stubRows) Columns() []string { return r.columns }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

func newSyncJobRepository(t *testing.T, db *stubDB) repository.SyncJobRepository {
	t.Helper()

	sqlDB := sql.OpenDB(&stubConnector{db: db})
	t.Cleanup(func() { sqlDB.Close() })

	return repository.NewSyncJobRepository(&postgres.Connection{DB: sqlDB})
}

func TestCreate_DefaultsNewJobsToPending(t *testing.T) {
	db := &stubDB{}
	repo := newSyncJobRepository(t, db)

	connID := "conn-1"
	job := &domain.SyncJob{
		ConnectionID: &connID,
		JobType:      domain.SyncJobDaily,
		DateFrom:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:       time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Create(job))

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, domain.SyncJobPending, job.Status)

	require.Len(t, db.statements, 1)
	stmt := db.statements[0]
	assert.Contains(t, stmt.query, "INSERT INTO sync_jobs")
	assert.Contains(t, stmt.args, driver.Value(string(domain.SyncJobPending)))
	assert.Contains(t, stmt.args, driver.Value("DAILY"))
}

func TestMarkRunning_WritesRunningStatus(t *testing.T) {
	db := &stubDB{}
	repo := newSyncJobRepository(t, db)

	startedAt := time.Date(2024, 3, 14, 6, 0, 0, 0, time.UTC)

	require.NoError(t, repo.MarkRunning("job-1", startedAt))

	require.Len(t, db.statements, 1)
	stmt := db.statements[0]
	assert.Contains(t, stmt.query, "UPDATE sync_jobs")
	assert.Contains(t, stmt.args, driver.Value(string(domain.SyncJobRunning)))
	assert.Contains(t, stmt.args, driver.Value("job-1"))
}

func TestListIncomplete_SelectsPendingAndRunning(t *testing.T) {
	db := &stubDB{columns: syncJobColumns()}
	repo := newSyncJobRepository(t, db)

	jobs, err := repo.ListIncomplete()

	require.NoError(t, err)
	assert.Empty(t, jobs)

	require.Len(t, db.statements, 1)
	stmt := db.statements[0]
	assert.Contains(t, stmt.query, "sj.status IN ($1,$2)")
	assert.Equal(t, []driver.Value{
		string(domain.SyncJobPending),
		string(domain.SyncJobRunning),
	}, stmt.args)
}

func TestHasPendingOrRunning_FiltersByConnectionStatusAndType(t *testing.T) {
	db := &stubDB{
		columns: []string{"count"},
		rows:    [][]driver.Value{{int64(1)}},
	}
	repo := newSyncJobRepository(t, db)

	open, err := repo.HasPendingOrRunning("conn-1", []domain.SyncJobType{domain.SyncJobInitial})

	require.NoError(t, err)
	assert.True(t, open)

	require.Len(t, db.statements, 1)
	stmt := db.statements[0]
	assert.Equal(t, []driver.Value{
		"conn-1",
		string(domain.SyncJobPending),
		string(domain.SyncJobRunning),
		string(domain.SyncJobInitial),
	}, stmt.args)
}

func syncJobColumns() []string {
	return []string{
		"id", "connection_id", "job_type", "status", "date_from", "date_to",
		"records_fetched", "records_processed", "error_message", "metadata",
		"started_at", "completed_at", "created_at",
	}
}
