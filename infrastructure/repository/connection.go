package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/creative-performance-api/infrastructure/database/postgres"
	"github.com/vfg2006/creative-performance-api/internal/domain"
)

const (
	connectionsTable   = "platform_connections pc"
	connectionColumns  = "pc.id, pc.organization_id, pc.platform, pc.ad_account_id, pc.ad_account_name, pc.currency, pc.timezone, pc.access_token_encrypted, pc.refresh_token_encrypted, pc.token_expiry, pc.sync_status, pc.last_synced_at, pc.initial_sync_completed, pc.historical_sync_completed, pc.is_active, pc.created_at, pc.updated_at"
	organizationsTable = "organizations o"
)

type ConnectionRepository interface {
	Create(conn *domain.Connection) error
	GetByID(id string) (*domain.Connection, error)
	GetByAccount(organizationID string, platform domain.Platform, adAccountID string) (*domain.Connection, error)
	ListActive() ([]*domain.Connection, error)
	ListByOrganization(organizationID string) ([]*domain.Connection, error)
	UpdateSyncProgress(conn *domain.Connection) error
	UpdateSyncStatus(id string, status domain.SyncStatus) error
	UpdateTokens(id string, accessTokenEncrypted string, tokenExpiry *time.Time) error
	Deactivate(id string) error
	GetOrganization(id string) (*domain.Organization, error)
}

type connectionRepository struct {
	conn *postgres.Connection
}

func NewConnectionRepository(conn *postgres.Connection) ConnectionRepository {
	return &connectionRepository{
		conn: conn,
	}
}

func (r *connectionRepository) Create(conn *domain.Connection) error {
	if conn.ID == "" {
		conn.ID = uuid.New().String()
	}
	if conn.SyncStatus == "" {
		conn.SyncStatus = domain.SyncStatusPending
	}

	query, args, err := squirrel.
		Insert("platform_connections").
		Columns(
			"id", "organization_id", "platform", "ad_account_id", "ad_account_name",
			"currency", "timezone", "access_token_encrypted", "refresh_token_encrypted",
			"token_expiry", "sync_status", "initial_sync_completed",
			"historical_sync_completed", "is_active",
		).
		Values(
			conn.ID, conn.OrganizationID, string(conn.Platform), conn.AdAccountID, conn.AdAccountName,
			conn.Currency, conn.Timezone, conn.AccessTokenEncrypted, nullableString(conn.RefreshTokenEncrypted),
			conn.TokenExpiry, string(conn.SyncStatus), conn.InitialSyncCompleted,
			conn.HistoricalSyncCompleted, conn.IsActive,
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

func (r *connectionRepository) GetByID(id string) (*domain.Connection, error) {
	query, args, err := squirrel.
		Select(connectionColumns).
		From(connectionsTable).
		Where(squirrel.Eq{"pc.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	connection, err := scanConnection(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning connection: %w", err)
	}

	return connection, nil
}

func (r *connectionRepository) GetByAccount(organizationID string, platform domain.Platform, adAccountID string) (*domain.Connection, error) {
	query, args, err := squirrel.
		Select(connectionColumns).
		From(connectionsTable).
		Where(squirrel.Eq{
			"pc.organization_id": organizationID,
			"pc.platform":        string(platform),
			"pc.ad_account_id":   adAccountID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	connection, err := scanConnection(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning connection: %w", err)
	}

	return connection, nil
}

func (r *connectionRepository) ListActive() ([]*domain.Connection, error) {
	return r.list(squirrel.Eq{"pc.is_active": true})
}

func (r *connectionRepository) ListByOrganization(organizationID string) ([]*domain.Connection, error) {
	return r.list(squirrel.Eq{"pc.organization_id": organizationID})
}

func (r *connectionRepository) list(where any) ([]*domain.Connection, error) {
	query, args, err := squirrel.
		Select(connectionColumns).
		From(connectionsTable).
		Where(where).
		OrderBy("pc.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	connections := make([]*domain.Connection, 0)
	for rows.Next() {
		connection, err := scanConnectionRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning connection: %w", err)
		}
		connections = append(connections, connection)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return connections, nil
}

// UpdateSyncProgress persists the scheduler-owned fields: sync status,
// last-synced timestamp and the stage-completion flags.
func (r *connectionRepository) UpdateSyncProgress(conn *domain.Connection) error {
	query, args, err := squirrel.
		Update("platform_connections").
		Set("sync_status", string(conn.SyncStatus)).
		Set("last_synced_at", conn.LastSyncedAt).
		Set("initial_sync_completed", conn.InitialSyncCompleted).
		Set("historical_sync_completed", conn.HistoricalSyncCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": conn.ID}).
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

func (r *connectionRepository) UpdateSyncStatus(id string, status domain.SyncStatus) error {
	query, args, err := squirrel.
		Update("platform_connections").
		Set("sync_status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
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

func (r *connectionRepository) UpdateTokens(id string, accessTokenEncrypted string, tokenExpiry *time.Time) error {
	query, args, err := squirrel.
		Update("platform_connections").
		Set("access_token_encrypted", accessTokenEncrypted).
		Set("token_expiry", tokenExpiry).
		Set("updated_at", squirrel.Expr("NOW()")).
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

func (r *connectionRepository) Deactivate(id string) error {
	query, args, err := squirrel.
		Update("platform_connections").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
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

func (r *connectionRepository) GetOrganization(id string) (*domain.Organization, error) {
	query, args, err := squirrel.
		Select("o.id, o.name, o.currency, o.created_at").
		From(organizationsTable).
		Where(squirrel.Eq{"o.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	org := &domain.Organization{}
	err = r.conn.QueryRow(query, args...).Scan(&org.ID, &org.Name, &org.Currency, &org.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning organization: %w", err)
	}

	return org, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanConnection(row *sql.Row) (*domain.Connection, error) {
	return scanConnectionFields(row)
}

func scanConnectionRows(rows *sql.Rows) (*domain.Connection, error) {
	return scanConnectionFields(rows)
}

func scanConnectionFields(s rowScanner) (*domain.Connection, error) {
	connection := &domain.Connection{}
	var (
		accountName  sql.NullString
		currency     sql.NullString
		timezone     sql.NullString
		accessToken  sql.NullString
		refreshToken sql.NullString
		tokenExpiry  sql.NullTime
		lastSyncedAt sql.NullTime
	)

	err := s.Scan(
		&connection.ID,
		&connection.OrganizationID,
		&connection.Platform,
		&connection.AdAccountID,
		&accountName,
		&currency,
		&timezone,
		&accessToken,
		&refreshToken,
		&tokenExpiry,
		&connection.SyncStatus,
		&lastSyncedAt,
		&connection.InitialSyncCompleted,
		&connection.HistoricalSyncCompleted,
		&connection.IsActive,
		&connection.CreatedAt,
		&connection.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	connection.AdAccountName = accountName.String
	connection.Currency = currency.String
	connection.Timezone = timezone.String
	connection.AccessTokenEncrypted = accessToken.String
	connection.RefreshTokenEncrypted = refreshToken.String
	if tokenExpiry.Valid {
		connection.TokenExpiry = &tokenExpiry.Time
	}
	if lastSyncedAt.Valid {
		connection.LastSyncedAt = &lastSyncedAt.Time
	}

	return connection, nil
}
