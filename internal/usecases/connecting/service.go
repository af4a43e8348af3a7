package connecting

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/secrets"
	"github.com/vfg2006/creative-performance-api/pkg/sessioncache"
)

var (
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrHandoffExpired     = errors.New("pending connection handoff not found or expired")
	ErrConnectionNotFound = errors.New("connection not found")
)

// PendingConnection is the payload staged between the platform authorization
// step and the account-selection step. Tokens arrive in plaintext from the
// authorization collaborator and are only sealed once a connection row is
// actually created.
type PendingConnection struct {
	Platform     domain.Platform    `json:"platform"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token,omitempty"`
	ExpiresIn    int                `json:"expires_in,omitempty"`
	Accounts     []AvailableAccount `json:"accounts"`
}

// AvailableAccount is one ad account discovered during authorization.
type AvailableAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// SyncDispatcher starts a sync pipeline run for a connection.
type SyncDispatcher interface {
	EnqueueAndRun(conn *domain.Connection, jobType domain.SyncJobType)
}

// TriggerRegistry owns the per-connection daily triggers.
type TriggerRegistry interface {
	ScheduleConnection(conn *domain.Connection)
	RemoveSchedule(connectionID string)
}

// ConnectionService manages the lifecycle of platform connections: staging
// discovered accounts, completing the handoff into connection rows, listing
// and deactivating, and dispatching manual syncs.
type ConnectionService interface {
	List(organizationID string, platform string) ([]*domain.Connection, error)
	Get(organizationID, id string) (*domain.Connection, error)
	StagePending(pending PendingConnection) (string, error)
	GetPending(key string) (*PendingConnection, error)
	Complete(organizationID, key string, accountIDs []string) ([]*domain.Connection, error)
	Deactivate(organizationID, id string) error
	TriggerSync(organizationID, id string) (*domain.Connection, error)
	ListJobs(organizationID, id string, limit uint64) ([]*domain.SyncJob, error)
}

type connectionService struct {
	connectionRepo repository.ConnectionRepository
	syncJobRepo    repository.SyncJobRepository
	box            *secrets.Box
	pending        *sessioncache.Store
	dispatcher     SyncDispatcher
	triggers       TriggerRegistry
}

func NewService(
	connectionRepo repository.ConnectionRepository,
	syncJobRepo repository.SyncJobRepository,
	box *secrets.Box,
	pending *sessioncache.Store,
	dispatcher SyncDispatcher,
	triggers TriggerRegistry,
) ConnectionService {
	return &connectionService{
		connectionRepo: connectionRepo,
		syncJobRepo:    syncJobRepo,
		box:            box,
		pending:        pending,
		dispatcher:     dispatcher,
		triggers:       triggers,
	}
}

func (s *connectionService) List(organizationID string, platform string) ([]*domain.Connection, error) {
	connections, err := s.connectionRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, errors.Wrap(err, "listing connections")
	}

	filtered := make([]*domain.Connection, 0, len(connections))
	for _, conn := range connections {
		if !conn.IsActive {
			continue
		}
		if platform != "" && string(conn.Platform) != platform {
			continue
		}
		filtered = append(filtered, conn)
	}

	return filtered, nil
}

func (s *connectionService) Get(organizationID, id string) (*domain.Connection, error) {
	conn, err := s.connectionRepo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "loading connection")
	}
	if conn == nil || conn.OrganizationID != organizationID {
		return nil, ErrConnectionNotFound
	}
	return conn, nil
}

// StagePending stashes the authorization payload and returns the handoff key
// the account-selection step claims it with.
func (s *connectionService) StagePending(pending PendingConnection) (string, error) {
	if !domain.ValidPlatform(pending.Platform) {
		return "", ErrUnknownPlatform
	}
	if pending.AccessToken == "" {
		return "", errors.New("pending connection has no access token")
	}

	key, err := s.pending.Put(pending)
	if err != nil {
		return "", errors.Wrap(err, "staging pending connection")
	}

	logrus.WithFields(logrus.Fields{
		"platform": pending.Platform,
		"accounts": len(pending.Accounts),
	}).Info("connections: pending handoff staged")

	return key, nil
}

// GetPending peeks at a staged handoff without consuming it, so the UI can
// poll for the discovered accounts.
func (s *connectionService) GetPending(key string) (*PendingConnection, error) {
	payload, ok := s.pending.Get(key)
	if !ok {
		return nil, ErrHandoffExpired
	}

	pending, ok := payload.(PendingConnection)
	if !ok {
		return nil, ErrHandoffExpired
	}

	return &pending, nil
}

// Complete consumes a staged handoff and creates (or re-activates) one
// connection per selected account, sealing the tokens and kicking off the
// onboarding sync.
func (s *connectionService) Complete(organizationID, key string, accountIDs []string) ([]*domain.Connection, error) {
	payload, ok := s.pending.Take(key)
	if !ok {
		return nil, ErrHandoffExpired
	}
	pending, ok := payload.(PendingConnection)
	if !ok {
		return nil, ErrHandoffExpired
	}

	sealedAccess, err := s.box.Seal(pending.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "sealing access token")
	}

	sealedRefresh := ""
	if pending.RefreshToken != "" {
		sealedRefresh, err = s.box.Seal(pending.RefreshToken)
		if err != nil {
			return nil, errors.Wrap(err, "sealing refresh token")
		}
	}

	var tokenExpiry *time.Time
	if pending.ExpiresIn > 0 {
		expiry := time.Now().UTC().Add(time.Duration(pending.ExpiresIn) * time.Second)
		tokenExpiry = &expiry
	}

	connected := make([]*domain.Connection, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		account, found := findAccount(pending.Accounts, accountID)
		if !found {
			logrus.WithFields(logrus.Fields{
				"ad_account_id": accountID,
				"platform":      pending.Platform,
			}).Warn("connections: selected account not in handoff payload, skipping")
			continue
		}

		conn, err := s.connectOne(organizationID, pending.Platform, account, sealedAccess, sealedRefresh, tokenExpiry)
		if err != nil {
			return nil, err
		}

		s.triggers.ScheduleConnection(conn)
		go s.dispatcher.EnqueueAndRun(conn, domain.SyncJobManual)

		connected = append(connected, conn)
	}

	return connected, nil
}

func (s *connectionService) connectOne(
	organizationID string,
	platform domain.Platform,
	account AvailableAccount,
	sealedAccess, sealedRefresh string,
	tokenExpiry *time.Time,
) (*domain.Connection, error) {
	existing, err := s.connectionRepo.GetByAccount(organizationID, platform, account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "checking for existing connection")
	}

	if existing != nil {
		// Reconnect: rotate the credentials, keep the history.
		if err := s.connectionRepo.UpdateTokens(existing.ID, sealedAccess, tokenExpiry); err != nil {
			return nil, errors.Wrap(err, "rotating tokens")
		}
		if err := s.connectionRepo.UpdateSyncStatus(existing.ID, domain.SyncStatusActive); err != nil {
			return nil, errors.Wrap(err, "re-activating connection")
		}
		existing.AccessTokenEncrypted = sealedAccess
		existing.TokenExpiry = tokenExpiry
		existing.SyncStatus = domain.SyncStatusActive

		logrus.WithFields(logrus.Fields{
			"connection_id": existing.ID,
			"platform":      platform,
			"ad_account_id": account.ID,
		}).Info("connections: account reconnected")

		return existing, nil
	}

	currency := account.Currency
	if currency == "" {
		currency = "USD"
	}
	timezone := account.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	conn := &domain.Connection{
		OrganizationID:        organizationID,
		Platform:              platform,
		AdAccountID:           account.ID,
		AdAccountName:         account.Name,
		Currency:              currency,
		Timezone:              timezone,
		AccessTokenEncrypted:  sealedAccess,
		RefreshTokenEncrypted: sealedRefresh,
		TokenExpiry:           tokenExpiry,
		SyncStatus:            domain.SyncStatusActive,
		IsActive:              true,
	}

	if err := s.connectionRepo.Create(conn); err != nil {
		return nil, errors.Wrap(err, "creating connection")
	}

	logrus.WithFields(logrus.Fields{
		"connection_id": conn.ID,
		"platform":      platform,
		"ad_account_id": account.ID,
	}).Info("connections: account connected")

	return conn, nil
}

func (s *connectionService) Deactivate(organizationID, id string) error {
	conn, err := s.Get(organizationID, id)
	if err != nil {
		return err
	}

	if err := s.connectionRepo.Deactivate(conn.ID); err != nil {
		return errors.Wrap(err, "deactivating connection")
	}

	s.triggers.RemoveSchedule(conn.ID)

	logrus.WithField("connection_id", conn.ID).Info("connections: deactivated")

	return nil
}

// TriggerSync dispatches a manual pipeline run. The runner resolves which
// stage is outstanding (initial, historical or a daily-style refresh).
func (s *connectionService) TriggerSync(organizationID, id string) (*domain.Connection, error) {
	conn, err := s.Get(organizationID, id)
	if err != nil {
		return nil, err
	}

	go s.dispatcher.EnqueueAndRun(conn, domain.SyncJobManual)

	return conn, nil
}

// ListJobs returns the connection's recent sync jobs, newest first.
func (s *connectionService) ListJobs(organizationID, id string, limit uint64) ([]*domain.SyncJob, error) {
	conn, err := s.Get(organizationID, id)
	if err != nil {
		return nil, err
	}

	jobs, err := s.syncJobRepo.ListByConnection(conn.ID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing sync jobs")
	}

	return jobs, nil
}

func findAccount(accounts []AvailableAccount, id string) (AvailableAccount, bool) {
	for _, account := range accounts {
		if account.ID == id {
			return account, true
		}
	}
	return AvailableAccount{}, false
}
