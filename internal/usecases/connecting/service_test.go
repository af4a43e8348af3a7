package connecting

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository/mocks"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/secrets"
	"github.com/vfg2006/creative-performance-api/pkg/sessioncache"
	"go.uber.org/mock/gomock"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	jobTypes []domain.SyncJobType
	fired    chan struct{}
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{fired: make(chan struct{}, 8)}
}

func (d *recordingDispatcher) EnqueueAndRun(_ *domain.Connection, jobType domain.SyncJobType) {
	d.mu.Lock()
	d.jobTypes = append(d.jobTypes, jobType)
	d.mu.Unlock()
	d.fired <- struct{}{}
}

func (d *recordingDispatcher) wait(t *testing.T) domain.SyncJobType {
	t.Helper()
	select {
	case <-d.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher was never called")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.jobTypes[len(d.jobTypes)-1]
}

type recordingTriggers struct {
	mu        sync.Mutex
	scheduled []string
	removed   []string
}

func (r *recordingTriggers) ScheduleConnection(conn *domain.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, conn.ID)
}

func (r *recordingTriggers) RemoveSchedule(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, connectionID)
}

type fixture struct {
	service    ConnectionService
	connRepo   *mocks.MockConnectionRepository
	jobRepo    *mocks.MockSyncJobRepository
	box        *secrets.Box
	pending    *sessioncache.Store
	dispatcher *recordingDispatcher
	triggers   *recordingTriggers
}

func newFixture(t *testing.T, ctrl *gomock.Controller) *fixture {
	box, err := secrets.NewBox(strings.Repeat("cd", 32))
	require.NoError(t, err)

	f := &fixture{
		connRepo:   mocks.NewMockConnectionRepository(ctrl),
		jobRepo:    mocks.NewMockSyncJobRepository(ctrl),
		box:        box,
		pending:    sessioncache.New(time.Minute, time.Minute),
		dispatcher: newRecordingDispatcher(),
		triggers:   &recordingTriggers{},
	}
	t.Cleanup(f.pending.Close)

	f.service = NewService(f.connRepo, f.jobRepo, box, f.pending, f.dispatcher, f.triggers)
	return f
}

func stagedHandoff(t *testing.T, f *fixture) string {
	key, err := f.service.StagePending(PendingConnection{
		Platform:     domain.PlatformMeta,
		AccessToken:  "meta-access-token",
		RefreshToken: "meta-refresh-token",
		ExpiresIn:    3600,
		Accounts: []AvailableAccount{
			{ID: "act_1", Name: "Brand EU", Currency: "EUR", Timezone: "Europe/Berlin"},
			{ID: "act_2", Name: "Brand US", Currency: "USD", Timezone: "America/New_York"},
		},
	})
	require.NoError(t, err)
	return key
}

func TestConnectionService_Complete_CreatesConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	key := stagedHandoff(t, f)

	f.connRepo.EXPECT().
		GetByAccount("org-1", domain.PlatformMeta, "act_1").
		Return(nil, nil)

	f.connRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(conn *domain.Connection) error {
			conn.ID = "conn-new"
			assert.Equal(t, "org-1", conn.OrganizationID)
			assert.Equal(t, "EUR", conn.Currency)
			assert.Equal(t, "Europe/Berlin", conn.Timezone)
			assert.Equal(t, domain.SyncStatusActive, conn.SyncStatus)
			assert.True(t, conn.IsActive)

			opened, err := f.box.Open(conn.AccessTokenEncrypted)
			require.NoError(t, err)
			assert.Equal(t, "meta-access-token", opened)

			require.NotNil(t, conn.TokenExpiry)
			return nil
		})

	connected, err := f.service.Complete("org-1", key, []string{"act_1"})
	require.NoError(t, err)
	require.Len(t, connected, 1)

	assert.Equal(t, domain.SyncJobManual, f.dispatcher.wait(t))
	assert.Equal(t, []string{"conn-new"}, f.triggers.scheduled)

	// The handoff is single-use.
	_, err = f.service.Complete("org-1", key, []string{"act_2"})
	assert.ErrorIs(t, err, ErrHandoffExpired)
}

func TestConnectionService_Complete_ReconnectRotatesTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	key := stagedHandoff(t, f)

	existing := &domain.Connection{
		ID:             "conn-1",
		OrganizationID: "org-1",
		Platform:       domain.PlatformMeta,
		AdAccountID:    "act_1",
		SyncStatus:     domain.SyncStatusError,
		IsActive:       true,
	}

	f.connRepo.EXPECT().
		GetByAccount("org-1", domain.PlatformMeta, "act_1").
		Return(existing, nil)

	f.connRepo.EXPECT().
		UpdateTokens("conn-1", gomock.Any(), gomock.Any()).
		Return(nil)

	f.connRepo.EXPECT().
		UpdateSyncStatus("conn-1", domain.SyncStatusActive).
		Return(nil)

	connected, err := f.service.Complete("org-1", key, []string{"act_1"})
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, "conn-1", connected[0].ID)
	f.dispatcher.wait(t)
}

func TestConnectionService_Complete_ExpiredHandoff(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	_, err := f.service.Complete("org-1", "no-such-key", []string{"act_1"})
	assert.ErrorIs(t, err, ErrHandoffExpired)
}

func TestConnectionService_StagePending_RejectsUnknownPlatform(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	_, err := f.service.StagePending(PendingConnection{
		Platform:    domain.Platform("LINKEDIN"),
		AccessToken: "token",
	})
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestConnectionService_Get_ScopesByOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	f.connRepo.EXPECT().GetByID("conn-1").Return(&domain.Connection{
		ID:             "conn-1",
		OrganizationID: "org-2",
	}, nil)

	_, err := f.service.Get("org-1", "conn-1")
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestConnectionService_Deactivate_RemovesTrigger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	f.connRepo.EXPECT().GetByID("conn-1").Return(&domain.Connection{
		ID:             "conn-1",
		OrganizationID: "org-1",
		IsActive:       true,
	}, nil)
	f.connRepo.EXPECT().Deactivate("conn-1").Return(nil)

	err := f.service.Deactivate("org-1", "conn-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"conn-1"}, f.triggers.removed)
}

func TestConnectionService_TriggerSync_DispatchesManualRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	f.connRepo.EXPECT().GetByID("conn-1").Return(&domain.Connection{
		ID:             "conn-1",
		OrganizationID: "org-1",
		IsActive:       true,
	}, nil)

	conn, err := f.service.TriggerSync("org-1", "conn-1")
	require.NoError(t, err)
	assert.Equal(t, "conn-1", conn.ID)
	assert.Equal(t, domain.SyncJobManual, f.dispatcher.wait(t))
}

func TestConnectionService_List_FiltersPlatformAndActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	f.connRepo.EXPECT().ListByOrganization("org-1").Return([]*domain.Connection{
		{ID: "a", Platform: domain.PlatformMeta, IsActive: true},
		{ID: "b", Platform: domain.PlatformTikTok, IsActive: true},
		{ID: "c", Platform: domain.PlatformMeta, IsActive: false},
	}, nil)

	connections, err := f.service.List("org-1", "META")
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.Equal(t, "a", connections[0].ID)
}
