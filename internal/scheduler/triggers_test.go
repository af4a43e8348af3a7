package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository/mocks"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/internal/scheduler"
	"go.uber.org/mock/gomock"
)

// stubRunner records dispatches; the trigger service fires them from
// goroutines, so every access is channel- or mutex-guarded.
type stubRunner struct {
	mutex    sync.Mutex
	ran      []string
	enqueued []domain.SyncJobType
	fired    chan struct{}
}

func newStubRunner() *stubRunner {
	return &stubRunner{fired: make(chan struct{}, 16)}
}

func (r *stubRunner) Enqueue(conn *domain.Connection, jobType domain.SyncJobType) (*domain.SyncJob, error) {
	return nil, nil
}

func (r *stubRunner) Run(job *domain.SyncJob) error {
	r.mutex.Lock()
	r.ran = append(r.ran, job.ID)
	r.mutex.Unlock()
	r.fired <- struct{}{}
	return nil
}

func (r *stubRunner) EnqueueAndRun(conn *domain.Connection, jobType domain.SyncJobType) {
	r.mutex.Lock()
	r.enqueued = append(r.enqueued, jobType)
	r.mutex.Unlock()
	r.fired <- struct{}{}
}

func (r *stubRunner) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for dispatch %d of %d", i+1, n)
		}
	}
}

func triggerConfig() *config.Config {
	return &config.Config{
		Sync: config.Sync{DailyTriggerTime: "00:10"},
	}
}

func TestScheduleConnection_RegistersAndReplacesTrigger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := scheduler.NewTriggerService(
		triggerConfig(),
		mocks.NewMockConnectionRepository(ctrl),
		mocks.NewMockSyncJobRepository(ctrl),
		newStubRunner(),
	)
	defer service.Shutdown()

	conn := &domain.Connection{ID: "conn-1", Timezone: "America/Sao_Paulo"}

	service.ScheduleConnection(conn)
	// Re-registering replaces the existing trigger instead of stacking a second one.
	service.ScheduleConnection(conn)

	statuses := service.Status()
	require.Len(t, statuses, 1)
	assert.Equal(t, "conn-1", statuses[0].ConnectionID)
	assert.Equal(t, "America/Sao_Paulo", statuses[0].Timezone)
	assert.Equal(t, "00:10", statuses[0].TriggerTime)
	require.NotNil(t, statuses[0].NextRun)
	assert.True(t, statuses[0].NextRun.After(time.Now().Add(-time.Minute)))
}

func TestScheduleConnection_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := scheduler.NewTriggerService(
		triggerConfig(),
		mocks.NewMockConnectionRepository(ctrl),
		mocks.NewMockSyncJobRepository(ctrl),
		newStubRunner(),
	)
	defer service.Shutdown()

	service.ScheduleConnection(&domain.Connection{ID: "conn-1", Timezone: "Atlantis/Lost"})

	statuses := service.Status()
	require.Len(t, statuses, 1)
	assert.Equal(t, "UTC", statuses[0].Timezone)
}

func TestRemoveSchedule_DropsTrigger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := scheduler.NewTriggerService(
		triggerConfig(),
		mocks.NewMockConnectionRepository(ctrl),
		mocks.NewMockSyncJobRepository(ctrl),
		newStubRunner(),
	)
	defer service.Shutdown()

	service.ScheduleConnection(&domain.Connection{ID: "conn-1"})
	service.RemoveSchedule("conn-1")

	assert.Empty(t, service.Status())
}

func TestStart_ReconcilesPersistedState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	onboarded := &domain.Connection{ID: "conn-done", IsActive: true, InitialSyncCompleted: true}
	fresh := &domain.Connection{ID: "conn-new", IsActive: true}

	connectionRepo := mocks.NewMockConnectionRepository(ctrl)
	connectionRepo.EXPECT().
		ListActive().
		Return([]*domain.Connection{onboarded, fresh}, nil)

	syncJobRepo := mocks.NewMockSyncJobRepository(ctrl)
	syncJobRepo.EXPECT().
		ListIncomplete().
		Return([]*domain.SyncJob{{ID: "job-interrupted"}}, nil)

	runner := newStubRunner()

	service := scheduler.NewTriggerService(triggerConfig(), connectionRepo, syncJobRepo, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, service.Start(ctx))
	defer service.Shutdown()

	// One resumed interrupted job plus one initial sync for the connection
	// that never finished onboarding.
	runner.wait(t, 2)

	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	assert.Equal(t, []string{"job-interrupted"}, runner.ran)
	assert.Equal(t, []domain.SyncJobType{domain.SyncJobInitial}, runner.enqueued)

	assert.Len(t, service.Status(), 2)
}
