package scheduler

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	integratormocks "github.com/vfg2006/creative-performance-api/infrastructure/integrator/mocks"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository/mocks"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	harmonizingmocks "github.com/vfg2006/creative-performance-api/internal/usecases/harmonizing/mocks"
	"github.com/vfg2006/creative-performance-api/pkg/secrets"
	"go.uber.org/mock/gomock"
)

type staticRefresher struct {
	token     string
	expiresIn int
	err       error
	calls     int
}

func (r *staticRefresher) Refresh(string) (string, int, error) {
	r.calls++
	return r.token, r.expiresIn, r.err
}

type runnerFixture struct {
	runner     *syncRunner
	connRepo   *mocks.MockConnectionRepository
	jobRepo    *mocks.MockSyncJobRepository
	rawRepo    *mocks.MockRawPerformanceRepository
	ingestor   *integratormocks.MockIngestor
	harmonizer *harmonizingmocks.MockService
	box        *secrets.Box
	refresher  *staticRefresher
}

func newRunnerFixture(t *testing.T, ctrl *gomock.Controller, platform domain.Platform) *runnerFixture {
	box, err := secrets.NewBox(strings.Repeat("ab", 32))
	require.NoError(t, err)

	f := &runnerFixture{
		connRepo:   mocks.NewMockConnectionRepository(ctrl),
		jobRepo:    mocks.NewMockSyncJobRepository(ctrl),
		rawRepo:    mocks.NewMockRawPerformanceRepository(ctrl),
		ingestor:   integratormocks.NewMockIngestor(ctrl),
		harmonizer: harmonizingmocks.NewMockService(ctrl),
		box:        box,
		refresher:  &staticRefresher{token: "fresh-token", expiresIn: 3600},
	}

	cfg := &config.Config{
		Sync: config.Sync{
			InitialLookbackDays:    30,
			HistoricalLookbackDays: 720,
			ChunkDays:              30,
		},
	}

	f.runner = NewSyncRunner(
		cfg,
		f.connRepo,
		f.jobRepo,
		map[domain.Platform]repository.RawPerformanceRepository{platform: f.rawRepo},
		map[domain.Platform]integrator.Ingestor{platform: f.ingestor},
		f.harmonizer,
		box,
		f.refresher,
	).(*syncRunner)

	return f
}

func (f *runnerFixture) connection(t *testing.T, platform domain.Platform) *domain.Connection {
	sealed, err := f.box.Seal("platform-token")
	require.NoError(t, err)

	return &domain.Connection{
		ID:                   "conn-1",
		OrganizationID:       "org-1",
		Platform:             platform,
		AdAccountID:          "act-42",
		Currency:             "EUR",
		Timezone:             "Europe/Berlin",
		AccessTokenEncrypted: sealed,
		SyncStatus:           domain.SyncStatusActive,
		IsActive:             true,
	}
}

func dailyJob(connectionID string) *domain.SyncJob {
	return &domain.SyncJob{
		ID:           "job-1",
		ConnectionID: &connectionID,
		JobType:      domain.SyncJobDaily,
		Status:       domain.SyncJobPending,
		DateFrom:     time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		DateTo:       time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestSyncRunner_Run_CompletesDailyJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRunnerFixture(t, ctrl, domain.PlatformMeta)
	conn := f.connection(t, domain.PlatformMeta)
	job := dailyJob(conn.ID)

	rows := []*domain.RawPerformance{
		{ConnectionID: conn.ID, AdID: "ad-1"},
		{ConnectionID: conn.ID, AdID: "ad-2"},
	}

	f.connRepo.EXPECT().GetByID(conn.ID).Return(conn, nil)
	f.jobRepo.EXPECT().MarkRunning(job.ID, gomock.Any()).Return(nil)

	f.ingestor.EXPECT().
		FetchPerformance(conn, "platform-token", gomock.Any()).
		Return(rows, nil)

	f.rawRepo.EXPECT().
		BulkUpsert(gomock.Any()).
		DoAndReturn(func(got []*domain.RawPerformance) (int, error) {
			require.Len(t, got, 2)
			for _, row := range got {
				require.NotNil(t, row.SyncJobID)
				assert.Equal(t, job.ID, *row.SyncJobID)
			}
			return 2, nil
		})

	f.rawRepo.EXPECT().ListAdIDsMissingCreative(conn.ID).Return(nil, nil)

	f.harmonizer.EXPECT().
		Harmonize(conn, gomock.Any(), gomock.Any()).
		Return(2, nil)

	f.jobRepo.EXPECT().
		Finalize(gomock.Any()).
		DoAndReturn(func(finalized *domain.SyncJob) error {
			assert.Equal(t, domain.SyncJobCompleted, finalized.Status)
			assert.Equal(t, 2, finalized.RecordsFetched)
			assert.Equal(t, 2, finalized.RecordsProcessed)
			assert.Nil(t, finalized.ErrorMessage)
			require.NotNil(t, finalized.CompletedAt)
			return nil
		})

	f.connRepo.EXPECT().
		UpdateSyncProgress(gomock.Any()).
		DoAndReturn(func(updated *domain.Connection) error {
			assert.Equal(t, domain.SyncStatusActive, updated.SyncStatus)
			require.NotNil(t, updated.LastSyncedAt)
			return nil
		})

	err := f.runner.Run(job)
	assert.NoError(t, err)
}

func TestSyncRunner_Run_AllChunksFailedMarksJobFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRunnerFixture(t, ctrl, domain.PlatformTikTok)
	conn := f.connection(t, domain.PlatformTikTok)
	job := dailyJob(conn.ID)

	f.connRepo.EXPECT().GetByID(conn.ID).Return(conn, nil)
	f.jobRepo.EXPECT().MarkRunning(job.ID, gomock.Any()).Return(nil)

	f.ingestor.EXPECT().
		FetchPerformance(conn, "platform-token", gomock.Any()).
		Return(nil, errors.New("tiktok api returned code 40001"))

	f.jobRepo.EXPECT().
		Finalize(gomock.Any()).
		DoAndReturn(func(finalized *domain.SyncJob) error {
			assert.Equal(t, domain.SyncJobFailed, finalized.Status)
			require.NotNil(t, finalized.ErrorMessage)
			assert.Contains(t, *finalized.ErrorMessage, "40001")
			return nil
		})

	f.connRepo.EXPECT().UpdateSyncStatus(conn.ID, domain.SyncStatusError).Return(nil)

	err := f.runner.Run(job)
	assert.NoError(t, err)
}

func TestSyncRunner_Run_LeavesJobPendingWhileConnectionBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRunnerFixture(t, ctrl, domain.PlatformMeta)
	job := dailyJob("conn-1")

	f.runner.running["conn-1"] = true

	err := f.runner.Run(job)
	assert.NoError(t, err)
}

func TestSyncRunner_Run_RefusesDeactivatedConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRunnerFixture(t, ctrl, domain.PlatformMeta)
	conn := f.connection(t, domain.PlatformMeta)
	conn.IsActive = false
	job := dailyJob(conn.ID)

	f.connRepo.EXPECT().GetByID(conn.ID).Return(conn, nil)
	f.jobRepo.EXPECT().
		Finalize(gomock.Any()).
		DoAndReturn(func(finalized *domain.SyncJob) error {
			assert.Equal(t, domain.SyncJobFailed, finalized.Status)
			return nil
		})

	err := f.runner.Run(job)
	assert.NoError(t, err)
}

func TestSyncRunner_Run_RefreshesExpiredGoogleToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRunnerFixture(t, ctrl, domain.PlatformYouTube)
	conn := f.connection(t, domain.PlatformYouTube)

	sealedRefresh, err := f.box.Seal("google-refresh-token")
	require.NoError(t, err)
	conn.RefreshTokenEncrypted = sealedRefresh
	expired := time.Now().UTC().Add(-time.Hour)
	conn.TokenExpiry = &expired

	job := dailyJob(conn.ID)

	f.connRepo.EXPECT().GetByID(conn.ID).Return(conn, nil)
	f.jobRepo.EXPECT().MarkRunning(job.ID, gomock.Any()).Return(nil)

	f.connRepo.EXPECT().
		UpdateTokens(conn.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ string, sealed string, expiry *time.Time) error {
			opened, err := f.box.Open(sealed)
			require.NoError(t, err)
			assert.Equal(t, "fresh-token", opened)
			require.NotNil(t, expiry)
			assert.True(t, expiry.After(time.Now().UTC()))
			return nil
		})

	f.ingestor.EXPECT().
		FetchPerformance(conn, "fresh-token", gomock.Any()).
		Return(nil, nil)

	f.harmonizer.EXPECT().Harmonize(conn, gomock.Any(), gomock.Any()).Return(0, nil)

	f.jobRepo.EXPECT().
		Finalize(gomock.Any()).
		DoAndReturn(func(finalized *domain.SyncJob) error {
			assert.Equal(t, domain.SyncJobCompleted, finalized.Status)
			return nil
		})

	f.connRepo.EXPECT().UpdateSyncProgress(gomock.Any()).Return(nil)

	err = f.runner.Run(job)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.refresher.calls)
}

func TestSyncRunner_Enqueue_DedupsOnboardingStages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRunnerFixture(t, ctrl, domain.PlatformMeta)
	conn := f.connection(t, domain.PlatformMeta)

	f.jobRepo.EXPECT().
		HasPendingOrRunning(conn.ID, []domain.SyncJobType{domain.SyncJobInitial, domain.SyncJobManual}).
		Return(true, nil)

	job, err := f.runner.Enqueue(conn, domain.SyncJobInitial)
	assert.NoError(t, err)
	assert.Nil(t, job)
}

func TestSyncRunner_Enqueue_ManualResolvesOutstandingStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRunnerFixture(t, ctrl, domain.PlatformMeta)
	conn := f.connection(t, domain.PlatformMeta)
	conn.InitialSyncCompleted = false

	f.jobRepo.EXPECT().
		HasPendingOrRunning(conn.ID, []domain.SyncJobType{domain.SyncJobInitial, domain.SyncJobManual}).
		Return(false, nil)

	f.jobRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(job *domain.SyncJob) error {
			assert.Equal(t, domain.SyncJobManual, job.JobType)
			assert.Equal(t, string(domain.SyncJobInitial), job.Metadata["stage"])
			assert.Equal(t, 30, utilsDays(job.DateFrom, job.DateTo))
			return nil
		})

	job, err := f.runner.Enqueue(conn, domain.SyncJobManual)
	assert.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, domain.SyncJobPending, job.Status)
}

func TestSyncRunner_Enqueue_ManualBehavesLikeDailyWhenOnboarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newRunnerFixture(t, ctrl, domain.PlatformMeta)
	conn := f.connection(t, domain.PlatformMeta)
	conn.InitialSyncCompleted = true
	conn.HistoricalSyncCompleted = true

	f.jobRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(job *domain.SyncJob) error {
			assert.Equal(t, string(domain.SyncJobDaily), job.Metadata["stage"])
			assert.Equal(t, 2, utilsDays(job.DateFrom, job.DateTo))
			return nil
		})

	job, err := f.runner.Enqueue(conn, domain.SyncJobManual)
	assert.NoError(t, err)
	require.NotNil(t, job)
}

func utilsDays(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}
