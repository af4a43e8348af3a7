package scheduler

import (
	"time"

	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

// syncWindow computes the date range a job type covers, anchored on today.
//
//   - INITIAL_30D covers the last N days up to yesterday.
//   - HISTORICAL ends the day before the initial window starts and reaches
//     back the configured lookback, so the two stages never overlap.
//   - DAILY covers a two-day window ending yesterday, so late-arriving
//     platform restatements of the previous day are picked up.
func syncWindow(jobType domain.SyncJobType, syncCfg config.Sync, today time.Time) utils.DateRange {
	today = utils.Truncate(today)

	initialDays := syncCfg.InitialLookbackDays
	if initialDays < 1 {
		initialDays = 30
	}
	historicalDays := syncCfg.HistoricalLookbackDays
	if historicalDays < 1 {
		historicalDays = 720
	}

	switch jobType {
	case domain.SyncJobHistorical:
		to := today.AddDate(0, 0, -(initialDays + 1))
		return utils.DateRange{
			From: to.AddDate(0, 0, -historicalDays),
			To:   to,
		}
	case domain.SyncJobDaily:
		return utils.DateRange{
			From: today.AddDate(0, 0, -2),
			To:   today.AddDate(0, 0, -1),
		}
	default:
		return utils.DateRange{
			From: today.AddDate(0, 0, -initialDays),
			To:   today.AddDate(0, 0, -1),
		}
	}
}
