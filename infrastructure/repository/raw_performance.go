package repository

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/creative-performance-api/infrastructure/database/postgres"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

var rawPerformanceColumns = []string{
	"id",
	"connection_id",
	"sync_job_id",
	"report_date",
	"ad_account_id",
	"campaign_id",
	"campaign_name",
	"campaign_objective",
	"ad_group_id",
	"ad_group_name",
	"ad_id",
	"ad_name",
	"creative_id",
	"asset_format",
	"thumbnail_url",
	"asset_url",
	"placement_type",
	"currency",
	"spend",
	"impressions",
	"clicks",
	"ctr",
	"cpm",
	"cpc",
	"conversions",
	"conversion_value",
	"cvr",
	"roas",
	"video_views",
	"video_view_rate",
	"video_completion_rate",
	"cost_per_view",
	"extra_metrics",
	"retrieved_at",
	"is_processed",
}

// RawPerformanceRepository persists platform-native daily rows. The three
// platforms share one implementation bound to different tables.
type RawPerformanceRepository interface {
	BulkUpsert(rows []*domain.RawPerformance) (int, error)
	ListUnprocessed(connectionID string, from, to *time.Time) ([]*domain.RawPerformance, error)
	MarkProcessed(ids []string) error
	UpdateCreative(connectionID, adID string, update domain.CreativeUpdate) error
	ListAdIDsMissingCreative(connectionID string) ([]string, error)
}

type rawPerformanceRepository struct {
	conn  *postgres.Connection
	table string
}

func NewMetaRawPerformanceRepository(conn *postgres.Connection) RawPerformanceRepository {
	return &rawPerformanceRepository{conn: conn, table: "meta_raw_performance"}
}

func NewTikTokRawPerformanceRepository(conn *postgres.Connection) RawPerformanceRepository {
	return &rawPerformanceRepository{conn: conn, table: "tiktok_raw_performance"}
}

func NewYouTubeRawPerformanceRepository(conn *postgres.Connection) RawPerformanceRepository {
	return &rawPerformanceRepository{conn: conn, table: "youtube_raw_performance"}
}

// BulkUpsert inserts the batch, overwriting every metric column on conflict
// with the natural key. A re-ingested day therefore fully replaces the
// previous fetch, and the row is flagged for re-harmonization.
func (r *rawPerformanceRepository) BulkUpsert(rows []*domain.RawPerformance) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	builder := squirrel.
		Insert(r.table).
		Columns(rawPerformanceColumns...)

	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}

		extras, err := utils.MarshalJSONB(row.ExtraMetrics)
		if err != nil {
			return 0, fmt.Errorf("encoding extra metrics: %w", err)
		}

		builder = builder.Values(
			row.ID,
			row.ConnectionID,
			row.SyncJobID,
			row.ReportDate.Format(utils.DateLayout),
			row.AdAccountID,
			row.CampaignID,
			row.CampaignName,
			row.CampaignObjective,
			row.AdGroupID,
			row.AdGroupName,
			row.AdID,
			row.AdName,
			row.CreativeID,
			row.AssetFormat,
			row.ThumbnailURL,
			row.AssetURL,
			row.PlacementType,
			row.Currency,
			row.Spend,
			row.Impressions,
			row.Clicks,
			row.CTR,
			row.CPM,
			row.CPC,
			row.Conversions,
			row.ConversionValue,
			row.CVR,
			row.ROAS,
			row.VideoViews,
			row.VideoViewRate,
			row.VideoCompletionRate,
			row.CostPerView,
			extras,
			row.RetrievedAt,
			false,
		)
	}

	query, args, err := builder.
		Suffix(`ON CONFLICT (connection_id, report_date, ad_id, ad_account_id) DO UPDATE SET
			sync_job_id = EXCLUDED.sync_job_id,
			campaign_id = EXCLUDED.campaign_id,
			campaign_name = EXCLUDED.campaign_name,
			campaign_objective = EXCLUDED.campaign_objective,
			ad_group_id = EXCLUDED.ad_group_id,
			ad_group_name = EXCLUDED.ad_group_name,
			ad_name = EXCLUDED.ad_name,
			creative_id = EXCLUDED.creative_id,
			asset_format = EXCLUDED.asset_format,
			thumbnail_url = EXCLUDED.thumbnail_url,
			asset_url = EXCLUDED.asset_url,
			placement_type = EXCLUDED.placement_type,
			currency = EXCLUDED.currency,
			spend = EXCLUDED.spend,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			ctr = EXCLUDED.ctr,
			cpm = EXCLUDED.cpm,
			cpc = EXCLUDED.cpc,
			conversions = EXCLUDED.conversions,
			conversion_value = EXCLUDED.conversion_value,
			cvr = EXCLUDED.cvr,
			roas = EXCLUDED.roas,
			video_views = EXCLUDED.video_views,
			video_view_rate = EXCLUDED.video_view_rate,
			video_completion_rate = EXCLUDED.video_completion_rate,
			cost_per_view = EXCLUDED.cost_per_view,
			extra_metrics = EXCLUDED.extra_metrics,
			retrieved_at = EXCLUDED.retrieved_at,
			is_processed = FALSE`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("executing query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return len(rows), nil
	}

	return int(affected), nil
}

func (r *rawPerformanceRepository) ListUnprocessed(connectionID string, from, to *time.Time) ([]*domain.RawPerformance, error) {
	builder := squirrel.
		Select(rawPerformanceColumns...).
		From(r.table).
		Where(squirrel.Eq{"connection_id": connectionID}).
		Where(squirrel.Eq{"is_processed": false}).
		OrderBy("report_date ASC", "ad_id ASC")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"report_date": from.Format(utils.DateLayout)})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"report_date": to.Format(utils.DateLayout)})
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	performances := make([]*domain.RawPerformance, 0)
	for rows.Next() {
		performance, err := scanRawPerformance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning raw performance: %w", err)
		}
		performances = append(performances, performance)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return performances, nil
}

func (r *rawPerformanceRepository) MarkProcessed(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := squirrel.
		Update(r.table).
		Set("is_processed", true).
		Where(squirrel.Eq{"id": ids}).
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

// UpdateCreative backfills creative metadata onto every stored day of an ad.
// Nil fields in the update are left as they are.
func (r *rawPerformanceRepository) UpdateCreative(connectionID, adID string, update domain.CreativeUpdate) error {
	builder := squirrel.Update(r.table)

	assignments := 0
	if update.CreativeID != nil {
		builder = builder.Set("creative_id", *update.CreativeID)
		assignments++
	}
	if update.AssetFormat != nil {
		builder = builder.Set("asset_format", *update.AssetFormat)
		assignments++
	}
	if update.ThumbnailURL != nil {
		builder = builder.Set("thumbnail_url", *update.ThumbnailURL)
		assignments++
	}
	if update.AssetURL != nil {
		builder = builder.Set("asset_url", *update.AssetURL)
		assignments++
	}

	if assignments == 0 {
		return nil
	}

	query, args, err := builder.
		Where(squirrel.Eq{"connection_id": connectionID}).
		Where(squirrel.Eq{"ad_id": adID}).
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

// ListAdIDsMissingCreative returns the distinct ads of a connection that have
// no creative id yet, for the creative-metadata backfill pass.
func (r *rawPerformanceRepository) ListAdIDsMissingCreative(connectionID string) ([]string, error) {
	query, args, err := squirrel.
		Select("DISTINCT ad_id").
		From(r.table).
		Where(squirrel.Eq{"connection_id": connectionID}).
		Where(squirrel.Or{
			squirrel.Eq{"creative_id": ""},
			squirrel.Eq{"creative_id": nil},
		}).
		OrderBy("ad_id ASC").
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

	adIDs := make([]string, 0)
	for rows.Next() {
		var adID string
		if err := rows.Scan(&adID); err != nil {
			return nil, fmt.Errorf("scanning ad id: %w", err)
		}
		adIDs = append(adIDs, adID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return adIDs, nil
}

func scanRawPerformance(s rowScanner) (*domain.RawPerformance, error) {
	performance := &domain.RawPerformance{}
	var extras []byte

	err := s.Scan(
		&performance.ID,
		&performance.ConnectionID,
		&performance.SyncJobID,
		&performance.ReportDate,
		&performance.AdAccountID,
		&performance.CampaignID,
		&performance.CampaignName,
		&performance.CampaignObjective,
		&performance.AdGroupID,
		&performance.AdGroupName,
		&performance.AdID,
		&performance.AdName,
		&performance.CreativeID,
		&performance.AssetFormat,
		&performance.ThumbnailURL,
		&performance.AssetURL,
		&performance.PlacementType,
		&performance.Currency,
		&performance.Spend,
		&performance.Impressions,
		&performance.Clicks,
		&performance.CTR,
		&performance.CPM,
		&performance.CPC,
		&performance.Conversions,
		&performance.ConversionValue,
		&performance.CVR,
		&performance.ROAS,
		&performance.VideoViews,
		&performance.VideoViewRate,
		&performance.VideoCompletionRate,
		&performance.CostPerView,
		&extras,
		&performance.RetrievedAt,
		&performance.IsProcessed,
	)
	if err != nil {
		return nil, err
	}

	if err := utils.UnmarshalJSONB(extras, &performance.ExtraMetrics); err != nil {
		return nil, fmt.Errorf("decoding extra metrics: %w", err)
	}

	return performance, nil
}
