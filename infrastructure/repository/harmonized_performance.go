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

const (
	harmonizedTable   = "harmonized_performance hp"
	harmonizedColumns = "hp.id, hp.asset_id, hp.connection_id, hp.report_date, hp.platform, hp.ad_account_id, hp.campaign_id, hp.campaign_name, hp.campaign_objective, hp.ad_group_id, hp.ad_group_name, hp.ad_id, hp.ad_name, hp.asset_format, hp.org_currency, hp.original_currency, hp.exchange_rate, hp.spend, hp.impressions, hp.clicks, hp.ctr, hp.cpm, hp.cpc, hp.conversions, hp.conversion_value, hp.cvr, hp.roas, hp.video_views, hp.vtr, hp.video_completion_rate, hp.cost_per_view, hp.platform_extras, hp.harmonized_at"
)

type HarmonizedRepository interface {
	Upsert(row *domain.HarmonizedPerformance) error
	ListByConnection(connectionID string, from, to *time.Time) ([]*domain.HarmonizedPerformance, error)
}

type harmonizedRepository struct {
	conn *postgres.Connection
}

func NewHarmonizedRepository(conn *postgres.Connection) HarmonizedRepository {
	return &harmonizedRepository{
		conn: conn,
	}
}

// Upsert replaces the harmonized row for the natural key. Re-harmonizing a
// day is therefore idempotent: the latest pass wins wholesale.
func (r *harmonizedRepository) Upsert(row *domain.HarmonizedPerformance) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}

	extras, err := utils.MarshalJSONB(row.PlatformExtras)
	if err != nil {
		return fmt.Errorf("encoding platform extras: %w", err)
	}

	query, args, err := squirrel.
		Insert("harmonized_performance").
		Columns(
			"id",
			"asset_id",
			"connection_id",
			"report_date",
			"platform",
			"ad_account_id",
			"campaign_id",
			"campaign_name",
			"campaign_objective",
			"ad_group_id",
			"ad_group_name",
			"ad_id",
			"ad_name",
			"asset_format",
			"org_currency",
			"original_currency",
			"exchange_rate",
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
			"vtr",
			"video_completion_rate",
			"cost_per_view",
			"platform_extras",
			"harmonized_at",
		).
		Values(
			row.ID,
			row.AssetID,
			row.ConnectionID,
			row.ReportDate.Format(utils.DateLayout),
			string(row.Platform),
			row.AdAccountID,
			row.CampaignID,
			row.CampaignName,
			row.CampaignObjective,
			row.AdGroupID,
			row.AdGroupName,
			row.AdID,
			row.AdName,
			row.AssetFormat,
			row.OrgCurrency,
			row.OriginalCurrency,
			row.ExchangeRate,
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
			row.VTR,
			row.VideoCompletionRate,
			row.CostPerView,
			extras,
			row.HarmonizedAt,
		).
		Suffix(`ON CONFLICT (connection_id, report_date, ad_id, ad_account_id) DO UPDATE SET
			asset_id = EXCLUDED.asset_id,
			campaign_id = EXCLUDED.campaign_id,
			campaign_name = EXCLUDED.campaign_name,
			campaign_objective = EXCLUDED.campaign_objective,
			ad_group_id = EXCLUDED.ad_group_id,
			ad_group_name = EXCLUDED.ad_group_name,
			ad_name = EXCLUDED.ad_name,
			asset_format = EXCLUDED.asset_format,
			org_currency = EXCLUDED.org_currency,
			original_currency = EXCLUDED.original_currency,
			exchange_rate = EXCLUDED.exchange_rate,
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
			vtr = EXCLUDED.vtr,
			video_completion_rate = EXCLUDED.video_completion_rate,
			cost_per_view = EXCLUDED.cost_per_view,
			platform_extras = EXCLUDED.platform_extras,
			harmonized_at = EXCLUDED.harmonized_at`).
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

func (r *harmonizedRepository) ListByConnection(connectionID string, from, to *time.Time) ([]*domain.HarmonizedPerformance, error) {
	builder := squirrel.
		Select(harmonizedColumns).
		From(harmonizedTable).
		Where(squirrel.Eq{"hp.connection_id": connectionID}).
		OrderBy("hp.report_date ASC", "hp.ad_id ASC")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"hp.report_date": from.Format(utils.DateLayout)})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"hp.report_date": to.Format(utils.DateLayout)})
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

	performances := make([]*domain.HarmonizedPerformance, 0)
	for rows.Next() {
		performance, err := scanHarmonized(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning harmonized performance: %w", err)
		}
		performances = append(performances, performance)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return performances, nil
}

func scanHarmonized(s rowScanner) (*domain.HarmonizedPerformance, error) {
	performance := &domain.HarmonizedPerformance{}
	var extras []byte

	err := s.Scan(
		&performance.ID,
		&performance.AssetID,
		&performance.ConnectionID,
		&performance.ReportDate,
		&performance.Platform,
		&performance.AdAccountID,
		&performance.CampaignID,
		&performance.CampaignName,
		&performance.CampaignObjective,
		&performance.AdGroupID,
		&performance.AdGroupName,
		&performance.AdID,
		&performance.AdName,
		&performance.AssetFormat,
		&performance.OrgCurrency,
		&performance.OriginalCurrency,
		&performance.ExchangeRate,
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
		&performance.VTR,
		&performance.VideoCompletionRate,
		&performance.CostPerView,
		&extras,
		&performance.HarmonizedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := utils.UnmarshalJSONB(extras, &performance.PlatformExtras); err != nil {
		return nil, fmt.Errorf("decoding platform extras: %w", err)
	}

	return performance, nil
}
