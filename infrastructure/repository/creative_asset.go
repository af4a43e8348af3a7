package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/creative-performance-api/infrastructure/database/postgres"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

const (
	creativeAssetsTable   = "creative_assets ca"
	creativeAssetsColumns = "ca.id, ca.organization_id, ca.connection_id, ca.platform, ca.ad_id, ca.ad_name, ca.ad_group_id, ca.ad_group_name, ca.campaign_id, ca.campaign_name, ca.campaign_objective, ca.ad_account_id, ca.creative_id, ca.asset_format, ca.thumbnail_url, ca.asset_url, ca.video_duration, ca.placement, ca.ace_score, ca.ace_score_confidence, ca.scoring_metadata, ca.is_active, ca.first_seen_at, ca.last_seen_at, ca.created_at, ca.updated_at"
)

type CreativeAssetRepository interface {
	GetByNaturalKey(organizationID string, platform domain.Platform, adID, adAccountID string) (*domain.CreativeAsset, error)
	Create(asset *domain.CreativeAsset) error
	Update(asset *domain.CreativeAsset) error
	ListByOrganization(organizationID string) ([]*domain.CreativeAsset, error)
}

type creativeAssetRepository struct {
	conn *postgres.Connection
}

func NewCreativeAssetRepository(conn *postgres.Connection) CreativeAssetRepository {
	return &creativeAssetRepository{
		conn: conn,
	}
}

func (r *creativeAssetRepository) GetByNaturalKey(organizationID string, platform domain.Platform, adID, adAccountID string) (*domain.CreativeAsset, error) {
	query, args, err := squirrel.
		Select(creativeAssetsColumns).
		From(creativeAssetsTable).
		Where(squirrel.Eq{
			"ca.organization_id": organizationID,
			"ca.platform":        string(platform),
			"ca.ad_id":           adID,
			"ca.ad_account_id":   adAccountID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	asset, err := scanCreativeAsset(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning creative asset: %w", err)
	}

	return asset, nil
}

func (r *creativeAssetRepository) Create(asset *domain.CreativeAsset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}

	scoringMetadata, err := utils.MarshalJSONB(asset.ScoringMetadata)
	if err != nil {
		return fmt.Errorf("encoding scoring metadata: %w", err)
	}

	query, args, err := squirrel.
		Insert("creative_assets").
		Columns(
			"id",
			"organization_id",
			"connection_id",
			"platform",
			"ad_id",
			"ad_name",
			"ad_group_id",
			"ad_group_name",
			"campaign_id",
			"campaign_name",
			"campaign_objective",
			"ad_account_id",
			"creative_id",
			"asset_format",
			"thumbnail_url",
			"asset_url",
			"video_duration",
			"placement",
			"ace_score",
			"ace_score_confidence",
			"scoring_metadata",
			"is_active",
			"first_seen_at",
			"last_seen_at",
		).
		Values(
			asset.ID,
			asset.OrganizationID,
			asset.ConnectionID,
			string(asset.Platform),
			asset.AdID,
			asset.AdName,
			asset.AdGroupID,
			asset.AdGroupName,
			asset.CampaignID,
			asset.CampaignName,
			asset.CampaignObjective,
			asset.AdAccountID,
			asset.CreativeID,
			asset.AssetFormat,
			asset.ThumbnailURL,
			asset.AssetURL,
			asset.VideoDuration,
			asset.Placement,
			asset.AceScore,
			asset.AceScoreConfidence,
			scoringMetadata,
			asset.IsActive,
			asset.FirstSeenAt,
			asset.LastSeenAt,
		).
		Suffix("ON CONFLICT (organization_id, platform, ad_id, ad_account_id) DO NOTHING").
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

// Update writes the resolver-owned mutable fields: backfilled creative
// metadata and the seen-at bounds. Scoring fields are immutable after
// creation and are deliberately not touched here.
func (r *creativeAssetRepository) Update(asset *domain.CreativeAsset) error {
	query, args, err := squirrel.
		Update("creative_assets").
		Set("ad_name", asset.AdName).
		Set("ad_group_id", asset.AdGroupID).
		Set("ad_group_name", asset.AdGroupName).
		Set("campaign_id", asset.CampaignID).
		Set("campaign_name", asset.CampaignName).
		Set("campaign_objective", asset.CampaignObjective).
		Set("creative_id", asset.CreativeID).
		Set("asset_format", asset.AssetFormat).
		Set("thumbnail_url", asset.ThumbnailURL).
		Set("asset_url", asset.AssetURL).
		Set("video_duration", asset.VideoDuration).
		Set("placement", asset.Placement).
		Set("is_active", asset.IsActive).
		Set("first_seen_at", asset.FirstSeenAt).
		Set("last_seen_at", asset.LastSeenAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": asset.ID}).
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

func (r *creativeAssetRepository) ListByOrganization(organizationID string) ([]*domain.CreativeAsset, error) {
	query, args, err := squirrel.
		Select(creativeAssetsColumns).
		From(creativeAssetsTable).
		Where(squirrel.Eq{"ca.organization_id": organizationID}).
		OrderBy("ca.last_seen_at DESC").
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

	assets := make([]*domain.CreativeAsset, 0)
	for rows.Next() {
		asset, err := scanCreativeAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning creative asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return assets, nil
}

func scanCreativeAsset(s rowScanner) (*domain.CreativeAsset, error) {
	asset := &domain.CreativeAsset{}
	var (
		adName             sql.NullString
		adGroupID          sql.NullString
		adGroupName        sql.NullString
		campaignID         sql.NullString
		campaignName       sql.NullString
		campaignObjective  sql.NullString
		creativeID         sql.NullString
		assetFormat        sql.NullString
		thumbnailURL       sql.NullString
		assetURL           sql.NullString
		placement          sql.NullString
		aceScoreConfidence sql.NullString
		scoringMetadata    []byte
	)

	err := s.Scan(
		&asset.ID,
		&asset.OrganizationID,
		&asset.ConnectionID,
		&asset.Platform,
		&asset.AdID,
		&adName,
		&adGroupID,
		&adGroupName,
		&campaignID,
		&campaignName,
		&campaignObjective,
		&asset.AdAccountID,
		&creativeID,
		&assetFormat,
		&thumbnailURL,
		&assetURL,
		&asset.VideoDuration,
		&placement,
		&asset.AceScore,
		&aceScoreConfidence,
		&scoringMetadata,
		&asset.IsActive,
		&asset.FirstSeenAt,
		&asset.LastSeenAt,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	asset.AdName = adName.String
	asset.AdGroupID = adGroupID.String
	asset.AdGroupName = adGroupName.String
	asset.CampaignID = campaignID.String
	asset.CampaignName = campaignName.String
	asset.CampaignObjective = campaignObjective.String
	asset.CreativeID = creativeID.String
	asset.AssetFormat = assetFormat.String
	asset.ThumbnailURL = thumbnailURL.String
	asset.AssetURL = assetURL.String
	asset.Placement = placement.String
	asset.AceScoreConfidence = aceScoreConfidence.String
	if err := utils.UnmarshalJSONB(scoringMetadata, &asset.ScoringMetadata); err != nil {
		return nil, fmt.Errorf("decoding scoring metadata: %w", err)
	}

	return asset, nil
}
