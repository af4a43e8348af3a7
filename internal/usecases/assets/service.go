package assets

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/internal/usecases/scoring"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

// Resolver owns creative-asset identity: every raw observation of an ad maps
// to exactly one canonical asset per (organization, platform, ad, account).
type Resolver interface {
	EnsureAsset(conn *domain.Connection, platform domain.Platform, adID string, attrs domain.AssetAttributes) (*domain.CreativeAsset, error)
}

type resolver struct {
	assetRepo repository.CreativeAssetRepository
	scorer    scoring.Service
}

func NewResolver(assetRepo repository.CreativeAssetRepository, scorer scoring.Service) Resolver {
	return &resolver{
		assetRepo: assetRepo,
		scorer:    scorer,
	}
}

func (r *resolver) EnsureAsset(conn *domain.Connection, platform domain.Platform, adID string, attrs domain.AssetAttributes) (*domain.CreativeAsset, error) {
	asset, err := r.assetRepo.GetByNaturalKey(conn.OrganizationID, platform, adID, attrs.AdAccountID)
	if err != nil {
		return nil, err
	}

	seenAt := utils.Truncate(attrs.SeenAt)

	if asset == nil {
		return r.create(conn, platform, adID, attrs, seenAt)
	}

	if changed := r.backfill(asset, attrs, seenAt); changed {
		if err := r.assetRepo.Update(asset); err != nil {
			return nil, err
		}
	}

	return asset, nil
}

func (r *resolver) create(conn *domain.Connection, platform domain.Platform, adID string, attrs domain.AssetAttributes, seenAt time.Time) (*domain.CreativeAsset, error) {
	score := r.scorer.Generate(attrs.AssetFormat)

	asset := &domain.CreativeAsset{
		OrganizationID:     conn.OrganizationID,
		ConnectionID:       conn.ID,
		Platform:           platform,
		AdID:               adID,
		AdName:             attrs.AdName,
		AdGroupID:          attrs.AdGroupID,
		AdGroupName:        attrs.AdGroupName,
		CampaignID:         attrs.CampaignID,
		CampaignName:       attrs.CampaignName,
		CampaignObjective:  attrs.CampaignObjective,
		AdAccountID:        attrs.AdAccountID,
		CreativeID:         attrs.CreativeID,
		AssetFormat:        defaultFormat(attrs.AssetFormat),
		ThumbnailURL:       attrs.ThumbnailURL,
		AssetURL:           attrs.AssetURL,
		VideoDuration:      attrs.VideoDuration,
		Placement:          attrs.Placement,
		AceScore:           &score.Value,
		AceScoreConfidence: score.Confidence,
		ScoringMetadata:    score.Metadata,
		IsActive:           true,
		FirstSeenAt:        seenAt,
		LastSeenAt:         seenAt,
	}

	if err := r.assetRepo.Create(asset); err != nil {
		return nil, err
	}

	// A concurrent pass for the same natural key may have won the insert;
	// re-read so callers always hold the canonical row.
	created, err := r.assetRepo.GetByNaturalKey(conn.OrganizationID, platform, adID, attrs.AdAccountID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return asset, nil
	}

	logrus.WithFields(logrus.Fields{
		"asset_id": created.ID,
		"platform": platform,
		"ad_id":    adID,
	}).Debug("assets: created creative asset")

	return created, nil
}

// backfill fills still-empty optional fields and widens the seen-at bounds.
// Existing values are never overwritten.
func (r *resolver) backfill(asset *domain.CreativeAsset, attrs domain.AssetAttributes, seenAt time.Time) bool {
	changed := false

	if asset.ThumbnailURL == "" && attrs.ThumbnailURL != "" {
		asset.ThumbnailURL = attrs.ThumbnailURL
		changed = true
	}
	if asset.CreativeID == "" && attrs.CreativeID != "" {
		asset.CreativeID = attrs.CreativeID
		changed = true
	}
	if asset.AssetFormat == "" && attrs.AssetFormat != "" {
		asset.AssetFormat = attrs.AssetFormat
		changed = true
	}
	if asset.AssetURL == "" && attrs.AssetURL != "" {
		asset.AssetURL = attrs.AssetURL
		changed = true
	}

	firstSeen := utils.Truncate(asset.FirstSeenAt)
	lastSeen := utils.Truncate(asset.LastSeenAt)

	if seenAt.Before(firstSeen) {
		asset.FirstSeenAt = seenAt
		changed = true
	}
	if seenAt.After(lastSeen) {
		asset.LastSeenAt = seenAt
		changed = true
	}

	return changed
}

func defaultFormat(format string) string {
	if format == "" {
		return domain.AssetFormatImage
	}
	return format
}
