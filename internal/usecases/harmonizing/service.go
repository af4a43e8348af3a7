package harmonizing

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/internal/usecases/assets"
	"github.com/vfg2006/creative-performance-api/internal/usecases/converting"
)

const fallbackCurrency = "USD"

// Service turns unprocessed raw rows into canonical harmonized rows:
// resolves the asset, converts money into the organization's reporting
// currency and maps platform fields onto the shared schema.
type Service interface {
	Harmonize(conn *domain.Connection, dateFrom, dateTo *time.Time) (int, error)
}

type harmonizer struct {
	rawRepos       map[domain.Platform]repository.RawPerformanceRepository
	harmonizedRepo repository.HarmonizedRepository
	connectionRepo repository.ConnectionRepository
	converter      converting.Service
	resolver       assets.Resolver
}

func NewService(
	rawRepos map[domain.Platform]repository.RawPerformanceRepository,
	harmonizedRepo repository.HarmonizedRepository,
	connectionRepo repository.ConnectionRepository,
	converter converting.Service,
	resolver assets.Resolver,
) Service {
	return &harmonizer{
		rawRepos:       rawRepos,
		harmonizedRepo: harmonizedRepo,
		connectionRepo: connectionRepo,
		converter:      converter,
		resolver:       resolver,
	}
}

func (h *harmonizer) Harmonize(conn *domain.Connection, dateFrom, dateTo *time.Time) (int, error) {
	rawRepo, ok := h.rawRepos[conn.Platform]
	if !ok {
		return 0, errors.Errorf("no raw repository for platform %s", conn.Platform)
	}

	orgCurrency := fallbackCurrency
	org, err := h.connectionRepo.GetOrganization(conn.OrganizationID)
	if err != nil {
		return 0, errors.Wrap(err, "loading organization")
	}
	if org != nil && org.Currency != "" {
		orgCurrency = org.Currency
	}

	rawRows, err := rawRepo.ListUnprocessed(conn.ID, dateFrom, dateTo)
	if err != nil {
		return 0, errors.Wrap(err, "listing unprocessed rows")
	}

	processed := 0
	for _, raw := range rawRows {
		if err := h.harmonizeRecord(conn, rawRepo, raw, orgCurrency); err != nil {
			// One malformed record must not abort the batch.
			logrus.WithFields(logrus.Fields{
				"connection_id": conn.ID,
				"platform":      conn.Platform,
				"raw_id":        raw.ID,
				"report_date":   raw.ReportDate,
				"error":         err.Error(),
			}).Error("harmonize: skipping record")
			continue
		}
		processed++
	}

	logrus.WithFields(logrus.Fields{
		"connection_id": conn.ID,
		"platform":      conn.Platform,
		"unprocessed":   len(rawRows),
		"processed":     processed,
	}).Info("harmonize: pass finished")

	return processed, nil
}

func (h *harmonizer) harmonizeRecord(conn *domain.Connection, rawRepo repository.RawPerformanceRepository, raw *domain.RawPerformance, orgCurrency string) error {
	originalCurrency := raw.Currency
	if originalCurrency == "" {
		originalCurrency = conn.Currency
	}
	if originalCurrency == "" {
		originalCurrency = fallbackCurrency
	}

	rate, err := h.converter.Rate(originalCurrency, orgCurrency, raw.ReportDate)
	if err != nil {
		if !errors.Is(err, converting.ErrRateUnavailable) {
			return errors.Wrap(err, "resolving exchange rate")
		}
		logrus.WithFields(logrus.Fields{
			"connection_id":     conn.ID,
			"report_date":       raw.ReportDate,
			"original_currency": originalCurrency,
			"org_currency":      orgCurrency,
		}).Warn("harmonize: exchange rate unavailable, monetary fields kept at 1:1")
	}

	asset, err := h.resolver.EnsureAsset(conn, conn.Platform, raw.AdID, domain.AssetAttributes{
		AdName:            raw.AdName,
		AdGroupID:         raw.AdGroupID,
		AdGroupName:       raw.AdGroupName,
		CampaignID:        raw.CampaignID,
		CampaignName:      raw.CampaignName,
		CampaignObjective: raw.CampaignObjective,
		AdAccountID:       raw.AdAccountID,
		CreativeID:        raw.CreativeID,
		AssetFormat:       raw.AssetFormat,
		ThumbnailURL:      raw.ThumbnailURL,
		AssetURL:          raw.AssetURL,
		Placement:         raw.PlacementType,
		SeenAt:            raw.ReportDate,
	})
	if err != nil {
		return errors.Wrap(err, "resolving asset")
	}

	row := h.mapRow(conn, raw, asset, orgCurrency, originalCurrency, rate)

	if err := h.harmonizedRepo.Upsert(row); err != nil {
		return errors.Wrap(err, "upserting harmonized row")
	}

	if err := rawRepo.MarkProcessed([]string{raw.ID}); err != nil {
		return errors.Wrap(err, "marking raw row processed")
	}

	return nil
}

func (h *harmonizer) mapRow(conn *domain.Connection, raw *domain.RawPerformance, asset *domain.CreativeAsset, orgCurrency, originalCurrency string, rate float64) *domain.HarmonizedPerformance {
	row := &domain.HarmonizedPerformance{
		AssetID:           asset.ID,
		ConnectionID:      conn.ID,
		ReportDate:        raw.ReportDate,
		Platform:          conn.Platform,
		AdAccountID:       raw.AdAccountID,
		CampaignID:        raw.CampaignID,
		CampaignName:      raw.CampaignName,
		CampaignObjective: raw.CampaignObjective,
		AdGroupID:         raw.AdGroupID,
		AdGroupName:       raw.AdGroupName,
		AdID:              raw.AdID,
		AdName:            raw.AdName,
		AssetFormat:       assetFormatOrDefault(raw.AssetFormat, conn.Platform),
		OrgCurrency:       orgCurrency,
		OriginalCurrency:  originalCurrency,
		ExchangeRate:      rate,

		// Monetary fields move into the reporting currency; counts and
		// ratios are currency-invariant and pass through unchanged.
		Spend:           raw.Spend * rate,
		Impressions:     raw.Impressions,
		Clicks:          raw.Clicks,
		CTR:             raw.CTR,
		CPM:             raw.CPM * rate,
		CPC:             raw.CPC * rate,
		Conversions:     raw.Conversions,
		ConversionValue: raw.ConversionValue * rate,
		CVR:             raw.CVR,
		ROAS:            raw.ROAS,

		VideoViews:          raw.VideoViews,
		VideoCompletionRate: raw.VideoCompletionRate,
		CostPerView:         convertOptional(raw.CostPerView, rate),

		HarmonizedAt: time.Now().UTC(),
	}

	// View-through rate: platforms that report a dedicated view rate win;
	// the completion rate is the closest stand-in otherwise.
	if raw.VideoViewRate != nil {
		row.VTR = raw.VideoViewRate
	} else if raw.VideoCompletionRate != nil {
		row.VTR = raw.VideoCompletionRate
	}

	extras := make(map[string]any, len(raw.ExtraMetrics)+1)
	for key, value := range raw.ExtraMetrics {
		extras[key] = value
	}
	if raw.PlacementType != "" {
		extras["placement_type"] = raw.PlacementType
	}
	if len(extras) > 0 {
		row.PlatformExtras = extras
	}

	return row
}

func convertOptional(value *float64, rate float64) *float64 {
	if value == nil {
		return nil
	}
	converted := *value * rate
	return &converted
}

func assetFormatOrDefault(format string, platform domain.Platform) string {
	if format != "" {
		return format
	}
	if platform == domain.PlatformMeta {
		return domain.AssetFormatImage
	}
	return domain.AssetFormatVideo
}
