package meta_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"

	metadomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta/domain"
)

// fakeClient returns canned Graph API payloads.
type fakeClient struct {
	insights  []metadomain.Insight
	creatives map[string]metadomain.Ad
	videos    map[string]*metadomain.Video
	imageURLs map[string]string
}

func (f *fakeClient) GetAdInsights(accessToken, accountID string, dateRange utils.DateRange) ([]metadomain.Insight, error) {
	return f.insights, nil
}

func (f *fakeClient) GetAdCreatives(accessToken, accountID string, adIDs []string) (map[string]metadomain.Ad, error) {
	result := make(map[string]metadomain.Ad, len(adIDs))
	for _, id := range adIDs {
		if ad, ok := f.creatives[id]; ok {
			result[id] = ad
		}
	}
	return result, nil
}

func (f *fakeClient) GetImageURL(accessToken, accountID, imageHash string) (string, error) {
	return f.imageURLs[imageHash], nil
}

func (f *fakeClient) GetVideoInfo(accessToken, videoID string) (*metadomain.Video, error) {
	return f.videos[videoID], nil
}

// fakeAssets records fetches and pretends every download works.
type fakeAssets struct {
	fetched []string
}

func (f *fakeAssets) Fetch(url, organizationID, adID, prefix string) (string, error) {
	f.fetched = append(f.fetched, url)
	return "/static/creatives/" + organizationID + "/" + prefix + "_" + adID + ".jpg", nil
}

func connection() *domain.Connection {
	return &domain.Connection{
		ID:             "conn-1",
		OrganizationID: "org-1",
		Platform:       domain.PlatformMeta,
		AdAccountID:    "123",
		Currency:       "BRL",
	}
}

func marchRange() utils.DateRange {
	return utils.DateRange{
		From: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchPerformance_MapsInsightWithConversionWhitelists(t *testing.T) {
	client := &fakeClient{
		insights: []metadomain.Insight{{
			DateStart:    "2024-03-14",
			CampaignID:   "camp-1",
			CampaignName: "Spring",
			Objective:    "OUTCOME_SALES",
			AdsetID:      "set-1",
			AdID:         "ad-1",
			AdName:       "Video A",
			Spend:        "50.00",
			Impressions:  "10000",
			Clicks:       "200",
			CTR:          "2.0",
			Reach:        "8000",
			Frequency:    "1.25",
			Actions: []metadomain.ActionValue{
				{ActionType: "purchase", Value: "4"},
				{ActionType: "lead", Value: "6"},
				{ActionType: "link_click", Value: "150"},
			},
			ActionValues: []metadomain.ActionValue{
				{ActionType: "purchase", Value: "400.00"},
				{ActionType: "lead", Value: "999.00"},
			},
			VideoPlayActions: []metadomain.ActionValue{{ActionType: "video_view", Value: "5000"}},
			VideoP100Watched: []metadomain.ActionValue{{ActionType: "video_view", Value: "1000"}},
		}},
	}

	service := meta.New(&config.Config{}, client, &fakeAssets{})

	rows, err := service.FetchPerformance(connection(), "token", marchRange())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), row.ReportDate)
	assert.Equal(t, "BRL", row.Currency)
	assert.Equal(t, 50.0, row.Spend)
	assert.Equal(t, int64(10000), row.Impressions)

	// link_click is not in the conversion whitelist; the lead action value is
	// not in the value whitelist.
	assert.Equal(t, int64(10), row.Conversions)
	assert.Equal(t, 400.0, row.ConversionValue)

	require.NotNil(t, row.CVR)
	assert.Equal(t, 0.05, *row.CVR)
	require.NotNil(t, row.ROAS)
	assert.Equal(t, 8.0, *row.ROAS)

	require.NotNil(t, row.VideoViews)
	assert.Equal(t, int64(5000), *row.VideoViews)
	require.NotNil(t, row.VideoViewRate)
	assert.Equal(t, 50.0, *row.VideoViewRate)
	require.NotNil(t, row.VideoCompletionRate)
	assert.Equal(t, 20.0, *row.VideoCompletionRate)

	assert.Equal(t, 8000.0, row.ExtraMetrics["reach"])
	assert.Equal(t, 1.25, row.ExtraMetrics["frequency"])
}

func TestFetchPerformance_SkipsUnparseableDate(t *testing.T) {
	client := &fakeClient{
		insights: []metadomain.Insight{
			{DateStart: "not-a-date", AdID: "ad-1"},
			{DateStart: "2024-03-14", AdID: "ad-2"},
		},
	}

	service := meta.New(&config.Config{}, client, &fakeAssets{})

	rows, err := service.FetchPerformance(connection(), "token", marchRange())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ad-2", rows[0].AdID)
}

func TestBackfillCreatives_ResolvesVideoThroughLadder(t *testing.T) {
	assets := &fakeAssets{}
	client := &fakeClient{
		creatives: map[string]metadomain.Ad{
			"ad-1": {
				ID: "ad-1",
				Creative: metadomain.Creative{
					ID: "creative-1",
					ObjectStorySpec: &metadomain.StorySpec{
						VideoData: &metadomain.VideoData{VideoID: "vid-9"},
					},
				},
			},
		},
		videos: map[string]*metadomain.Video{
			"vid-9": {
				ID:     "vid-9",
				Source: "https://video.example.com/vid-9.mp4",
				Thumbnails: struct {
					Data []metadomain.VideoThumbnail `json:"data"`
				}{Data: []metadomain.VideoThumbnail{{URI: "https://cdn.example.com/thumb.jpg"}}},
			},
		},
	}

	service := meta.New(&config.Config{}, client, assets)

	updates, err := service.BackfillCreatives(connection(), "token", []string{"ad-1"})

	require.NoError(t, err)
	require.Contains(t, updates, "ad-1")

	update := updates["ad-1"]
	require.NotNil(t, update.AssetFormat)
	assert.Equal(t, domain.AssetFormatVideo, *update.AssetFormat)
	require.NotNil(t, update.CreativeID)
	assert.Equal(t, "creative-1", *update.CreativeID)
	require.NotNil(t, update.AssetURL)
	require.NotNil(t, update.ThumbnailURL)

	assert.Contains(t, assets.fetched, "https://video.example.com/vid-9.mp4")
	assert.Contains(t, assets.fetched, "https://cdn.example.com/thumb.jpg")
}

func TestBackfillCreatives_ResolvesImageByHash(t *testing.T) {
	assets := &fakeAssets{}
	client := &fakeClient{
		creatives: map[string]metadomain.Ad{
			"ad-1": {
				ID: "ad-1",
				Creative: metadomain.Creative{
					ID:        "creative-2",
					ImageHash: "hash-1",
				},
			},
		},
		imageURLs: map[string]string{"hash-1": "https://cdn.example.com/full.jpg"},
	}

	service := meta.New(&config.Config{}, client, assets)

	updates, err := service.BackfillCreatives(connection(), "token", []string{"ad-1"})

	require.NoError(t, err)
	require.Contains(t, updates, "ad-1")

	update := updates["ad-1"]
	require.NotNil(t, update.AssetFormat)
	assert.Equal(t, domain.AssetFormatImage, *update.AssetFormat)
	assert.Contains(t, assets.fetched, "https://cdn.example.com/full.jpg")
}
