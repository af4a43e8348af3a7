package metaclient

import (
	"net/http"
	"time"

	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/pkg/utils"

	metadomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta/domain"
)

type Client interface {
	GetAdInsights(accessToken, accountID string, dateRange utils.DateRange) ([]metadomain.Insight, error)
	GetAdCreatives(accessToken, accountID string, adIDs []string) (map[string]metadomain.Ad, error)
	GetImageURL(accessToken, accountID, imageHash string) (string, error)
	GetVideoInfo(accessToken, videoID string) (*metadomain.Video, error)
}

type MetaClient struct {
	Cfg        *config.Config
	httpClient *http.Client
	cooldown   time.Duration
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		Cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cooldown: time.Duration(cfg.Sync.RateLimitCooldownSecs) * time.Second,
	}
}
