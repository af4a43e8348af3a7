package googleclient

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/internal/domain"

	youtubedomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/youtube/domain"
)

// RefreshAccessToken exchanges the stored refresh token for a fresh access
// token via the OAuth refresh grant.
func (c *GoogleClient) RefreshAccessToken(refreshToken string) (*youtubedomain.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.Cfg.GoogleAds.ClientID)
	form.Set("client_secret", c.Cfg.GoogleAds.ClientSecret)

	req, err := http.NewRequest(http.MethodPost, c.Cfg.GoogleAds.OAuthTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "building token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := integrator.Do(c.httpClient, domain.PlatformYouTube, req, c.cooldown)
	if err != nil {
		return nil, errors.Wrap(err, "refreshing access token")
	}

	token := &youtubedomain.TokenResponse{}
	if err := json.Unmarshal(body, token); err != nil {
		return nil, errors.Wrap(err, "decoding token response")
	}
	if token.AccessToken == "" {
		return nil, errors.New("token response missing access_token")
	}

	return token, nil
}
