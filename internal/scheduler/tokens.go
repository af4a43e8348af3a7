package scheduler

import (
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/youtube/googleclient"
)

type googleTokenRefresher struct {
	client googleclient.Client
}

// NewGoogleTokenRefresher adapts the Google Ads OAuth client to the runner's
// refresher contract.
func NewGoogleTokenRefresher(client googleclient.Client) TokenRefresher {
	return &googleTokenRefresher{client: client}
}

func (g *googleTokenRefresher) Refresh(refreshToken string) (string, int, error) {
	token, err := g.client.RefreshAccessToken(refreshToken)
	if err != nil {
		return "", 0, err
	}
	return token.AccessToken, token.ExpiresIn, nil
}
