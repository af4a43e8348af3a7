package metaclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/internal/domain"

	metadomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta/domain"
)

const creativeFields = "id,creative{id,thumbnail_url,image_url,image_hash,video_id,object_type,object_story_spec,asset_feed_spec}"

// GetAdCreatives fetches creatives for a batch of ads via the /ads endpoint
// with an id filter, keyed by ad id in the result.
func (c *MetaClient) GetAdCreatives(accessToken, accountID string, adIDs []string) (map[string]metadomain.Ad, error) {
	quoted := make([]string, 0, len(adIDs))
	for _, id := range adIDs {
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}
	filtering := fmt.Sprintf(`[{"field":"id","operator":"IN","value":[%s]}]`, strings.Join(quoted, ","))

	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", creativeFields)
	params.Set("filtering", filtering)
	params.Set("limit", "100")

	requestURL := fmt.Sprintf("%s/act_%s/ads?%s", c.Cfg.Meta.URL, accountID, params.Encode())
	result := make(map[string]metadomain.Ad)

	for requestURL != "" {
		req, err := http.NewRequest(http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, errors.Wrap(err, "building ads request")
		}

		body, err := integrator.Do(c.httpClient, domain.PlatformMeta, req, c.cooldown)
		if err != nil {
			return nil, err
		}

		var response metadomain.AdsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, errors.Wrap(err, "decoding ads response")
		}

		for _, ad := range response.Data {
			result[ad.ID] = ad
		}

		requestURL = response.Paging.Next
	}

	return result, nil
}

// GetImageURL resolves an image hash to its full-resolution URL via the
// /adimages endpoint. A hash with no resolvable URL yields an empty string.
func (c *MetaClient) GetImageURL(accessToken, accountID, imageHash string) (string, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("hashes", fmt.Sprintf(`["%s"]`, imageHash))
	params.Set("fields", "url,url_128,width,height,name")

	requestURL := fmt.Sprintf("%s/act_%s/adimages?%s", c.Cfg.Meta.URL, accountID, params.Encode())
	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "building adimages request")
	}

	body, err := integrator.Do(c.httpClient, domain.PlatformMeta, req, c.cooldown)
	if err != nil {
		return "", err
	}

	// The data node is a hash-keyed object on some API versions and a plain
	// list on others.
	var keyed struct {
		Data map[string]metadomain.AdImage `json:"data"`
	}
	if err := json.Unmarshal(body, &keyed); err == nil && len(keyed.Data) > 0 {
		if img, ok := keyed.Data[imageHash]; ok && img.URL != "" {
			return img.URL, nil
		}
		for _, img := range keyed.Data {
			if img.URL != "" {
				return img.URL, nil
			}
		}
		return "", nil
	}

	var listed struct {
		Data []metadomain.AdImage `json:"data"`
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		return "", errors.Wrap(err, "decoding adimages response")
	}
	for _, img := range listed.Data {
		if img.URL != "" {
			return img.URL, nil
		}
	}

	return "", nil
}

// GetVideoInfo fetches an ad video's metadata, including its downloadable
// source URL and thumbnails.
func (c *MetaClient) GetVideoInfo(accessToken, videoID string) (*metadomain.Video, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", "id,title,source,thumbnails,length")

	requestURL := fmt.Sprintf("%s/%s?%s", c.Cfg.Meta.URL, videoID, params.Encode())
	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building video request")
	}

	body, err := integrator.Do(c.httpClient, domain.PlatformMeta, req, c.cooldown)
	if err != nil {
		return nil, err
	}

	video := &metadomain.Video{}
	if err := json.Unmarshal(body, video); err != nil {
		return nil, errors.Wrap(err, "decoding video response")
	}

	logrus.WithFields(logrus.Fields{
		"video_id":   videoID,
		"has_source": video.Source != "",
		"length_s":   video.Length,
	}).Debug("ingest: fetched video info")

	return video, nil
}
