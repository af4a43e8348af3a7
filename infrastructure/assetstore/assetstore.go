package assetstore

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/internal/config"
)

// Store caches downloaded creative media on local disk so the API can serve
// it after the platform CDN URLs expire. Downloads are best effort: a failed
// fetch returns an error the caller is expected to log and move past.
type Store interface {
	// Fetch downloads the URL into the organization's directory and returns
	// the served URL. An already-cached non-empty file is reused without a
	// network call.
	Fetch(url, organizationID, adID, prefix string) (string, error)
}

type localStore struct {
	baseDir      string
	servedPrefix string
	client       *http.Client
}

func New(cfg config.Assets) Store {
	return &localStore{
		baseDir:      cfg.CreativesDir,
		servedPrefix: strings.TrimSuffix(cfg.ServedPrefix, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (s *localStore) Fetch(url, organizationID, adID, prefix string) (string, error) {
	orgDir := filepath.Join(s.baseDir, organizationID)
	if err := os.MkdirAll(orgDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating creatives directory")
	}

	filename := prefix + "_" + adID + extensionFromURL(url)
	localPath := filepath.Join(orgDir, filename)

	if info, err := os.Stat(localPath); err == nil && info.Size() > 0 {
		return s.servedURL(organizationID, filename), nil
	}

	resp, err := s.client.Get(url)
	if err != nil {
		return "", errors.Wrap(err, "downloading asset")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("downloading asset: status %d", resp.StatusCode)
	}

	// The URL often hides the real type behind a CDN path; trust the
	// content type over the URL when they disagree.
	if ext := extensionFromContentType(resp.Header.Get("Content-Type")); ext != "" {
		filename = prefix + "_" + adID + ext
		localPath = filepath.Join(orgDir, filename)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return "", errors.Wrap(err, "creating asset file")
	}
	defer file.Close()

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		os.Remove(localPath)
		return "", errors.Wrap(err, "writing asset file")
	}

	logrus.WithFields(logrus.Fields{
		"organization_id": organizationID,
		"file":            filename,
		"bytes":           written,
	}).Debug("assets: downloaded creative")

	return s.servedURL(organizationID, filename), nil
}

func (s *localStore) servedURL(organizationID, filename string) string {
	return s.servedPrefix + "/" + organizationID + "/" + filename
}

func extensionFromURL(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".png"):
		return ".png"
	case strings.Contains(lower, ".mp4"):
		return ".mp4"
	case strings.Contains(lower, ".webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

func extensionFromContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "mp4"), strings.Contains(contentType, "video"):
		return ".mp4"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	default:
		return ""
	}
}
