package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/jmespath/go-jmespath"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the Spotify Web API root
const DefaultBaseURL = "https://api.spotify.com/v1"

const (
	pageSize = 50
	maxPages = 200
)

var (
	itemsExpr = jmespath.MustCompile("items[].{id: id, name: name, url: external_urls.spotify}")
	nextExpr  = jmespath.MustCompile("next")
	urlExpr   = jmespath.MustCompile("external_urls.spotify")
	errorExpr = jmespath.MustCompile("error.message || error_description || error")
)

// Spotify lists the current user's playlists through the Web API.
// The HTTP client must authenticate requests, e.g. one returned by
// oauth2.Config.Client.
type Spotify struct {
	client  *http.Client
	baseURL string
	log     *logrus.Entry

	mu   sync.Mutex
	urls map[string]string
}

// NewSpotify creates a client; an empty baseURL uses DefaultBaseURL
func NewSpotify(client *http.Client, baseURL string, log *logrus.Entry) *Spotify {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Spotify{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		urls:    make(map[string]string),
	}
}

// ListItems follows the paging links of /me/playlists until exhausted
func (s *Spotify) ListItems(ctx context.Context) ([]Item, error) {
	next := fmt.Sprintf("%s/me/playlists?limit=%d", s.baseURL, pageSize)

	var items []Item
	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("playlist listing exceeded %d pages", maxPages)
		}

		doc, err := s.get(ctx, next)
		if err != nil {
			return nil, err
		}

		pageItems, err := extractItems(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, pageItems...)

		next, err = extractNext(doc)
		if err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{"page": page, "items": len(pageItems)}).Debug("fetched playlist page")
	}

	s.mu.Lock()
	for _, it := range items {
		s.urls[it.ID] = it.URL
	}
	s.mu.Unlock()

	return items, nil
}

// ResolvePlayableURL returns the open.spotify.com url of a playlist
func (s *Spotify) ResolvePlayableURL(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	cached, ok := s.urls[id]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/playlists/%s?fields=external_urls", s.baseURL, url.PathEscape(id))
	doc, err := s.get(ctx, endpoint)
	if err != nil {
		return "", err
	}

	result, err := urlExpr.Search(doc)
	if err != nil {
		return "", fmt.Errorf("failed to read playlist url: %w", err)
	}
	link, _ := result.(string)
	if link == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.mu.Lock()
	s.urls[id] = link
	s.mu.Unlock()
	return link, nil
}

func (s *Spotify) get(ctx context.Context, endpoint string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var doc interface{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("invalid JSON from %s: %w", req.URL.Path, err)
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("spotify API %s: %s", resp.Status, apiError(doc))
	}
	return doc, nil
}

func extractItems(doc interface{}) ([]Item, error) {
	result, err := itemsExpr.Search(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlists: %w", err)
	}

	raw, _ := result.([]interface{})
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		it := Item{
			ID:   str(m["id"]),
			Name: str(m["name"]),
			URL:  str(m["url"]),
		}
		// Playlists removed from the library come back without a url
		if it.ID == "" || it.URL == "" {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func extractNext(doc interface{}) (string, error) {
	result, err := nextExpr.Search(doc)
	if err != nil {
		return "", fmt.Errorf("failed to read paging link: %w", err)
	}
	return str(result), nil
}

func apiError(doc interface{}) string {
	if doc == nil {
		return "no details"
	}
	result, err := errorExpr.Search(doc)
	if err != nil || result == nil {
		return "no details"
	}
	if s := str(result); s != "" {
		return s
	}
	return "no details"
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
