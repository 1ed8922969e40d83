package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileCatalog reads playlists from a YAML file:
//
//	playlists:
//	  - id: 37i9dQZF1DXcBWIGoYBM5M
//	    name: Today's Top Hits
//	    url: https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M
type FileCatalog struct {
	path string
}

type fileDoc struct {
	Playlists []Item `yaml:"playlists"`
}

// NewFileCatalog creates a catalog backed by path
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

func (f *FileCatalog) load() ([]Item, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", f.path, err)
	}

	for i, it := range doc.Playlists {
		if it.Name == "" || it.URL == "" {
			return nil, fmt.Errorf("catalog file %s: playlist %d needs a name and a url", f.path, i+1)
		}
		if it.ID == "" {
			doc.Playlists[i].ID = it.URL
		}
	}
	return doc.Playlists, nil
}

// ListItems returns the playlists in file order
func (f *FileCatalog) ListItems(ctx context.Context) ([]Item, error) {
	return f.load()
}

// ResolvePlayableURL returns the url of the playlist with the given id
func (f *FileCatalog) ResolvePlayableURL(ctx context.Context, id string) (string, error) {
	items, err := f.load()
	if err != nil {
		return "", err
	}
	it, err := find(items, id)
	if err != nil {
		return "", err
	}
	return it.URL, nil
}
