// Package catalog lists the playlists a user can download.
//
// Two sources exist: the Spotify Web API for the current user, and a YAML
// file for offline use and tests.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrNotFound is returned when no playlist matches an id or query
var ErrNotFound = errors.New("playlist not found")

// Item is one playlist
type Item struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Catalog is a source of playlists
type Catalog interface {
	ListItems(ctx context.Context) ([]Item, error)
	ResolvePlayableURL(ctx context.Context, id string) (string, error)
}

type names []Item

func (n names) String(i int) string { return n[i].Name }
func (n names) Len() int            { return len(n) }

// Match returns the item whose name best matches query. An exact
// case-insensitive name wins over fuzzy ranking.
func Match(items []Item, query string) (Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Item{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}

	for _, it := range items {
		if strings.EqualFold(it.Name, query) || it.ID == query {
			return it, nil
		}
	}

	matches := fuzzy.FindFrom(query, names(items))
	if len(matches) == 0 {
		return Item{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}
	return items[matches[0].Index], nil
}

// find returns the item with the given id
func find(items []Item, id string) (Item, error) {
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
