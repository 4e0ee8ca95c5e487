package catalog

import (
	"strings"

	"github.com/mmcdole/iplay/internal/domain"
	"github.com/sahilm/fuzzy"
)

// SearchResult is a cached item matched by name
type SearchResult struct {
	Item           domain.MediaItem
	AlbumID        string // Empty when the item only appears in latest media
	MatchedIndexes []int
	Score          int
}

// searchIndex implements fuzzy.Source over lowercase item names
type searchIndex struct {
	items      []SearchResult
	lowerNames []string
}

func (idx *searchIndex) String(i int) string { return idx.lowerNames[i] }

func (idx *searchIndex) Len() int { return len(idx.items) }

func (idx *searchIndex) add(seen map[string]bool, albumID string, item domain.MediaItem) {
	if seen[item.ID] {
		return
	}
	seen[item.ID] = true
	idx.items = append(idx.items, SearchResult{Item: item, AlbumID: albumID})
	idx.lowerNames = append(idx.lowerNames, strings.ToLower(item.Name))
}

// Search fuzzy-matches query against every cached album media and latest media item.
// Results are best match first; limit <= 0 returns all.
func (c *Cache) Search(query string, limit int) []SearchResult {
	if query == "" {
		return nil
	}

	c.mu.RLock()
	idx := &searchIndex{}
	seen := make(map[string]bool)
	for id, media := range c.albumMedia {
		for _, item := range media.Items {
			idx.add(seen, id, item)
		}
	}
	for i, items := range c.latest {
		albumID := ""
		if i < len(c.albums) {
			albumID = c.albums[i].ID
		}
		for _, item := range items {
			idx.add(seen, albumID, item)
		}
	}
	c.mu.RUnlock()

	if idx.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		r := idx.items[m.Index]
		r.MatchedIndexes = m.MatchedIndexes
		r.Score = m.Score
		results[i] = r
	}
	return results
}
