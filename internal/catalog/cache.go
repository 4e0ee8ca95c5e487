// Package catalog keeps the active site's albums, actors, and media in memory
// and fetches them from the bound remote client.
package catalog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/metrics"
)

// Cache holds catalog data for exactly one site generation.
// Writes stamped with another generation are dropped.
type Cache struct {
	mu         sync.RWMutex
	generation uint64
	albums     []domain.Album
	latest     [][]domain.MediaItem // Aligned with albums; nil slot = not loaded
	actors     map[string]domain.Actor
	albumMedia map[string]domain.AlbumMedia

	logger *slog.Logger
}

// Snapshot is a point-in-time copy of the cache
type Snapshot struct {
	Generation uint64
	Albums     []domain.Album
	Latest     [][]domain.MediaItem
	Actors     map[string]domain.Actor
	AlbumMedia map[string]domain.AlbumMedia
}

// NewCache creates an empty cache at generation 0
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		actors:     make(map[string]domain.Actor),
		albumMedia: make(map[string]domain.AlbumMedia),
		logger:     logger.With("component", "catalog"),
	}
}

// Reset empties the cache and moves it to generation
func (c *Cache) Reset(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation = generation
	c.albums = nil
	c.latest = nil
	c.actors = make(map[string]domain.Actor)
	c.albumMedia = make(map[string]domain.AlbumMedia)
	c.logger.Debug("cache reset", "generation", generation)
}

// Rebind moves the cache to generation keeping its contents.
// Used when the same site is re-authenticated.
func (c *Cache) Rebind(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation = generation
}

// Generation returns the generation the cache currently serves
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// checkGeneration must be called with mu held
func (c *Cache) checkGeneration(generation uint64, what string) error {
	if generation == c.generation {
		return nil
	}
	metrics.StaleWritesDropped.Inc()
	c.logger.Info("dropping stale write", "what", what, "write", generation, "current", c.generation)
	return fmt.Errorf("write %s: %w", what, domain.ErrStaleSite)
}

// SetAlbums replaces the album list
func (c *Cache) SetAlbums(generation uint64, albums []domain.Album) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkGeneration(generation, "albums"); err != nil {
		return err
	}
	c.albums = albums
	return nil
}

// SetLatest replaces the latest-media list
func (c *Cache) SetLatest(generation uint64, latest [][]domain.MediaItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkGeneration(generation, "latest"); err != nil {
		return err
	}
	c.latest = latest
	return nil
}

// PutActor inserts or overwrites one actor
func (c *Cache) PutActor(generation uint64, actor domain.Actor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkGeneration(generation, "actor"); err != nil {
		return err
	}
	c.actors[actor.ID] = actor
	return nil
}

// PutAlbumMedia inserts or overwrites one album's media
func (c *Cache) PutAlbumMedia(generation uint64, media domain.AlbumMedia) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkGeneration(generation, "album media"); err != nil {
		return err
	}
	c.albumMedia[media.ID] = media
	return nil
}

// Albums returns the cached albums
func (c *Cache) Albums() []domain.Album {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Album(nil), c.albums...)
}

// LatestMedia returns the cached latest-media lists
func (c *Cache) LatestMedia() [][]domain.MediaItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([][]domain.MediaItem(nil), c.latest...)
}

func (c *Cache) Actor(id string) (domain.Actor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.actors[id]
	return a, ok
}

func (c *Cache) AlbumMedia(id string) (domain.AlbumMedia, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.albumMedia[id]
	return m, ok
}

// Snapshot copies the whole cache
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Generation: c.generation,
		Albums:     append([]domain.Album(nil), c.albums...),
		Latest:     append([][]domain.MediaItem(nil), c.latest...),
		Actors:     make(map[string]domain.Actor, len(c.actors)),
		AlbumMedia: make(map[string]domain.AlbumMedia, len(c.albumMedia)),
	}
	for k, v := range c.actors {
		s.Actors[k] = v
	}
	for k, v := range c.albumMedia {
		s.AlbumMedia[k] = v
	}
	return s
}
