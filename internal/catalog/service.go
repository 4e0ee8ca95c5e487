package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/metrics"
	"github.com/mmcdole/iplay/internal/pager"
	"github.com/mmcdole/iplay/internal/session"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Binder hands out the active site's client and generation
type Binder interface {
	Binding() (session.Binding, error)
}

// Config tunes catalog fetches
type Config struct {
	MaxStreamingBitrate int
	LatestConcurrency   int
}

// Service fetches catalog data for the active site and stores it in a Cache
type Service struct {
	binder Binder
	cache  *Cache
	cfg    Config
	logger *slog.Logger

	group   singleflight.Group
	mu      sync.Mutex
	flights map[string]*flight
}

// NewService creates a catalog service
func NewService(binder Binder, cache *Cache, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LatestConcurrency <= 0 {
		cfg.LatestConcurrency = 1
	}
	return &Service{
		binder: binder,
		cache:  cache,
		cfg:     cfg,
		logger:  logger.With("component", "catalog"),
		flights: make(map[string]*flight),
	}
}

// Cache returns the cache the service writes to
func (s *Service) Cache() *Cache {
	return s.cache
}

// FetchAlbums loads the album list and replaces the cached one
func (s *Service) FetchAlbums(ctx context.Context) ([]domain.Album, error) {
	b, err := s.binder.Binding()
	if err != nil {
		return nil, err
	}

	albums, err := b.Client.GetView(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch albums: %w", err)
	}
	if err := s.cache.SetAlbums(b.Generation, albums); err != nil {
		return nil, err
	}

	s.logger.Debug("albums loaded", "count", len(albums))
	return albums, nil
}

// FetchActor loads one actor, fills missing fields with defaults, and caches it.
// Concurrent calls for the same id share one request.
func (s *Service) FetchActor(ctx context.Context, id string) (*domain.Actor, error) {
	b, err := s.binder.Binding()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("actor:%d:%s", b.Generation, id)
	v, err := s.coalesce(ctx, "fetch-actor", key, func(ctx context.Context) (any, error) {
		rec, err := b.Client.GetActor(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch actor %s: %w", id, err)
		}
		actor := normalizeActor(b.Client, id, rec)
		if err := s.cache.PutActor(b.Generation, actor); err != nil {
			return nil, err
		}
		return &actor, nil
	})
	if err != nil {
		return nil, err
	}

	actor := *v.(*domain.Actor)
	return &actor, nil
}

func normalizeActor(client domain.RemoteClient, id string, rec *domain.PersonRecord) domain.Actor {
	if rec == nil {
		rec = &domain.PersonRecord{}
	}
	actor := domain.Actor{
		ID:       rec.ID,
		Name:     rec.Name,
		Overview: rec.Overview,
	}
	if actor.ID == "" {
		actor.ID = id
	}
	actor.AvatarURL = client.ImageURL(actor.ID, rec.PrimaryTag, domain.ImagePrimary)
	return actor
}

// FetchActorWorks returns the movies and series an actor appears in. Not cached.
func (s *Service) FetchActorWorks(ctx context.Context, id string) ([]domain.MediaItem, error) {
	b, err := s.binder.Binding()
	if err != nil {
		return nil, err
	}

	items, err := b.Client.GetItems(ctx, domain.ItemFilter{
		PersonIDs:        []string{id},
		IncludeItemTypes: []string{domain.ItemTypeMovie, domain.ItemTypeSeries},
		Recursive:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch actor works %s: %w", id, err)
	}
	return items, nil
}

// FetchLatestMedia loads the newest items of every cached album concurrently.
// Results are stored by album position. A failed album leaves a nil slot; the
// call only fails when every album fails.
func (s *Service) FetchLatestMedia(ctx context.Context) ([][]domain.MediaItem, error) {
	b, err := s.binder.Binding()
	if err != nil {
		return nil, err
	}

	albums := s.cache.Albums()
	latest := make([][]domain.MediaItem, len(albums))
	errs := make([]error, len(albums))

	var g errgroup.Group
	g.SetLimit(s.cfg.LatestConcurrency)
	for i, album := range albums {
		g.Go(func() error {
			items, err := b.Client.GetLatestMedia(ctx, album.ID)
			if err != nil {
				s.logger.Warn("latest media failed", "albumID", album.ID, "error", err)
				errs[i] = fmt.Errorf("album %s: %w", album.ID, err)
				return nil
			}
			if items == nil {
				items = []domain.MediaItem{}
			}
			latest[i] = items
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if len(albums) > 0 && failed == len(albums) {
		return nil, fmt.Errorf("fetch latest media: %w", errors.Join(errs...))
	}

	if err := s.cache.SetLatest(b.Generation, latest); err != nil {
		return nil, err
	}
	s.logger.Debug("latest media loaded", "albums", len(albums), "failed", failed)
	return latest, nil
}

// FetchAlbumMedia pages through an album's whole collection and caches it.
// Concurrent calls for the same album share one pagination run.
// Nothing is cached unless every page succeeds.
func (s *Service) FetchAlbumMedia(ctx context.Context, albumID string) (*domain.AlbumMedia, error) {
	b, err := s.binder.Binding()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("album:%d:%s", b.Generation, albumID)
	v, err := s.coalesce(ctx, "fetch-album-media", key, func(ctx context.Context) (any, error) {
		return s.loadAlbumMedia(ctx, b, albumID)
	})
	if err != nil {
		return nil, err
	}

	media := *v.(*domain.AlbumMedia)
	media.Items = append([]domain.MediaItem(nil), media.Items...)
	return &media, nil
}

func (s *Service) loadAlbumMedia(ctx context.Context, b session.Binding, albumID string) (*domain.AlbumMedia, error) {
	album, err := b.Client.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("fetch album %s: %w", albumID, err)
	}
	itemType := domain.ItemTypeMovie
	if album != nil {
		itemType = album.ItemType()
	}

	fetch := func(ctx context.Context, startIndex int) ([]domain.MediaItem, int, error) {
		page, err := b.Client.GetCollection(ctx, albumID, itemType, startIndex)
		if err != nil {
			return nil, 0, err
		}
		metrics.PagesFetched.Inc()
		if page == nil {
			return nil, 0, nil
		}
		return page.Items, page.TotalRecordCount, nil
	}

	items, err := pager.FetchAll(ctx, fetch, pager.WithProgress(func(loaded, total int) {
		s.logger.Debug("album page loaded", "albumID", albumID, "loaded", loaded, "total", total)
	}))
	if err != nil {
		return nil, fmt.Errorf("fetch album media %s: %w", albumID, err)
	}

	media := domain.AlbumMedia{ID: albumID, Items: items}
	if err := s.cache.PutAlbumMedia(b.Generation, media); err != nil {
		return nil, err
	}
	s.logger.Info("album media loaded", "albumID", albumID, "type", itemType, "count", len(items))
	return &media, nil
}

// FetchPlaybackInfo returns playback sources for an item using the configured bitrate cap. Not cached.
func (s *Service) FetchPlaybackInfo(ctx context.Context, itemID string) (*domain.PlaybackInfo, error) {
	b, err := s.binder.Binding()
	if err != nil {
		return nil, err
	}

	info, err := b.Client.GetPlaybackInfo(ctx, itemID, domain.PlaybackOptions{
		MaxStreamingBitrate: s.cfg.MaxStreamingBitrate,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch playback info %s: %w", itemID, err)
	}
	return info, nil
}
