package engine

import (
	"context"
	"time"

	"github.com/mmcdole/iplay/internal/catalog"
	"github.com/mmcdole/iplay/internal/domain"
)

// Login authenticates and makes the new site active. cb, when set, is
// invoked once after the session has been updated.
func (e *Engine) Login(ctx context.Context, username, password string, endpoint domain.Endpoint, cb *Callback) (*domain.Site, error) {
	start := time.Now()
	site, err := e.session.Authenticate(ctx, username, password, endpoint)
	e.settle(OpLogin, endpoint.BaseURL(), start, site, err)

	if cb != nil {
		if err != nil {
			if cb.Reject != nil {
				cb.Reject(err)
			}
		} else if cb.Resolve != nil {
			cb.Resolve(site)
		}
	}
	return site, err
}

// Switch activates a known site and empties the catalog.
// An unknown id resolves to nil without changing anything.
func (e *Engine) Switch(ctx context.Context, siteID string) (*domain.Site, error) {
	start := time.Now()
	site, err := e.session.SwitchTo(ctx, siteID)
	e.settle(OpSwitch, siteID, start, siteValue(site), err)
	return site, err
}

// Restore reinstates the persisted site, if any
func (e *Engine) Restore(ctx context.Context) (*domain.Site, error) {
	start := time.Now()
	site, err := e.session.Restore(ctx)
	e.settle(OpRestore, "", start, siteValue(site), err)
	return site, err
}

// siteValue keeps "no site" an untyped nil for listeners and results
func siteValue(site *domain.Site) any {
	if site == nil {
		return nil
	}
	return site
}

// Remove forgets a known site and reports whether it was known
func (e *Engine) Remove(ctx context.Context, siteID string) (bool, error) {
	start := time.Now()
	removed, err := false, ctx.Err()
	if err == nil {
		removed, err = e.session.Remove(siteID)
	}
	e.settle(OpRemove, siteID, start, removed, err)
	return removed, err
}

// FetchAlbums loads the active site's albums
func (e *Engine) FetchAlbums(ctx context.Context) ([]domain.Album, error) {
	start := time.Now()
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	albums, err := e.catalog.FetchAlbums(ctx)
	err = staleCause(ctx, err)
	e.settle(OpFetchAlbums, "", start, albums, err)
	return albums, err
}

// FetchActor loads and caches one actor
func (e *Engine) FetchActor(ctx context.Context, id string) (*domain.Actor, error) {
	start := time.Now()
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	actor, err := e.catalog.FetchActor(ctx, id)
	err = staleCause(ctx, err)
	e.settle(OpFetchActor, id, start, actor, err)
	return actor, err
}

// FetchActorWorks returns an actor's movies and series
func (e *Engine) FetchActorWorks(ctx context.Context, id string) ([]domain.MediaItem, error) {
	start := time.Now()
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	items, err := e.catalog.FetchActorWorks(ctx, id)
	err = staleCause(ctx, err)
	e.settle(OpFetchActorWorks, id, start, items, err)
	return items, err
}

// FetchLatestMedia loads the latest items of every cached album
func (e *Engine) FetchLatestMedia(ctx context.Context) ([][]domain.MediaItem, error) {
	start := time.Now()
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	latest, err := e.catalog.FetchLatestMedia(ctx)
	err = staleCause(ctx, err)
	e.settle(OpFetchLatestMedia, "", start, latest, err)
	return latest, err
}

// FetchAlbumMedia loads and caches an album's complete collection
func (e *Engine) FetchAlbumMedia(ctx context.Context, albumID string) (*domain.AlbumMedia, error) {
	start := time.Now()
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	media, err := e.catalog.FetchAlbumMedia(ctx, albumID)
	err = staleCause(ctx, err)
	e.settle(OpFetchAlbumMedia, albumID, start, media, err)
	return media, err
}

// FetchPlaybackInfo returns playback sources for an item
func (e *Engine) FetchPlaybackInfo(ctx context.Context, itemID string) (*domain.PlaybackInfo, error) {
	start := time.Now()
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	info, err := e.catalog.FetchPlaybackInfo(ctx, itemID)
	err = staleCause(ctx, err)
	e.settle(OpFetchPlaybackInfo, itemID, start, info, err)
	return info, err
}

// Search fuzzy-matches cached media by name
func (e *Engine) Search(query string, limit int) []catalog.SearchResult {
	return e.cache.Search(query, limit)
}
