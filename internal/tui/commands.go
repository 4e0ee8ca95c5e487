package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/events"
)

// Catalog is what the browser needs from the engine
type Catalog interface {
	FetchAlbums(ctx context.Context) ([]domain.Album, error)
	FetchAlbumMedia(ctx context.Context, albumID string) (*domain.AlbumMedia, error)
	FetchPlaybackInfo(ctx context.Context, itemID string) (*domain.PlaybackInfo, error)
}

// LoadAlbumsCmd loads the active site's albums
func LoadAlbumsCmd(c Catalog) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		albums, err := c.FetchAlbums(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading albums"}
		}
		return AlbumsLoadedMsg{Albums: albums}
	}
}

// LoadAlbumMediaCmd pages through an album's whole collection
func LoadAlbumMediaCmd(c Catalog, album domain.Album) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute) // Large albums take many pages
		defer cancel()

		media, err := c.FetchAlbumMedia(ctx, album.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading " + album.Name}
		}
		return AlbumMediaLoadedMsg{Album: album, Media: media}
	}
}

// LoadPlaybackInfoCmd fetches playback sources for an item
func LoadPlaybackInfoCmd(c Catalog, item domain.MediaItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		info, err := c.FetchPlaybackInfo(ctx, item.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading playback info"}
		}
		return PlaybackInfoLoadedMsg{Item: item, Info: info}
	}
}

// WaitForOutcomeCmd delivers the next engine outcome from the bus
func WaitForOutcomeCmd(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return OutcomeMsg{Event: e}
	}
}
