package tui

import (
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/events"
)

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + domain.UserMessage(e.Err)
	}
	return domain.UserMessage(e.Err)
}

// AlbumsLoadedMsg signals that albums have been loaded
type AlbumsLoadedMsg struct {
	Albums []domain.Album
}

// AlbumMediaLoadedMsg signals that an album's full collection has been loaded
type AlbumMediaLoadedMsg struct {
	Album domain.Album
	Media *domain.AlbumMedia
}

// PlaybackInfoLoadedMsg signals that playback sources are ready
type PlaybackInfoLoadedMsg struct {
	Item domain.MediaItem
	Info *domain.PlaybackInfo
}

// OutcomeMsg carries an engine operation outcome for the status line
type OutcomeMsg struct {
	Event events.Event
}
