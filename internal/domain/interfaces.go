package domain

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import "context"

// RemoteClient is a media-server API handle bound to one site.
// Implementations must be safe for concurrent use.
type RemoteClient interface {
	// GetView returns the user's top-level albums
	GetView(ctx context.Context) ([]Album, error)

	// GetActor returns the raw person record for an actor
	GetActor(ctx context.Context, id string) (*PersonRecord, error)

	// GetItems returns items matching a filter (not paged)
	GetItems(ctx context.Context, filter ItemFilter) ([]MediaItem, error)

	// GetLatestMedia returns the most recently added items of an album
	GetLatestMedia(ctx context.Context, albumID string) ([]MediaItem, error)

	// GetAlbum returns the album record, used for its collection type
	GetAlbum(ctx context.Context, albumID string) (*Album, error)

	// GetCollection returns one page of an album's items starting at startIndex.
	// The page size is chosen by the server.
	GetCollection(ctx context.Context, albumID, itemType string, startIndex int) (*ItemPage, error)

	// GetPlaybackInfo returns playable sources for an item
	GetPlaybackInfo(ctx context.Context, itemID string, opts PlaybackOptions) (*PlaybackInfo, error)

	// ImageURL builds an artwork URL; it performs no I/O
	ImageURL(id, tag string, kind ImageKind) string
}

// Connector authenticates against a server and binds clients to sites
type Connector interface {
	// Login performs username/password authentication against endpoint
	Login(ctx context.Context, username, password string, endpoint Endpoint) (*AuthResult, error)

	// Bind returns a client authorized as the site's user
	Bind(site Site) RemoteClient
}

// KeyValueStore is durable string storage addressed by key
type KeyValueStore interface {
	// Get returns the value for key; ok is false when the key is absent
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
