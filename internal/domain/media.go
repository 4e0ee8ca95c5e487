package domain

// Item types understood by the collection endpoints
const (
	ItemTypeMovie  = "Movie"
	ItemTypeSeries = "Series"
)

// CollectionTypeTVShows marks an album whose collection holds series
const CollectionTypeTVShows = "tvshows"

// ImageKind selects which artwork ImageURL points at
type ImageKind string

const (
	ImagePrimary  ImageKind = "Primary"
	ImageBackdrop ImageKind = "Backdrop"
	ImageThumb    ImageKind = "Thumb"
)

// Album is a top-level library view (AlbumSummary)
type Album struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	CollectionType string `json:"CollectionType,omitempty"` // "movies", "tvshows", ...
	PrimaryTag     string `json:"PrimaryTag,omitempty"`
}

// ItemType returns the collection item type used to page this album
func (a Album) ItemType() string {
	if a.CollectionType == CollectionTypeTVShows {
		return ItemTypeSeries
	}
	return ItemTypeMovie
}

// MediaItem is a movie, series or episode as listed by the server
type MediaItem struct {
	ID              string  `json:"Id"`
	Name            string  `json:"Name"`
	Type            string  `json:"Type"`
	Overview        string  `json:"Overview,omitempty"`
	ProductionYear  int     `json:"ProductionYear,omitempty"`
	RunTimeTicks    int64   `json:"RunTimeTicks,omitempty"`
	CommunityRating float64 `json:"CommunityRating,omitempty"`
	SeriesName      string  `json:"SeriesName,omitempty"`
	ParentID        string  `json:"ParentId,omitempty"`
	PrimaryTag      string  `json:"PrimaryTag,omitempty"`
	BackdropTag     string  `json:"BackdropTag,omitempty"`
}

// AlbumMedia is the fully materialized content of one album
type AlbumMedia struct {
	ID    string      `json:"id"`
	Items []MediaItem `json:"items"`
}

// PersonRecord is the raw actor record returned by the server
type PersonRecord struct {
	ID         string
	Name       string
	Overview   string
	PrimaryTag string
}

// Actor is the normalized actor detail kept in the catalog
type Actor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Overview  string `json:"overview"`
	AvatarURL string `json:"avatarUrl"`
}

// ItemPage is one server page of a collection
type ItemPage struct {
	Items            []MediaItem
	TotalRecordCount int
}

// ItemFilter narrows an item query
type ItemFilter struct {
	PersonIDs        []string
	IncludeItemTypes []string
	Recursive        bool
}

// PlaybackOptions tunes a PlaybackInfo request
type PlaybackOptions struct {
	MaxStreamingBitrate int
}

// MediaSource is one playable file or stream for an item
type MediaSource struct {
	ID                   string `json:"Id"`
	Container            string `json:"Container"`
	Protocol             string `json:"Protocol"`
	Size                 int64  `json:"Size,omitempty"`
	Bitrate              int    `json:"Bitrate,omitempty"`
	SupportsDirectPlay   bool   `json:"SupportsDirectPlay"`
	SupportsDirectStream bool   `json:"SupportsDirectStream"`
	SupportsTranscoding  bool   `json:"SupportsTranscoding"`
	DirectStreamURL      string `json:"DirectStreamUrl,omitempty"`
	TranscodingURL       string `json:"TranscodingUrl,omitempty"`
}

// PlaybackInfo describes how an item can be played
type PlaybackInfo struct {
	PlaySessionID string        `json:"PlaySessionId"`
	MediaSources  []MediaSource `json:"MediaSources"`
}
