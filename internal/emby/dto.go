package emby

// ItemsResponse represents a paginated list of items from Emby
type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
	StartIndex       int    `json:"StartIndex"`
}

// Item represents a media item from Emby (view, movie, series, person, ...)
type Item struct {
	ID                string    `json:"Id"`
	Name              string    `json:"Name"`
	SortName          string    `json:"SortName,omitempty"`
	Overview          string    `json:"Overview,omitempty"`
	Type              string    `json:"Type"`
	CollectionType    string    `json:"CollectionType,omitempty"` // For views: "movies", "tvshows"
	ProductionYear    int       `json:"ProductionYear,omitempty"`
	RunTimeTicks      int64     `json:"RunTimeTicks,omitempty"` // Duration in 100-nanosecond units
	CommunityRating   float64   `json:"CommunityRating,omitempty"`
	ParentID          string    `json:"ParentId,omitempty"`
	SeriesName        string    `json:"SeriesName,omitempty"`
	ImageTags         ImageTags `json:"ImageTags,omitempty"`
	BackdropImageTags []string  `json:"BackdropImageTags,omitempty"`
}

// ImageTags contains image tag IDs for various image types
type ImageTags struct {
	Primary string `json:"Primary,omitempty"`
	Thumb   string `json:"Thumb,omitempty"`
	Banner  string `json:"Banner,omitempty"`
	Logo    string `json:"Logo,omitempty"`
}

// PlaybackInfoResponse contains playback information for an item
type PlaybackInfoResponse struct {
	MediaSources  []MediaSource `json:"MediaSources"`
	PlaySessionID string        `json:"PlaySessionId"`
}

// MediaSource represents a media source (file) for an item
type MediaSource struct {
	ID                   string `json:"Id"`
	Path                 string `json:"Path,omitempty"`
	Protocol             string `json:"Protocol"` // "File" or "Http"
	Container            string `json:"Container"`
	Size                 int64  `json:"Size,omitempty"`
	Bitrate              int    `json:"Bitrate,omitempty"`
	SupportsDirectPlay   bool   `json:"SupportsDirectPlay"`
	SupportsDirectStream bool   `json:"SupportsDirectStream"`
	SupportsTranscoding  bool   `json:"SupportsTranscoding"`
	DirectStreamURL      string `json:"DirectStreamUrl,omitempty"`
	TranscodingURL       string `json:"TranscodingUrl,omitempty"`
}
