package engine

import "github.com/mmcdole/iplay/internal/domain"

// Operation names
const (
	OpLogin             = domain.OpLogin
	OpSwitch            = "switch"
	OpRestore           = "restore"
	OpRemove            = "remove"
	OpFetchAlbums       = "fetch-albums"
	OpFetchActor        = "fetch-actor"
	OpFetchActorWorks   = "fetch-actor-works"
	OpFetchLatestMedia  = "fetch-latest-media"
	OpFetchAlbumMedia   = "fetch-album-media"
	OpFetchPlaybackInfo = "fetch-playback-info"
)

// Ops lists every dispatchable operation
var Ops = []string{
	OpLogin, OpSwitch, OpRestore, OpRemove,
	OpFetchAlbums, OpFetchActor, OpFetchActorWorks,
	OpFetchLatestMedia, OpFetchAlbumMedia, OpFetchPlaybackInfo,
}

// Listener reacts to every settlement of one operation
type Listener struct {
	Resolve func(value any)
	Reject  func(err error)
}

// Callback is attached to a single login request
type Callback struct {
	Resolve func(site *domain.Site)
	Reject  func(err error)
}

// Request names an operation and its arguments for Dispatch
type Request struct {
	Op       string
	ID       string // Site, actor, album or item id depending on Op
	Username string
	Password string
	Endpoint domain.Endpoint
	Callback *Callback // Login only
}

// Result is the settled outcome of a dispatched request
type Result struct {
	Op    string
	Value any
	Err   error
}
