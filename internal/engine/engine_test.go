package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/iplay/internal/catalog"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/domain/mocks"
	"github.com/mmcdole/iplay/internal/emby"
	"github.com/mmcdole/iplay/internal/events"
	"github.com/mmcdole/iplay/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeEmby serves two users on one server. Collections are paged 10 at a time.
type fakeEmby struct {
	mu         sync.Mutex
	pageStarts []int
}

func (f *fakeEmby) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/emby/Users/AuthenticateByName":
		_ = r.ParseForm()
		switch {
		case r.PostForm.Get("Username") == "a" && r.PostForm.Get("Pw") == "b":
			fmt.Fprint(w, `{"User":{"Id":"u1","Name":"a"},"AccessToken":"t1","ServerId":"S1"}`)
		case r.PostForm.Get("Username") == "c":
			fmt.Fprint(w, `{"User":{"Id":"u1","Name":"c"},"AccessToken":"t2","ServerId":"S2"}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	case r.URL.Path == "/emby/Users/u1/Views":
		fmt.Fprint(w, `{"Items":[
			{"Id":"album-1","Name":"Movies","CollectionType":"movies"},
			{"Id":"album-2","Name":"Shows","CollectionType":"tvshows"},
			{"Id":"album-3","Name":"Docs"}
		],"TotalRecordCount":3}`)
	case r.URL.Path == "/emby/Users/u1/Items/album-1":
		fmt.Fprint(w, `{"Id":"album-1","Name":"Movies","CollectionType":"movies"}`)
	case r.URL.Path == "/emby/Users/u1/Items/Latest":
		fmt.Fprintf(w, `[{"Id":"latest-%s","Name":"New in %s"}]`, r.URL.Query().Get("ParentId"), r.URL.Query().Get("ParentId"))
	case r.URL.Path == "/emby/Users/u1/Items":
		start, _ := strconv.Atoi(r.URL.Query().Get("StartIndex"))
		f.mu.Lock()
		f.pageStarts = append(f.pageStarts, start)
		f.mu.Unlock()

		const total = 25
		var items []string
		for i := start; i < start+10 && i < total; i++ {
			items = append(items, fmt.Sprintf(`{"Id":"m%d","Name":"Movie %d","Type":"Movie"}`, i, i))
		}
		fmt.Fprintf(w, `{"Items":[%s],"TotalRecordCount":%d}`, strings.Join(items, ","), total)
	default:
		http.NotFound(w, r)
	}
}

func newEngine(t *testing.T) (*Engine, *fakeEmby, domain.Endpoint) {
	t.Helper()
	fake := &fakeEmby{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	kv, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	e := New(kv, emby.NewConnector(), catalog.Config{MaxStreamingBitrate: 140000000, LatestConcurrency: 4}, nil)
	t.Cleanup(func() { e.Close() })
	return e, fake, domain.Endpoint{Protocol: "http", Host: u.Hostname(), Port: port}
}

func TestEngine_LoginFetchAlbumsAndMedia(t *testing.T) {
	e, fake, ep := newEngine(t)

	var resolved []*domain.Site
	site, err := e.Login(context.Background(), "a", "b", ep, &Callback{
		Resolve: func(s *domain.Site) { resolved = append(resolved, s) },
		Reject:  func(error) { t.Error("reject should not fire") },
	})
	require.NoError(t, err)
	assert.Equal(t, "S1", site.ID)
	require.Len(t, resolved, 1)
	assert.Equal(t, "S1", resolved[0].ID)
	assert.Equal(t, "S1", e.Session().Active().ID)

	albums, err := e.FetchAlbums(context.Background())
	require.NoError(t, err)
	assert.Len(t, albums, 3)

	media, err := e.FetchAlbumMedia(context.Background(), "album-1")
	require.NoError(t, err)
	assert.Len(t, media.Items, 25)
	assert.Equal(t, []int{0, 10, 20}, fake.pageStarts)

	cached, ok := e.Cache().AlbumMedia("album-1")
	require.True(t, ok)
	assert.Len(t, cached.Items, 25)
	assert.Equal(t, "m0", cached.Items[0].ID)
	assert.Equal(t, "m24", cached.Items[24].ID)
}

func TestEngine_FetchLatestMedia(t *testing.T) {
	e, _, ep := newEngine(t)
	_, err := e.Login(context.Background(), "a", "b", ep, nil)
	require.NoError(t, err)
	_, err = e.FetchAlbums(context.Background())
	require.NoError(t, err)

	latest, err := e.FetchLatestMedia(context.Background())
	require.NoError(t, err)
	require.Len(t, latest, 3)
	for i, id := range []string{"album-1", "album-2", "album-3"} {
		assert.Equal(t, "latest-"+id, latest[i][0].ID, "slot %d aligned with album order", i)
	}
}

func TestEngine_LoginFailure(t *testing.T) {
	e, _, ep := newEngine(t)

	var rejects, listenerRejects int
	e.Listen(OpLogin, Listener{Reject: func(error) { listenerRejects++ }})

	_, err := e.Login(context.Background(), "a", "wrong", ep, &Callback{
		Resolve: func(*domain.Site) { t.Error("resolve should not fire") },
		Reject:  func(error) { rejects++ },
	})
	require.Error(t, err)
	assert.Equal(t, domain.MsgLoginFailed, domain.UserMessage(err))
	assert.Equal(t, 1, rejects)
	assert.Equal(t, 1, listenerRejects)
	assert.Nil(t, e.Session().Active())
}

func TestEngine_SwitchClearsCache(t *testing.T) {
	e, _, ep := newEngine(t)
	_, err := e.Login(context.Background(), "a", "b", ep, nil)
	require.NoError(t, err)
	_, err = e.Login(context.Background(), "c", "x", ep, nil)
	require.NoError(t, err)

	_, err = e.FetchAlbums(context.Background())
	require.NoError(t, err)
	_, err = e.FetchAlbumMedia(context.Background(), "album-1")
	require.NoError(t, err)

	site, err := e.Switch(context.Background(), "S1")
	require.NoError(t, err)
	require.NotNil(t, site)

	snap := e.Cache().Snapshot()
	assert.Empty(t, snap.Albums)
	assert.Empty(t, snap.AlbumMedia)
	assert.Empty(t, snap.Actors)
	assert.Empty(t, snap.Latest)
}

func TestEngine_SwitchUnknownKeepsCache(t *testing.T) {
	e, _, ep := newEngine(t)
	_, err := e.Login(context.Background(), "a", "b", ep, nil)
	require.NoError(t, err)
	_, err = e.FetchAlbums(context.Background())
	require.NoError(t, err)

	var resolved []any
	stop := e.Listen(OpSwitch, Listener{Resolve: func(v any) { resolved = append(resolved, v) }})
	defer stop()

	site, err := e.Switch(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, site)
	assert.Len(t, e.Cache().Albums(), 3)

	out := <-e.Dispatch(context.Background(), Request{Op: OpSwitch, ID: "nope"})
	require.NoError(t, out.Err)
	assert.True(t, out.Value == nil, "result carries an untyped nil")

	require.Len(t, resolved, 2)
	for _, v := range resolved {
		assert.True(t, v == nil, "listener sees an untyped nil")
	}
}

func TestEngine_RestoreAcrossRestart(t *testing.T) {
	fake := &fakeEmby{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	u, _ := url.Parse(srv.URL)
	port, _ := strconv.Atoi(u.Port())
	ep := domain.Endpoint{Protocol: "http", Host: u.Hostname(), Port: port}

	path := t.TempDir() + "/iplay.db"
	kv, err := store.Open(path)
	require.NoError(t, err)
	first := New(kv, emby.NewConnector(), catalog.Config{}, nil)
	_, err = first.Login(context.Background(), "a", "b", ep, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())
	require.NoError(t, kv.Close())

	kv, err = store.Open(path)
	require.NoError(t, err)
	defer kv.Close()
	second := New(kv, emby.NewConnector(), catalog.Config{}, nil)
	defer second.Close()

	site, err := second.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "S1", site.ID)

	albums, err := second.FetchAlbums(context.Background())
	require.NoError(t, err)
	assert.Len(t, albums, 3)
}

func TestEngine_NoActiveSite(t *testing.T) {
	e, _, _ := newEngine(t)

	_, err := e.FetchAlbums(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoActiveSite)
	assert.Equal(t, domain.MsgNoSite, domain.UserMessage(err))
}

func TestEngine_RemoveReportsUnknownSite(t *testing.T) {
	e, _, ep := newEngine(t)
	_, err := e.Login(context.Background(), "a", "b", ep, nil)
	require.NoError(t, err)

	removed, err := e.Remove(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, e.Session().Sites(), 1)

	res := <-e.Dispatch(context.Background(), Request{Op: OpRemove, ID: "S1"})
	require.NoError(t, res.Err)
	assert.Equal(t, true, res.Value)
	assert.Empty(t, e.Session().Sites())
}

func TestEngine_Dispatch(t *testing.T) {
	e, _, ep := newEngine(t)

	res := <-e.Dispatch(context.Background(), Request{Op: OpLogin, Username: "a", Password: "b", Endpoint: ep})
	require.NoError(t, res.Err)
	assert.Equal(t, "S1", res.Value.(*domain.Site).ID)

	res = <-e.Dispatch(context.Background(), Request{Op: OpFetchAlbums})
	require.NoError(t, res.Err)
	assert.Len(t, res.Value.([]domain.Album), 3)

	res = <-e.Dispatch(context.Background(), Request{Op: "bogus"})
	assert.ErrorIs(t, res.Err, ErrUnknownOp)
}

func TestEngine_ListenersAndBus(t *testing.T) {
	e, _, ep := newEngine(t)
	all := e.Bus().SubscribeAll(10)

	var resolved int
	unlisten := e.Listen(OpLogin, Listener{Resolve: func(any) { resolved++ }})

	_, err := e.Login(context.Background(), "a", "b", ep, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	unlisten()
	_, err = e.Login(context.Background(), "a", "b", ep, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved, "removed listener does not fire")

	select {
	case ev := <-all:
		assert.Equal(t, OpLogin, ev.Op)
		assert.Equal(t, events.Fulfilled, ev.Outcome)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestEngine_StaleWriteDroppedAfterSwitch(t *testing.T) {
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)
	client := mocks.NewMockRemoteClient(ctrl)
	connector.EXPECT().Bind(gomock.Any()).Return(client).AnyTimes()
	connector.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user, _ string, _ domain.Endpoint) (*domain.AuthResult, error) {
			return &domain.AuthResult{User: domain.UserInfo{ID: user}, AccessToken: "t", ServerID: "S-" + user}, nil
		}).Times(2)

	kv, err := store.Open("")
	require.NoError(t, err)
	defer kv.Close()
	e := New(kv, connector, catalog.Config{}, nil)
	defer e.Close()

	_, err = e.Login(context.Background(), "one", "pw", domain.Endpoint{Host: "h"}, nil)
	require.NoError(t, err)
	_, err = e.Login(context.Background(), "two", "pw", domain.Endpoint{Host: "h"}, nil)
	require.NoError(t, err)

	inFlight := make(chan struct{})
	switched := make(chan struct{})
	client.EXPECT().GetView(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]domain.Album, error) {
		close(inFlight)
		<-switched
		assert.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, time.Millisecond,
			"site change cancels in-flight work")
		return []domain.Album{{ID: "from-old-site"}}, nil
	})

	res := e.Dispatch(context.Background(), Request{Op: OpFetchAlbums})
	<-inFlight
	_, err = e.Switch(context.Background(), "S-one")
	require.NoError(t, err)
	close(switched)

	out := <-res
	assert.ErrorIs(t, out.Err, domain.ErrStaleSite)
	assert.Empty(t, e.Cache().Albums())
}
