package session

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/domain/mocks"
	"github.com/mmcdole/iplay/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	store     *Store
	kv        *store.Store
	connector *mocks.MockConnector
	client    *mocks.MockRemoteClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	kv, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	f := &fixture{
		kv:        kv,
		connector: mocks.NewMockConnector(ctrl),
		client:    mocks.NewMockRemoteClient(ctrl),
	}
	f.connector.EXPECT().Bind(gomock.Any()).Return(f.client).AnyTimes()
	f.store = New(kv, f.connector, nil)
	return f
}

var testEndpoint = domain.Endpoint{Protocol: "http", Host: "emby.local", Port: 8096}

func authResult(serverID, user string) *domain.AuthResult {
	return &domain.AuthResult{
		User:        domain.UserInfo{ID: "u-" + user, Name: user, ServerID: serverID},
		AccessToken: "tok-" + user,
		ServerID:    serverID,
	}
}

func (f *fixture) login(t *testing.T, serverID, user string) *domain.Site {
	t.Helper()
	f.connector.EXPECT().
		Login(gomock.Any(), user, "pw", testEndpoint).
		Return(authResult(serverID, user), nil)
	site, err := f.store.Authenticate(context.Background(), user, "pw", testEndpoint)
	require.NoError(t, err)
	return site
}

func TestAuthenticate_Success(t *testing.T) {
	f := newFixture(t)

	site := f.login(t, "S1", "a")

	assert.Equal(t, "S1", site.ID)
	assert.Equal(t, domain.SiteIdle, site.Status)
	assert.Equal(t, testEndpoint, site.Server)
	assert.Equal(t, "S1", f.store.Active().ID)
	assert.Len(t, f.store.Sites(), 1)
	assert.Equal(t, uint64(1), f.store.Generation())

	raw, ok, err := f.kv.Get(KeySite)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted domain.Site
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, "S1", persisted.ID)
	assert.Equal(t, "tok-a", persisted.User.AccessToken)

	client, err := f.store.Client()
	require.NoError(t, err)
	assert.Same(t, f.client, client)
}

func TestAuthenticate_MergesByID(t *testing.T) {
	f := newFixture(t)

	f.login(t, "S1", "a")
	f.login(t, "S2", "b")
	f.login(t, "S1", "c")

	sites := f.store.Sites()
	require.Len(t, sites, 2, "same id replaces instead of appending")
	assert.Equal(t, "S1", sites[0].ID)
	assert.Equal(t, "c", sites[0].User.User.Name)
	assert.Equal(t, "S2", sites[1].ID)
}

func TestAuthenticate_FailureMarksActiveError(t *testing.T) {
	f := newFixture(t)
	f.login(t, "S1", "a")

	cause := domain.NewError(domain.KindAuth, domain.OpLogin, domain.ErrAuthFailed)
	f.connector.EXPECT().Login(gomock.Any(), "a", "bad", testEndpoint).Return(nil, cause)

	site, err := f.store.Authenticate(context.Background(), "a", "bad", testEndpoint)
	assert.Nil(t, site)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Equal(t, domain.MsgLoginFailed, domain.UserMessage(err))

	active := f.store.Active()
	require.NotNil(t, active)
	assert.Equal(t, "S1", active.ID, "previous site stays active")
	assert.Equal(t, domain.SiteError, active.Status)
	assert.Equal(t, uint64(1), f.store.Generation())
}

func TestAuthenticate_WrapsUntypedErrors(t *testing.T) {
	f := newFixture(t)
	f.connector.EXPECT().Login(gomock.Any(), "a", "b", testEndpoint).Return(nil, errors.New("boom"))

	_, err := f.store.Authenticate(context.Background(), "a", "b", testEndpoint)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.OpLogin, de.Op)
	assert.EqualError(t, errors.Unwrap(err), "boom")
	assert.Nil(t, f.store.Active())
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	saved := domain.Site{ID: "S9", User: *authResult("S9", "z"), Server: testEndpoint, Status: domain.SiteLoading}
	data, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, f.kv.Set(KeySite, string(data)))

	site, err := f.store.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "S9", site.ID)
	assert.Equal(t, domain.SiteIdle, site.Status)
	assert.Equal(t, "S9", f.store.Active().ID)
	assert.Empty(t, f.store.Sites(), "restore does not add to known sites")
	assert.Equal(t, uint64(1), f.store.Generation())
}

func TestRestore_LoadsKnownSites(t *testing.T) {
	f := newFixture(t)
	sites := []domain.Site{{ID: "S1"}, {ID: "S2"}}
	data, err := json.Marshal(sites)
	require.NoError(t, err)
	require.NoError(t, f.kv.Set(KeySites, string(data)))

	site, err := f.store.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, site)
	assert.Len(t, f.store.Sites(), 2)
}

func TestRestore_NonFatal(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
	}{
		{"missing", "", false},
		{"malformed", "{not json", true},
		{"no id", `{"server":{"host":"x"}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.set {
				require.NoError(t, f.kv.Set(KeySite, tt.value))
			}

			site, err := f.store.Restore(context.Background())
			assert.NoError(t, err)
			assert.Nil(t, site)
			assert.Nil(t, f.store.Active())
			assert.Equal(t, uint64(0), f.store.Generation())
		})
	}
}

func TestSwitchTo(t *testing.T) {
	f := newFixture(t)
	f.login(t, "S1", "a")
	f.login(t, "S2", "b")

	site, err := f.store.SwitchTo(context.Background(), "S1")
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "S1", f.store.Active().ID)
	assert.Equal(t, uint64(3), f.store.Generation())

	raw, _, err := f.kv.Get(KeySite)
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":"S1"`)
}

func TestSwitchTo_UnknownIsNoop(t *testing.T) {
	f := newFixture(t)
	f.login(t, "S1", "a")

	site, err := f.store.SwitchTo(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, site)
	assert.Equal(t, "S1", f.store.Active().ID)
	assert.Equal(t, uint64(1), f.store.Generation())
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	f.login(t, "S1", "a")
	f.login(t, "S2", "b")

	removed, err := f.store.Remove("S2")
	require.NoError(t, err)
	assert.True(t, removed)

	sites := f.store.Sites()
	require.Len(t, sites, 1)
	assert.Equal(t, "S1", sites[0].ID)
	assert.Equal(t, "S2", f.store.Active().ID, "active site is untouched")

	raw, _, err := f.kv.Get(KeySites)
	require.NoError(t, err)
	assert.NotContains(t, raw, `"S2"`)

	removed, err = f.store.Remove("missing")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPatchActive(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.store.PatchActive(domain.Site{Status: domain.SiteError}), domain.ErrNoActiveSite)

	f.login(t, "S1", "a")
	require.NoError(t, f.store.PatchActive(domain.Site{Status: domain.SiteError}))

	active := f.store.Active()
	assert.Equal(t, domain.SiteError, active.Status)
	assert.Equal(t, "tok-a", active.User.AccessToken, "zero fields are not merged")
	assert.Equal(t, domain.SiteError, f.store.Sites()[0].Status)
	assert.Equal(t, uint64(1), f.store.Generation())
}

func TestUpdateActive(t *testing.T) {
	f := newFixture(t)
	f.login(t, "S1", "a")

	updated := *f.store.Active()
	updated.User.AccessToken = "fresh"
	require.NoError(t, f.store.UpdateActive(updated))
	assert.Equal(t, "fresh", f.store.Active().User.AccessToken)
	assert.Equal(t, uint64(1), f.store.Generation(), "same site keeps generation")

	require.NoError(t, f.store.UpdateActive(domain.Site{ID: "S7", Server: testEndpoint}))
	assert.Equal(t, "S7", f.store.Active().ID)
	assert.Equal(t, uint64(2), f.store.Generation())
}

func TestBinding(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Binding()
	assert.ErrorIs(t, err, domain.ErrNoActiveSite)
	_, err = f.store.Client()
	assert.ErrorIs(t, err, domain.ErrNoActiveSite)

	f.login(t, "S1", "a")
	b, err := f.store.Binding()
	require.NoError(t, err)
	assert.Equal(t, "S1", b.SiteID)
	assert.Equal(t, uint64(1), b.Generation)
}

func TestLookup(t *testing.T) {
	f := newFixture(t)
	f.login(t, "S1", "alice")
	f.login(t, "S2", "bob")

	site, ok := f.store.Lookup("S2")
	require.True(t, ok)
	assert.Equal(t, "S2", site.ID)

	site, ok = f.store.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, "S1", site.ID)

	site, ok = f.store.Lookup("BOB@emby")
	require.True(t, ok)
	assert.Equal(t, "S2", site.ID)

	_, ok = f.store.Lookup("zzz")
	assert.False(t, ok)
}

func TestChangeHook(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv, err := store.Open("")
	require.NoError(t, err)
	defer kv.Close()

	connector := mocks.NewMockConnector(ctrl)
	connector.EXPECT().Bind(gomock.Any()).Return(mocks.NewMockRemoteClient(ctrl)).AnyTimes()
	connector.EXPECT().Login(gomock.Any(), "a", "pw", testEndpoint).Return(authResult("S1", "a"), nil)
	connector.EXPECT().Login(gomock.Any(), "b", "pw", testEndpoint).Return(authResult("S2", "b"), nil)

	var changes []Change
	s := New(kv, connector, nil, WithChangeHook(func(c Change) { changes = append(changes, c) }))

	_, err = s.Authenticate(context.Background(), "a", "pw", testEndpoint)
	require.NoError(t, err)
	_, err = s.Authenticate(context.Background(), "b", "pw", testEndpoint)
	require.NoError(t, err)
	_, err = s.SwitchTo(context.Background(), "S1")
	require.NoError(t, err)

	require.Len(t, changes, 3)
	assert.Equal(t, ReasonLogin, changes[0].Reason)
	assert.Nil(t, changes[0].Prev)
	assert.Equal(t, uint64(1), changes[0].Generation)
	assert.Equal(t, "S1", changes[1].Prev.ID)
	assert.Equal(t, "S2", changes[1].Next.ID)
	assert.Equal(t, ReasonSwitch, changes[2].Reason)
	assert.Equal(t, uint64(3), changes[2].Generation)
}
