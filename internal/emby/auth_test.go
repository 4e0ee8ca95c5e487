package emby

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/mmcdole/iplay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointFor(t *testing.T, rawURL string) domain.Endpoint {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return domain.Endpoint{Protocol: u.Scheme, Host: u.Hostname(), Port: port}
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emby/Users/AuthenticateByName", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "zh-cn", r.Header.Get("X-Emby-Language"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		auth := r.Header.Get("X-Emby-Authorization")
		assert.Contains(t, auth, `MediaBrowser Client="iPlay"`)
		assert.Contains(t, auth, `DeviceId="iplay-cli-client"`)
		assert.NotContains(t, auth, "Token=")

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "a", r.PostForm.Get("Username"))
		assert.Equal(t, "b", r.PostForm.Get("Pw"))

		w.Write([]byte(`{"User":{"Id":"u1","Name":"a","ServerId":"S1"},"AccessToken":"tok","ServerId":"S1"}`))
	}))
	defer srv.Close()

	conn := NewConnector()
	result, err := conn.Login(context.Background(), "a", "b", endpointFor(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "S1", result.ServerID)
	assert.Equal(t, "tok", result.AccessToken)
	assert.Equal(t, "u1", result.User.ID)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   domain.ErrorKind
	}{
		{"wrong password", http.StatusUnauthorized, "", domain.KindAuth},
		{"server error", http.StatusInternalServerError, "", domain.KindServer},
		{"malformed body", http.StatusOK, "not json", domain.KindParse},
		{"missing server id", http.StatusOK, `{"AccessToken":"tok"}`, domain.KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewConnector().Login(context.Background(), "a", "b", endpointFor(t, srv.URL))
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
			assert.Equal(t, domain.MsgLoginFailed, domain.UserMessage(err))
		})
	}
}

func TestLogin_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	ep := endpointFor(t, srv.URL)
	srv.Close()

	_, err := NewConnector().Login(context.Background(), "a", "b", ep)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
}

func TestConnector_Bind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emby/Users/u1/Views", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("X-Emby-Token"))
		w.Write([]byte(`{"Items":[{"Id":"a1","Name":"Movies"}],"TotalRecordCount":1}`))
	}))
	defer srv.Close()

	site := domain.Site{
		ID:     "S1",
		User:   domain.AuthResult{User: domain.UserInfo{ID: "u1"}, AccessToken: "tok", ServerID: "S1"},
		Server: endpointFor(t, srv.URL),
	}
	client := NewConnector().Bind(site)

	albums, err := client.GetView(context.Background())
	require.NoError(t, err)
	assert.Len(t, albums, 1)
}

func TestBuildAuthHeader(t *testing.T) {
	h := buildAuthHeader(DefaultIdentity(), "tok")
	assert.Equal(t, `MediaBrowser Client="iPlay", Device="CLI", DeviceId="iplay-cli-client", Version="1.0.0", Token="tok"`, h)
}
