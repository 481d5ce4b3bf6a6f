package yandex

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T) (*RequestBuilder, *CookieJar) {
	t.Helper()

	jar := NewCookieJar()

	builder, err := NewRequestBuilder(BaseURLs{
		Music:       "https://music.example",
		Passport:    "https://passport.example",
		PassportAPI: "https://api.passport.example",
		Adfox:       "https://adfox.example",
	}, jar, "anonymous-device")
	require.NoError(t, err)

	return builder, jar
}

// TestRequestBuilder_Build tests placeholder substitution in path and query.
func TestRequestBuilder_Build(t *testing.T) {
	t.Parallel()

	builder, _ := newTestBuilder(t)

	req, err := builder.Build(context.Background(), endpointDownloadInfo, map[string]string{
		"trackKey": "10994777:1193829",
		"t":        "1700000000000",
		"unused":   "ignored",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "music.example", req.URL.Host)
	assert.Equal(t,
		"/api/v2.1/handlers/track/10994777:1193829/web-album_track-track-track-main/download/m",
		req.URL.Path)
	assert.Equal(t, "1700000000000", req.URL.Query().Get("__t"))
	assert.Equal(t, "0", req.URL.Query().Get("hq"))
	assert.Equal(t, "anonymous-device", req.Header.Get(headerDevice))
	assert.Equal(t, "https://music.example", req.Header.Get(headerRetpath))
	assert.Empty(t, req.Header.Get(headerAuthorization))
}

// TestRequestBuilder_MissingSubstitution tests that Build fails iff a placeholder has no value.
func TestRequestBuilder_MissingSubstitution(t *testing.T) {
	t.Parallel()

	endpoint := Endpoint{
		Name:  "test",
		Path:  "users/{uid}/playlists/{kind}",
		Query: map[string]string{"lang": "{lang}", "fixed": "1"},
		Form:  map[string]string{"sign": "{sign}"},
	}

	tests := []struct {
		name    string
		params  map[string]string
		missing []string
	}{
		{
			name:   "all present",
			params: map[string]string{"uid": "1", "kind": "3", "lang": "en", "sign": "s"},
		},
		{
			name:   "empty values count as present",
			params: map[string]string{"uid": "", "kind": "", "lang": "", "sign": ""},
		},
		{
			name:    "path placeholder missing",
			params:  map[string]string{"uid": "1", "lang": "en", "sign": "s"},
			missing: []string{"kind"},
		},
		{
			name:    "query and form placeholders missing",
			params:  map[string]string{"uid": "1", "kind": "3"},
			missing: []string{"lang", "sign"},
		},
		{
			name:    "nothing given",
			params:  nil,
			missing: []string{"kind", "lang", "sign", "uid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			builder, _ := newTestBuilder(t)

			req, err := builder.Build(context.Background(), endpoint, tt.params, nil)

			if len(tt.missing) == 0 {
				require.NoError(t, err)
				assert.NotNil(t, req)

				return
			}

			require.ErrorIs(t, err, ErrMissingSubstitution)
			assert.Nil(t, req)

			var missingErr *MissingSubstitutionError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, "test", missingErr.Endpoint)
			assert.Equal(t, tt.missing, missingErr.Names)
		})
	}
}

// TestRequestBuilder_AuthHeaders tests cookies and session headers.
func TestRequestBuilder_AuthHeaders(t *testing.T) {
	t.Parallel()

	builder, jar := newTestBuilder(t)
	jar.Set("Session_id", "session")
	jar.Set("yandexuid", "42")

	auth := NewAuthStorage(AuthSnapshot{DeviceID: "session-device", Token: "AQAAAA-token"})

	req, err := builder.Build(context.Background(), endpointAuthInfo, map[string]string{"t": "1"}, auth)
	require.NoError(t, err)

	assert.Equal(t, "OAuth AQAAAA-token", req.Header.Get(headerAuthorization))
	assert.Equal(t, "session-device", req.Header.Get(headerDevice))
	assert.Equal(t, "Session_id=session; yandexuid=42", req.Header.Get(cookieHeader))
	assert.Equal(t, contentTypeJSON, req.Header.Get(headerAccept))
}

// TestRequestBuilder_Form tests form-encoded bodies.
func TestRequestBuilder_Form(t *testing.T) {
	t.Parallel()

	builder, _ := newTestBuilder(t)

	req, err := builder.Build(context.Background(), endpointPassportLogin, map[string]string{
		"login":    "listener",
		"password": "p&ss word",
		"retpath":  "https://music.example",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "passport.example", req.URL.Host)
	assert.Equal(t, "/passport", req.URL.Path)
	assert.Equal(t, "auth", req.URL.Query().Get("mode"))
	assert.Equal(t, contentTypeForm, req.Header.Get(headerContentType))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	form, err := url.ParseQuery(string(body))
	require.NoError(t, err)
	assert.Equal(t, "listener", form.Get("login"))
	assert.Equal(t, "p&ss word", form.Get("passwd"))
	assert.Equal(t, "https://music.example", form.Get("retpath"))
}

// TestRequestBuilder_AbsolutePath tests that an absolute URL path replaces the base host.
func TestRequestBuilder_AbsolutePath(t *testing.T) {
	t.Parallel()

	builder, _ := newTestBuilder(t)

	req, err := builder.Build(context.Background(), endpointStorageLocation, map[string]string{
		"src": "https://storage.example/download-info/abc/2.mp3?sign=xyz",
		"t":   "100",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "storage.example", req.URL.Host)
	assert.Equal(t, "/download-info/abc/2.mp3", req.URL.Path)
	assert.Equal(t, "xyz", req.URL.Query().Get("sign"))
	assert.Equal(t, "json", req.URL.Query().Get("format"))
	assert.Equal(t, "100", req.URL.Query().Get("__t"))
}

// TestRequestBuilder_UnknownBase tests endpoints bound to hosts that aren't configured.
func TestRequestBuilder_UnknownBase(t *testing.T) {
	t.Parallel()

	builder, err := NewRequestBuilder(BaseURLs{Music: "https://music.example"}, nil, "")
	require.NoError(t, err)

	_, err = builder.Build(context.Background(), endpointAdfoxCookie, nil, nil)
	require.ErrorIs(t, err, ErrUnknownBase)
}

// TestNewRequestBuilder_InvalidBase tests that unparsable base URLs are rejected.
func TestNewRequestBuilder_InvalidBase(t *testing.T) {
	t.Parallel()

	_, err := NewRequestBuilder(BaseURLs{Music: "://broken"}, nil, "")
	require.Error(t, err)
}
