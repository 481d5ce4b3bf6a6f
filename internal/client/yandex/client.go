package yandex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/yamusic/internal/config"
	"github.com/oshokin/yamusic/internal/logger"
	http_transport "github.com/oshokin/yamusic/internal/transport/http"
	"github.com/oshokin/yamusic/internal/utils"
)

// Client defines the interface for interacting with Yandex Music.
type Client interface {
	// Authorize logs in with the passport form and loads the user profile.
	Authorize(ctx context.Context, login, password string) (*AuthorizeResult, error)
	// AuthorizeWithToken establishes a session from an OAuth token and loads the user profile.
	AuthorizeWithToken(ctx context.Context, token string) (*AuthorizeResult, error)
	// State returns the current session state.
	State() SessionState
	// Storage returns the credentials of the established session, nil before authorization.
	Storage() *AuthStorage
	// User returns the profile of the session owner, nil before authorization.
	User() *User
	// GetUserAuth retrieves the short authorization state.
	GetUserAuth(ctx context.Context) (*AuthInfo, error)
	// GetUserAuthDetails retrieves the profile of the session owner.
	GetUserAuthDetails(ctx context.Context) (*AuthUserDetails, error)
	// GetAccounts retrieves the accounts logged in on this device.
	GetAccounts(ctx context.Context) (*Accounts, error)
	// GetYandexCookie performs cookie matching and stores the received cookies.
	GetYandexCookie(ctx context.Context) (*AdfoxCookie, error)
	// GetAlbum retrieves an album with its tracks.
	GetAlbum(ctx context.Context, albumID string) (*Album, error)
	// GetTrack retrieves a track.
	GetTrack(ctx context.Context, trackID string) (*Track, error)
	// GetFavorites retrieves liked tracks of the user, the session owner if login is empty.
	GetFavorites(ctx context.Context, login string) ([]*Track, error)
	// GetPlaylistOfDay retrieves the generated playlist of the day.
	GetPlaylistOfDay(ctx context.Context) (*Playlist, error)
	// GetPlaylistDejaVu retrieves the generated "deja vu" playlist.
	GetPlaylistDejaVu(ctx context.Context) (*Playlist, error)
	// GetLibrary retrieves the library of the user, the session owner if ownerUID is empty.
	GetLibrary(ctx context.Context, ownerUID string) (*Library, error)
	// Search performs a search of one entity type.
	Search(ctx context.Context, text string, searchType SearchType, page int) (*SearchResult, error)
	// SearchTrack searches for tracks.
	SearchTrack(ctx context.Context, text string, page int) ([]*Track, error)
	// SearchArtist searches for artists.
	SearchArtist(ctx context.Context, text string, page int) ([]*Artist, error)
	// SearchAlbum searches for albums.
	SearchAlbum(ctx context.Context, text string, page int) ([]*Album, error)
	// SearchPlaylist searches for playlists.
	SearchPlaylist(ctx context.Context, text string, page int) ([]*Playlist, error)
	// SearchUsers searches for users.
	SearchUsers(ctx context.Context, text string, page int) ([]*User, error)
	// CreatePlaylist creates a playlist owned by the session owner.
	CreatePlaylist(ctx context.Context, title string) (*PlaylistChangeResult, error)
	// RemovePlaylist removes a playlist of the session owner.
	RemovePlaylist(ctx context.Context, kind int64) (bool, error)
	// SetLikedTrack likes or unlikes a track identified by its "trackId:albumId" key.
	SetLikedTrack(ctx context.Context, trackKey string, liked bool) (*LikeResult, error)
	// GetDownloadMetadata retrieves the storage reference of a track.
	GetDownloadMetadata(ctx context.Context, trackKey string, t int64) (*TrackDownloadMetadata, error)
	// GetStorageLocation asks the storage host where the track file lives.
	GetStorageLocation(ctx context.Context, metadata *TrackDownloadMetadata, t int64) (*StorageLocation, error)
	// BuildDownloadLink signs the download link of a storage location.
	BuildDownloadLink(metadata *TrackDownloadMetadata, location *StorageLocation) (string, error)
	// ExtractTrackStream opens the audio stream of a track.
	ExtractTrackStream(ctx context.Context, trackKey string) (*TrackStream, error)
	// ExtractTrackData downloads a track into memory.
	ExtractTrackData(ctx context.Context, trackKey string) ([]byte, error)
	// ExtractTrackToFile downloads a track into a file, copying the bytes to mirrors as they arrive.
	ExtractTrackToFile(ctx context.Context, trackKey, filePath string, mirrors ...io.Writer) (int64, error)
	// DownloadFromURL downloads arbitrary content such as cover art.
	DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error)
}

// SessionState is the authorization state of a client.
type SessionState int32

const (
	// StateUnauthenticated means no session is established.
	StateUnauthenticated SessionState = iota
	// StateAuthenticating means an authorization is running.
	StateAuthenticating
	// StateAuthenticated means domain operations are available.
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// ClientImpl implements the Client interface for interacting with Yandex Music.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
	// jar holds the session cookies shared by every request.
	jar *CookieJar
	// builder turns endpoints into requests.
	builder *RequestBuilder
	// signer derives download links.
	signer *LinkSigner
	// now is the clock used for time-bound request parameters.
	now func() time.Time
	// loginPageURL is where the passport sends failed logins.
	loginPageURL string
	// albumsCache caches album metadata to reduce duplicate API calls for the same albums.
	albumsCache *lru.Cache[string, *Album]
	// tracksCache caches track metadata to reduce duplicate API calls for the same tracks.
	tracksCache *lru.Cache[string, *Track]

	// mu guards the session fields below.
	mu    sync.RWMutex
	state SessionState
	auth  *AuthStorage
	user  *User
}

// Option customizes a ClientImpl.
type Option func(*ClientImpl)

// WithClock replaces the clock used for time-bound request parameters.
func WithClock(now func() time.Time) Option {
	return func(c *ClientImpl) {
		c.now = now
	}
}

// WithTransport replaces the innermost round tripper of the HTTP client.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *ClientImpl) {
		c.httpClient.Transport = buildTransport(c.cfg, transport)
	}
}

const maxRedirects = 10

// NewClient creates and returns a new instance of ClientImpl.
func NewClient(cfg *config.Config, opts ...Option) (Client, error) {
	jar := NewCookieJar()

	builder, err := NewRequestBuilder(BaseURLs{
		Music:       cfg.MusicBaseURL,
		Passport:    cfg.PassportBaseURL,
		PassportAPI: cfg.PassportAPIBaseURL,
		Adfox:       cfg.AdfoxBaseURL,
	}, jar, cfg.DeviceID)
	if err != nil {
		return nil, err
	}

	loginPage, err := builder.Build(context.Background(), Endpoint{
		Name:  "auth.login-page",
		Base:  BasePassport,
		Path:  passportLoginPath,
		Query: map[string]string{"mode": passportLoginMode},
	}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid passport URL: %w", err)
	}

	proxy, err := http_transport.ParseProxy(cfg.Proxy)
	if err != nil {
		return nil, err
	}

	timeout := cfg.ParsedRequestTimeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	httpClient := &http.Client{
		Transport: buildTransport(cfg, http_transport.NewProxyTransport(proxy)),
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}

			// Cookies set by intermediate responses belong to the session too.
			jar.Absorb(req.Response)
			jar.Attach(req)

			return nil
		},
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = config.DefaultCacheSize
	}

	albumsCache, err := lru.New[string, *Album](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create albums cache: %w", err)
	}

	tracksCache, err := lru.New[string, *Track](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracks cache: %w", err)
	}

	client := &ClientImpl{
		cfg:          cfg,
		httpClient:   httpClient,
		jar:          jar,
		builder:      builder,
		signer:       NewLinkSigner(cfg.SignSalt, []byte(cfg.SignKey)),
		now:          time.Now,
		loginPageURL: loginPage.URL.String(),
		albumsCache:  albumsCache,
		tracksCache:  tracksCache,
		state:        StateUnauthenticated,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func buildTransport(cfg *config.Config, base http.RoundTripper) http.RoundTripper {
	return http_transport.NewUserAgentInjector(
		http_transport.NewRateLimitTransport(
			http_transport.NewLogTransport(base, 0),
			cfg.RequestsPerSecond,
			1),
		utils.NewStaticUserAgentProvider(cfg.UserAgent, http_transport.DefaultUserAgent))
}

// State returns the current session state.
func (c *ClientImpl) State() SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

// Storage returns the credentials of the established session.
func (c *ClientImpl) Storage() *AuthStorage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateAuthenticated {
		return nil
	}

	return c.auth
}

// User returns the profile of the session owner.
func (c *ClientImpl) User() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateAuthenticated || c.user == nil {
		return nil
	}

	user := *c.user

	return &user
}

// Cookies returns the session cookie jar.
func (c *ClientImpl) Cookies() *CookieJar {
	return c.jar
}

// TInterval returns the current UTC time in milliseconds since the epoch.
func (c *ClientImpl) TInterval() int64 {
	return c.now().UTC().UnixMilli()
}

// session returns the credentials or ErrNotAuthenticated.
func (c *ClientImpl) session() (*AuthStorage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateAuthenticated || c.auth == nil {
		return nil, ErrNotAuthenticated
	}

	return c.auth, nil
}

// sessionParams returns the parameters every authenticated endpoint may refer to.
func (c *ClientImpl) sessionParams(auth *AuthStorage, extra map[string]string) map[string]string {
	snapshot := auth.Snapshot()

	lang := snapshot.Lang
	if lang == "" {
		lang = c.cfg.Language
	}

	params := map[string]string{
		paramTime:        strconv.FormatInt(c.TInterval(), 10),
		paramLang:        lang,
		paramLogin:       snapshot.Login,
		paramUID:         strconv.FormatInt(snapshot.UID, 10),
		paramSign:        snapshot.Sign,
		paramExperiments: string(snapshot.Experiments),
	}

	for key, value := range extra {
		params[key] = value
	}

	return params
}

// execute performs the request and returns the buffered body of a 200 response.
func (c *ClientImpl) execute(
	ctx context.Context,
	endpoint Endpoint,
	params map[string]string,
	auth *AuthStorage,
) ([]byte, error) {
	request, err := c.builder.Build(ctx, endpoint, params, auth)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint.Name, Err: err}
	}

	defer response.Body.Close()

	c.jar.Absorb(response)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint.Name, StatusCode: response.StatusCode, Err: err}
	}

	if response.StatusCode != http.StatusOK {
		return nil, newStatusError(endpoint.Name, response.StatusCode)
	}

	return body, nil
}

// fetchJSON executes the endpoint and decodes the payload found under path.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func fetchJSON[T any](
	c *ClientImpl,
	ctx context.Context,
	endpoint Endpoint,
	params map[string]string,
	auth *AuthStorage,
	path ...string,
) (*T, error) {
	body, err := c.execute(ctx, endpoint, params, auth)
	if err != nil {
		return nil, err
	}

	result, err := decodeJSON[T](body, path...)
	if err != nil {
		logger.Debugf(ctx, "Failed to decode '%s' response: %v", endpoint.Name, err)

		return nil, err
	}

	return result, nil
}

// fetchList executes the endpoint and decodes the entity array found under path.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func fetchList[E validator](
	c *ClientImpl,
	ctx context.Context,
	endpoint Endpoint,
	params map[string]string,
	auth *AuthStorage,
	path ...string,
) ([]E, error) {
	body, err := c.execute(ctx, endpoint, params, auth)
	if err != nil {
		return nil, err
	}

	return decodeList[E](body, path...)
}
