package yandex

import "net/http"

// Base selects the host an endpoint is resolved against.
type Base int

const (
	// BaseMusic is the music web service.
	BaseMusic Base = iota
	// BasePassport is the passport login form.
	BasePassport
	// BasePassportAPI is the passport account API.
	BasePassportAPI
	// BaseAdfox is the cookie-matching service.
	BaseAdfox
)

// Endpoint is a request template. Path, query values and form values may contain
// {name} placeholders that are filled from request parameters.
// A path that resolves to an absolute URL replaces the base host.
type Endpoint struct {
	Name   string
	Method string
	Base   Base
	Path   string
	Query  map[string]string
	Form   map[string]string
}

// Parameter names shared by many endpoints.
const (
	paramTime        = "t"
	paramLang        = "lang"
	paramLogin       = "login"
	paramUID         = "uid"
	paramSign        = "sign"
	paramExperiments = "experiments"
)

const (
	passportLoginPath = "passport"
	passportLoginMode = "auth"

	externalDomain = "music.yandex.ru"
)

//nolint:gochecknoglobals // Endpoint catalog, never modified.
var (
	endpointPassportLogin = Endpoint{
		Name:   "auth.passport",
		Method: http.MethodPost,
		Base:   BasePassport,
		Path:   passportLoginPath,
		Query:  map[string]string{"mode": passportLoginMode},
		Form: map[string]string{
			"login":   "{login}",
			"passwd":  "{password}",
			"retpath": "{retpath}",
		},
	}

	endpointAuthInfo = Endpoint{
		Name:   "auth.info",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "api/v2.1/handlers/auth",
		Query: map[string]string{
			"external-domain": externalDomain,
			"overembed":       "no",
			"__t":             "{t}",
		},
	}

	endpointAuthUserDetails = Endpoint{
		Name:   "auth.user",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "api/v2.1/handlers/auth/user",
		Query: map[string]string{
			"lang": "{lang}",
			"__t":  "{t}",
		},
	}

	endpointAccounts = Endpoint{
		Name:   "account.list",
		Method: http.MethodGet,
		Base:   BasePassportAPI,
		Path:   "all_accounts/list",
		Query: map[string]string{
			"lang": "{lang}",
			"__t":  "{t}",
		},
	}

	endpointAdfoxCookie = Endpoint{
		Name:   "account.cookie",
		Method: http.MethodGet,
		Base:   BaseAdfox,
		Path:   "getcookie",
	}

	endpointAlbum = Endpoint{
		Name:   "album.get",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "handlers/album.jsx",
		Query: map[string]string{
			"album":           "{albumId}",
			"lang":            "{lang}",
			"external-domain": externalDomain,
			"overembed":       "false",
			"__t":             "{t}",
		},
	}

	endpointTrack = Endpoint{
		Name:   "track.get",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "handlers/track.jsx",
		Query: map[string]string{
			"track":           "{trackId}",
			"lang":            "{lang}",
			"external-domain": externalDomain,
			"overembed":       "false",
			"__t":             "{t}",
		},
	}

	endpointFavorites = Endpoint{
		Name:   "playlist.favorites",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "handlers/playlist.jsx",
		Query: map[string]string{
			"owner": "{owner}",
			"kinds": "3",
			"light": "false",
			"lang":  "{lang}",
			"__t":   "{t}",
		},
	}

	endpointAutoPlaylist = Endpoint{
		Name:   "playlist.auto",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "handlers/auto-playlist.jsx",
		Query: map[string]string{
			"type": "{type}",
			"lang": "{lang}",
			"__t":  "{t}",
		},
	}

	endpointChangePlaylist = Endpoint{
		Name:   "playlist.change",
		Method: http.MethodPost,
		Base:   BaseMusic,
		Path:   "handlers/change-playlist.jsx",
		Form: map[string]string{
			"action":          "{action}",
			"title":           "{title}",
			"kind":            "{kind}",
			"lang":            "{lang}",
			"sign":            "{sign}",
			"experiments":     "{experiments}",
			"external-domain": externalDomain,
			"overembed":       "false",
		},
	}

	endpointLibrary = Endpoint{
		Name:   "library.get",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "handlers/library.jsx",
		Query: map[string]string{
			"owner":  "{owner}",
			"filter": "tracks",
			"lang":   "{lang}",
			"__t":    "{t}",
		},
	}

	endpointSearch = Endpoint{
		Name:   "search",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "handlers/music-search.jsx",
		Query: map[string]string{
			"text":            "{text}",
			"type":            "{type}",
			"page":            "{page}",
			"lang":            "{lang}",
			"external-domain": externalDomain,
			"overembed":       "false",
			"__t":             "{t}",
		},
	}

	endpointLikeTrack = Endpoint{
		Name:   "track.like",
		Method: http.MethodPost,
		Base:   BaseMusic,
		Path:   "api/v2.1/handlers/track/{trackKey}/web-own_tracks-track-track-main/like/{act}",
		Query:  map[string]string{"__t": "{t}"},
		Form: map[string]string{
			"sign":            "{sign}",
			"experiments":     "{experiments}",
			"external-domain": externalDomain,
			"overembed":       "false",
		},
	}

	endpointDownloadInfo = Endpoint{
		Name:   "download.info",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "api/v2.1/handlers/track/{trackKey}/web-album_track-track-track-main/download/m",
		Query: map[string]string{
			"hq":              "0",
			"external-domain": externalDomain,
			"overembed":       "no",
			"__t":             "{t}",
		},
	}

	endpointStorageLocation = Endpoint{
		Name:   "download.location",
		Method: http.MethodGet,
		Base:   BaseMusic,
		Path:   "{src}",
		Query: map[string]string{
			"format": "json",
			"__t":    "{t}",
		},
	}
)
