package yandex

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Cover describes an artist or playlist image.
type Cover struct {
	Type   string `json:"type,omitempty"`
	URI    string `json:"uri,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// Artist is a performer.
type Artist struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	Various  bool     `json:"various,omitempty"`
	Composer bool     `json:"composer,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Cover    *Cover   `json:"cover,omitempty"`
}

// Album is a release. Volumes are only present in full album responses.
type Album struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Version     string     `json:"version,omitempty"`
	Type        string     `json:"type,omitempty"`
	Year        *int       `json:"year,omitempty"`
	ReleaseDate string     `json:"releaseDate,omitempty"`
	Genre       string     `json:"genre,omitempty"`
	CoverURI    string     `json:"coverUri,omitempty"`
	TrackCount  *int       `json:"trackCount,omitempty"`
	Artists     []*Artist  `json:"artists,omitempty"`
	Volumes     [][]*Track `json:"volumes,omitempty"`
}

// TrackPosition is the position of a track inside an album.
type TrackPosition struct {
	Volume int `json:"volume"`
	Index  int `json:"index"`
}

// TrackAlbum is an album reference embedded into a track.
type TrackAlbum struct {
	Album

	TrackPosition *TrackPosition `json:"trackPosition,omitempty"`
}

// Track is a single recording.
type Track struct {
	ID              ID            `json:"id"`
	RealID          ID            `json:"realId,omitempty"`
	Title           string        `json:"title"`
	Version         string        `json:"version,omitempty"`
	DurationMs      *int64        `json:"durationMs,omitempty"`
	FileSize        *int64        `json:"fileSize,omitempty"`
	Available       *bool         `json:"available,omitempty"`
	LyricsAvailable *bool         `json:"lyricsAvailable,omitempty"`
	CoverURI        string        `json:"coverUri,omitempty"`
	StorageDir      string        `json:"storageDir,omitempty"`
	Artists         []*Artist     `json:"artists,omitempty"`
	Albums          []*TrackAlbum `json:"albums,omitempty"`
}

// Owner is the owner of a playlist or a library.
type Owner struct {
	UID   ID     `json:"uid"`
	Login string `json:"login,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Playlist is a user or generated playlist. Kind is unique per owner.
type Playlist struct {
	Kind        ID       `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Revision    *int     `json:"revision,omitempty"`
	TrackCount  *int     `json:"trackCount,omitempty"`
	DurationMs  *int64   `json:"durationMs,omitempty"`
	Created     string   `json:"created,omitempty"`
	Modified    string   `json:"modified,omitempty"`
	Owner       *Owner   `json:"owner,omitempty"`
	Cover       *Cover   `json:"cover,omitempty"`
	Tracks      []*Track `json:"tracks,omitempty"`
	TrackIDs    []ID     `json:"trackIds,omitempty"`
}

// User is a service user. Sign and DeviceID are only present for the session owner.
type User struct {
	UID         ID     `json:"uid"`
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Sign        string `json:"sign,omitempty"`
	DeviceID    string `json:"device_id,omitempty"`
}

// AuthInfo is the short authorization state of the session.
type AuthInfo struct {
	Logged    bool   `json:"logged"`
	Lang      string `json:"lang,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	YandexUID string `json:"yandexuid,omitempty"`
}

// AuthUserDetails is the full profile of the session owner.
type AuthUserDetails struct {
	User        *User           `json:"user"`
	Experiments json.RawMessage `json:"experiments,omitempty"`
}

// Period is a subscription period.
type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Subscription describes the account subscription state.
type Subscription struct {
	CanStartTrial      bool    `json:"canStartTrial"`
	HadAnySubscription bool    `json:"hadAnySubscription"`
	McDonalds          bool    `json:"mcdonalds"`
	NonAutoRenewable   *Period `json:"nonAutoRenewable,omitempty"`
}

// Account is one of the accounts logged in on the device.
type Account struct {
	UID          ID            `json:"uid"`
	Login        string        `json:"login,omitempty"`
	DisplayName  string        `json:"displayName,omitempty"`
	DefaultEmail string        `json:"defaultEmail,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// Accounts is the list of accounts logged in on the device.
type Accounts struct {
	DefaultUID ID         `json:"default_uid,omitempty"`
	Accounts   []*Account `json:"accounts"`
}

// Library lists the liked content of a user.
type Library struct {
	Owner       *Owner   `json:"owner,omitempty"`
	TrackIDs    []ID     `json:"trackIds,omitempty"`
	PlaylistIDs []ID     `json:"playlistIds,omitempty"`
	Tracks      []*Track `json:"tracks,omitempty"`
}

// PlaylistChangeResult is returned by playlist mutations.
type PlaylistChangeResult struct {
	Success  bool      `json:"success"`
	Playlist *Playlist `json:"playlist,omitempty"`
}

// LikeResult is returned when a track is liked or unliked.
type LikeResult struct {
	Success bool   `json:"success"`
	Act     string `json:"act,omitempty"`
}

// AdfoxCookie is the cookie-matching answer. The cookies themselves end up in the jar.
type AdfoxCookie struct {
	Status string     `json:"status,omitempty"`
	UID    FlexString `json:"uid,omitempty"`
}

// TrackDownloadMetadata points to the storage host responsible for a track.
type TrackDownloadMetadata struct {
	Src     string `json:"src"`
	Codec   string `json:"codec"`
	Bitrate int    `json:"bitrate,omitempty"`
	Gain    bool   `json:"gain,omitempty"`
	Preview bool   `json:"preview,omitempty"`
}

// StorageLocation is the storage host answer used to sign the download link.
type StorageLocation struct {
	Host   string     `json:"host"`
	Path   string     `json:"path"`
	TS     FlexString `json:"ts"`
	S      string     `json:"s"`
	Region FlexString `json:"region,omitempty"`
}

// AuthorizeResult reports the outcome of an authorization attempt.
type AuthorizeResult struct {
	Authorized bool
	User       *User
	AuthInfo   *AuthInfo
}

// Key returns the "trackId:albumId" key used by download and like endpoints.
// Tracks without albums are keyed by their id alone.
func (t *Track) Key() string {
	if len(t.Albums) == 0 || t.Albums[0] == nil || t.Albums[0].ID == "" {
		return string(t.ID)
	}

	return fmt.Sprintf("%s:%s", t.ID, t.Albums[0].ID)
}

// ArtistNames joins the names of the track artists.
func (t *Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))

	for _, artist := range t.Artists {
		if artist != nil && artist.Name != "" {
			names = append(names, artist.Name)
		}
	}

	return strings.Join(names, ", ")
}

// FullTitle returns the title with the version in parentheses.
func (t *Track) FullTitle() string {
	if t.Version == "" {
		return t.Title
	}

	return fmt.Sprintf("%s (%s)", t.Title, t.Version)
}

// CoverURL converts a "//host/path/%%" cover URI into a URL of the given size, e.g. "400x400".
func CoverURL(uri, size string) string {
	if uri == "" {
		return ""
	}

	uri = strings.ReplaceAll(uri, "%%", size)

	if strings.HasPrefix(uri, "//") {
		return "https:" + uri
	}

	if !strings.Contains(uri, "://") {
		return "https://" + uri
	}

	return uri
}

func (a *Artist) validate() error {
	if a == nil {
		return fmt.Errorf("%w: null artist", ErrMissingField)
	}

	return requireID("artist", a.ID)
}

func (a *Album) validate() error {
	if a == nil {
		return fmt.Errorf("%w: null album", ErrMissingField)
	}

	if err := requireID("album", a.ID); err != nil {
		return err
	}

	if err := validateAll(a.Artists); err != nil {
		return fmt.Errorf("album %s artists: %w", a.ID, err)
	}

	for i, volume := range a.Volumes {
		if err := validateAll(volume); err != nil {
			return fmt.Errorf("album %s volume %d: %w", a.ID, i, err)
		}
	}

	return nil
}

func (a *TrackAlbum) validate() error {
	if a == nil {
		return fmt.Errorf("%w: null album", ErrMissingField)
	}

	return a.Album.validate()
}

func (t *Track) validate() error {
	if t == nil {
		return fmt.Errorf("%w: null track", ErrMissingField)
	}

	if err := requireID("track", t.ID); err != nil {
		return err
	}

	if err := validateAll(t.Artists); err != nil {
		return fmt.Errorf("track %s artists: %w", t.ID, err)
	}

	if err := validateAll(t.Albums); err != nil {
		return fmt.Errorf("track %s albums: %w", t.ID, err)
	}

	return nil
}

func (p *Playlist) validate() error {
	if p == nil {
		return fmt.Errorf("%w: null playlist", ErrMissingField)
	}

	if err := requireID("playlist kind", p.Kind); err != nil {
		return err
	}

	if err := validateAll(p.Tracks); err != nil {
		return fmt.Errorf("playlist %s tracks: %w", p.Kind, err)
	}

	return nil
}

func (l *Library) validate() error {
	return validateAll(l.Tracks)
}

func (u *User) validate() error {
	if u == nil {
		return fmt.Errorf("%w: null user", ErrMissingField)
	}

	return requireID("user", u.UID)
}

func (a *Account) validate() error {
	if a == nil {
		return fmt.Errorf("%w: null account", ErrMissingField)
	}

	return requireID("account", a.UID)
}

func (a *Accounts) validate() error {
	return validateAll(a.Accounts)
}

func (d *AuthUserDetails) validate() error {
	return d.User.validate()
}

func (r *PlaylistChangeResult) validate() error {
	if r.Playlist == nil {
		return nil
	}

	return r.Playlist.validate()
}

func (m *TrackDownloadMetadata) validate() error {
	if strings.TrimSpace(m.Src) == "" {
		return fmt.Errorf("%w: src", ErrMissingField)
	}

	if strings.TrimSpace(m.Codec) == "" {
		return fmt.Errorf("%w: codec", ErrMissingField)
	}

	return nil
}
