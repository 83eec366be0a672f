// package services defines the upstream YouTube Music [Client] and the [Factory] that builds one per request.
package services

import (
	"context"
)

// Rating values accepted by [Client.RateSong].
const (
	RatingLike        = "LIKE"
	RatingDislike     = "DISLIKE"
	RatingIndifferent = "INDIFFERENT"
)

// Client is an authenticated (or anonymous) handle on the YouTube Music account API.
//
// Results are raw decoded JSON values (maps, slices, strings) passed through untouched.
// Errors carry descriptive text only; callers classify them by message.
type Client interface {
	// GetPlaylist returns the playlist with the given ID.
	GetPlaylist(ctx context.Context, playlistID string) (any, error)
	// CreatePlaylist returns either the new playlist ID or the raw response object.
	CreatePlaylist(ctx context.Context, title, description, privacyStatus string) (any, error)
	// EditPlaylist updates title and/or description; nil fields are left unchanged.
	EditPlaylist(ctx context.Context, playlistID string, title, description *string) (any, error)
	DeletePlaylist(ctx context.Context, playlistID string) (any, error)
	AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) (any, error)
	// RemovePlaylistItems expects each video to carry both videoId and setVideoId.
	RemovePlaylistItems(ctx context.Context, playlistID string, videos []map[string]string) (any, error)

	GetLibraryPlaylists(ctx context.Context) (any, error)
	GetLibrarySongs(ctx context.Context) (any, error)
	GetLibraryAlbums(ctx context.Context) (any, error)
	GetLibraryArtists(ctx context.Context) (any, error)
	GetLikedSongs(ctx context.Context) (any, error)
	GetHistory(ctx context.Context) (any, error)
	RateSong(ctx context.Context, videoID, rating string) (any, error)
	SubscribeArtists(ctx context.Context, channelIDs []string) (any, error)

	GetLibraryUploadSongs(ctx context.Context) (any, error)
	GetLibraryUploadAlbums(ctx context.Context) (any, error)
	// UploadSong uploads the local file at path.
	UploadSong(ctx context.Context, path string) (any, error)
	DeleteUploadEntity(ctx context.Context, entityID string) (any, error)

	// Search runs a query; an empty filter searches all categories.
	Search(ctx context.Context, query, filter string) (any, error)
}

// Credentials selects how a [Client] authenticates.
//
// The zero value is anonymous. Data takes precedence over File.
type Credentials struct {
	File string         // path to a credential file on this host
	Data map[string]any // parsed credential object
}

// Anonymous reports whether no credentials were supplied.
func (c Credentials) Anonymous() bool {
	return c.File == "" && c.Data == nil
}

// Source names the credential source for logging.
func (c Credentials) Source() string {
	switch {
	case c.Data != nil:
		return "inline"
	case c.File != "":
		return "file"
	default:
		return "anonymous"
	}
}

// Factory constructs a [Client] bound to one set of credentials.
type Factory interface {
	New(creds Credentials) (Client, error)
}

// FactoryFunc adapts a function to [Factory].
type FactoryFunc func(creds Credentials) (Client, error)

// New calls f(creds).
func (f FactoryFunc) New(creds Credentials) (Client, error) {
	return f(creds)
}
