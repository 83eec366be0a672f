// YouTube Music implementation of [Client]
//
// Requests go to the music.youtube.com web API. Responses are decoded into generic JSON values and returned untouched.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytproxy/internal/metrics"
	"github.com/desertthunder/ytproxy/internal/shared"
	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultYTBaseURL   = "https://music.youtube.com/youtubei/v1/"
	defaultYTUploadURL = "https://upload.youtube.com/upload/usermusic/http"
	ytmOrigin          = "https://music.youtube.com"
	ytmUserAgent       = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	statusSucceeded    = "STATUS_SUCCEEDED"
)

// headers never copied from a credential object onto outgoing requests
var skippedAuthHeaders = map[string]bool{
	"accept-encoding":  true,
	"content-encoding": true,
	"content-length":   true,
	"host":             true,
	"authorization":    true,
}

// Options configures the [YouTubeFactory] and every [YouTubeMusic] it builds.
//
// HTTPClient and Limiter are shared by all clients; neither holds credentials.
type Options struct {
	BaseURL    string
	UploadURL  string
	Language   string
	Location   string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	OAuth      *oauth2.Config
	Logger     *log.Logger

	now func() time.Time
}

// OptionsFromConfig builds [Options] from the [youtube] and [oauth] config sections.
func OptionsFromConfig(cfg *shared.Config, logger *log.Logger) Options {
	opts := Options{
		BaseURL:    cfg.YouTube.BaseURL,
		UploadURL:  cfg.YouTube.UploadURL,
		Language:   cfg.YouTube.Language,
		Location:   cfg.YouTube.Location,
		HTTPClient: &http.Client{Timeout: cfg.YouTube.Timeout()},
		Logger:     logger,
	}
	if cfg.YouTube.RequestsPerSecond > 0 {
		burst := max(int(cfg.YouTube.RequestsPerSecond), 1)
		opts.Limiter = rate.NewLimiter(rate.Limit(cfg.YouTube.RequestsPerSecond), burst)
	}
	if cfg.OAuth.ClientID != "" {
		opts.OAuth = NewOAuthConfig(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret)
	}
	return opts
}

// YouTubeFactory implements [Factory] for [YouTubeMusic].
type YouTubeFactory struct {
	opts Options
}

// NewYouTubeFactory creates a factory, filling unset options with defaults.
func NewYouTubeFactory(opts Options) *YouTubeFactory {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYTBaseURL
	}
	if opts.UploadURL == "" {
		opts.UploadURL = defaultYTUploadURL
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	opts.Logger = shared.WithLogger(opts.Logger, "component", "youtube")
	if opts.now == nil {
		opts.now = time.Now
	}
	return &YouTubeFactory{opts: opts}
}

// New builds a client for creds. Inline data wins over a file path; neither means anonymous.
func (f *YouTubeFactory) New(creds Credentials) (Client, error) {
	base, err := url.Parse(f.opts.BaseURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("%w: invalid upstream base URL %q", shared.ErrInvalidConfig, f.opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	yt := &YouTubeMusic{
		opts: &f.opts,
		base: base,
		auth: &auth{kind: authNone},
	}

	data := creds.Data
	if data == nil && creds.File != "" {
		if data, err = loadCredentialFile(creds.File); err != nil {
			return nil, err
		}
	}
	if data == nil {
		return yt, nil
	}

	if yt.auth, err = parseAuth(data); err != nil {
		return nil, err
	}

	if yt.auth.kind == authOAuth {
		if f.opts.OAuth == nil {
			return nil, fmt.Errorf("%w: oauth credentials need oauth.client_id and oauth.client_secret in the server config", shared.ErrMissingConfig)
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, f.opts.HTTPClient)
		yt.tokens = f.opts.OAuth.TokenSource(ctx, yt.auth.token)
	}

	return yt, nil
}

// YouTubeMusic is a [Client] bound to a single set of credentials.
type YouTubeMusic struct {
	opts   *Options
	base   *url.URL
	auth   *auth
	tokens oauth2.TokenSource
}

// AuthType reports "none", "browser" or "oauth".
func (y *YouTubeMusic) AuthType() string {
	return y.auth.kind.String()
}

func (y *YouTubeMusic) clientContext() map[string]any {
	client := map[string]any{
		"clientName":    "WEB_REMIX",
		"clientVersion": "1." + y.opts.now().UTC().Format("20060102") + ".01.00",
		"hl":            y.opts.Language,
	}
	if y.opts.Location != "" {
		client["gl"] = y.opts.Location
	}
	return map[string]any{"client": client, "user": map[string]any{}}
}

func (y *YouTubeMusic) wait(ctx context.Context) error {
	if y.opts.Limiter == nil {
		return nil
	}
	if err := y.opts.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	return nil
}

// authorize sets credential headers on req.
func (y *YouTubeMusic) authorize(req *http.Request) error {
	switch y.auth.kind {
	case authBrowser:
		for k, v := range y.auth.headers {
			if skippedAuthHeaders[k] {
				continue
			}
			req.Header.Set(k, v)
		}
		if req.Header.Get("X-Goog-AuthUser") == "" {
			req.Header.Set("X-Goog-AuthUser", "0")
		}
		req.Header.Set("Authorization", sapisidHash(y.auth.sapisid, ytmOrigin, y.opts.now()))
	case authOAuth:
		tok, err := y.tokens.Token()
		if err != nil {
			return fmt.Errorf("%w: oauth token refresh: %v", shared.ErrAuthFailed, err)
		}
		tok.SetAuthHeader(req)
		req.Header.Set("X-Goog-Request-Time", fmt.Sprint(y.opts.now().Unix()))
	}
	return nil
}

func (y *YouTubeMusic) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", ytmUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", ytmOrigin)
	req.Header.Set("X-Origin", ytmOrigin)

	if err := y.authorize(req); err != nil {
		return nil, err
	}
	return req, nil
}

// send posts body to endpoint and decodes the JSON object that comes back.
func (y *YouTubeMusic) send(ctx context.Context, endpoint string, body map[string]any, authRequired bool) (map[string]any, error) {
	if authRequired && y.auth.kind == authNone {
		return nil, shared.ErrNotAuthenticated
	}
	if err := y.wait(ctx); err != nil {
		return nil, err
	}

	body["context"] = y.clientContext()
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	u := y.base.ResolveReference(&url.URL{Path: endpoint, RawQuery: "alt=json&prettyPrint=false"})
	req, err := y.newRequest(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := y.opts.HTTPClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "transport_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	y.opts.Logger.Debug("upstream request", "endpoint", endpoint, "status", resp.StatusCode,
		"auth", y.auth.kind, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.RecordUpstreamRequest(endpoint, "http_error", time.Since(start))
		return nil, statusError(resp.StatusCode, data)
	}
	metrics.RecordUpstreamRequest(endpoint, "ok", time.Since(start))

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// statusError renders an upstream HTTP failure as "server returned HTTP <code>: <reason>[: <message>]".
func statusError(code int, body []byte) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := fmt.Sprintf("server returned HTTP %d: %s", code, http.StatusText(code))
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		msg += ": " + envelope.Error.Message
	}
	return errors.New(msg)
}

// statusOr returns the response's status string when present, otherwise the whole response.
func statusOr(resp map[string]any) any {
	if s, ok := resp["status"].(string); ok && s != "" {
		return s
	}
	return resp
}

func (y *YouTubeMusic) browse(ctx context.Context, browseID string, authRequired bool) (any, error) {
	return y.send(ctx, "browse", map[string]any{"browseId": browseID}, authRequired)
}

func browsePlaylistID(id string) string {
	if strings.HasPrefix(id, "VL") {
		return id
	}
	return "VL" + id
}

func bare(id string) string {
	return strings.TrimPrefix(id, "VL")
}

// GetPlaylist returns the raw playlist page for playlistID.
func (y *YouTubeMusic) GetPlaylist(ctx context.Context, playlistID string) (any, error) {
	return y.browse(ctx, browsePlaylistID(playlistID), false)
}

// CreatePlaylist creates a playlist and returns its ID, or the raw response when no ID came back.
func (y *YouTubeMusic) CreatePlaylist(ctx context.Context, title, description, privacyStatus string) (any, error) {
	resp, err := y.send(ctx, "playlist/create", map[string]any{
		"title":         title,
		"description":   description,
		"privacyStatus": privacyStatus,
	}, true)
	if err != nil {
		return nil, err
	}
	if id, ok := resp["playlistId"].(string); ok && id != "" {
		return id, nil
	}
	return resp, nil
}

// EditPlaylist renames or re-describes a playlist. With nothing to change no request is sent.
func (y *YouTubeMusic) EditPlaylist(ctx context.Context, playlistID string, title, description *string) (any, error) {
	var actions []map[string]any
	if title != nil {
		actions = append(actions, map[string]any{"action": "ACTION_SET_PLAYLIST_NAME", "playlistName": *title})
	}
	if description != nil {
		actions = append(actions, map[string]any{"action": "ACTION_SET_PLAYLIST_DESCRIPTION", "playlistDescription": *description})
	}
	if len(actions) == 0 {
		return statusSucceeded, nil
	}

	resp, err := y.send(ctx, "browse/edit_playlist", map[string]any{
		"playlistId": bare(playlistID),
		"actions":    actions,
	}, true)
	if err != nil {
		return nil, err
	}
	return statusOr(resp), nil
}

// DeletePlaylist removes a playlist owned by the account.
func (y *YouTubeMusic) DeletePlaylist(ctx context.Context, playlistID string) (any, error) {
	resp, err := y.send(ctx, "playlist/delete", map[string]any{"playlistId": bare(playlistID)}, true)
	if err != nil {
		return nil, err
	}
	return statusOr(resp), nil
}

// AddPlaylistItems appends videos to a playlist, skipping ones already present.
func (y *YouTubeMusic) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) (any, error) {
	if len(videoIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one video id is required", shared.ErrInvalidInput)
	}

	actions := make([]map[string]any, 0, len(videoIDs))
	for _, id := range videoIDs {
		actions = append(actions, map[string]any{
			"action":       "ACTION_ADD_VIDEO",
			"addedVideoId": id,
			"dedupeOption": "DEDUPE_OPTION_SKIP",
		})
	}

	resp, err := y.send(ctx, "browse/edit_playlist", map[string]any{
		"playlistId": bare(playlistID),
		"actions":    actions,
	}, true)
	if err != nil {
		return nil, err
	}
	return statusOr(resp), nil
}

// RemovePlaylistItems removes videos identified by videoId and setVideoId.
func (y *YouTubeMusic) RemovePlaylistItems(ctx context.Context, playlistID string, videos []map[string]string) (any, error) {
	actions := make([]map[string]any, 0, len(videos))
	for _, v := range videos {
		if v["videoId"] == "" || v["setVideoId"] == "" {
			continue
		}
		actions = append(actions, map[string]any{
			"action":         "ACTION_REMOVE_VIDEO",
			"setVideoId":     v["setVideoId"],
			"removedVideoId": v["videoId"],
		})
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: cannot remove songs because setVideoId is missing, do you own this playlist?", shared.ErrInvalidInput)
	}

	resp, err := y.send(ctx, "browse/edit_playlist", map[string]any{
		"playlistId": bare(playlistID),
		"actions":    actions,
	}, true)
	if err != nil {
		return nil, err
	}
	return statusOr(resp), nil
}

func (y *YouTubeMusic) GetLibraryPlaylists(ctx context.Context) (any, error) {
	return y.browse(ctx, "FEmusic_liked_playlists", true)
}

func (y *YouTubeMusic) GetLibrarySongs(ctx context.Context) (any, error) {
	return y.browse(ctx, "FEmusic_liked_videos", true)
}

func (y *YouTubeMusic) GetLibraryAlbums(ctx context.Context) (any, error) {
	return y.browse(ctx, "FEmusic_liked_albums", true)
}

func (y *YouTubeMusic) GetLibraryArtists(ctx context.Context) (any, error) {
	return y.browse(ctx, "FEmusic_library_corpus_track_artists", true)
}

func (y *YouTubeMusic) GetLikedSongs(ctx context.Context) (any, error) {
	return y.browse(ctx, "VLLM", true)
}

func (y *YouTubeMusic) GetHistory(ctx context.Context) (any, error) {
	return y.browse(ctx, "FEmusic_history", true)
}

// RateSong likes, dislikes or clears the rating of a video.
func (y *YouTubeMusic) RateSong(ctx context.Context, videoID, rating string) (any, error) {
	var endpoint string
	switch rating {
	case RatingLike:
		endpoint = "like/like"
	case RatingDislike:
		endpoint = "like/dislike"
	case RatingIndifferent:
		endpoint = "like/removelike"
	default:
		return nil, fmt.Errorf("%w: invalid rating %q", shared.ErrInvalidInput, rating)
	}
	return y.send(ctx, endpoint, map[string]any{"target": map[string]any{"videoId": videoID}}, true)
}

func (y *YouTubeMusic) SubscribeArtists(ctx context.Context, channelIDs []string) (any, error) {
	return y.send(ctx, "subscription/subscribe", map[string]any{"channelIds": channelIDs}, true)
}

func (y *YouTubeMusic) GetLibraryUploadSongs(ctx context.Context) (any, error) {
	return y.browse(ctx, "FEmusic_library_privately_owned_tracks", true)
}

func (y *YouTubeMusic) GetLibraryUploadAlbums(ctx context.Context) (any, error) {
	return y.browse(ctx, "FEmusic_library_privately_owned_releases", true)
}

// DeleteUploadEntity deletes an uploaded song or album.
func (y *YouTubeMusic) DeleteUploadEntity(ctx context.Context, entityID string) (any, error) {
	entityID = strings.TrimPrefix(entityID, "FEmusic_library_privately_owned_release_detail")
	resp, err := y.send(ctx, "music/delete_privately_owned_entity", map[string]any{"entityId": entityID}, true)
	if err != nil {
		return nil, err
	}
	if e, ok := resp["error"]; ok {
		return e, nil
	}
	return statusSucceeded, nil
}

// Search queries YouTube Music. Unknown filters are rejected before any request is sent.
func (y *YouTubeMusic) Search(ctx context.Context, query, filter string) (any, error) {
	params, err := searchParams(filter)
	if err != nil {
		return nil, err
	}
	body := map[string]any{"query": query}
	if params != "" {
		body["params"] = params
	}
	return y.send(ctx, "search", body, false)
}

var _ Client = (*YouTubeMusic)(nil)
