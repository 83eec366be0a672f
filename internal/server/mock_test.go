package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/goccy/go-json"
)

type call struct {
	method string
	args   []any
}

// mockClient is a services.Client returning Result/Err for every method and recording calls.
type mockClient struct {
	mu     sync.Mutex
	calls  []call
	Result any
	Err    error
	// OnUpload runs during UploadSong with the staged path.
	OnUpload func(path string)
}

func (m *mockClient) record(method string, args ...any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{method: method, args: args})
	return m.Result, m.Err
}

func (m *mockClient) last(t *testing.T) call {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		t.Fatal("expected an upstream call")
	}
	return m.calls[len(m.calls)-1]
}

func (m *mockClient) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockClient) GetPlaylist(ctx context.Context, id string) (any, error) {
	return m.record("GetPlaylist", id)
}

func (m *mockClient) CreatePlaylist(ctx context.Context, title, description, privacy string) (any, error) {
	return m.record("CreatePlaylist", title, description, privacy)
}

func (m *mockClient) EditPlaylist(ctx context.Context, id string, title, description *string) (any, error) {
	return m.record("EditPlaylist", id, title, description)
}

func (m *mockClient) DeletePlaylist(ctx context.Context, id string) (any, error) {
	return m.record("DeletePlaylist", id)
}

func (m *mockClient) AddPlaylistItems(ctx context.Context, id string, videoIDs []string) (any, error) {
	return m.record("AddPlaylistItems", id, videoIDs)
}

func (m *mockClient) RemovePlaylistItems(ctx context.Context, id string, videos []map[string]string) (any, error) {
	return m.record("RemovePlaylistItems", id, videos)
}

func (m *mockClient) GetLibraryPlaylists(ctx context.Context) (any, error) {
	return m.record("GetLibraryPlaylists")
}

func (m *mockClient) GetLibrarySongs(ctx context.Context) (any, error) {
	return m.record("GetLibrarySongs")
}

func (m *mockClient) GetLibraryAlbums(ctx context.Context) (any, error) {
	return m.record("GetLibraryAlbums")
}

func (m *mockClient) GetLibraryArtists(ctx context.Context) (any, error) {
	return m.record("GetLibraryArtists")
}

func (m *mockClient) GetLikedSongs(ctx context.Context) (any, error) {
	return m.record("GetLikedSongs")
}

func (m *mockClient) GetHistory(ctx context.Context) (any, error) {
	return m.record("GetHistory")
}

func (m *mockClient) RateSong(ctx context.Context, videoID, rating string) (any, error) {
	return m.record("RateSong", videoID, rating)
}

func (m *mockClient) SubscribeArtists(ctx context.Context, channelIDs []string) (any, error) {
	return m.record("SubscribeArtists", channelIDs)
}

func (m *mockClient) GetLibraryUploadSongs(ctx context.Context) (any, error) {
	return m.record("GetLibraryUploadSongs")
}

func (m *mockClient) GetLibraryUploadAlbums(ctx context.Context) (any, error) {
	return m.record("GetLibraryUploadAlbums")
}

func (m *mockClient) UploadSong(ctx context.Context, path string) (any, error) {
	if m.OnUpload != nil {
		m.OnUpload(path)
	}
	return m.record("UploadSong", path)
}

func (m *mockClient) DeleteUploadEntity(ctx context.Context, id string) (any, error) {
	return m.record("DeleteUploadEntity", id)
}

func (m *mockClient) Search(ctx context.Context, query, filter string) (any, error) {
	return m.record("Search", query, filter)
}

var _ services.Client = (*mockClient)(nil)

// mockFactory hands out client (or fails with err) and records the credentials it was given.
type mockFactory struct {
	mu     sync.Mutex
	client services.Client
	err    error
	creds  []services.Credentials
}

func (f *mockFactory) New(creds services.Credentials) (services.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds = append(f.creds, creds)
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func (f *mockFactory) lastCreds(t *testing.T) services.Credentials {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.creds) == 0 {
		t.Fatal("expected the factory to be called")
	}
	return f.creds[len(f.creds)-1]
}

// testRouter builds a router around client with a private temp dir.
func testRouter(t *testing.T, client *mockClient) (http.Handler, *mockFactory, string) {
	t.Helper()
	factory := &mockFactory{client: client}
	tmp := t.TempDir()
	return NewRouter(Options{Factory: factory, TempDir: tmp}), factory, tmp
}

// do sends a request through h. A non-nil body is marshalled to JSON unless it is a string.
func do(t *testing.T, h http.Handler, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		r = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("expected JSON object body, got %q: %v", rec.Body.String(), err)
	}
	return m
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func expectDetail(t *testing.T, rec *httptest.ResponseRecorder, substr string) {
	t.Helper()
	detail, _ := decode(t, rec)["detail"].(string)
	if !strings.Contains(detail, substr) {
		t.Errorf("expected detail containing %q, got %q", substr, detail)
	}
}
