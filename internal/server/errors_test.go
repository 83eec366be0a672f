package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		status int
		detail string
	}{
		{"authentication", "Please provide authentication before using this function", http.StatusUnauthorized, ""},
		{"authentication uppercase", "AUTHENTICATION expired", http.StatusUnauthorized, ""},
		{"not found", "Playlist Not Found", http.StatusNotFound, ""},
		{"invalid", "invalid filter provided", http.StatusBadRequest, ""},
		{"bad", "Bad videoId", http.StatusBadRequest, ""},
		{"authentication wins over not found", "authentication file not found", http.StatusUnauthorized, ""},
		{"not found wins over invalid", "invalid id: not found", http.StatusNotFound, ""},
		{"other", "server returned HTTP 500", http.StatusInternalServerError, "Internal error: server returned HTTP 500"},
		{"empty", "", http.StatusInternalServerError, "Internal error: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := Classify(errors.New(tt.msg))
			if he.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, he.Status)
			}
			want := tt.detail
			if want == "" && tt.status != http.StatusInternalServerError {
				want = tt.msg
			}
			if he.Detail != want {
				t.Errorf("expected detail %q, got %q", want, he.Detail)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		if Classify(nil) != nil {
			t.Error("expected nil for nil error")
		}
	})

	t.Run("HTTPError passes through", func(t *testing.T) {
		orig := &HTTPError{Status: http.StatusTeapot, Detail: "invalid teapot"}
		he := Classify(fmt.Errorf("wrapped: %w", orig))
		if he != orig {
			t.Errorf("expected original HTTPError, got %+v", he)
		}
	})

	t.Run("playlist result", func(t *testing.T) {
		he := Classify(ErrPlaylistResult)
		if he.Status != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", he.Status)
		}
		if he.Detail != "Internal error: could not extract playlist_id from response" {
			t.Errorf("unexpected detail %q", he.Detail)
		}
	})
}

func TestPlaylistID(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{"bare string", "PL123", "PL123"},
		{"playlistId key", map[string]any{"playlistId": "PL123", "status": "STATUS_SUCCEEDED"}, "PL123"},
		{"id fallback", map[string]any{"id": "PL123"}, "PL123"},
		{"empty playlistId falls back", map[string]any{"playlistId": "", "id": "PL123"}, "PL123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := playlistID(tt.result)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	for name, result := range map[string]any{
		"empty map":      map[string]any{},
		"empty string":   "",
		"nil":            nil,
		"non-string id":  map[string]any{"playlistId": 42},
		"unexpected type": []any{"PL123"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := playlistID(result); !errors.Is(err, ErrPlaylistResult) {
				t.Errorf("expected ErrPlaylistResult, got %v", err)
			}
		})
	}
}
