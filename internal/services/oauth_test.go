package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/ytproxy/internal/shared"
	"golang.org/x/oauth2"
)

func TestNewOAuthConfig(t *testing.T) {
	cfg := NewOAuthConfig("id", "secret")
	if cfg.Endpoint.DeviceAuthURL != googleDeviceAuthURL {
		t.Errorf("expected device auth URL %s, got %s", googleDeviceAuthURL, cfg.Endpoint.DeviceAuthURL)
	}
	if len(cfg.Scopes) != 1 || cfg.Scopes[0] != youtubeScope {
		t.Errorf("unexpected scopes %v", cfg.Scopes)
	}
}

func TestDeviceFlow(t *testing.T) {
	t.Run("Missing Client", func(t *testing.T) {
		_, err := DeviceFlow(context.Background(), nil, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Grants Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/device":
				w.Write([]byte(`{"device_code": "dev", "user_code": "ABCD-EFGH",
					"verification_url": "https://www.google.com/device", "expires_in": 60, "interval": 1}`))
			case "/token":
				w.Write([]byte(`{"access_token": "at", "refresh_token": "rt", "token_type": "Bearer", "expires_in": 3600}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		cfg := NewOAuthConfig("id", "secret")
		cfg.Endpoint.DeviceAuthURL = server.URL + "/device"
		cfg.Endpoint.TokenURL = server.URL + "/token"

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var prompted *oauth2.DeviceAuthResponse
		tok, err := DeviceFlow(ctx, cfg, func(da *oauth2.DeviceAuthResponse) { prompted = da })
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if prompted == nil || prompted.UserCode != "ABCD-EFGH" {
			t.Errorf("expected prompt with user code, got %+v", prompted)
		}
		if tok.RefreshToken != "rt" {
			t.Errorf("expected refresh token rt, got %q", tok.RefreshToken)
		}
	})

	t.Run("Device Auth Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		cfg := NewOAuthConfig("id", "secret")
		cfg.Endpoint.DeviceAuthURL = server.URL + "/device"

		if _, err := DeviceFlow(context.Background(), cfg, nil); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}

func TestWriteOAuthToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oauth.json")
	tok := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
	if err := WriteOAuthToken(path, tok); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	yt, err := NewYouTubeFactory(Options{OAuth: NewOAuthConfig("id", "secret")}).New(Credentials{File: path})
	if err != nil {
		t.Fatalf("expected written token to load, got %v", err)
	}
	if yt.(*YouTubeMusic).AuthType() != "oauth" {
		t.Errorf("expected oauth client, got %s", yt.(*YouTubeMusic).AuthType())
	}
}
