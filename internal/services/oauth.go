package services

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytproxy/internal/shared"
	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

const (
	googleDeviceAuthURL = "https://oauth2.googleapis.com/device/code"
	googleAuthURL       = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL      = "https://oauth2.googleapis.com/token"
	youtubeScope        = "https://www.googleapis.com/auth/youtube"
)

// NewOAuthConfig returns the Google OAuth configuration used for YouTube Music device flow.
func NewOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       []string{youtubeScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:       googleAuthURL,
			DeviceAuthURL: googleDeviceAuthURL,
			TokenURL:      googleTokenURL,
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// DeviceFlow runs the OAuth 2.0 device authorization grant.
//
// prompt is called once with the verification URL and user code; the call then blocks until the
// user approves, denies, or ctx ends.
func DeviceFlow(ctx context.Context, cfg *oauth2.Config, prompt func(*oauth2.DeviceAuthResponse)) (*oauth2.Token, error) {
	if cfg == nil || cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: oauth.client_id and oauth.client_secret must be set", shared.ErrMissingCredentials)
	}

	da, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: device authorization request: %v", shared.ErrAuthFailed, err)
	}

	if prompt != nil {
		prompt(da)
	}

	tok, err := cfg.DeviceAccessToken(ctx, da)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return tok, nil
}

// WriteOAuthToken stores tok in the oauth.json format accepted as X-Auth-File or X-Auth-Data.
func WriteOAuthToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tokenMapping(tok), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
