// Package services implements the upstream side of the proxy: a YouTube Music [Client] per request, built by a [Factory].
//
// # Client Interface
//
// [Client] mirrors the account operations the proxy exposes (playlists, library, uploads, search).
// Every result is the raw decoded JSON value; nothing is reshaped. Errors are plain text and are
// classified by the HTTP layer from their message.
//
// # Credentials
//
// [YouTubeFactory.New] accepts [Credentials] holding either a parsed object or a file path:
//   - browser headers (browser.json): must include a cookie with __Secure-3PAPISID or SAPISID;
//     requests are signed with a SAPISIDHASH Authorization header
//   - OAuth token (oauth.json): access_token + refresh_token, refreshed through [oauth2.Config]
//   - nothing: anonymous, enough for public reads such as search and playlists
//
// The factory shares one [http.Client] and one [rate.Limiter] between clients; credentials stay
// on the per-request [YouTubeMusic] value.
//
// # Setup Helpers
//
// [SetupBrowser] converts raw browser request headers into browser.json.
// [DeviceFlow] and [WriteOAuthToken] produce oauth.json from an interactive terminal.
//
// # Proxy API Client
//
// [APIService] makes raw HTTP calls against a running proxy for the CLI's status and api commands.
package services
