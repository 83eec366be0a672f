package services

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytproxy/internal/shared"
	tu "github.com/desertthunder/ytproxy/internal/testing"
	"github.com/goccy/go-json"
)

const firefoxHeaders = `POST /youtubei/v1/browse?prettyPrint=false HTTP/2
Host: music.youtube.com
User-Agent: Mozilla/5.0 (Windows NT 10.0; rv:120.0)
Accept-Encoding: gzip, deflate, br
Content-Length: 2410
Sec-Fetch-Mode: same-origin
X-Goog-AuthUser: 1
Cookie: SID=abc; __Secure-3PAPISID=xyz`

const chromeHeaders = `:authority:
music.youtube.com
:method:
POST
cookie:
SID=abc; __Secure-3PAPISID=xyz
x-goog-authuser:
0
sec-ch-ua:
"Chromium"`

func TestSetupBrowser(t *testing.T) {
	t.Run("Firefox Format", func(t *testing.T) {
		headers, err := SetupBrowser("", firefoxHeaders)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if headers["cookie"] != "SID=abc; __Secure-3PAPISID=xyz" {
			t.Errorf("unexpected cookie %q", headers["cookie"])
		}
		if headers["x-goog-authuser"] != "1" {
			t.Errorf("expected authuser 1, got %q", headers["x-goog-authuser"])
		}
		for _, dropped := range []string{"host", "content-length", "accept-encoding", "sec-fetch-mode"} {
			if _, ok := headers[dropped]; ok {
				t.Errorf("expected %s to be dropped", dropped)
			}
		}
		if headers["user-agent"] != ytmUserAgent {
			t.Errorf("expected default user-agent, got %q", headers["user-agent"])
		}
		if headers["origin"] != ytmOrigin {
			t.Errorf("expected default origin, got %q", headers["origin"])
		}
	})

	t.Run("Chrome Format", func(t *testing.T) {
		headers, err := SetupBrowser("", chromeHeaders)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if headers["cookie"] != "SID=abc; __Secure-3PAPISID=xyz" {
			t.Errorf("unexpected cookie %q", headers["cookie"])
		}
		if headers["x-goog-authuser"] != "0" {
			t.Errorf("expected authuser 0, got %q", headers["x-goog-authuser"])
		}
		if _, ok := headers["sec-ch-ua"]; ok {
			t.Error("expected sec-ch-ua to be dropped")
		}
		for key := range headers {
			if strings.HasPrefix(key, ":") {
				t.Errorf("expected pseudo header %s to be skipped", key)
			}
		}
	})

	t.Run("Escaped Newlines", func(t *testing.T) {
		raw := `cookie: SAPISID=1\nx-goog-authuser: 0`
		headers, err := SetupBrowser("", raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if headers["cookie"] != "SAPISID=1" {
			t.Errorf("unexpected cookie %q", headers["cookie"])
		}
	})

	t.Run("Missing Entries", func(t *testing.T) {
		_, err := SetupBrowser("", "user-agent: curl")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if !strings.Contains(err.Error(), "cookie, x-goog-authuser") {
			t.Errorf("expected missing entries listed, got %q", err)
		}
	})

	t.Run("Writes File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "browser.json")
		headers, err := SetupBrowser(path, firefoxHeaders)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		var written map[string]string
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &written); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(written) != len(headers) || written["cookie"] != headers["cookie"] {
			t.Errorf("expected file to match returned mapping, got %v", written)
		}

		if _, err := NewYouTubeFactory(Options{}).New(Credentials{File: path}); err != nil {
			t.Errorf("expected written file to be usable as credentials, got %v", err)
		}
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing-dir", "browser.json")
		if _, err := SetupBrowser(path, firefoxHeaders); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestHeaderKeys(t *testing.T) {
	keys := HeaderKeys(map[string]string{"origin": "o", "cookie": "c", "accept": "a"})
	if strings.Join(keys, ",") != "accept,cookie,origin" {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}
