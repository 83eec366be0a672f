package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ytproxy/internal/metrics"
	"github.com/desertthunder/ytproxy/internal/shared"
)

const maxUploadSize = 300 << 20

var uploadExtensions = []string{"mp3", "m4a", "wma", "flac", "ogg"}

// UploadSong sends a local audio file through the two-step resumable upload API.
//
// Only browser credentials can upload.
func (y *YouTubeMusic) UploadSong(ctx context.Context, path string) (any, error) {
	if y.auth.kind != authBrowser {
		return nil, shared.ErrBrowserAuth
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("upload file not found: %s", path)
	}
	if err := checkUploadable(path, info.Size()); err != nil {
		return nil, err
	}
	if err := y.wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	uploadURL, err := y.startUpload(ctx, filepath.Base(path), info.Size())
	if err != nil {
		metrics.RecordUpstreamRequest("upload", "http_error", time.Since(start))
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload file: %w", err)
	}
	defer f.Close()

	req, err := y.newRequest(ctx, http.MethodPost, uploadURL, f)
	if err != nil {
		return nil, err
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")
	req.Header.Set("X-Goog-Upload-Offset", "0")

	resp, err := y.opts.HTTPClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest("upload", "transport_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamRequest("upload", "http_error", time.Since(start))
		return nil, fmt.Errorf("%w: server returned HTTP %d: %s", shared.ErrUploadFailed, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	metrics.RecordUpstreamRequest("upload", "ok", time.Since(start))
	y.opts.Logger.Debug("upload finished", "file", filepath.Base(path), "bytes", info.Size())
	return statusSucceeded, nil
}

// startUpload opens a resumable upload session and returns its URL.
func (y *YouTubeMusic) startUpload(ctx context.Context, filename string, size int64) (string, error) {
	u, err := url.Parse(y.opts.UploadURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid upload URL %q", shared.ErrInvalidConfig, y.opts.UploadURL)
	}
	q := u.Query()
	q.Set("authuser", y.auth.headers["x-goog-authuser"])
	if q.Get("authuser") == "" {
		q.Set("authuser", "0")
	}
	u.RawQuery = q.Encode()

	body := "filename=" + url.QueryEscape(filename)
	req, err := y.newRequest(ctx, http.MethodPost, u.String(), strings.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.FormatInt(size, 10))
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")

	resp, err := y.opts.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: server returned HTTP %d: %s", shared.ErrUploadFailed, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	next := resp.Header.Get("X-Goog-Upload-URL")
	if next == "" {
		return "", fmt.Errorf("%w: upload session response has no X-Goog-Upload-URL", shared.ErrUploadFailed)
	}
	return next, nil
}

func checkUploadable(path string, size int64) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	supported := false
	for _, e := range uploadExtensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: file type %q is not supported, supported types are %s",
			shared.ErrInvalidInput, ext, strings.Join(uploadExtensions, ", "))
	}
	if size > maxUploadSize {
		return fmt.Errorf("%w: file size %d exceeds the 300 MB limit", shared.ErrInvalidInput, size)
	}
	return nil
}
