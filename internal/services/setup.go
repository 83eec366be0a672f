package services

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/desertthunder/ytproxy/internal/shared"
	"github.com/goccy/go-json"
)

var (
	requiredBrowserHeaders = []string{"cookie", "x-goog-authuser"}
	ignoredBrowserHeaders  = map[string]bool{"host": true, "content-length": true, "accept-encoding": true}
)

// defaultBrowserHeaders are merged over the user's headers in every generated credential file.
func defaultBrowserHeaders() map[string]string {
	return map[string]string{
		"user-agent":   ytmUserAgent,
		"accept":       "*/*",
		"content-type": "application/json",
		"origin":       ytmOrigin,
	}
}

// SetupBrowser turns raw request headers copied from the browser's network tab into a credential mapping.
//
// Both "key: value" lines (Firefox) and Chrome's "key:" followed by the value on the next line are accepted.
// When path is non-empty the mapping is also written there as indented JSON.
func SetupBrowser(path, headersRaw string) (map[string]string, error) {
	headers := parseRawHeaders(headersRaw)

	var missing []string
	for _, key := range requiredBrowserHeaders {
		if _, ok := headers[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: the following entries are missing in your headers: %s; "+
			"try a different request (such as /browse) and make sure you are logged in",
			shared.ErrInvalidInput, strings.Join(missing, ", "))
	}

	for key := range headers {
		if strings.HasPrefix(key, "sec") || ignoredBrowserHeaders[key] {
			delete(headers, key)
		}
	}
	for key, value := range defaultBrowserHeaders() {
		headers[key] = value
	}

	if path != "" {
		data, err := json.MarshalIndent(headers, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal headers: %w", err)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	return headers, nil
}

func parseRawHeaders(raw string) map[string]string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	// some terminals paste the block with literal "\n" sequences
	if !strings.Contains(raw, "\n") {
		raw = strings.ReplaceAll(raw, `\n`, "\n")
	}

	headers := make(map[string]string)
	var pending string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		key, value, found := strings.Cut(line, ": ")
		if !found {
			if strings.HasSuffix(line, ":") {
				pending = strings.ToLower(strings.TrimSuffix(line, ":"))
				continue
			}
			if pending != "" {
				headers[pending] = line
				pending = ""
			}
			continue
		}
		pending = ""
		headers[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return headers
}

// HeaderKeys returns the sorted keys of a credential mapping, for logging without values.
func HeaderKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
