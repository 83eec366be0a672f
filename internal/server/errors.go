package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrPlaylistResult means playlist creation succeeded upstream but no ID could be read from the result.
var ErrPlaylistResult = errors.New("could not extract playlist_id from response")

// HTTPError is an error that already knows its response status and detail text.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	return e.Detail
}

func httpErrorf(status int, format string, args ...any) *HTTPError {
	return &HTTPError{Status: status, Detail: fmt.Sprintf(format, args...)}
}

// Classify maps an upstream failure onto an HTTP status by looking at its message.
//
// Matching is case-insensitive and ordered: "authentication" is 401, "not found" is 404,
// "invalid" or "bad" is 400. Anything else is a 500 whose detail is prefixed "Internal error: ".
// Errors that are already an [*HTTPError] are returned unchanged.
func Classify(err error) *HTTPError {
	if err == nil {
		return nil
	}

	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "authentication"):
		return &HTTPError{Status: http.StatusUnauthorized, Detail: msg}
	case strings.Contains(lower, "not found"):
		return &HTTPError{Status: http.StatusNotFound, Detail: msg}
	case strings.Contains(lower, "invalid"), strings.Contains(lower, "bad"):
		return &HTTPError{Status: http.StatusBadRequest, Detail: msg}
	default:
		return &HTTPError{Status: http.StatusInternalServerError, Detail: "Internal error: " + msg}
	}
}

// playlistID reads the new playlist's ID from a create result.
//
// A string result is the ID itself; a mapping carries it under "playlistId" or "id".
func playlistID(result any) (string, error) {
	var id string
	switch v := result.(type) {
	case string:
		id = v
	case map[string]any:
		if s, ok := v["playlistId"].(string); ok && s != "" {
			id = s
		} else if s, ok := v["id"].(string); ok {
			id = s
		}
	}
	if id == "" {
		return "", ErrPlaylistResult
	}
	return id, nil
}
