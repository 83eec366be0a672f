package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Request envelopes. Defaults are applied before validation.

type CreatePlaylistRequest struct {
	Title         *string `json:"title" validate:"required"`
	Description   *string `json:"description" validate:"required"`
	PrivacyStatus string  `json:"privacy_status"`
}

func (c *CreatePlaylistRequest) defaults() {
	if c.PrivacyStatus == "" {
		c.PrivacyStatus = "PRIVATE"
	}
}

// EditPlaylistRequest may leave both fields unset, which is a no-op edit.
type EditPlaylistRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type AddPlaylistItemsRequest struct {
	VideoIDs []string `json:"video_ids" validate:"required"`
}

type RemovePlaylistItemsRequest struct {
	Videos []map[string]string `json:"videos" validate:"required"`
}

type RateSongRequest struct {
	Rating string `json:"rating" validate:"required,oneof=LIKE DISLIKE INDIFFERENT"`
}

type SubscribeArtistsRequest struct {
	ChannelIDs []string `json:"channel_ids" validate:"required"`
}

// BrowserSetupRequest holds headers copied from the browser. A null filepath returns the
// credential content without saving it on the server.
type BrowserSetupRequest struct {
	HeadersRaw *string `json:"headers_raw" validate:"required"`
	Filepath   *string `json:"filepath"`
}

// Response envelopes.

type Success struct {
	Status string `json:"status"`
	Result any    `json:"result"`
}

func success(result any) Success {
	return Success{Status: "success", Result: result}
}

type CreatePlaylistResult struct {
	PlaylistID string `json:"playlist_id"`
}

type HealthStatus struct {
	Status string `json:"status"`
}

type Message struct {
	Message string `json:"message"`
}

type SetupResult struct {
	Success     bool           `json:"success"`
	Filepath    string         `json:"filepath"`
	Message     string         `json:"message"`
	AuthContent map[string]any `json:"auth_content,omitempty"`
}

type ErrorDetail struct {
	Detail string `json:"detail"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

type defaulter interface {
	defaults()
}

// decodeRequest reads a JSON body into dst, applies its defaults and validates it.
// Failures are 422 errors naming the offending fields.
func decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return httpErrorf(http.StatusUnprocessableEntity, "request body is required")
		}
		return httpErrorf(http.StatusUnprocessableEntity, "malformed request body: %v", err)
	}

	if d, ok := dst.(defaulter); ok {
		d.defaults()
	}

	if err := getValidator().Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return httpErrorf(http.StatusUnprocessableEntity, "validation failed: %v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return &HTTPError{Status: http.StatusUnprocessableEntity, Detail: strings.Join(msgs, "; ")}
}
