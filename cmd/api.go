package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/ytproxy/internal/shared"
	"github.com/desertthunder/ytproxy/internal/ui"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// Status checks a running proxy by calling its /health endpoint.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	api, err := r.apiFor(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("checking proxy status")

	resp, err := api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		if detail := resp.Detail(); detail != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrServiceUnavailable, resp.StatusCode, detail)
		}
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	status := "unknown"
	if data, ok := resp.JSONData.(map[string]any); ok {
		if s, ok := data["status"].(string); ok {
			status = s
		}
	}

	r.writePlain("%s\n", ui.Styles.OK("Service is healthy"))
	return r.writePlain("Status: %s\n", status)
}

// APIGet makes a direct GET request to the proxy
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodGet, nil)
}

// APIPost makes a direct POST request to the proxy
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	data, err := jsonData(cmd.String("data"))
	if err != nil {
		return err
	}
	return r.apiCall(ctx, cmd, http.MethodPost, data)
}

// APIPut makes a direct PUT request to the proxy
func (r *Runner) APIPut(ctx context.Context, cmd *cli.Command) error {
	data, err := jsonData(cmd.String("data"))
	if err != nil {
		return err
	}
	return r.apiCall(ctx, cmd, http.MethodPut, data)
}

// APIDelete makes a direct DELETE request, with a body when --data is given.
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	var data []byte
	if raw := cmd.String("data"); raw != "" {
		var err error
		if data, err = jsonData(raw); err != nil {
			return err
		}
	}
	return r.apiCall(ctx, cmd, http.MethodDelete, data)
}

func jsonData(raw string) ([]byte, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidInput)
	}
	return []byte(raw), nil
}

func (r *Runner) apiCall(ctx context.Context, cmd *cli.Command, method string, data []byte) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	api, err := r.apiFor(cmd)
	if err != nil {
		return err
	}

	r.logger.Info(method+" request", "path", path)

	resp, err := api.Do(ctx, method, path, data)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		if detail := resp.Detail(); detail != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, detail)
		}
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("compact"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
