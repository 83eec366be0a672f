package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/desertthunder/ytproxy/internal/shared"
	"github.com/desertthunder/ytproxy/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to --path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("%s\n", ui.Styles.OK("Config written to %s", path))
}

// SetupYouTube configures YouTube Music authentication from browser headers.
//
// Accepts a cURL command or raw copied headers and generates browser.json locally,
// the same way POST /api/setup does on the server.
func (r *Runner) SetupYouTube(ctx context.Context, cmd *cli.Command) error {
	headersRaw, err := r.readHeaders(cmd)
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	r.logger.Debug("generated headers_raw", "length", len(headersRaw))

	headers, err := services.SetupBrowser(outputPath, headersRaw)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	r.logger.Info("browser.json saved", "path", outputPath, "keys", services.HeaderKeys(headers))

	r.writePlain("%s\n", ui.Styles.OK("YouTube Music authentication configured successfully"))
	r.writePlain("Auth file saved to: %s\n", outputPath)
	r.writePlainln("%s", ui.Styles.Title("Next steps:"))
	r.writePlain("%s", ui.Styles.Steps(
		"Start the proxy with 'ytproxy serve'",
		fmt.Sprintf("Send the file with requests: 'ytproxy api get --auth-file %s /api/library/playlists'", outputPath),
	))

	return nil
}

// readHeaders returns raw "key: value" headers from exactly one of --curl, --curl-file or --headers-file.
func (r *Runner) readHeaders(cmd *cli.Command) (string, error) {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	headersFile := cmd.String("headers-file")

	set := 0
	for _, v := range []string{curlCmd, curlFile, headersFile} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return "", fmt.Errorf("%w: one of --curl, --curl-file or --headers-file must be provided", shared.ErrMissingArgument)
	case set > 1:
		return "", fmt.Errorf("%w: --curl, --curl-file and --headers-file are mutually exclusive", shared.ErrInvalidArgument)
	}

	if headersFile != "" {
		data, err := os.ReadFile(headersFile)
		if err != nil {
			return "", fmt.Errorf("failed to read headers file: %w", err)
		}
		r.logger.Info("read raw headers", "file", headersFile)
		return string(data), nil
	}

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return "", fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return "", fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	return curlHeaders.ToHeadersRaw(), nil
}
