package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/desertthunder/ytproxy/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// OAuth runs the device authorization flow against the configured Google client
// and writes the resulting token file.
func (r *Runner) OAuth(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.configFor(cmd)
	if err != nil {
		return err
	}

	oauthCfg := services.NewOAuthConfig(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret)
	openBrowser := !cmd.Bool("no-browser")

	tok, err := services.DeviceFlow(ctx, oauthCfg, func(da *oauth2.DeviceAuthResponse) {
		r.promptDevice(da, openBrowser)
	})
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if err := services.WriteOAuthToken(output, tok); err != nil {
		return err
	}

	r.logger.Info("oauth token saved", "path", output, "expiry", tok.Expiry)
	return r.writePlain("%s\n", ui.Styles.OK("OAuth credentials saved to %s", output))
}

func (r *Runner) promptDevice(da *oauth2.DeviceAuthResponse, openBrowser bool) {
	url := da.VerificationURIComplete
	if url == "" {
		url = da.VerificationURI
	}

	r.writePlain("%s\n", ui.Styles.Title("Authorize ytproxy"))
	r.writePlain("Open %s and enter the code:\n", url)
	r.writePlain("%s\n", ui.Styles.Code(da.UserCode))
	r.writePlain("%s\n", ui.Styles.Help("Waiting for approval..."))

	if !openBrowser {
		return
	}
	if err := r.openBrowser(url); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		r.writePlain("%s\n", ui.Styles.Warn(fmt.Sprintf("Could not open a browser; visit %s manually", url)))
	}
}
