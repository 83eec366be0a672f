// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// proxyFlags select the proxy and the credentials forwarded to it.
func proxyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "Base URL of a running proxy (default: the configured server address)",
		},
		&cli.StringFlag{
			Name:  "auth-file",
			Usage: "Credential file path on the proxy host, sent as X-Auth-File",
		},
		&cli.StringFlag{
			Name:  "auth-data-file",
			Usage: "Local credential JSON file, sent inline as X-Auth-Data",
		},
	}
}

// serveCommand runs the HTTP proxy
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server"},
		Usage:   "Run the YouTube Music proxy server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to bind (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (overrides log.level)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles configuration and credential generation.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Destination for the config file",
						Value: "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt", "browser"},
				Usage:   "Generate browser.json from request headers copied out of the browser",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "headers-file",
						Usage: "Path to a file with raw request headers (Copy request headers)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for the credential file",
						Value:   "browser.json",
					},
				},
				Action: r.SetupYouTube,
			},
		},
	}
}

// oauthCommand runs the device flow and stores the token
func oauthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "oauth",
		Usage: "Authorize with a Google account and write oauth.json",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path for the token file",
				Value:   "oauth.json",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the verification URL without opening a browser",
			},
		},
		Action: r.OAuth,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check a running proxy (calls /health)",
		Flags:  proxyFlags(),
		Action: r.Status,
	}
}

// apiCommand handles direct (proxy) API calls
func apiCommand(r *Runner) *cli.Command {
	pathArg := []cli.Argument{&cli.StringArg{Name: "path"}}
	compact := &cli.BoolFlag{
		Name:  "compact",
		Usage: "Print JSON on a single line",
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the proxy",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Direct GET to the proxy, prints raw JSON",
				Arguments: pathArg,
				Flags:     append(proxyFlags(), compact),
				Action:    r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "Direct POST with JSON body",
				Arguments: pathArg,
				Flags: append(proxyFlags(), compact, &cli.StringFlag{
					Name:     "data",
					Aliases:  []string{"d"},
					Usage:    "JSON body to send",
					Required: true,
				}),
				Action: r.APIPost,
			},
			{
				Name:      "put",
				Usage:     "Direct PUT with JSON body",
				Arguments: pathArg,
				Flags: append(proxyFlags(), compact, &cli.StringFlag{
					Name:     "data",
					Aliases:  []string{"d"},
					Usage:    "JSON body to send",
					Required: true,
				}),
				Action: r.APIPut,
			},
			{
				Name:      "delete",
				Usage:     "Direct DELETE with an optional JSON body",
				Arguments: pathArg,
				Flags: append(proxyFlags(), compact, &cli.StringFlag{
					Name:    "data",
					Aliases: []string{"d"},
					Usage:   "JSON body to send",
				}),
				Action: r.APIDelete,
			},
		},
	}
}
