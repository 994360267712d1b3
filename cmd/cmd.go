// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, csv, markdown, json, yaml)",
		Value:   "text",
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file, initialize the database and run migrations",
		Action: r.Setup,
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in through the backend and manage the stored session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Open the login page and wait for the redirect on the local callback server",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the redirect",
						Value: 2 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the login URL instead of opening it",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:      "callback",
				Usage:     "Complete sign-in from a redirect URL pasted from the browser",
				ArgsUsage: "<url>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.AuthCallback,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether a session is stored and who it belongs to",
				Action: r.AuthStatus,
			},
		},
	}
}

func topCommand(r *Runner) *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:    "range",
				Aliases: []string{"r"},
				Usage:   "Time range (short_term, medium_term, long_term)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Number of items (1-50)",
			},
			formatFlag(),
		}
	}

	return &cli.Command{
		Name:  "top",
		Usage: "Show top artists or tracks",
		Commands: []*cli.Command{
			{
				Name:   "artists",
				Usage:  "Show top artists",
				Flags:  flags(),
				Action: r.TopArtists,
			},
			{
				Name:   "tracks",
				Usage:  "Show top tracks",
				Flags:  flags(),
				Action: r.TopTracks,
			},
		},
	}
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show listening stats and genre breakdowns",
		Flags:  []cli.Flag{formatFlag()},
		Action: r.Stats,
	}
}

func nowPlayingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "now-playing",
		Aliases: []string{"np"},
		Usage:   "Show the current track",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep polling and print each change",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Polling interval for --watch (defaults to dashboard.poll_interval_ms)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.NowPlaying,
	}
}

func activityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Show the listening heatmap built from recorded plays",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "range",
				Usage: "Heatmap range (weekly, monthly, yearly)",
				Value: "monthly",
			},
			&cli.IntFlag{
				Name:  "recent",
				Usage: "List the N most recent plays instead of the heatmap",
			},
			formatFlag(),
		},
		Action: r.Activity,
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Import a playlist and copy its tracks",
		Commands: []*cli.Command{
			{
				Name:      "fetch",
				Usage:     "Show a playlist's tracks",
				ArgsUsage: "<url|id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
				},
				Flags:  []cli.Flag{formatFlag()},
				Action: r.PlaylistFetch,
			},
			{
				Name:   "mine",
				Usage:  "List your own playlists",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.PlaylistMine,
			},
			{
				Name:      "copy",
				Usage:     "Copy tracks into a new playlist (--name) or one of yours (--into)",
				ArgsUsage: "<url|id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Name of the new playlist",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Description of the new playlist",
					},
					&cli.StringFlag{
						Name:  "into",
						Usage: "Existing playlist id, URL or name to add to",
					},
					&cli.StringSliceFlag{
						Name:    "tracks",
						Aliases: []string{"t"},
						Usage:   "Track ids to copy (repeatable or comma separated)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Copy every track",
					},
				},
				Action: r.PlaylistCopy,
			},
		},
	}
}

func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Call backend endpoints directly",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a backend path",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST JSON to a backend path",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON request body",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the dashboard owns the terminal",
				Value: "./tmp/radar-tui.log",
			},
		},
		Action: r.TUI,
	}
}
