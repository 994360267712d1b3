package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/radar/internal/auth"
	"github.com/desertthunder/radar/internal/repositories"
	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	api         *services.APIService
	session     *auth.Session
	profile     *services.ProfileService
	plays       *repositories.PlayRepository
	db          *sql.DB
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Anything left nil is built by [Runner.Bootstrap] from the loaded config.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	API         *services.APIService
	Session     *auth.Session
	Profile     *services.ProfileService
	Plays       *repositories.PlayRepository
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		api:         opts.API,
		session:     opts.Session,
		profile:     opts.Profile,
		plays:       opts.Plays,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, topCommand, statsCommand, nowPlayingCommand,
		activityCommand, playlistCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before runs ahead of every command: it applies the global flags and wires the services.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if lvl := cmd.String("log-level"); lvl != "" {
		level, err := log.ParseLevel(lvl)
		if err != nil {
			return ctx, fmt.Errorf("%w: --log-level %q", shared.ErrInvalidFlag, lvl)
		}
		shared.SetLogLevel(r.logger, level)
	}
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	// setup creates the config file itself
	if cmd.Args().First() == "setup" {
		return ctx, nil
	}
	return ctx, r.Bootstrap(ctx, cmd.String("config"), cmd.Bool("ephemeral"))
}

// After releases what [Runner.Bootstrap] opened.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Bootstrap loads the config at configPath and builds the session, backend client and repositories.
//
// A missing config file falls back to defaults. With ephemeral set the token lives only in memory
// and no database is opened.
func (r *Runner) Bootstrap(ctx context.Context, configPath string, ephemeral bool) error {
	r.configPath = configPath

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		r.config = config
	} else if errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", configPath)
	}
	r.applyEnv()

	var store auth.Store = auth.NewMemoryStore()
	if !ephemeral {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return err
		}
		if _, err := shared.RunMigrations(db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.db = db
		store = repositories.NewTokenRepository(db)
		if r.plays == nil {
			r.plays = repositories.NewPlayRepository(db)
		}
	}

	if r.session == nil {
		session, err := auth.NewSession(ctx, store, r.logger)
		if err != nil {
			return err
		}
		r.session = session
	}

	if r.api == nil {
		client := &http.Client{Timeout: r.config.API.Timeout()}
		r.api = services.NewAPIService(r.config.API.BaseURL, client,
			services.WithTokenSource(r.session),
			services.WithRateLimit(r.config.API.RequestsPerSecond),
			services.WithLogger(r.logger),
		)
	}
	if r.profile == nil {
		r.profile = services.NewProfileService(r.config.Spotify.APIURL, r.session)
	}
	return nil
}

// applyEnv lets RADAR_API_URL and RADAR_DB_PATH override the file.
func (r *Runner) applyEnv() {
	if v := os.Getenv("RADAR_API_URL"); v != "" {
		r.config.API.BaseURL = v
	}
	if v := os.Getenv("RADAR_DB_PATH"); v != "" {
		r.config.Database.Path = v
	}
}

// Close closes the database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// requireAuth fails fast for commands that need a signed-in session.
func (r *Runner) requireAuth() error {
	if r.session == nil || !r.session.IsAuthenticated() {
		return fmt.Errorf("%w: run 'radar auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) playlistTool() *tasks.PlaylistTool {
	return tasks.NewPlaylistTool(r.api, tasks.PlaylistOptions{
		DefaultDescription: r.config.Playlist.DefaultDescription,
		Public:             r.config.Playlist.Public,
	}, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
