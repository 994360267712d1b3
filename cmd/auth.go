package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/radar/internal/auth"
	"github.com/desertthunder/radar/internal/formatter"
	"github.com/desertthunder/radar/internal/server"
	"github.com/desertthunder/radar/internal/shared"
)

// AuthLogin serves the local redirect route, opens the backend login page and waits for the redirect.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	result, err := r.doLogin(ctx, cmd.Duration("timeout"), !cmd.Bool("no-browser"))
	if err != nil {
		return err
	}
	return r.reportCallback(ctx, result)
}

func (r *Runner) doLogin(ctx context.Context, timeout time.Duration, open bool) (auth.CallbackResult, error) {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	loginURL := r.api.LoginURL()
	callback := auth.NewCallback(r.session, r.api, r.logger)
	handler := server.NewCallbackHandler(callback, loginURL, r.logger)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	srv, err := server.Listen(r.config.Server.Addr(), router, r.logger)
	if err != nil {
		return auth.CallbackResult{}, err
	}
	defer srv.Shutdown(context.WithoutCancel(ctx))
	r.logger.Infof("waiting for redirect on http://%s/callback", srv.Addr())

	if open {
		r.writePlain("→ Opening browser to sign in...\n")
		if err := r.openBrowser(loginURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", loginURL)
		}
	} else {
		r.writePlain("Open this URL in your browser:\n%s\n\n", loginURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		return result, nil
	case err := <-srv.Errors():
		return auth.CallbackResult{}, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return auth.CallbackResult{}, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return auth.CallbackResult{}, ctx.Err()
	}
}

// AuthCallback completes sign-in from a redirect URL, for when the local server is unreachable.
func (r *Runner) AuthCallback(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("url")
	if raw == "" {
		return fmt.Errorf("%w: redirect url", shared.ErrMissingArgument)
	}

	params, err := auth.ParseRedirect(raw)
	if err != nil {
		return err
	}

	result := auth.NewCallback(r.session, r.api, r.logger).Handle(ctx, params)
	return r.reportCallback(ctx, result)
}

func (r *Runner) reportCallback(ctx context.Context, result auth.CallbackResult) error {
	if !result.OK() {
		r.writePlain("✗ %s\n", result.Message)
		if result.Err != nil {
			return fmt.Errorf("%w: %w", shared.ErrAuthFailed, result.Err)
		}
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, result.Message)
	}

	r.writePlainln("✓ %s", result.Message)
	if profile, err := r.profile.Profile(ctx); err == nil {
		r.writePlain("Signed in as %s\n", profile.Name())
	} else {
		r.logger.Debug("profile lookup failed", "error", err)
	}
	r.writePlain("\nYou can now use: radar top artists\n")
	return nil
}

// AuthLogout clears the stored token. Logging out twice is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(ctx); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports whether a token is stored and, when the provider accepts it, whose it is.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlain("Backend: %s\n", r.api.BaseURL())

	if !r.session.IsAuthenticated() {
		return r.writePlain("Authentication: ✗ Not authenticated\n")
	}
	r.writePlain("Authentication: ✓ Authenticated\n")

	profile, err := r.profile.Profile(ctx)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return nil
	case err != nil:
		r.logger.Warn("profile lookup failed", "error", err)
		return r.writePlain("Profile: unavailable (%v)\n", err)
	}

	r.writePlain("\n")
	return r.writeBytes(formatter.ProfileToText(profile))
}
