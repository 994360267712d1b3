// Profile lookups against the provider Web API
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

// DefaultSpotifyAPIURL is the provider Web API root.
const DefaultSpotifyAPIURL = "https://api.spotify.com/v1"

// ProfileService fetches the signed-in user's profile for the nav bar.
type ProfileService struct {
	apiURL string
	tokens oauth2.TokenSource
}

// NewProfileService creates a [ProfileService] authorized by tokens.
func NewProfileService(apiURL string, tokens oauth2.TokenSource) *ProfileService {
	if apiURL == "" {
		apiURL = DefaultSpotifyAPIURL
	}
	return &ProfileService{apiURL: strings.TrimRight(apiURL, "/") + "/", tokens: tokens}
}

// Profile returns the current user. Returns [shared.ErrNotAuthenticated] without a request when no token is stored.
func (p *ProfileService) Profile(ctx context.Context) (*models.Profile, error) {
	if _, err := p.tokens.Token(); err != nil {
		return nil, err
	}

	client := spotify.New(oauth2.NewClient(ctx, p.tokens), spotify.WithBaseURL(p.apiURL))
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch profile: %v", shared.ErrAPIRequest, err)
	}

	profile := &models.Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Country:     user.Country,
		Product:     user.Product,
		Followers:   int(user.Followers.Count),
	}
	if len(user.Images) > 0 {
		profile.AvatarURL = user.Images[0].URL
	}
	return profile, nil
}
