package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
)

const (
	// OAuthCallbackTimeout is the maximum time to wait for OAuth callback
	OAuthCallbackTimeout = 5 * time.Minute
	// TokenRequestTimeout is the timeout for token exchange HTTP requests
	TokenRequestTimeout = 30 * time.Second
)

// ErrStateMismatch is returned when the callback state differs from the
// one sent
var ErrStateMismatch = errors.New("state mismatch (possible CSRF attack)")

// SpotifyEndpoint is the Spotify accounts service
var SpotifyEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

// NewConfig builds the OAuth client configuration for the catalog
func NewConfig(clientID, clientSecret, redirectURL string, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     SpotifyEndpoint,
	}
}

// Opener presents the authorization URL to the user
type Opener func(authURL string) error

// Login runs the authorization code flow with PKCE. The callback server
// listens on the host and path of cfg.RedirectURL.
func Login(ctx context.Context, cfg *oauth2.Config, open Opener) (*oauth2.Token, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client id is required")
	}

	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("invalid redirect url %q", cfg.RedirectURL)
	}
	path := redirect.Path
	if path == "" {
		path = "/"
	}

	pkce := NewPKCE()

	state, err := GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	server := NewCallbackServer(redirect.Host, path)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer server.Shutdown(context.Background())

	authURL := cfg.AuthCodeURL(state, pkce.AuthOptions()...)
	if err := open(authURL); err != nil {
		return nil, fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, authURL)
	}

	result, err := server.WaitForCallback(ctx, OAuthCallbackTimeout)
	if err != nil {
		return nil, err
	}

	if result.Error != "" {
		return nil, fmt.Errorf("authorization failed: %s", result.Error)
	}
	if result.Code == "" {
		return nil, fmt.Errorf("no authorization code received")
	}
	if result.State != state {
		return nil, ErrStateMismatch
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, TokenRequestTimeout)
	defer cancel()

	token, err := cfg.Exchange(exchangeCtx, result.Code, pkce.ExchangeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

// OpenBrowser opens the default browser with the given URL
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}

	return cmd.Start()
}
