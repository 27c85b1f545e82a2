// Package auth covers both sign-in paths: Google OAuth and email/password.
// Either way the outcome is a signed JWT in an HttpOnly cookie; the
// middleware turns that cookie back into a userID on every request.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUser is the slice of Google's userinfo response we care about.
type GoogleUser struct {
	ID      string `json:"id"` // Google's stable subject identifier
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"` // profile image URL
}

// GoogleProvider runs the OAuth authorization-code flow against Google.
// The code-for-token exchange happens server-to-server with the client
// secret; the access token never reaches the browser.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a provider with the given OAuth credentials.
// callbackURL must exactly match the redirect URI registered in the Google
// Cloud console.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the Google authorization URL for the given CSRF state.
// The caller stores the state in a cookie and verifies it on callback.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback's authorization code for the user's Google
// profile: code → access token → userinfo.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo API returned status %d", resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("auth: Google returned an invalid user (empty id)")
	}

	return &user, nil
}
