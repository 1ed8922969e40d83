package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
)

// PKCE holds the verifier of one authorization request
type PKCE struct {
	Verifier string
}

// NewPKCE generates a fresh code verifier
func NewPKCE() PKCE {
	return PKCE{Verifier: oauth2.GenerateVerifier()}
}

// AuthOptions are added to the authorization URL
func (p PKCE) AuthOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(p.Verifier)}
}

// ExchangeOptions are added to the token exchange
func (p PKCE) ExchangeOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{oauth2.VerifierOption(p.Verifier)}
}

// GenerateState returns a random value for CSRF protection
func GenerateState() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
