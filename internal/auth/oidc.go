package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/evesrp/evesrp/internal/config"
)

// EVEIssuer is the EVE Online SSO. It publishes no OpenID discovery
// document and signs its access tokens as JWTs, so it gets a fixed provider
// configuration.
const EVEIssuer = "https://login.eveonline.com"

var eveProvider = gooidc.ProviderConfig{
	IssuerURL: EVEIssuer,
	AuthURL:   EVEIssuer + "/v2/oauth/authorize",
	TokenURL:  EVEIssuer + "/v2/oauth/token",
	JWKSURL:   EVEIssuer + "/oauth/jwks",
	Algorithms: []string{
		gooidc.RS256,
		gooidc.ES256,
	},
}

// Claims are the identity fields read from a verified token.
type Claims struct {
	Issuer  string `json:"iss"`
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Provider wraps an SSO provider with its OAuth2 configuration and token
// verifier.
type Provider struct {
	verifier     *gooidc.IDTokenVerifier
	oauth2Config oauth2.Config
	eve          bool
}

// NewProvider configures the SSO provider. The EVE SSO uses fixed endpoints;
// any other issuer goes through OpenID discovery.
func NewProvider(ctx context.Context, cfg *config.Config) (*Provider, error) {
	issuer := strings.TrimSuffix(cfg.OIDC.Issuer, "/")
	oauth2Cfg := oauth2.Config{
		ClientID:     cfg.OIDC.ClientID,
		ClientSecret: cfg.OIDC.ClientSecret,
		RedirectURL:  cfg.OIDC.RedirectURL,
	}

	if issuer == EVEIssuer {
		provider := eveProvider.NewProvider(ctx)
		oauth2Cfg.Endpoint = provider.Endpoint()
		oauth2Cfg.Scopes = []string{"publicData"}
		// EVE tokens carry either "login.eveonline.com" or the full URL as
		// iss; Claims checks it instead.
		verifier := provider.Verifier(&gooidc.Config{ClientID: cfg.OIDC.ClientID, SkipIssuerCheck: true})
		return &Provider{verifier: verifier, oauth2Config: oauth2Cfg, eve: true}, nil
	}

	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("OIDC provider discovery failed for %s: %w", issuer, err)
	}
	oauth2Cfg.Endpoint = provider.Endpoint()
	oauth2Cfg.Scopes = []string{gooidc.ScopeOpenID, "profile", "email"}
	verifier := provider.Verifier(&gooidc.Config{ClientID: cfg.OIDC.ClientID})
	return &Provider{verifier: verifier, oauth2Config: oauth2Cfg}, nil
}

// AuthCodeURL generates the authorization URL with PKCE and state.
func (p *Provider) AuthCodeURL(state, codeChallenge string) string {
	return p.oauth2Config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange trades an authorization code for tokens and returns the verified
// identity. EVE identifies the character in the access token; other
// providers return an ID token.
func (p *Provider) Exchange(ctx context.Context, code, codeVerifier string) (*Claims, error) {
	token, err := p.oauth2Config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	raw := token.AccessToken
	if !p.eve {
		idToken, ok := token.Extra("id_token").(string)
		if !ok {
			return nil, fmt.Errorf("no id_token in token response")
		}
		raw = idToken
	}

	verified, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("token verification: %w", err)
	}
	var claims Claims
	if err := verified.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	if p.eve {
		if !ValidEVEIssuer(claims.Issuer) {
			return nil, fmt.Errorf("unexpected token issuer %q", claims.Issuer)
		}
		claims.Issuer = EVEIssuer
	}
	return &claims, nil
}

// ValidEVEIssuer reports whether iss is one of the issuer spellings the EVE
// SSO uses.
func ValidEVEIssuer(iss string) bool {
	return iss == EVEIssuer || iss == strings.TrimPrefix(EVEIssuer, "https://")
}

// GenerateState returns a cryptographically random state string.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GeneratePKCE returns a PKCE verifier and its S256 challenge.
func GeneratePKCE() (verifier, challenge string, err error) {
	b := make([]byte, 64)
	if _, err = rand.Read(b); err != nil {
		return
	}
	verifier = base64.RawURLEncoding.EncodeToString(b)
	h := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(h[:])
	return
}
