package auth

import (
	"context"
	"fmt"
	"slices"

	"github.com/coreos/go-oidc/v3/oidc"
)

// TokenVerifier validates a raw bearer token and returns its role claims.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (Claims, error)
	AdminRole() string
}

// Claims is the subset of token claims used for authorization.
// Roles are collected from roles, realm_access.roles and
// resource_access.<client>.roles (Keycloak layout).
type Claims struct {
	Subject string
	Roles   []string
}

func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

type rawClaims struct {
	Subject     string   `json:"sub"`
	Roles       []string `json:"roles"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	ResourceAccess map[string]struct {
		Roles []string `json:"roles"`
	} `json:"resource_access"`
}

func (rc rawClaims) roles(clientID string) []string {
	out := append([]string{}, rc.Roles...)
	out = append(out, rc.RealmAccess.Roles...)
	if ra, ok := rc.ResourceAccess[clientID]; ok {
		out = append(out, ra.Roles...)
	}
	return out
}

// OIDCVerifier checks tokens against an issuer's published keys.
type OIDCVerifier struct {
	verifier  *oidc.IDTokenVerifier
	clientID  string
	adminRole string
}

// NewOIDCVerifier discovers the issuer. audience defaults to clientID.
func NewOIDCVerifier(ctx context.Context, issuerURL, clientID, audience, adminRole string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery %s: %w", issuerURL, err)
	}
	if audience == "" {
		audience = clientID
	}
	return &OIDCVerifier{
		verifier:  provider.Verifier(&oidc.Config{ClientID: audience, SkipClientIDCheck: audience == ""}),
		clientID:  clientID,
		adminRole: adminRole,
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, raw string) (Claims, error) {
	tok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return Claims{}, err
	}
	var rc rawClaims
	if err := tok.Claims(&rc); err != nil {
		return Claims{}, fmt.Errorf("decode claims: %w", err)
	}
	return Claims{Subject: rc.Subject, Roles: rc.roles(v.clientID)}, nil
}

func (v *OIDCVerifier) AdminRole() string { return v.adminRole }
