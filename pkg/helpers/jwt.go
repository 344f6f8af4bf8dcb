package helpers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrNoSigningKey   = errors.New("jwt: either a secret or a public key is required")
	ErrCannotSign     = errors.New("jwt: signing requires a shared secret")
	ErrMissingSubject = errors.New("token has no subject")
)

// TokenVerifierOptions configures how bearer tokens are checked. Exactly one
// of Secret (HS256) or PublicKeyPEM (RS256) is used; the public key wins when
// both are set.
type TokenVerifierOptions struct {
	Secret           string
	PublicKeyPEM     []byte
	Issuer           string
	Audience         string
	AuthoritiesClaim string
	AuthorityPrefix  string
}

// Principal is the authenticated caller.
type Principal struct {
	Subject     string
	Authorities []string
}

// HasAny reports whether the principal holds at least one of the authorities.
func (p *Principal) HasAny(authorities ...string) bool {
	for _, want := range authorities {
		for _, have := range p.Authorities {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TokenVerifier validates JWTs issued by an external identity provider and
// maps the authorities claim to prefixed authorities.
type TokenVerifier struct {
	key      any
	secret   []byte
	method   jwt.SigningMethod
	parser   *jwt.Parser
	claim    string
	prefix   string
	issuer   string
	audience string
}

func NewTokenVerifier(opts TokenVerifierOptions) (*TokenVerifier, error) {
	v := &TokenVerifier{
		claim:    opts.AuthoritiesClaim,
		prefix:   opts.AuthorityPrefix,
		issuer:   opts.Issuer,
		audience: opts.Audience,
	}
	if v.claim == "" {
		v.claim = "roles"
	}

	switch {
	case len(opts.PublicKeyPEM) > 0:
		pub, err := jwt.ParseRSAPublicKeyFromPEM(opts.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("jwt: parse public key: %w", err)
		}
		v.key, v.method = pub, jwt.SigningMethodRS256
	case opts.Secret != "":
		v.secret = []byte(opts.Secret)
		v.key, v.method = v.secret, jwt.SigningMethodHS256
	default:
		return nil, ErrNoSigningKey
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	v.parser = jwt.NewParser(parserOpts...)
	return v, nil
}

// Verify checks signature, expiry, issuer and audience and returns the caller.
func (v *TokenVerifier) Verify(tokenStr string) (*Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := v.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrMissingSubject
	}
	return &Principal{Subject: sub, Authorities: v.authorities(claims[v.claim])}, nil
}

// authorities accepts either a JSON array or a space delimited string.
func (v *TokenVerifier) authorities(raw any) []string {
	var values []string
	switch c := raw.(type) {
	case string:
		values = strings.Fields(c)
	case []any:
		for _, item := range c {
			if s, ok := item.(string); ok && s != "" {
				values = append(values, s)
			}
		}
	}
	out := make([]string, 0, len(values))
	for _, s := range values {
		out = append(out, v.prefix+s)
	}
	return out
}

// GenerateToken signs an HS256 token for local development and seeding.
func (v *TokenVerifier) GenerateToken(subject string, roles []string, ttl time.Duration) (string, time.Time, error) {
	if v.secret == nil {
		return "", time.Time{}, ErrCannotSign
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   subject,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		v.claim: roles,
	}
	if v.issuer != "" {
		claims["iss"] = v.issuer
	}
	if v.audience != "" {
		claims["aud"] = v.audience
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	return s, exp, err
}
