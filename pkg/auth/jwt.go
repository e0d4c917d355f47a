package auth

import (
	"context"
	"fmt"
	"net/http"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds the JWT authenticator configuration.
type JWTConfig struct {
	// Secret is the HS256 signing secret shared with the token issuer.
	Secret string

	// Issuer is the expected iss claim. If empty, issuer is not validated.
	Issuer string

	// Audience is the expected aud claim. If empty, audience is not validated.
	Audience string
}

// JWTAuthenticator validates HS256-signed bearer tokens against a shared
// secret.
type JWTAuthenticator struct {
	config JWTConfig
	parser *jwtlib.Parser
}

// NewJWT creates a JWT authenticator with the given configuration.
func NewJWT(cfg JWTConfig) *JWTAuthenticator {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(cfg.Audience))
	}

	return &JWTAuthenticator{
		config: cfg,
		parser: jwtlib.NewParser(opts...),
	}
}

// Authenticate extracts a bearer token from the Authorization header,
// validates it as an HS256 JWT, and returns an identity on success.
//
// Decision outcomes:
//   - Abstain: no Authorization header or not a Bearer scheme
//   - No: bearer token present but invalid (expired, bad signature, wrong issuer)
//   - Yes: valid JWT with the sub claim as subject
func (a *JWTAuthenticator) Authenticate(_ context.Context, r *http.Request) Result {
	tokenStr, ok := bearerToken(r)
	if !ok {
		return Result{Decision: Abstain}
	}
	if tokenStr == "" {
		return Result{Decision: No, Err: fmt.Errorf("empty bearer token")}
	}

	claims := jwtlib.MapClaims{}
	if _, err := a.parser.ParseWithClaims(tokenStr, claims, a.keyFunc); err != nil {
		return Result{Decision: No, Err: fmt.Errorf("invalid token: %w", err)}
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Result{Decision: No, Err: fmt.Errorf("token has no subject claim")}
	}

	return Result{Decision: Yes, Identity: &Identity{Subject: subject}}
}

// keyFunc returns the shared HS256 secret for signature verification.
func (a *JWTAuthenticator) keyFunc(token *jwtlib.Token) (any, error) {
	return []byte(a.config.Secret), nil
}
