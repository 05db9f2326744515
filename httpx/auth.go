package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/Davincible/d-flow/env"
)

// SecretEnvKey is the environment variable SecretFromEnv reads.
const SecretEnvKey = "JWT_SECRET_KEY"

var (
	// ErrNoToken indicates a request without a usable bearer token.
	ErrNoToken = errors.New("no bearer token")
	// ErrInvalidToken indicates a token that failed parsing or validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoSecret indicates an empty signing secret.
	ErrNoSecret = errors.New("JWT secret is not set")
)

// Claims are the JWT claims issued by SignToken.
type Claims struct {
	jwt.StandardClaims

	Roles []string `json:"roles,omitempty"`
}

type claimsKey struct{}

// SecretFromEnv returns the signing secret from JWT_SECRET_KEY, including its
// _FILE and /run/secrets fallbacks.
func SecretFromEnv() ([]byte, error) {
	key := env.Get(SecretEnvKey)
	if key == "" {
		return nil, ErrNoSecret
	}

	return []byte(key), nil
}

// SignToken issues an HS256 token for subject valid for ttl.
func SignToken(secret []byte, subject string, ttl time.Duration, roles ...string) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			NotBefore: now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Roles: roles,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign JWT token: %w", err)
	}

	return signed, nil
}

// ParseToken validates an HS256 token and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	if len(tokenString) == 0 {
		return nil, ErrNoToken
	}
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// stores the claims of accepted requests in the request context.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := ParseToken(secret, tokenString)
			if err != nil {
				http.Error(w, ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// ClaimsFrom returns the claims stored by RequireAuth.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok
}

// bearerToken reads the token from the Authorization header, or from the
// second Sec-WebSocket-Protocol entry for browser websocket clients that cannot
// set headers.
func bearerToken(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		if splits := strings.Fields(strings.ReplaceAll(r.Header.Get("Sec-Websocket-Protocol"), ",", " ")); len(splits) > 1 {
			return splits[1], nil
		}
		return "", ErrNoToken
	}

	scheme, token, ok := strings.Cut(hdr, " ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: incomplete authorization header", ErrNoToken)
	}

	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(token), nil
	default:
		return "", fmt.Errorf("%w: unknown token format %q", ErrNoToken, scheme)
	}
}
