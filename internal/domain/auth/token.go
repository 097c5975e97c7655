package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
)

// Verifier turns a bearer token into an identity
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}

// TokenVerifier validates HS256 session tokens issued by the identity
// provider with a shared secret.
type TokenVerifier struct {
	secret []byte
}

var _ Verifier = (*TokenVerifier)(nil)

// NewTokenVerifier creates a TokenVerifier
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("auth: token secret is required")
	}
	return &TokenVerifier{secret: []byte(secret)}, nil
}

// Verify parses token and extracts {id, role}
func (v *TokenVerifier) Verify(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	return IdentityFromClaims(claims)
}

// IdentityFromClaims is the only place that reads provider-specific claim
// fields. The role is user_metadata.account_role, falling back to
// user_metadata.role.
func IdentityFromClaims(claims jwt.MapClaims) (domain.Identity, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	var role string
	if meta, ok := claims["user_metadata"].(map[string]any); ok {
		if r, ok := meta["account_role"].(string); ok && r != "" {
			role = r
		} else if r, ok := meta["role"].(string); ok {
			role = r
		}
	}

	return domain.Identity{
		ID:   sub,
		Role: domain.Role(role),
	}, nil
}

// IssueToken signs a session token for id. Used by local tooling and tests.
func IssueToken(secret string, id domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  id.ID,
		"role": "authenticated",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"user_metadata": map[string]any{
			"account_role": string(id.Role),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
