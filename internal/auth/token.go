// AngelaMos | 2026
// token.go

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/orballo/words-backend/internal/core"
	"github.com/orballo/words-backend/internal/middleware"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const codeLength = 10

// GenerateCode returns a fresh signin code: codeLength characters drawn
// uniformly from uppercase letters and digits.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}

// TokenManager signs and verifies session tokens. Sessions are long-lived
// and stateless; signout is purely a cookie removal on the client side.
type TokenManager struct {
	key    jwk.Key
	issuer string
	expire time.Duration
}

func NewTokenManager(
	secret string,
	issuer string,
	expire time.Duration,
) (*TokenManager, error) {
	key, err := jwk.Import([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("import token key: %w", err)
	}

	return &TokenManager{key: key, issuer: issuer, expire: expire}, nil
}

func (m *TokenManager) TTL() time.Duration {
	return m.expire
}

func (m *TokenManager) IssueToken(
	userID int64,
	role, email, username string,
) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		Subject(strconv.FormatInt(userID, 10)).
		Issuer(m.issuer).
		IssuedAt(now).
		Expiration(now.Add(m.expire)).
		JwtID(uuid.New().String()).
		Claim("role", role).
		Claim("email", email).
		Claim("username", username).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (m *TokenManager) VerifyToken(
	ctx context.Context,
	raw string,
) (*middleware.SessionClaims, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithIssuer(m.issuer),
		jwt.WithValidate(true),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf(
			"verify token: bad subject: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &middleware.SessionClaims{UserID: userID}
	if err := token.Get("role", &claims.Role); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	_ = token.Get("email", &claims.Email)
	_ = token.Get("username", &claims.Username)

	return claims, nil
}
