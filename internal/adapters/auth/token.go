package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"eventhub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWTIssuer issues and verifies HS256 access tokens.
type JWTIssuer struct {
	secret  []byte
	nowFunc func() time.Time
}

// NewJWTIssuer returns a JWTIssuer that signs JWTs with HS256
// using the given secret. The session id travels as the jti claim.
func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), nowFunc: time.Now}
}

var (
	_ domain.TokenIssuer   = (*JWTIssuer)(nil)
	_ domain.TokenVerifier = (*JWTIssuer)(nil)
)

func (i *JWTIssuer) Issue(claims domain.TokenClaims, expiry time.Duration) (string, error) {
	now := i.nowFunc()
	c := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.UserID, 10),
			ID:        claims.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Role: string(claims.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature, algorithm and expiry. Every failure is reported as
// domain.ErrUnauthenticated wrapping the parser error.
func (i *JWTIssuer) Verify(tokenString string) (*domain.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.nowFunc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	c, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrUnauthenticated)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, errors.New("missing session id"))
	}
	return &domain.TokenClaims{UserID: userID, Role: domain.Role(c.Role), SessionID: c.ID}, nil
}
