package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"agcbo/internal/entity/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("token type mismatch")

// Claims represents JWT claims for authenticated requests.
type Claims struct {
	AccountID uint   `json:"uid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Type      string `json:"typ"`
	jwt.RegisteredClaims
}

// Manager encapsulates JWT generation and validation.
type Manager struct {
	secret        []byte
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewManager creates a new JWT manager.
func NewManager(secret, issuer string, accessExpiry, refreshExpiry time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if accessExpiry <= 0 {
		accessExpiry = time.Hour
	}
	if refreshExpiry <= 0 {
		refreshExpiry = 7 * 24 * time.Hour
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "agcbo"
	}
	return &Manager{
		secret:        []byte(trimmed),
		issuer:        issuer,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}, nil
}

// RefreshExpiry is the lifetime of refresh tokens.
func (m *Manager) RefreshExpiry() time.Duration {
	return m.refreshExpiry
}

// GenerateAccessToken issues a short-lived access token.
func (m *Manager) GenerateAccessToken(account *db.Account) (string, time.Time, error) {
	token, _, expiry, err := m.generate(account, TokenTypeAccess, m.accessExpiry)
	return token, expiry, err
}

// GenerateRefreshToken issues a refresh token. The returned id is the jti
// recorded in the token store.
func (m *Manager) GenerateRefreshToken(account *db.Account) (string, string, time.Time, error) {
	return m.generate(account, TokenTypeRefresh, m.refreshExpiry)
}

func (m *Manager) generate(account *db.Account, typ string, ttl time.Duration) (string, string, time.Time, error) {
	if m == nil {
		return "", "", time.Time{}, errors.New("jwt manager is nil")
	}
	if account == nil || account.ID == 0 {
		return "", "", time.Time{}, errors.New("invalid account for token generation")
	}
	now := m.now().UTC()
	expiry := now.Add(ttl)
	id := uuid.NewString()

	claims := Claims{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   fmt.Sprintf("%d", account.ID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, id, expiry, nil
}

// ParseToken validates the token and checks that it is of the expected type.
func (m *Manager) ParseToken(tokenString, expectedType string) (*Claims, error) {
	if m == nil {
		return nil, errors.New("jwt manager is nil")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Type != expectedType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
