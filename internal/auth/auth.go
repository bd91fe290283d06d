// Package auth issues and validates the JWTs used by the API.
package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const (
	RoleAdmin  = "ADMIN"
	RoleVendor = "VENDOR"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

type ctxKey int

// Key is the context key the Authenticate middleware stores Claims under.
const Key ctxKey = 1

type Claims struct {
	jwt.StandardClaims
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
}

// Authorized reports whether the claims hold one of roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

type Auth struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(key string, accessTTL, refreshTTL time.Duration) (*Auth, error) {
	if key == "" {
		return nil, errors.New("jwt key is empty")
	}
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Auth{key: []byte(key), accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// GenToken returns an access and a refresh token for the user.
func (a *Auth) GenToken(userID int, role string) (string, string, error) {
	access, err := a.sign(userID, role, TokenAccess, a.accessTTL)
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}
	refresh, err := a.sign(userID, role, TokenRefresh, a.refreshTTL)
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}
	return access, refresh, nil
}

func (a *Auth) sign(userID int, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		UserId: userID,
		Role:   role,
		Type:   typ,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
}

// ValidateToken parses an access token.
func (a *Auth) ValidateToken(token string) (Claims, error) {
	return a.parse(token, TokenAccess)
}

// ValidateRefreshToken parses a refresh token.
func (a *Auth) ValidateRefreshToken(token string) (Claims, error) {
	return a.parse(token, TokenRefresh)
}

func (a *Auth) parse(token, typ string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.key, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}
	if !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if claims.Type != typ {
		return Claims{}, errors.Errorf("expected %s token", typ)
	}
	return claims, nil
}

// GetClaims returns the claims attached by the Authenticate middleware.
func GetClaims(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(Key).(Claims)
	return claims, ok
}
