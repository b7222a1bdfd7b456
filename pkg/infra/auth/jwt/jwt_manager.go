package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
	ErrMissingUser  = errors.New("token has no user_id")
	ErrEmptySecret  = errors.New("jwt secret key is empty")
)

type (
	Manager interface {
		CreateToken(userID, role string, ttl time.Duration) (string, error)
		DecodeToken(tokenString string) (*Claims, error)
	}
	manager struct {
		secret []byte
		now    func() time.Time
	}
)

func NewJwtManager(secretKey string) Manager {
	return &manager{
		secret: []byte(secretKey),
		now:    time.Now,
	}
}

type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CreateToken signs an HS256 token for userID. A zero ttl issues a token
// without expiry.
func (m *manager) CreateToken(userID, role string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := m.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// DecodeToken verifies the signature and expiry and returns the claims. The
// user id falls back to the subject claim. Every token is rejected when the
// manager has no secret.
func (m *manager) DecodeToken(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.secret, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrMissingUser
	}
	return claims, nil
}
