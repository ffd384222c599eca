// internal/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// secret is the shared HMAC key for signing and verifying session tokens.
var secret []byte

// ErrMissingToken is returned when no token was presented at all.
var ErrMissingToken = errors.New("missing auth token")

// TokenTTL is how long minted tokens stay valid.
const TokenTTL = 72 * time.Hour

// Claims is the JWT claim set carried by duelyard session tokens. The
// user id travels in the registered "sub" claim.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated principal attached to a session.
type Identity struct {
	UserID int64
	Email  string
}

// Init sets the shared secret used for HS256 signing. Must be called once
// before any token is minted or verified.
func Init(jwtSecret string) error {
	if jwtSecret == "" {
		return errors.New("empty JWT secret")
	}
	secret = []byte(jwtSecret)
	return nil
}

// CreateJWT mints a signed HS256 token with "sub" = userID and an email claim.
func CreateJWT(userID int64, email string) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// AuthenticateJWT verifies a token string and returns the identity it carries.
func AuthenticateJWT(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := t.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid jwt claims")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed sub claim: %w", err)
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}
