package security

import (
	"errors"
	"time"

	"blog_api/internal/common"
	"blog_api/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenAuth backs the router-level jwtauth.Verifier; it shares the HS256
// secret with SignClaims/ParseClaims so both paths accept the same tokens.
var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// Claims is the full identity assertion carried inside a token. The
// signature covers every field, timestamps included, so an expiry cannot be
// extended without invalidating the token.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

func NewClaims(userID, email, name, surname string, now time.Time, validity time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Email:   email,
		Name:    name,
		Surname: surname,
	}
}

func SignClaims(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.AppConfig.JWTKey)
}

// ParseClaims decodes and verifies a signed token string. It fails closed:
// structural damage and signature mismatch map to ErrTokenInvalid, a valid
// signature past its window maps to ErrTokenExpired.
func ParseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return config.AppConfig.JWTKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
