package middleware

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer identifies the service that issues all access tokens.
const TokenIssuer = "RentOwl"

// Roles carried in the "role" claim.
const (
	RoleLandlord  = "landlord"
	RoleTenant    = "tenant"
	RoleCaretaker = "caretaker"
	RoleAdmin     = "admin"
)

// ValidateToken checks the token's signature and the standard claims.
// Any deviation returns a descriptive error.
func ValidateToken(tokenString string, publicKey *rsa.PublicKey) (*jwt.Token, jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, nil, jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok {
		return nil, nil, errors.New("missing issuer claim")
	}
	if iss != TokenIssuer {
		return nil, nil, errors.New("invalid token issuer")
	}

	if _, ok := claims["sub"].(string); !ok {
		return nil, nil, errors.New("missing subject claim")
	}
	if _, ok := claims["role"].(string); !ok {
		return nil, nil, errors.New("missing role claim")
	}

	return token, claims, nil
}
