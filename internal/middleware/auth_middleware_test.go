package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := tok.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":  TokenIssuer,
		"sub":  "2f9d7a64-6f2f-4a59-9d2d-61f6a0cf7f41",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func TestValidateToken(t *testing.T) {
	key := newTestKey(t)

	_, claims, err := ValidateToken(signToken(t, key, validClaims(RoleLandlord)), &key.PublicKey)
	require.NoError(t, err)
	require.Equal(t, RoleLandlord, claims["role"])

	t.Run("expired", func(t *testing.T) {
		c := validClaims(RoleLandlord)
		c["exp"] = time.Now().Add(-time.Minute).Unix()
		_, _, err := ValidateToken(signToken(t, key, c), &key.PublicKey)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := validClaims(RoleLandlord)
		c["iss"] = "someone-else"
		_, _, err := ValidateToken(signToken(t, key, c), &key.PublicKey)
		require.Error(t, err)
	})

	t.Run("missing role", func(t *testing.T) {
		c := validClaims(RoleLandlord)
		delete(c, "role")
		_, _, err := ValidateToken(signToken(t, key, c), &key.PublicKey)
		require.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := newTestKey(t)
		_, _, err := ValidateToken(signToken(t, other, validClaims(RoleLandlord)), &key.PublicKey)
		require.Error(t, err)
	})
}

func TestAuthMiddlewareTokenSources(t *testing.T) {
	key := newTestKey(t)
	token := signToken(t, key, validClaims(RoleTenant))

	var gotUserID string
	handler := AuthMiddleware(&key.PublicKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("web uses cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tenants/self/payments", nil)
		req.Header.Set("X-Platform", "web")
		req.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "2f9d7a64-6f2f-4a59-9d2d-61f6a0cf7f41", gotUserID)
	})

	t.Run("mobile uses bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tenants/self/payments", nil)
		req.Header.Set("X-Platform", "android")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	key := newTestKey(t)

	routed := func(role string, gate func(http.Handler) http.Handler) int {
		token := signToken(t, key, validClaims(role))
		req := httptest.NewRequest(http.MethodPost, "/api/properties", nil)
		req.Header.Set("X-Platform", "ios")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h := AuthMiddleware(&key.PublicKey)(gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	gate := RequireRoles(RoleLandlord)
	require.Equal(t, http.StatusOK, routed(RoleLandlord, gate))
	require.Equal(t, http.StatusForbidden, routed(RoleTenant, gate))
	require.Equal(t, http.StatusOK, routed(RoleAdmin, gate))
}
