package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/taskly-api/internal/config"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func newTestJWTService(t *testing.T, secret string, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: int(lifetime / time.Minute),
	})
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)
	impl.timeFunc = now
	return impl
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

var aliceClaims = Claims{Username: "alice", UserID: 7, IsActive: true, IsAdmin: false}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 20})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 20})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, testSecret, 20*time.Minute, fixedClock(fixedTime))

	token, err := svc.GenerateToken(context.Background(), Claims{
		Username:  "alice",
		UserID:    7,
		IsActive:  true,
		IsAdmin:   true,
		ExpiresAt: fixedTime.Add(1000 * time.Hour), // ignored
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, int64(7), claims.UserID)
	assert.True(t, claims.IsActive)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(20*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateTokenUniqueIDs(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, testSecret, 20*time.Minute, time.Now)

	first, err := svc.GenerateToken(context.Background(), aliceClaims)
	require.NoError(t, err)
	second, err := svc.GenerateToken(context.Background(), aliceClaims)
	require.NoError(t, err)

	c1, err := svc.ValidateToken(context.Background(), first)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(context.Background(), second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

// signRaw signs arbitrary claims with method and key, bypassing the service.
func signRaw(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

// tamperPayload rewrites one claim in the payload segment and keeps the
// original signature.
func tamperPayload(t *testing.T, token, claim string, value interface{}) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	payload[claim] = value

	modified, err := json.Marshal(payload)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(modified)
	return strings.Join(parts, ".")
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 20 * time.Minute

	issuer := newTestJWTService(t, testSecret, lifetime, fixedClock(fixedTime))
	valid, err := issuer.GenerateToken(context.Background(), aliceClaims)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		secret  string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name:   "valid token",
			now:    fixedTime.Add(time.Minute),
			secret: testSecret,
			token:  func(t *testing.T) string { return valid },
		},
		{
			name:    "expired token",
			now:     fixedTime.Add(lifetime + time.Second),
			secret:  testSecret,
			token:   func(t *testing.T) string { return valid },
			wantErr: ErrExpiredToken,
		},
		{
			name:    "wrong signing key",
			now:     fixedTime,
			secret:  wrongSecret,
			token:   func(t *testing.T) string { return valid },
			wantErr: ErrInvalidToken,
		},
		{
			name:   "tampered admin flag",
			now:    fixedTime,
			secret: testSecret,
			token: func(t *testing.T) string {
				return tamperPayload(t, valid, "is_admin", true)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:   "tampered user id",
			now:    fixedTime,
			secret: testSecret,
			token: func(t *testing.T) string {
				return tamperPayload(t, valid, "id", 8)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed token",
			now:     fixedTime,
			secret:  testSecret,
			token:   func(t *testing.T) string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty token",
			now:     fixedTime,
			secret:  testSecret,
			token:   func(t *testing.T) string { return "" },
			wantErr: ErrInvalidToken,
		},
		{
			name:   "alg none",
			now:    fixedTime,
			secret: testSecret,
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwtCustomClaims{
					UserID: 7,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "alice",
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:   "different HMAC algorithm",
			now:    fixedTime,
			secret: testSecret,
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS512, []byte(testSecret), jwtCustomClaims{
					UserID: 7,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "alice",
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:   "missing expiry",
			now:    fixedTime,
			secret: testSecret,
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwtCustomClaims{
					UserID:           7,
					RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
				})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:   "missing user id",
			now:    fixedTime,
			secret: testSecret,
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwtCustomClaims{
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "alice",
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:   "missing subject",
			now:    fixedTime,
			secret: testSecret,
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwtCustomClaims{
					UserID: 7,
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestJWTService(t, tc.secret, lifetime, fixedClock(tc.now))

			claims, err := svc.ValidateToken(context.Background(), tc.token(t))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, aliceClaims.Username, claims.Username)
			assert.Equal(t, aliceClaims.UserID, claims.UserID)
		})
	}
}
