package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	svc, err := NewAuthService(nil, nil, AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "fees-ledger",
		HashCost:          bcrypt.MinCost,
		Credentials: []Credential{
			{Username: "admin", Password: "admin123", Role: models.RoleAdmin},
			{Username: "cashier", Password: "cashier123", Role: models.RoleCashier},
			{Username: "", Password: "ignored", Role: models.RoleAdmin},
		},
	})
	require.NoError(t, err)
	return svc
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: " cashier ", Password: "cashier123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCashier, resp.Session.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "cashier", claims.Username)
	assert.Equal(t, models.RoleCashier, claims.Role)
	assert.False(t, claims.Role.IsAdmin())
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "admin123"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceValidateTokenRejectsForeignTokens(t *testing.T) {
	svc := newTestAuthService(t)

	claims := &models.JWTClaims{Username: "admin", Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(forged)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	claims.Username = "intruder"
	unknown, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(unknown)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
