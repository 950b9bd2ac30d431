package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

func newTestAuthService() *AuthService {
	return NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "school-portal"})
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestAuthService()

	token, expires, err := svc.IssueToken(TokenSubject{UserID: "teacher-1", Role: models.RoleTeacher, Email: "t@school.test"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "school-portal", claims.Issuer)
}

func TestIssueTokenRejectsUnknownRole(t *testing.T) {
	_, _, err := newTestAuthService().IssueToken(TokenSubject{UserID: "u1", Role: "JANITOR"})
	assertAppError(t, err, appErrors.ErrValidation.Code)

	_, _, err = newTestAuthService().IssueToken(TokenSubject{Role: models.RoleAdmin})
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestValidateTokenRejectsForeignSignatures(t *testing.T) {
	other := NewAuthService(nil, AuthConfig{AccessTokenSecret: "other", Issuer: "school-portal"})
	token, _, err := other.IssueToken(TokenSubject{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = newTestAuthService().ValidateToken(token)
	assertAppError(t, err, appErrors.ErrUnauthorized.Code)
}

func TestValidateTokenRejectsExpiredAndWrongIssuer(t *testing.T) {
	svc := newTestAuthService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := svc.IssueToken(TokenSubject{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = newTestAuthService().ValidateToken(expired)
	assertAppError(t, err, appErrors.ErrUnauthorized.Code)

	foreign := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "elsewhere"})
	token, _, err := foreign.IssueToken(TokenSubject{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = newTestAuthService().ValidateToken(token)
	assertAppError(t, err, appErrors.ErrUnauthorized.Code)
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestAuthService().ValidateToken(token)
	assertAppError(t, err, appErrors.ErrUnauthorized.Code)
}
