// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/souk-api/internal/core"
)

func TestJWTRoundTrip(t *testing.T) {
	j, err := NewJWTIssuer(testSecret, "souk-api", time.Hour)
	require.NoError(t, err)

	token, expiresAt, err := j.Issue("user-42")
	require.NoError(t, err)

	claims, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestJWTExpired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)

	j, err := NewJWTIssuer(testSecret, "souk-api", time.Hour)
	require.NoError(t, err)
	j.now = fixedClock(issuedAt)

	token, _, err := j.Issue("user-42")
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestJWTRejectsForeignIssuerAndKey(t *testing.T) {
	ours, err := NewJWTIssuer(testSecret, "souk-api", time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewJWTIssuer(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)
	token, _, err := otherIssuer.Issue("user-42")
	require.NoError(t, err)
	_, err = ours.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	otherKey, err := NewJWTIssuer("a-completely-different-secret!!", "souk-api", time.Hour)
	require.NoError(t, err)
	token, _, err = otherKey.Issue("user-42")
	require.NoError(t, err)
	_, err = ours.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = ours.Verify("not-a-jwt")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWTFailureCodesStayDistinct(t *testing.T) {
	ours, err := NewJWTIssuer(testSecret, "souk-api", time.Hour)
	require.NoError(t, err)

	// "iss ... does not have the expected value" must not read as expiry.
	foreign, err := NewJWTIssuer(testSecret, "souk-api-staging", time.Hour)
	require.NoError(t, err)
	token, _, err := foreign.Issue("user-42")
	require.NoError(t, err)

	_, err = ours.Verify(token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrTokenExpired)
	assert.Equal(t, "INVALID_TOKEN", core.ToAppError(err).Code)

	expired, err := NewJWTIssuer(testSecret, "souk-api", time.Hour)
	require.NoError(t, err)
	expired.now = fixedClock(time.Now().Add(-3 * time.Hour))
	token, _, err = expired.Issue("user-42")
	require.NoError(t, err)

	_, err = ours.Verify(token)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_EXPIRED", core.ToAppError(err).Code)
}

func TestSignedTokenIsNotAcceptedAsJWT(t *testing.T) {
	signed, _, err := NewTokenManager(testSecret, time.Hour).Issue("user-42")
	require.NoError(t, err)

	j, err := NewJWTIssuer(testSecret, "souk-api", time.Hour)
	require.NoError(t, err)

	_, err = j.Verify(signed)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
