package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "gamescout",
		Duration: time.Hour,
	}
}

func testUser() *User {
	return &User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@example.com",
		TokenVersion: 2,
	}
}

func TestSignParseRoundTrip(t *testing.T) {
	ts := testService()
	token, exp, err := ts.Sign(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, 2, claims.TokenVersion)
	assert.Equal(t, "gamescout", claims.Issuer)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := testService()
	token, _, err := ts.Sign(testUser())
	require.NoError(t, err)

	other := testService()
	other.Secret = []byte("different-secret")
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	ts := testService()
	ts.Duration = -time.Minute

	token, _, err := ts.Sign(testUser())
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := testService().Parse("not.a.token")
	assert.Error(t, err)
}
