package httpserver

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	tm := newTokenManager("secret", time.Hour, clock)
	userID := uuid.New()

	token, expiresAt, err := tm.Issue(userID)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), expiresAt)

	got, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenManager_Expired(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	tm := newTokenManager("secret", time.Hour, clock)

	token, _, err := tm.Issue(uuid.New())
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	token, _, err := newTokenManager("secret-a", time.Hour, clock).Issue(uuid.New())
	require.NoError(t, err)

	_, err = newTokenManager("secret-b", time.Hour, clock).Parse(token)
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	tm := newTokenManager("secret", time.Hour, clock)

	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestTokenManager_RequiresIssuerAndSubject(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	tm := newTokenManager("secret", time.Hour, clock)

	tests := []struct {
		name   string
		claims jwt.RegisteredClaims
	}{
		{"foreign issuer", jwt.RegisteredClaims{Issuer: "someone-else", Subject: uuid.NewString(), ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour))}},
		{"subject not a uuid", jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "ada", ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour))}},
		{"no expiry", jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: uuid.NewString()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte("secret"))
			require.NoError(t, err)

			_, err = tm.Parse(token)
			assert.ErrorIs(t, err, errInvalidToken)
		})
	}
}
