package services

import (
	"testing"
	"time"

	"github.com/daybook/daybook/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	user := &models.User{ID: uuid.New(), Username: "alice1"}

	raw, exp, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp, time.Minute)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "alice1", claims.Username)
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice1"}
	raw, _, err := NewTokenIssuer("a").Issue(user)
	require.NoError(t, err)

	_, err = NewTokenIssuer("b").Parse(raw)
	assert.Error(t, err)

	later := NewTokenIssuer("a")
	later.now = func() time.Time { return time.Now().Add(TokenTTL + time.Hour) }
	_, err = later.Parse(raw)
	assert.Error(t, err)
}
