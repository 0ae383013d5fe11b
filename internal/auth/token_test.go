package auth

import (
	"testing"
	"time"

	"github.com/floreria/catalog/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager([]byte("secret"), time.Hour)
	u := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	tok, err := m.Issue(u)
	require.NoError(t, err)

	id, err := m.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, u.ID, id.UserID)
	require.True(t, id.IsAdmin())
}

func TestParseRejectsForeignSecret(t *testing.T) {
	tok, err := NewTokenManager([]byte("one"), time.Hour).Issue(&models.User{ID: uuid.New(), Role: models.RoleUser})
	require.NoError(t, err)

	_, err = NewTokenManager([]byte("two"), time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewTokenManager([]byte("secret"), time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := m.Issue(&models.User{ID: uuid.New(), Role: models.RoleUser})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager([]byte("secret"), time.Hour).Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
