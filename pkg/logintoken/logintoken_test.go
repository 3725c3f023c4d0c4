package logintoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	token, err := manager.Issue("guest-1", "sam@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "guest-1", claims.GuestID)
	assert.Equal(t, "sam@example.com", claims.Email)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-one", time.Hour).Issue("guest-1", "sam@example.com")
	require.NoError(t, err)

	_, err = NewManager("secret-two", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	token, err := NewManager("test-secret", -time.Minute).Issue("guest-1", "sam@example.com")
	require.NoError(t, err)

	_, err = NewManager("test-secret", time.Hour).Verify(token)
	assert.Error(t, err)
}
