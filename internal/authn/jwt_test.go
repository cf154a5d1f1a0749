package authn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueTokenProducesWellFormedJWT(t *testing.T) {
	a := New()
	token, err := a.IssueToken("p1", "Hero")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, 2, strings.Count(token, "."))
}

func TestValidateRoundTrips(t *testing.T) {
	a := New()
	token, err := a.IssueToken("p42", "Validator")
	require.NoError(t, err)

	playerID, err := a.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "p42", playerID)
}

func TestValidateRejectsTokenFromDifferentSecret(t *testing.T) {
	a := New()
	b := New()

	token, err := a.IssueToken("p1", "Hero")
	require.NoError(t, err)

	_, err = b.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	a := New()
	for _, bad := range []string{"", "not.a.jwt", "invalid.token.here"} {
		_, err := a.Validate(bad)
		require.Error(t, err)
	}
}

func TestNewWithSecretSharesValidationAcrossInstances(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	a, err := NewWithSecret(secret)
	require.NoError(t, err)
	b, err := NewWithSecret(secret)
	require.NoError(t, err)

	token, err := a.IssueToken("p7", "Shared")
	require.NoError(t, err)

	playerID, err := b.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "p7", playerID)
}

func TestNewWithSecretRejectsShortSecret(t *testing.T) {
	_, err := NewWithSecret("dG9vc2hvcnQ=")
	require.Error(t, err)
}

func TestGenerateSecretIsUniqueAndLongEnough(t *testing.T) {
	s1, err := GenerateSecret()
	require.NoError(t, err)
	s2, err := GenerateSecret()
	require.NoError(t, err)

	require.NotEqual(t, s1, s2)
	require.GreaterOrEqual(t, len(s1), 40)
}
