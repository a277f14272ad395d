package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundtrip(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	subjects := []string{
		"user-1745926384",
		"user-8b9f2c1a-93e4-4a3e-a1f7-6a2c9d0f5e21",
		"user-x",
	}
	for _, subject := range subjects {
		t.Run(subject, func(t *testing.T) {
			raw, err := codec.Issue(subject)
			require.NoError(t, err)
			require.NotEmpty(t, raw)

			got, err := codec.Verify(raw)
			require.NoError(t, err)
			require.Equal(t, subject, got)
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	codec := NewCodec("test-secret", -time.Minute)

	raw, err := codec.Issue("user-expired")
	require.NoError(t, err)

	subject, err := codec.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
	require.Empty(t, subject)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewCodec("secret-a", time.Hour)
	verifier := NewCodec("secret-b", time.Hour)

	raw, err := issuer.Issue("user-1")
	require.NoError(t, err)

	subject, err := verifier.Verify(raw)
	require.ErrorIs(t, err, ErrBadSignature)
	require.Empty(t, subject)
}

func TestVerifyTamperedSignature(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	raw, err := codec.Issue("user-1")
	require.NoError(t, err)

	// Flip the last signature character.
	last := raw[len(raw)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	tampered := raw[:len(raw)-1] + string(replacement)

	subject, err := codec.Verify(tampered)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrBadSignature)
	require.Empty(t, subject)
}

func TestVerifyMalformed(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	for _, raw := range []string{
		"",
		"not-a-token",
		"a.b",
		strings.Repeat("x", 64),
	} {
		subject, err := codec.Verify(raw)
		require.ErrorIs(t, err, ErrMalformed, "input %q", raw)
		require.Empty(t, subject)
	}
}

func TestVerifyMissingSubjectClaim(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	// A structurally valid, correctly signed token without a user_id claim
	// must not yield a guessed identity.
	subjectless := NewCodec("test-secret", time.Hour)
	raw, err := subjectless.Issue("")
	require.NoError(t, err)

	subject, err := codec.Verify(raw)
	require.ErrorIs(t, err, ErrMalformed)
	require.Empty(t, subject)
}
