package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const owner models.Identity = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(owner, []byte("super-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := OwnerFromToken(tok, []byte("super-secret"))
	if err != nil {
		t.Fatalf("OwnerFromToken error: %v", err)
	}
	if got != owner {
		t.Fatalf("owner mismatch: got %q want %q", got, owner)
	}
}

func TestOwnerFromToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(owner, []byte("secret"), -1*time.Second)
	require.NoError(t, err)

	_, err = OwnerFromToken(tok, []byte("secret"))
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestOwnerFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(owner, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = OwnerFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestOwnerFromToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := OwnerFromToken("not-a-jwt", []byte("secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestOwnerFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: owner.String(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Owner:            owner.String(),
	})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = OwnerFromToken(s, []byte("secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestOwnerFromToken_SubjectMismatch(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "someone-else", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Owner:            owner.String(),
	})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = OwnerFromToken(s, []byte("secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
