package access

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice models.Identity = "AL1CEwaLLet111111111111111111111111111111111"
	bob   models.Identity = "B0BwaLLet11111111111111111111111111111111111"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		viewer  models.Identity
		owner   models.Identity
		granted bool
		want    State
	}{
		{name: "author without grant", viewer: alice, owner: alice, want: Author},
		{name: "author with grant", viewer: alice, owner: alice, granted: true, want: Author},
		{name: "paid viewer", viewer: bob, owner: alice, granted: true, want: Unlocked},
		{name: "unpaid viewer", viewer: bob, owner: alice, want: Locked},
		{name: "no identity", viewer: "", owner: alice, want: Locked},
		{name: "no identity with grant", viewer: "", owner: alice, granted: true, want: Unlocked},
		{name: "empty viewer and owner", viewer: "", owner: "", want: Locked},
		{name: "case sensitive", viewer: models.Identity("al1cewallet111111111111111111111111111111111"), owner: alice, want: Locked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.viewer, tt.owner, tt.granted))
		})
	}
}

func TestState_CanDecrypt(t *testing.T) {
	assert.True(t, Author.CanDecrypt())
	assert.True(t, Unlocked.CanDecrypt())
	assert.False(t, Locked.CanDecrypt())
}

func TestState_Indication(t *testing.T) {
	assert.Equal(t, "Yours", Author.Indication(2))
	assert.Equal(t, "Paid", Unlocked.Indication(2))
	assert.Equal(t, "Pay $0.02", Locked.Indication(2))
	assert.Equal(t, "Pay $12.50", Locked.Indication(1250))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "AUTHOR", Author.String())
	assert.Equal(t, "UNLOCKED", Unlocked.String())
	assert.Equal(t, "LOCKED", Locked.String())
}

type fakeGrants struct {
	granted map[string]bool
	err     error
	calls   int
}

func (f *fakeGrants) IsGranted(_ context.Context, id string) (bool, error) {
	f.calls++
	return f.granted[id], f.err
}

func TestController_ReadsGrantEveryCall(t *testing.T) {
	grants := &fakeGrants{granted: map[string]bool{}}
	c := NewController(grants)
	article := &models.Article{ID: "a1", Owner: alice, PriceCents: 2}

	st, err := c.Evaluate(context.Background(), bob, article)
	require.NoError(t, err)
	assert.Equal(t, Locked, st)

	grants.granted["a1"] = true

	st, err = c.Evaluate(context.Background(), bob, article)
	require.NoError(t, err)
	assert.Equal(t, Unlocked, st)
	assert.Equal(t, 2, grants.calls)
}

func TestController_StoreError(t *testing.T) {
	c := NewController(&fakeGrants{err: errors.New("disk")})

	st, err := c.Evaluate(context.Background(), bob, &models.Article{ID: "a1", Owner: alice})
	require.Error(t, err)
	assert.Equal(t, Locked, st)
}
