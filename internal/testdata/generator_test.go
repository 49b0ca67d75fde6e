package testdata

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jask/accountdeck/internal/database/repository"
)

func TestGenerateShape(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	accounts := Generate(50, rand.New(rand.NewPCG(1, 2)), now)
	require.Len(t, accounts, 50)

	seen := map[string]bool{}
	for i, a := range accounts {
		require.False(t, seen[a.ID], a.ID)
		seen[a.ID] = true
		require.True(t, a.Status.Valid(), a.Status)
		require.GreaterOrEqual(t, a.CreatedAt.Year(), 2022)
		require.LessOrEqual(t, a.CreatedAt.Year(), 2024)
		require.False(t, a.LastUpdated.After(now))
		require.Less(t, a.FriendCount, 5000)
		require.Equal(t, i%5 == 0, a.Notes != "", a.ID)
	}
	require.Equal(t, "acc-1", accounts[0].ID)
	require.Equal(t, "user_50", accounts[49].Name)
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Generate(20, rand.New(rand.NewPCG(7, 7)), now)
	b := Generate(20, rand.New(rand.NewPCG(7, 7)), now)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different accounts (-a +b):\n%s", diff)
	}
	require.Empty(t, Generate(0, nil, now))
	require.IsType(t, []repository.Account{}, Generate(1, nil, now))
}
