// Package testdata builds sample accounts for seeding and demos.
package testdata

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jask/accountdeck/internal/database/repository"
)

// DefaultCount is the size of the demo collection.
const DefaultCount = 2300

// DemoSecret is the base32 2FA secret shared by generated accounts.
const DemoSecret = "JBSWY3DPEHPK3PXP"

const flaggedNote = "Flagged for review due to login patterns."

// Generate returns n accounts with ids acc-1..acc-n. rng drives every random
// field, so a seeded source yields the same collection. Every fifth account,
// starting with the first, carries a review note.
func Generate(n int, rng *rand.Rand, now time.Time) []repository.Account {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x5eed))
	}
	statuses := repository.Statuses()
	out := make([]repository.Account, n)
	for i := range out {
		num := i + 1
		a := repository.Account{
			ID:             fmt.Sprintf("acc-%d", num),
			Name:           fmt.Sprintf("user_%d", num),
			Email:          fmt.Sprintf("user_%d@example.com", num),
			UID:            fmt.Sprintf("1000%d", rng.IntN(900000000)),
			Password:       "Pass" + randomToken(rng, 6),
			TwoFASecret:    DemoSecret,
			Cookies:        fmt.Sprintf(`[{"domain": ".facebook.com", "name": "c_user", "value": "1000%d"}, {"domain": ".facebook.com", "name": "xs", "value": "34%%3AkeepTest"}]`, i),
			Status:         statuses[rng.IntN(len(statuses))],
			FriendCount:    rng.IntN(5000),
			HasSuggestions: rng.IntN(2) == 1,
			CreatedAt:      time.Date(2022+rng.IntN(3), time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC),
			LastUpdated:    now.Add(-time.Duration(rng.Int64N(int64(1_000_000 * time.Second)))).UTC().Truncate(time.Second),
		}
		if i%5 == 0 {
			a.Notes = flaggedNote
		}
		out[i] = a
	}
	return out
}

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomToken(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[rng.IntN(len(tokenAlphabet))]
	}
	return string(b)
}
