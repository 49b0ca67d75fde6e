package dashboard

import (
	"fmt"
	"time"

	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/query"
)

var testPeriods = query.PeriodsFor(2024)

// makeAccounts builds n accounts whose friend counts descend with the index,
// so the default sort keeps them in id order.
func makeAccounts(n int) []repository.Account {
	out := make([]repository.Account, n)
	for i := range out {
		out[i] = repository.Account{
			ID:          fmt.Sprintf("acc-%d", i),
			Name:        fmt.Sprintf("user_%d", i),
			UID:         fmt.Sprintf("1000%04d", i),
			Status:      repository.StatusActive,
			FriendCount: 10000 - i,
			CreatedAt:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			LastUpdated: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func ids(accounts []repository.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.ID
	}
	return out
}
