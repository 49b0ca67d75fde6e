package query

import (
	"cmp"
	"slices"
	"time"

	"github.com/jask/accountdeck/internal/database/repository"
)

// ComputeView returns the records matching f in f.Sort order. The sort is
// stable, so equal keys keep collection order. records is never modified.
func ComputeView(records []repository.Account, f Filter, p Periods) []repository.Account {
	out := make([]repository.Account, 0, len(records))
	for _, a := range records {
		if Matches(a, f, p) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, comparator(f.Sort))
	return out
}

func comparator(key SortKey) func(a, b repository.Account) int {
	switch key {
	case SortLastUpdatedAsc:
		return func(a, b repository.Account) int {
			return compareTimes(a.LastUpdated, b.LastUpdated, false)
		}
	case SortCreatedDesc:
		return func(a, b repository.Account) int {
			return compareTimes(a.CreatedAt, b.CreatedAt, true)
		}
	default:
		return func(a, b repository.Account) int {
			return cmp.Compare(b.FriendCount, a.FriendCount)
		}
	}
}

// compareTimes orders known timestamps ascending (or descending when desc)
// and always places zero timestamps last.
func compareTimes(a, b time.Time, desc bool) int {
	switch az, bz := a.IsZero(), b.IsZero(); {
	case az && bz:
		return 0
	case az:
		return 1
	case bz:
		return -1
	}
	if desc {
		return b.Compare(a)
	}
	return a.Compare(b)
}
