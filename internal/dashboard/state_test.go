package dashboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/query"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState(0)
	require.Equal(t, 1, s.Page)
	require.Equal(t, query.DefaultPageSize, s.PageSize)
	require.Zero(t, s.Selection.Len())
	require.Nil(t, s.Pending)
}

func TestDeriveCountsAndWindow(t *testing.T) {
	records := makeAccounts(120)
	records[0].Status = repository.StatusLocked
	s := NewState(50)
	s.Page = 3

	v := Derive(s, records, testPeriods)
	require.Equal(t, 120, v.Rows)
	require.Equal(t, 119, v.Active)
	require.Equal(t, 3, v.Window.Page)
	require.Equal(t, 3, v.Page)
	require.Len(t, v.Window.Items, 20)
	require.Equal(t, 101, v.Window.From)
	require.Equal(t, 120, v.Window.To)
	require.Equal(t, []int{1, 2, 3}, v.Buttons)
}

func TestPageRequestsAreClamped(t *testing.T) {
	records := makeAccounts(120)
	s := NewState(50)

	s = Reduce(s, PageRequested{Page: 9}, records, testPeriods)
	require.Equal(t, 3, s.Page)
	s = Reduce(s, PageStep{Delta: 1}, records, testPeriods)
	require.Equal(t, 3, s.Page)
	s = Reduce(s, PageStep{Delta: -5}, records, testPeriods)
	require.Equal(t, 1, s.Page)
	s = Reduce(s, PageRequested{Page: 0}, nil, testPeriods)
	require.Equal(t, 1, s.Page)
}

func TestFilterChangeResetsPageAndSelection(t *testing.T) {
	records := makeAccounts(120)
	s := NewState(50)
	s = Reduce(s, PageRequested{Page: 2}, records, testPeriods)
	s = Reduce(s, SelectToggled{ID: "acc-60"}, records, testPeriods)

	s = Reduce(s, FilterChanged{Filter: query.Filter{Search: "user_6"}}, records, testPeriods)
	require.Equal(t, 1, s.Page)
	require.Zero(t, s.Selection.Len())
}

func TestFilterChangeClearsSelectionEvenForStillVisibleIDs(t *testing.T) {
	records := makeAccounts(5)
	s := NewState(50)
	s = Reduce(s, SelectToggled{ID: "acc-1"}, records, testPeriods)

	// acc-1 still matches the new filter
	s = Reduce(s, FilterChanged{Filter: query.Filter{Search: "user_1"}}, records, testPeriods)
	require.False(t, s.Selection.Has("acc-1"))
}

func TestSelectAllOnPageTwoLeavesPageOneAlone(t *testing.T) {
	records := makeAccounts(120)
	s := NewState(50)
	s = Reduce(s, SelectToggled{ID: "acc-3"}, records, testPeriods)
	s = Reduce(s, PageRequested{Page: 2}, records, testPeriods)

	s = Reduce(s, PageSelectionToggled{}, records, testPeriods)
	require.Equal(t, 51, s.Selection.Len())
	require.True(t, s.Selection.Has("acc-3"))
	require.True(t, s.Selection.Has("acc-50"))
	require.True(t, s.Selection.Has("acc-99"))
	require.False(t, s.Selection.Has("acc-100"))

	s = Reduce(s, PageSelectionToggled{}, records, testPeriods)
	require.Equal(t, []string{"acc-3"}, s.Selection.IDs())
}

func TestDeleteRequestNeedsTargets(t *testing.T) {
	records := makeAccounts(3)
	s := NewState(50)

	s = Reduce(s, DeleteRequested{}, records, testPeriods)
	require.Nil(t, s.Pending)

	s = Reduce(s, DeleteRequested{IDs: []string{"acc-1"}}, records, testPeriods)
	require.Equal(t, &Confirmation{IDs: []string{"acc-1"}}, s.Pending)

	s = Reduce(s, Cancelled{}, records, testPeriods)
	require.Nil(t, s.Pending)

	s = Reduce(s, SelectToggled{ID: "acc-2"}, records, testPeriods)
	s = Reduce(s, SelectToggled{ID: "acc-0"}, records, testPeriods)
	s = Reduce(s, DeleteRequested{}, records, testPeriods)
	require.Equal(t, &Confirmation{IDs: []string{"acc-0", "acc-2"}, Bulk: true}, s.Pending)
}

func TestReconcileClampsAndPrunes(t *testing.T) {
	records := makeAccounts(51)
	s := NewState(50)
	s = Reduce(s, PageRequested{Page: 2}, records, testPeriods)
	s = Reduce(s, SelectToggled{ID: "acc-50"}, records, testPeriods)
	s = Reduce(s, SelectToggled{ID: "acc-0"}, records, testPeriods)
	require.Equal(t, 2, s.Page)

	s = Reconcile(s, records[:50], testPeriods)
	require.Equal(t, 1, s.Page)
	require.Equal(t, []string{"acc-0"}, s.Selection.IDs())
}

func TestReconcileKeepsSelectedRowsThatStopMatching(t *testing.T) {
	records := makeAccounts(3)
	s := NewState(50)
	s = Reduce(s, FilterChanged{Filter: query.Filter{Status: repository.StatusActive}}, records, testPeriods)
	s = Reduce(s, SelectToggled{ID: "acc-1"}, records, testPeriods)

	records[1].Status = repository.StatusDisabled
	s = Reconcile(s, records, testPeriods)
	require.True(t, s.Selection.Has("acc-1"))
}
