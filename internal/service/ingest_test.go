package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/accountdeck/internal/database"
	"github.com/jask/accountdeck/internal/database/repository"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("imp-%d", n)
	}
}

func TestImportCSVIntoMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := repository.NewMemoryStore(repository.Account{ID: "acc-0", Name: "existing", UID: "1000000"})
	svc := &IngestService{Store: store, NewID: sequentialIDs()}

	data := strings.Join([]string{
		"Name,UID,Status,Friend_Count,Has_Suggestions,Created,Last_Updated,Notes",
		"alice,1000001,checkpoint,\"1,204\",yes,2023-05-01,2024-06-01T10:00:00Z,",
		"bob,1000000,active,10,no,2022-01-01,2022-01-01,duplicate uid",
		"carol,1000002,,7,false,someday,,Flagged for review",
		"dave,1000003,banned,1,no,,,",
		",1000004,active,1,no,,,",
	}, "\n")

	res, err := svc.ImportCSV(ctx, strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 2)
	require.Contains(t, res.Errors[0].Error(), "line 5")
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0], "line 4")

	alice, err := store.Get(ctx, "imp-1")
	require.NoError(t, err)
	require.Equal(t, repository.StatusCheckpoint, alice.Status)
	require.Equal(t, 1204, alice.FriendCount)
	require.True(t, alice.HasSuggestions)
	require.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), alice.CreatedAt)
	require.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), alice.LastUpdated)

	carol, err := store.Get(ctx, "imp-3")
	require.NoError(t, err)
	require.Equal(t, repository.StatusActive, carol.Status)
	require.True(t, carol.CreatedAt.IsZero())
	require.Equal(t, "Flagged for review", carol.Notes)
}

func TestImportCSVRequiresHeader(t *testing.T) {
	t.Parallel()
	svc := &IngestService{Store: repository.NewMemoryStore()}

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(""))
	require.ErrorIs(t, err, errNoHeader)

	_, err = svc.ImportCSV(context.Background(), strings.NewReader("name,email\nx,y"))
	require.ErrorIs(t, err, errNoHeader)
}

func TestImportCSVIntoSQLite(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewAccountRepo(db)
	svc := &IngestService{Store: repo}
	data := "name,uid,friend_count\nuser_1,1001,5\nuser_2,1002,9\nuser_1_again,1001,3\n"

	res, err := svc.ImportCSV(ctx, strings.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 1, res.Skipped)

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, "user_1", accounts[0].Name)
	require.NotEmpty(t, accounts[0].ID)

	maint := &MaintenanceService{DB: db}
	n, err := maint.Reset(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	accounts, err = repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)
}

func TestMaintenanceWithoutDB(t *testing.T) {
	_, err := (&MaintenanceService{}).Reset(context.Background())
	require.Error(t, err)
}
