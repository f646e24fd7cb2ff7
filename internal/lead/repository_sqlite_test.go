package lead

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandae-leads-api/internal/db"
)

func seedRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	database, err := db.OpenMigrated(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	repo := &SQLiteRepo{DB: database}

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := []Submission{
		{ID: "s1", Kind: KindContact, Form: FormData{Name: "Jane Doe", Email: "jane@example.com", Phone: "1", Business: "Acme Co"}, CreatedAt: base},
		{ID: "s2", Kind: KindDemo, Form: FormData{Name: "Bob Ray", Email: "bob@ray.io", Phone: "2", Message: "demo 100% please"}, CreatedAt: base.Add(time.Second)},
		{ID: "s3", Kind: KindContact, Form: FormData{Name: "Ann Lee", Email: "ann@acme.com", Phone: "3"}, CreatedAt: base.Add(1500 * time.Millisecond)},
	}
	for _, s := range rows {
		require.NoError(t, repo.Create(context.Background(), s))
	}
	return repo
}

func ids(subs []Submission) []string {
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.ID)
	}
	return out
}

func TestSQLiteRepoListNewestFirst(t *testing.T) {
	repo := seedRepo(t)
	got, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s2", "s1"}, ids(got))
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 1, 500_000_000, time.UTC), got[0].CreatedAt)
}

func TestSQLiteRepoListFilters(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	got, err := repo.List(ctx, Filter{Kind: KindContact})
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s1"}, ids(got))

	got, err = repo.List(ctx, Filter{Query: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s1"}, ids(got))

	got, err = repo.List(ctx, Filter{Query: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids(got))

	got, err = repo.List(ctx, Filter{Query: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids(got), "wildcards are matched literally")

	got, err = repo.List(ctx, Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids(got))
}

func TestFilterClamped(t *testing.T) {
	assert.Equal(t, DefaultListLimit, Filter{}.Clamped().Limit)
	assert.Equal(t, MaxListLimit, Filter{Limit: 10_000}.Clamped().Limit)
	assert.Equal(t, 0, Filter{Offset: -3}.Clamped().Offset)
}

func TestSQLiteRepoListFoldsNonASCII(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, Submission{
		ID: "s4", Kind: KindContact,
		Form:      FormData{Name: "JOSÉ ÅBERG", Email: "jose@example.se", Phone: "4", Business: "Öresund AB"},
		CreatedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
	}))

	for _, q := range []string{"josé", "JOSÉ", "åberg", "ÖRESUND", "jos"} {
		got, err := repo.List(ctx, Filter{Query: q})
		require.NoError(t, err, q)
		assert.Equal(t, []string{"s4"}, ids(got), q)
	}
}

func TestSQLiteRepoListRejectsMalformedTimestamp(t *testing.T) {
	repo := seedRepo(t)
	_, err := repo.DB.Exec(`UPDATE contact_submissions SET created_at = 'yesterday' WHERE id = 's2'`)
	require.NoError(t, err)

	_, err = repo.List(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s2")
}
