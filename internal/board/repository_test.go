// AngelaMos | 2026
// repository_test.go

package board

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/testutil"
	"github.com/carterperez-dev/tierboard/internal/user"
)

type pgFixture struct {
	db    *core.Database
	repo  Repository
	svc   *Service
	alice string
	bob   string
	carol string
}

func newPgFixture(t *testing.T) *pgFixture {
	t.Helper()

	db := testutil.Postgres(t)
	users := user.NewRepository(db.DB)

	f := &pgFixture{
		db:    db,
		repo:  NewRepository(db.DB),
		alice: testutil.Unique("alice"),
		bob:   testutil.Unique("bob"),
		carol: testutil.Unique("carol"),
	}
	for _, name := range []string{f.alice, f.bob, f.carol} {
		require.NoError(t, users.Create(context.Background(), &user.User{
			Username:     name,
			PasswordHash: "x",
		}))
	}

	f.svc = NewService(f.repo, user.NewService(users))
	return f
}

func (f *pgFixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.DB.GetContext(context.Background(), &n, query, args...))
	return n
}

func TestPostgresCreateBoard(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Anime", "tv", "anime", "tv")

	got, err := f.svc.GetBoard(ctx, f.alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alice, got.CreatorUsername)
	assert.Equal(t, []string{"tv", "anime"}, []string(got.TagList))
	assert.Empty(t, got.AllowedUsers)
	assert.Empty(t, got.Characters)
	assert.Equal(t, b.AccessKey, got.AccessKey)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPostgresAccessKeyCollision(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	first := mustCreate(t, f.svc, f.alice, "First")

	clash := &Board{
		ID:              testutil.Unique("board"),
		Name:            "Clash",
		AccessKey:       first.AccessKey,
		CreatorUsername: f.alice,
	}
	assert.ErrorIs(t, f.repo.Create(ctx, clash), ErrAccessKeyTaken)

	fresh, err := core.GenerateAccessKey()
	require.NoError(t, err)
	keys := []string{first.AccessKey, fresh}
	f.svc.accessKey = func() (string, error) {
		k := keys[0]
		keys = keys[1:]
		return k, nil
	}

	b := mustCreate(t, f.svc, f.alice, "Retried")
	assert.Equal(t, fresh, b.AccessKey)
}

func TestPostgresJoinAndList(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Shared")
	mustCreate(t, f.svc, f.alice, "Hidden")

	for range 2 {
		joined, err := f.svc.JoinByAccessKey(ctx, f.bob, b.AccessKey)
		require.NoError(t, err)
		assert.Equal(t, []string{f.bob}, []string(joined.AllowedUsers))
	}

	own, err := f.svc.JoinByAccessKey(ctx, f.alice, b.AccessKey)
	require.NoError(t, err)
	assert.NotContains(t, own.AllowedUsers, f.alice)

	boards, err := f.svc.ListBoards(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, b.ID, boards[0].ID)

	boards, err = f.svc.ListBoards(ctx, f.alice)
	require.NoError(t, err)
	assert.Len(t, boards, 2)
}

func TestPostgresConcurrentJoin(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Race")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.JoinByAccessKey(ctx, f.bob, b.AccessKey)
		}()
	}
	wg.Wait()

	got, err := f.svc.GetBoard(ctx, f.bob, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.bob}, []string(got.AllowedUsers))
}

func TestPostgresAddTag(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Tags", "tv")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.AddTag(ctx, f.alice, b.ID, "film")
		}()
	}
	wg.Wait()

	tags, err := f.svc.AddTag(ctx, f.alice, b.ID, "film")
	require.NoError(t, err)
	assert.Equal(t, []string{"tv", "film"}, tags)

	_, err = f.repo.AddTag(ctx, "missing", "x")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPostgresAddCharacterMergesTags(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Chars", "tv")
	c := mustAddCharacter(t, f.svc, f.alice, b.ID, "Spike", "space", "tv", "it's, odd")

	assert.Empty(t, c.Rankings)

	got, err := f.svc.GetBoard(ctx, f.alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tv", "space", "it's, odd"}, []string(got.TagList))

	stored := got.Character(c.ID)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"space", "tv", "it's, odd"}, []string(stored.Tags))
	assert.Empty(t, stored.Rankings)

	missing := &Character{ID: testutil.Unique("char"), BoardID: "missing", Name: "x"}
	assert.ErrorIs(t, f.repo.AddCharacter(ctx, missing), core.ErrNotFound)
	assert.Zero(t, f.count(t, `SELECT COUNT(*) FROM board_characters WHERE id = $1`, missing.ID))
}

func TestPostgresRankingUpsert(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Rank")
	c := mustAddCharacter(t, f.svc, f.alice, b.ID, "Goku")
	_, err := f.svc.JoinByAccessKey(ctx, f.bob, b.AccessKey)
	require.NoError(t, err)

	for _, tier := range []string{"D", "A", "S"} {
		_, err = f.svc.UpdateRanking(ctx, f.alice, b.ID, c.ID, tier)
		require.NoError(t, err)
	}
	got, err := f.svc.UpdateRanking(ctx, f.bob, b.ID, c.ID, "A")
	require.NoError(t, err)

	require.Len(t, got.Rankings, 2)
	assert.Equal(t, TierS, got.RankingFor(f.alice).Tier)
	assert.Equal(t, TierA, got.RankingFor(f.bob).Tier)
	assert.Equal(t, 2, f.count(t,
		`SELECT COUNT(*) FROM character_rankings WHERE character_id = $1`, c.ID))
}

func TestPostgresConcurrentRankings(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Concurrent")
	c := mustAddCharacter(t, f.svc, f.alice, b.ID, "Vegeta")
	_, err := f.svc.JoinByAccessKey(ctx, f.bob, b.AccessKey)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tier := "B"
			if i == 19 {
				tier = "S"
			}
			_, _ = f.svc.UpdateRanking(ctx, f.alice, b.ID, c.ID, tier)
		}()
		go func() {
			defer wg.Done()
			_, _ = f.svc.UpdateRanking(ctx, f.bob, b.ID, c.ID, "C")
		}()
	}
	wg.Wait()

	got, err := f.svc.GetBoard(ctx, f.alice, b.ID)
	require.NoError(t, err)
	ch := got.Character(c.ID)
	require.NotNil(t, ch)
	require.Len(t, ch.Rankings, 2)
	assert.NotNil(t, ch.RankingFor(f.alice))
	assert.Equal(t, TierC, ch.RankingFor(f.bob).Tier)
}

func TestPostgresRankingErrors(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Rank")
	other := mustCreate(t, f.svc, f.alice, "Other")
	c := mustAddCharacter(t, f.svc, f.alice, b.ID, "Faye")

	_, err := f.svc.UpdateRanking(ctx, f.alice, b.ID, "missing", "S")
	assert.ErrorIs(t, err, ErrCharacterNotFound)

	err = f.repo.UpsertRanking(ctx, other.ID, &Ranking{
		CharacterID: c.ID,
		Username:    f.alice,
		Tier:        TierS,
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Zero(t, f.count(t,
		`SELECT COUNT(*) FROM character_rankings WHERE character_id = $1`, c.ID))
}

func TestPostgresAddUser(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Team")

	users, err := f.svc.AddUser(ctx, f.alice, b.ID, f.bob)
	require.NoError(t, err)
	assert.Equal(t, []string{f.bob}, users)

	users, err = f.svc.AddUser(ctx, f.alice, b.ID, f.alice)
	require.NoError(t, err)
	assert.Equal(t, []string{f.bob}, users)

	users, err = f.svc.AddUser(ctx, f.alice, b.ID, f.carol)
	require.NoError(t, err)
	assert.Equal(t, []string{f.bob, f.carol}, users)

	_, err = f.svc.AddUser(ctx, f.alice, b.ID, testutil.Unique("ghost"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostgresRenameAndDeleteCascade(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Mine")
	c := mustAddCharacter(t, f.svc, f.alice, b.ID, "Jet")
	_, err := f.svc.UpdateRanking(ctx, f.alice, b.ID, c.ID, "B")
	require.NoError(t, err)

	renamed, err := f.svc.RenameBoard(ctx, f.alice, b.ID, UpdateBoardRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)
	assert.Len(t, renamed.Characters, 1)

	require.NoError(t, f.svc.DeleteBoard(ctx, f.alice, b.ID))

	_, err = f.svc.GetBoard(ctx, f.alice, b.ID)
	assert.ErrorIs(t, err, ErrBoardNotFound)
	assert.Zero(t, f.count(t, `SELECT COUNT(*) FROM board_characters WHERE board_id = $1`, b.ID))
	assert.Zero(t, f.count(t,
		`SELECT COUNT(*) FROM character_rankings WHERE character_id = $1`, c.ID))

	assert.ErrorIs(t, f.repo.Delete(ctx, b.ID), core.ErrNotFound)
	_, err = f.repo.Rename(ctx, b.ID, "x")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPostgresTierGrid(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	b := mustCreate(t, f.svc, f.alice, "Grid")
	spike := mustAddCharacter(t, f.svc, f.alice, b.ID, "Spike", "main")
	mustAddCharacter(t, f.svc, f.alice, b.ID, "Ein", "pet")

	_, err := f.svc.UpdateRanking(ctx, f.alice, b.ID, spike.ID, "S")
	require.NoError(t, err)

	grid, err := f.svc.TierGrid(ctx, f.alice, b.ID, "")
	require.NoError(t, err)
	require.Len(t, grid.S, 1)
	assert.Equal(t, spike.ID, grid.S[0].ID)
	require.Len(t, grid.Unranked, 1)
	assert.Nil(t, grid.Unranked[0].ViewerTier)
}

func TestPostgresStats(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	before, err := f.svc.Stats(ctx)
	require.NoError(t, err)

	b := mustCreate(t, f.svc, f.alice, "Stats")
	c := mustAddCharacter(t, f.svc, f.alice, b.ID, "Ed")
	_, err = f.svc.UpdateRanking(ctx, f.alice, b.ID, c.ID, "A")
	require.NoError(t, err)

	after, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after.Boards, before.Boards+1)
	assert.GreaterOrEqual(t, after.Characters, before.Characters+1)
	assert.GreaterOrEqual(t, after.Rankings, before.Rankings+1)
}
