package ledger

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marvin/internal/house"
	"marvin/internal/storage"
)

const termID = "term-1"

func newTestLedger(t *testing.T) (*Ledger, *storage.Storage) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "test.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store), store
}

func seedMember(t *testing.T, store *storage.Storage, chatID, userID int64, name string, h house.House, status string) {
	t.Helper()
	require.NoError(t, store.Update(chatID, func(r *storage.Record) error {
		r.Members[storage.UserKey(userID)] = storage.Member{
			UserID: userID, Username: name, Status: status, House: h,
		}
		return nil
	}))
}

func TestApplyAndCurrentPoints(t *testing.T) {
	l, _ := newTestLedger(t)

	points, err := l.CurrentPoints(1, termID, 42)
	require.NoError(t, err)
	assert.Zero(t, points, "no entry reads as zero")

	total, err := l.Apply(1, termID, 42, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = l.Apply(1, termID, 42, -1)
	require.NoError(t, err)
	assert.Zero(t, total)

	total, err = l.Apply(1, termID, 42, -5)
	require.NoError(t, err)
	assert.Equal(t, -5, total, "balances may go negative")
}

func TestApplyScopedToTerm(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.Apply(1, "old-term", 42, 10)
	require.NoError(t, err)

	points, err := l.CurrentPoints(1, "new-term", 42)
	require.NoError(t, err)
	assert.Zero(t, points, "a new term starts everyone at zero")
}

func TestApplyConcurrent(t *testing.T) {
	l, _ := newTestLedger(t)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Apply(1, termID, 42, 1)
		}()
	}
	wg.Wait()

	points, err := l.CurrentPoints(1, termID, 42)
	require.NoError(t, err)
	assert.Equal(t, 30, points)
}

func TestResetUser(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.Apply(1, termID, 42, 17)
	require.NoError(t, err)

	prior, err := l.ResetUser(1, termID, 42)
	require.NoError(t, err)
	assert.Equal(t, 17, prior)

	points, err := l.CurrentPoints(1, termID, 42)
	require.NoError(t, err)
	assert.Zero(t, points)

	prior, err = l.ResetUser(1, termID, 99)
	require.NoError(t, err)
	assert.Zero(t, prior, "resetting an absent entry is a no-op")
}

func TestSummarizeByHouse(t *testing.T) {
	l, store := newTestLedger(t)

	seedMember(t, store, 1, 10, "harry", house.Gryffindor, "member")
	seedMember(t, store, 1, 11, "ron", house.Gryffindor, "member")
	seedMember(t, store, 1, 20, "draco", house.Slytherin, "member")
	seedMember(t, store, 1, 30, "gone", house.Hufflepuff, "left")

	for _, tc := range []struct {
		userID int64
		delta  int
	}{{10, 5}, {11, 3}, {20, 4}, {30, 100}} {
		_, err := l.Apply(1, termID, tc.userID, tc.delta)
		require.NoError(t, err)
	}

	totals, err := l.SummarizeByHouse(1, termID)
	require.NoError(t, err)

	assert.Equal(t, 8, totals[house.Gryffindor])
	assert.Equal(t, 4, totals[house.Slytherin])
	_, ok := totals[house.Hufflepuff]
	assert.False(t, ok, "departed members do not count")
}

func TestChampionOf(t *testing.T) {
	l, store := newTestLedger(t)

	seedMember(t, store, 1, 10, "harry", house.Gryffindor, "member")
	seedMember(t, store, 1, 11, "ron", house.Gryffindor, "member")

	_, err := l.Apply(1, termID, 10, 5)
	require.NoError(t, err)
	_, err = l.Apply(1, termID, 11, 9)
	require.NoError(t, err)

	champ, err := l.ChampionOf(1, termID, house.Gryffindor)
	require.NoError(t, err)
	require.NotNil(t, champ)
	assert.Equal(t, "ron", champ.Username)
	assert.Equal(t, 9, champ.Points)

	champ, err = l.ChampionOf(1, termID, house.Slytherin)
	require.NoError(t, err)
	assert.Nil(t, champ)
}

func TestChampionTieBreaksOnLowestUserID(t *testing.T) {
	l, store := newTestLedger(t)

	seedMember(t, store, 1, 20, "later", house.Ravenclaw, "member")
	seedMember(t, store, 1, 10, "earlier", house.Ravenclaw, "member")

	_, err := l.Apply(1, termID, 20, 7)
	require.NoError(t, err)
	_, err = l.Apply(1, termID, 10, 7)
	require.NoError(t, err)

	champ, err := l.ChampionOf(1, termID, house.Ravenclaw)
	require.NoError(t, err)
	require.NotNil(t, champ)
	assert.Equal(t, int64(10), champ.UserID)
}

func TestTopScorer(t *testing.T) {
	l, store := newTestLedger(t)

	top, err := l.TopScorer(1, termID)
	require.NoError(t, err)
	assert.Nil(t, top)

	seedMember(t, store, 1, 10, "harry", house.Gryffindor, "member")
	seedMember(t, store, 1, 20, "draco", house.Slytherin, "member")

	_, err = l.Apply(1, termID, 10, 3)
	require.NoError(t, err)
	_, err = l.Apply(1, termID, 20, 8)
	require.NoError(t, err)

	top, err = l.TopScorer(1, termID)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, "draco", top.Username)
	assert.Equal(t, house.Slytherin, top.House)
}
