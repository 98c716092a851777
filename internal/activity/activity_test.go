package activity

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marvin/internal/house"
	"marvin/internal/messenger"
	"marvin/internal/storage"
)

type fixture struct {
	tracker *Tracker
	store   *storage.Storage
	msgr    *messenger.Recorder
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "test.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		store: store,
		msgr:  messenger.NewRecorder(),
		now:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	rng := rand.New(rand.NewSource(1))
	f.tracker = New(store, f.msgr, rng).WithClock(func() time.Time { return f.now })
	return f
}

func TestTouch(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.tracker.Touch(1, 42, "harry", "member"))

	speaker, ok, err := f.tracker.LastSpeaker(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "harry", speaker.Username)
	assert.Equal(t, f.now, speaker.LastSeen)

	f.now = f.now.Add(time.Hour)
	require.NoError(t, f.tracker.Touch(1, 42, "harry_p", "member"))

	speaker, _, err = f.tracker.LastSpeaker(1)
	require.NoError(t, err)
	assert.Equal(t, "harry_p", speaker.Username, "touch updates the stored username")
	assert.Equal(t, f.now, speaker.LastSeen)
}

func TestLastSpeakerExcludesDeparted(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.tracker.Touch(1, 42, "harry", "member"))
	require.NoError(t, f.tracker.MarkLeft(1, 42))

	_, ok, err := f.tracker.LastSpeaker(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetHouse(t *testing.T) {
	f := newFixture(t)

	assert.Error(t, f.tracker.SetHouse(1, 42, house.Gryffindor), "unseen users cannot be sorted")

	require.NoError(t, f.tracker.Touch(1, 42, "harry", "member"))
	require.NoError(t, f.tracker.SetHouse(1, 42, house.Gryffindor))

	member, ok, err := f.tracker.Resolve(1, "harry")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, house.Gryffindor, member.House)
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tracker.Touch(1, 42, "Harry", "member"))

	for _, name := range []string{"harry", "@Harry", "HARRY"} {
		member, ok, err := f.tracker.Resolve(1, name)
		require.NoError(t, err)
		assert.True(t, ok, "resolve %q", name)
		assert.Equal(t, int64(42), member.UserID)
	}

	_, ok, err := f.tracker.Resolve(1, "voldemort")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.tracker.Touch(1, 10, "old", "member"))
	f.now = f.now.Add(72 * time.Hour)
	require.NoError(t, f.tracker.Touch(1, 20, "fresh", "member"))
	require.NoError(t, f.tracker.Touch(1, 30, "gone", "member"))
	require.NoError(t, f.tracker.MarkLeft(1, 30))

	t.Run("idle only", func(t *testing.T) {
		members, err := f.tracker.List(1, true)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "old", members[0].Username)
	})

	t.Run("full list sorted by recency", func(t *testing.T) {
		members, err := f.tracker.List(1, false)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "fresh", members[0].Username)
		assert.Equal(t, "old", members[1].Username)
	})
}

func TestSample(t *testing.T) {
	f := newFixture(t)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, f.tracker.Touch(1, i, "user", "member"))
		f.msgr.SetMember(1, i, messenger.Member{Status: messenger.StatusMember})
	}

	t.Run("distinct members", func(t *testing.T) {
		picked, err := f.tracker.Sample(1, 3)
		require.NoError(t, err)
		require.Len(t, picked, 3)
		seen := map[int64]bool{}
		for _, m := range picked {
			assert.False(t, seen[m.UserID])
			seen[m.UserID] = true
		}
	})

	t.Run("platform-departed members are excluded and flagged", func(t *testing.T) {
		f.msgr.SetMember(1, 5, messenger.Member{Status: messenger.StatusLeft})

		picked, err := f.tracker.Sample(1, 5)
		require.NoError(t, err)
		assert.Len(t, picked, 4)

		require.NoError(t, f.store.View(1, func(r *storage.Record) error {
			assert.Equal(t, "left", r.Members[storage.UserKey(5)].Status)
			return nil
		}))
	})

	t.Run("asking for more than available returns what exists", func(t *testing.T) {
		picked, err := f.tracker.Sample(1, 50)
		require.NoError(t, err)
		assert.Len(t, picked, 4)
	})
}
