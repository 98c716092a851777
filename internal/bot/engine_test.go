package bot

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marvin/internal/activity"
	"marvin/internal/config"
	"marvin/internal/events"
	"marvin/internal/house"
	"marvin/internal/ledger"
	"marvin/internal/messenger"
	"marvin/internal/modifier"
	"marvin/internal/retention"
	"marvin/internal/rules"
	"marvin/internal/sass"
	"marvin/internal/storage"
	"marvin/internal/term"
	"marvin/internal/trigger"
)

type fixture struct {
	engine *Engine
	store  *storage.Storage
	msgr   *messenger.Recorder
	ledg   *ledger.Ledger
	now    time.Time
}

// newFixture wires a full engine against the in-memory messenger. Event
// and sass frequencies are set high enough that nothing fires unless a
// test drives the counters on purpose.
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
	clock := func() time.Time { return f.now }
	rng := rand.New(rand.NewSource(1))

	cfg := &config.Config{
		TermLengthDays:         90,
		SassFrequency:          1000000,
		StandardEventFrequency: 1000000,
		EpicEventFrequency:     1000000,
	}

	f.ledg = ledger.New(store)
	mods := modifier.New(store).WithClock(clock)
	tracker := activity.New(store, f.msgr, rng).WithClock(clock)
	queue := retention.New(store, f.msgr).WithClock(clock)

	f.engine = &Engine{
		Cfg:       cfg,
		Store:     store,
		Msgr:      f.msgr,
		Ledger:    f.ledg,
		Rules:     rules.New(store, f.ledg, mods),
		Terms:     term.NewManager(store, f.msgr, cfg.TermLengthDays).WithClock(clock),
		Events:    events.New(store, f.msgr, f.ledg, mods, tracker, queue, rng).WithClock(clock),
		Retention: queue,
		Activity:  tracker,
		Triggers:  trigger.New(store),
		Sass:      sass.Load("", "", rng),
	}
	return f
}

func (f *fixture) message(userID int64, name, text string) Inbound {
	return Inbound{ChatID: 1, MessageID: 100, UserID: userID, Username: name, Status: "member", Text: text}
}

func (f *fixture) reaction(fromID int64, fromName, mark string, toID int64, toName string) Inbound {
	in := f.message(fromID, fromName, mark)
	in.Reply = &Reply{MessageID: 50, UserID: toID, Username: toName, Text: "original"}
	return in
}

func (f *fixture) currentTermID(t *testing.T) string {
	t.Helper()
	cur, err := f.engine.Terms.EnsureCurrentTerm(1)
	require.NoError(t, err)
	return cur.TermID
}

func TestReactionSign(t *testing.T) {
	for _, mark := range []string{"+", "❤️", "😍", "👍"} {
		assert.Equal(t, 1, ReactionSign(mark), "mark %q", mark)
	}
	for _, mark := range []string{"-", "😡", "👎"} {
		assert.Equal(t, -1, ReactionSign(mark), "mark %q", mark)
	}
	for _, text := range []string{"", "hello", "++", "+1", " +"} {
		assert.Zero(t, ReactionSign(text), "text %q", text)
	}
}

func TestHandleMessageTracksActivity(t *testing.T) {
	f := newFixture(t)

	f.engine.HandleMessage(f.message(42, "harry", "hello everyone"))

	speaker, ok, err := f.engine.Activity.LastSpeaker(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "harry", speaker.Username)
}

func TestPeerReactionAwardsPoint(t *testing.T) {
	f := newFixture(t)
	termID := f.currentTermID(t)

	f.engine.HandleMessage(f.reaction(10, "harry", "+", 20, "ron"))

	points, err := f.ledg.CurrentPoints(1, termID, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, points)

	texts := f.msgr.Texts(1)
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[len(texts)-1], "awarded")
	assert.Contains(t, texts[len(texts)-1], "total for this Term is: 1")
}

func TestPeerReactionDeductsPoint(t *testing.T) {
	f := newFixture(t)
	termID := f.currentTermID(t)

	f.engine.HandleMessage(f.reaction(10, "harry", "👎", 20, "ron"))

	points, err := f.ledg.CurrentPoints(1, termID, 20)
	require.NoError(t, err)
	assert.Equal(t, -1, points)
}

func TestReactionToBotIgnored(t *testing.T) {
	f := newFixture(t)
	termID := f.currentTermID(t)

	in := f.reaction(10, "harry", "+", 777, "marvin")
	in.Reply.IsBot = true
	f.engine.HandleMessage(in)

	points, err := f.ledg.CurrentPoints(1, termID, 777)
	require.NoError(t, err)
	assert.Zero(t, points)
}

func TestBlockedReactionAnnounced(t *testing.T) {
	f := newFixture(t)
	f.currentTermID(t)

	require.NoError(t, f.store.Update(1, func(r *storage.Record) error {
		r.Members[storage.UserKey(20)] = storage.Member{
			UserID: 20, Username: "draco", Status: "member", House: house.Slytherin,
		}
		r.Modifiers = append(r.Modifiers, storage.Modifier{
			Kind: "block", House: house.Slytherin, ExpiresAt: f.now.Add(time.Hour),
		})
		return nil
	}))

	f.engine.HandleMessage(f.reaction(10, "harry", "+", 20, "draco"))

	texts := f.msgr.Texts(1)
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[len(texts)-1], "barred from receiving points")
}

func TestTriggerAnswered(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Triggers.Save(1, "marco", "polo", trigger.KindText, "")
	require.NoError(t, err)

	f.engine.HandleMessage(f.message(10, "harry", "marco"))
	assert.Contains(t, f.msgr.Texts(1), "polo")
}

func TestMediaTriggerCapture(t *testing.T) {
	f := newFixture(t)
	f.currentTermID(t)

	prompt := "/add dance -> MEDIA\nReply to this message with the GIF, photo or sticker."
	promptID, err := f.msgr.SendText(1, prompt)
	require.NoError(t, err)
	require.NoError(t, f.engine.Retention.Record(1, promptID, retention.LongTTL, KindMediaTrigger))

	f.engine.HandleMedia(MediaInbound{
		ChatID: 1,
		UserID: 10,
		Kind:   trigger.KindGIF,
		FileID: "file-123",
		Reply:  &Reply{MessageID: promptID, UserID: 777, IsBot: true, Text: prompt},
	})

	trig, found, err := f.engine.Triggers.Lookup(1, "dance")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, trigger.KindGIF, trig.Kind)
	assert.Equal(t, "file-123", trig.MediaID)

	require.NoError(t, f.store.View(1, func(r *storage.Record) error {
		require.NotEmpty(t, r.ServiceMessages)
		sm := r.ServiceMessages[len(r.ServiceMessages)-1]
		assert.Equal(t, "Standard", sm.Kind, "the confirmation is queued for cleanup")
		assert.Equal(t, int(retention.ShortTTL/time.Second), sm.TTLSeconds)
		return nil
	}))
}

func TestMediaWithoutPromptIgnored(t *testing.T) {
	f := newFixture(t)

	f.engine.HandleMedia(MediaInbound{
		ChatID: 1,
		UserID: 10,
		Kind:   trigger.KindGIF,
		FileID: "file-123",
		Reply:  &Reply{MessageID: 12345, UserID: 777, IsBot: true, Text: "/add dance -> MEDIA"},
	})

	_, found, err := f.engine.Triggers.Lookup(1, "dance")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSassFiresOnFrequency(t *testing.T) {
	f := newFixture(t)
	f.engine.Cfg.SassFrequency = 2

	sassPath := filepath.Join(t.TempDir(), "sass.json")
	require.NoError(t, os.WriteFile(sassPath, []byte(`["Life. Don't talk to me about life."]`), 0o644))
	f.engine.Sass = sass.Load(sassPath, "", rand.New(rand.NewSource(1)))

	f.engine.HandleMessage(f.message(10, "harry", "one"))
	f.engine.HandleMessage(f.message(10, "harry", "two"))
	f.engine.HandleMessage(f.message(10, "harry", "three"))

	assert.Contains(t, f.msgr.Texts(1), "Life. Don't talk to me about life.")
}

func TestReactionAnnouncementSweptLater(t *testing.T) {
	f := newFixture(t)
	f.currentTermID(t)

	f.engine.HandleMessage(f.reaction(10, "harry", "+", 20, "ron"))

	before := len(f.msgr.Texts(1))
	require.Positive(t, before)

	f.now = f.now.Add(retention.StandardTTL + time.Second)
	f.engine.HandleMessage(f.message(10, "harry", "just chatting"))

	assert.Len(t, f.msgr.Texts(1), before-1, "the reaction announcement is deleted on the next sweep")
}

// TestSeasonScenario walks one full competitive arc: peer reactions,
// an epic ledger wipe, a bulk award, and finally the term rollover.
func TestSeasonScenario(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.Update(1, func(r *storage.Record) error {
		r.Members[storage.UserKey(1)] = storage.Member{UserID: 1, Username: "harry", Status: "member", House: house.Gryffindor}
		r.Members[storage.UserKey(2)] = storage.Member{UserID: 2, Username: "cedric", Status: "member", House: house.Hufflepuff}
		return nil
	}))
	f.msgr.SetMember(1, 1, messenger.Member{Status: messenger.StatusMember})
	f.msgr.SetMember(1, 2, messenger.Member{Status: messenger.StatusMember})

	first := f.currentTermID(t)

	// harry collects three peer points.
	for i := 0; i < 3; i++ {
		f.engine.HandleMessage(f.reaction(2, "cedric", "+", 1, "harry"))
	}
	points, err := f.ledg.CurrentPoints(1, first, 1)
	require.NoError(t, err)
	require.Equal(t, 3, points)

	// An epic event wipes the leader.
	prior, err := f.ledg.ResetUser(1, first, 1)
	require.NoError(t, err)
	require.Equal(t, 3, prior)

	// An admin hands cedric a bulk award.
	_, err = f.ledg.Apply(1, first, 2, 10)
	require.NoError(t, err)

	// Time passes; the next message rolls the term over.
	f.now = f.now.Add(91 * 24 * time.Hour)
	f.engine.HandleMessage(f.message(1, "harry", "anyone here?"))

	winner, err := f.engine.Terms.LastWinner(1)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, house.Hufflepuff, winner.House)
	assert.Equal(t, 10, winner.HousePoints)
	assert.Equal(t, "cedric", winner.ChampionName)

	second := f.currentTermID(t)
	assert.NotEqual(t, first, second)

	points, err = f.ledg.CurrentPoints(1, second, 2)
	require.NoError(t, err)
	assert.Zero(t, points, "the new term starts clean")
}
