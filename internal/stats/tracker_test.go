package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/misparia/internal/problemgen"
)

type memKV struct {
	data    map[string][]byte
	failGet bool
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.failGet {
		return nil, false, errors.New("disk on fire")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

// gatedKV holds its first Put until release is closed.
type gatedKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	puts    int
	entered chan struct{}
	release chan struct{}
}

func (g *gatedKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (g *gatedKV) Put(_ context.Context, key string, value []byte) error {
	g.mu.Lock()
	g.puts++
	first := g.puts == 1
	g.mu.Unlock()
	if first {
		close(g.entered)
		<-g.release
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data[key] = value
	return nil
}

type memJournal struct {
	answers []Answer
}

func (j *memJournal) AppendAnswer(_ context.Context, a Answer) error {
	j.answers = append(j.answers, a)
	return nil
}

func TestTracker_StartsFreshWhenAbsent(t *testing.T) {
	tr := NewTracker(context.Background(), newMemKV(), nil, nil)
	assert.Equal(t, Initial(), tr.Stats())
}

func TestTracker_StartsFreshOnCorruptData(t *testing.T) {
	kv := newMemKV()
	kv.data[StorageKey] = []byte("{not json")
	tr := NewTracker(context.Background(), kv, nil, nil)
	assert.Equal(t, Initial(), tr.Stats())
}

func TestTracker_StartsFreshOnReadError(t *testing.T) {
	kv := newMemKV()
	kv.failGet = true
	tr := NewTracker(context.Background(), kv, nil, nil)
	assert.Equal(t, Initial(), tr.Stats())
}

func TestTracker_RecordPersistsAndJournals(t *testing.T) {
	kv := newMemKV()
	j := &memJournal{}
	tr := NewTracker(context.Background(), kv, j, nil)

	tr.Record(Answer{SessionID: "s1", Mode: "quiz", Topic: problemgen.TopicAddition, Correct: true, XP: 20, Coins: 10})

	require.Contains(t, kv.data, StorageKey)
	saved, err := Decode(kv.data[StorageKey])
	require.NoError(t, err)
	assert.Equal(t, 20, saved.XP)
	assert.Equal(t, TopicStats{Correct: 1, Total: 1}, saved.Topics.Addition)
	require.Len(t, j.answers, 1)
	assert.Equal(t, "s1", j.answers[0].SessionID)

	reloaded := NewTracker(context.Background(), kv, nil, nil)
	assert.Equal(t, tr.Stats(), reloaded.Stats())
}

func TestTracker_Reset(t *testing.T) {
	kv := newMemKV()
	tr := NewTracker(context.Background(), kv, nil, nil)
	tr.Record(Answer{Topic: problemgen.TopicDivision, Correct: true, XP: 20, Coins: 10})

	require.NoError(t, tr.Reset(context.Background()))
	assert.Equal(t, Initial(), tr.Stats())

	saved, err := Decode(kv.data[StorageKey])
	require.NoError(t, err)
	assert.Equal(t, Initial(), saved)
}

func TestTracker_MarkAnalyzed(t *testing.T) {
	kv := newMemKV()
	tr := NewTracker(context.Background(), kv, nil, nil)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, tr.MarkAnalyzed(context.Background(), at))
	require.NotNil(t, tr.Stats().LastAnalysis)
	assert.True(t, tr.Stats().LastAnalysis.Equal(at))
}

func TestTracker_SavesLandInOrder(t *testing.T) {
	kv := &gatedKV{
		data:    map[string][]byte{},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	tr := NewTracker(context.Background(), kv, nil, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tr.Record(Answer{Topic: problemgen.TopicAddition, Correct: true, XP: 20, Coins: 10})
	}()
	<-kv.entered

	go func() {
		defer wg.Done()
		assert.NoError(t, tr.MarkAnalyzed(context.Background(), time.Now()))
	}()
	time.Sleep(20 * time.Millisecond)
	close(kv.release)
	wg.Wait()

	stored, err := Decode(kv.data[StorageKey])
	require.NoError(t, err)
	assert.Equal(t, 1, stored.GamesPlayed, "the answer must survive the later save")
	assert.NotNil(t, stored.LastAnalysis, "the analysis stamp must not be overwritten by the earlier save")
	assert.Equal(t, tr.Stats().GamesPlayed, stored.GamesPlayed)
}
