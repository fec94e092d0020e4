package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"kv", "answer_events", "game_sessions", "llm_request_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrationCreatesIndexes(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, index := range []string{
		"answer_events_session_id",
		"game_sessions_mode",
		"llm_request_events_purpose",
		"llm_request_events_timestamp",
	} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?", index,
		).Scan(&name)
		if err != nil {
			t.Errorf("index %s: %v", index, err)
		}
	}
}

func TestGameSessionIDIsUnique(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	data := GameSessionData{SessionID: "dup", Mode: "quiz", Score: 100}
	if err := repo.AppendGameSession(ctx, data); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := repo.AppendGameSession(ctx, data); err == nil {
		t.Error("expected a duplicate session id to be rejected")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, ok, err := s.KV().Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != "v" {
		t.Errorf("value = %q, want %q", got, "v")
	}
}

func TestKVRoundTrip(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "misparia_api_key")
	if err != nil {
		t.Fatalf("get (empty): %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}

	if err := kv.Put(ctx, "misparia_api_key", []byte("first")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "misparia_api_key", []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := kv.Get(ctx, "misparia_api_key")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != "second" {
		t.Errorf("value = %q, want %q", got, "second")
	}

	if err := kv.Delete(ctx, "misparia_api_key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "misparia_api_key"); ok {
		t.Error("key still present after delete")
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq <= prev {
			t.Errorf("seq[%d] = %d, not greater than %d", i, seq, prev)
		}
		prev = seq
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "problem-gen", InputTokens: 100, OutputTokens: 40, LatencyMs: 300, Success: true, RequestBody: "{}", ResponseBody: `{"question":"2 + 2"}`},
		{Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "problem-gen", InputTokens: 200, OutputTokens: 60, LatencyMs: 500, Success: true},
		{Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "tutor", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
	}
	for i, ev := range events {
		if err := repo.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Purpose != "tutor" {
		t.Errorf("newest purpose = %q, want tutor", all[0].Purpose)
	}
	if all[0].Success {
		t.Error("failed call stored as success")
	}

	tutor, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "tutor"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(tutor) != 1 || tutor[0].ErrorMessage != "rate limited" {
		t.Errorf("tutor events = %+v", tutor)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited = %d events, want 2", len(limited))
	}

	first := all[len(all)-1]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ResponseBody != `{"question":"2 + 2"}` {
		t.Errorf("get returned %+v", got)
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Errorf("timestamp %v not recent", got.Timestamp)
	}

	if _, err := repo.GetLLMEvent(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("usage rows = %d, want 2", len(byPurpose))
	}
	if byPurpose[0].Key != "problem-gen" || byPurpose[0].Calls != 2 {
		t.Errorf("top usage = %+v", byPurpose[0])
	}
	if byPurpose[0].InputTokens != 300 || byPurpose[0].OutputTokens != 100 {
		t.Errorf("token totals = %d/%d, want 300/100", byPurpose[0].InputTokens, byPurpose[0].OutputTokens)
	}
	if byPurpose[0].AvgLatencyMs != 400 {
		t.Errorf("avg latency = %d, want 400", byPurpose[0].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Calls != 3 {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestGameHistory(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendAnswer(ctx, AnswerEventData{
		SessionID: "s1", Mode: "quiz", Topic: "addition", Correct: true, XP: 20, Coins: 10,
	}); err != nil {
		t.Fatalf("append answer: %v", err)
	}

	sessions := []GameSessionData{
		{SessionID: "s1", Mode: "quiz", Score: 300, Answers: 4, Correct: 3, Duration: 90 * time.Second},
		{SessionID: "s2", Mode: "speed", Score: 700, Answers: 9, Correct: 7, Duration: time.Minute},
		{SessionID: "s3", Mode: "quiz", Score: 500, Answers: 5, Correct: 5, Duration: 2 * time.Minute},
	}
	for _, gs := range sessions {
		if err := repo.AppendGameSession(ctx, gs); err != nil {
			t.Fatalf("append session %s: %v", gs.SessionID, err)
		}
	}

	quiz, err := repo.QueryGameSessions(ctx, QueryOpts{Mode: "quiz"})
	if err != nil {
		t.Fatalf("query sessions: %v", err)
	}
	if len(quiz) != 2 {
		t.Fatalf("quiz sessions = %d, want 2", len(quiz))
	}
	if quiz[0].SessionID != "s3" {
		t.Errorf("newest quiz session = %q, want s3", quiz[0].SessionID)
	}
	if quiz[0].Duration != 2*time.Minute {
		t.Errorf("duration = %v, want 2m", quiz[0].Duration)
	}

	best, err := repo.BestScore(ctx, "quiz")
	if err != nil {
		t.Fatalf("best score: %v", err)
	}
	if best != 500 {
		t.Errorf("best quiz score = %d, want 500", best)
	}

	none, err := repo.BestScore(ctx, "tower")
	if err != nil {
		t.Fatalf("best score (unplayed): %v", err)
	}
	if none != 0 {
		t.Errorf("best tower score = %d, want 0", none)
	}

	if err := repo.PurgeGameHistory(ctx); err != nil {
		t.Fatalf("purge: %v", err)
	}
	left, err := repo.QueryGameSessions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query after purge: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("sessions after purge = %d, want 0", len(left))
	}
	var answers int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM answer_events").Scan(&answers); err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if answers != 0 {
		t.Errorf("answers after purge = %d, want 0", answers)
	}
}
