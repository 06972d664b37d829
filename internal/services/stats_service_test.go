package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/repo"
)

func TestVolume_CachedUntilAWriteInvalidates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.log.SaveSession(ctx, "u1", completedSession("s1", testNow.Add(-3*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if _, err := e.log.SaveSetLogs(ctx, "u1", "s1", []domain.SetLog{{ID: "l1", ExerciseID: "squat", Weight: 100, Reps: 5}}); err != nil {
		t.Fatal(err)
	}

	got, err := e.stats.Volume(ctx, "u1", 7)
	if err != nil || len(got) != 1 || got[0].Date != "2024-03-10" || got[0].Value != 500 {
		t.Fatalf("Volume = %+v, %v", got, err)
	}

	// A write that bypasses the service is not seen while the entry lives.
	if err := repo.Upsert(ctx, e.db, &domain.SetLog{ID: "l2", UserID: "u1", SessionID: "s1", ExerciseID: "squat", Weight: 10, Reps: 10}); err != nil {
		t.Fatal(err)
	}
	got, _ = e.stats.Volume(ctx, "u1", 7)
	if got[0].Value != 500 {
		t.Fatalf("expected cached value 500, got %v", got[0].Value)
	}

	if _, err := e.log.SaveSetLogs(ctx, "u1", "s1", []domain.SetLog{{ID: "l3", ExerciseID: "squat", Weight: 50, Reps: 10}}); err != nil {
		t.Fatal(err)
	}
	got, _ = e.stats.Volume(ctx, "u1", 7)
	if got[0].Value != 1100 {
		t.Fatalf("Volume after write = %v; want 1100", got[0].Value)
	}
}

func TestFrequencyAndStreaks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for i, id := range []string{"s1", "s2", "s3"} {
		start := testNow.Add(-time.Duration(i) * 24 * time.Hour).Add(-2 * time.Hour)
		if _, err := e.log.SaveSession(ctx, "u1", completedSession(id, start)); err != nil {
			t.Fatal(err)
		}
	}
	// A draft still counts locally.
	if _, err := e.log.SaveSession(ctx, "u1", &domain.WorkoutSession{ID: "s4", StartedAt: testNow.Add(-time.Hour)}); err != nil {
		t.Fatal(err)
	}

	freq, err := e.stats.Frequency(ctx, "u1", 7)
	if err != nil || len(freq) != 3 {
		t.Fatalf("Frequency = %+v, %v", freq, err)
	}
	if freq[2].Date != "2024-03-10" || freq[2].Value != 2 {
		t.Fatalf("today = %+v; want 2 sessions", freq[2])
	}

	st, err := e.stats.Streaks(ctx, "u1")
	if err != nil || st.Current != 3 || st.Longest != 3 {
		t.Fatalf("Streaks = %+v, %v", st, err)
	}
	if st, _ := e.stats.Streaks(ctx, "u2"); st.Current != 0 || st.Longest != 0 {
		t.Fatalf("another user's cached streak leaked: %+v", st)
	}
}

func TestPersonalRecord(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.log.SaveSession(ctx, "u1", completedSession("s1", testNow.Add(-3*time.Hour))); err != nil {
		t.Fatal(err)
	}
	sets := []domain.SetLog{
		{ID: "l1", ExerciseID: "bench", Weight: 80, Reps: 8},
		{ID: "l2", ExerciseID: "bench", Weight: 95, Reps: 3, SetIndex: 1},
	}
	if _, err := e.log.SaveSetLogs(ctx, "u1", "s1", sets); err != nil {
		t.Fatal(err)
	}

	pr, err := e.stats.PersonalRecord(ctx, "u1", "bench")
	if err != nil || pr != 95 {
		t.Fatalf("PersonalRecord = %v, %v", pr, err)
	}
	if pr, _ := e.stats.PersonalRecord(ctx, "u1", "deadlift"); pr != 0 {
		t.Fatalf("unknown exercise PR = %v; want 0", pr)
	}
	if _, err := e.stats.PersonalRecord(ctx, "u1", " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v; want ErrInvalidInput", err)
	}

	hist, err := e.stats.History(ctx, "u1", "bench", 10)
	if err != nil || len(hist) != 1 || hist[0].BestWeight != 95 {
		t.Fatalf("History = %+v, %v", hist, err)
	}
}

func TestStatsWindow(t *testing.T) {
	s := &StatsService{MaxDays: 30}
	cases := []struct {
		in, want int
		err      error
	}{
		{0, 7, nil},
		{14, 14, nil},
		{90, 30, nil},
		{-1, 0, ErrInvalidInput},
	}
	for _, tc := range cases {
		got, err := s.window("u1", tc.in)
		if got != tc.want || !errors.Is(err, tc.err) {
			t.Errorf("window(%d) = %d, %v; want %d, %v", tc.in, got, err, tc.want, tc.err)
		}
	}
	if _, err := s.window("", 7); !errors.Is(err, ErrNoUser) {
		t.Errorf("missing user err = %v", err)
	}
}
