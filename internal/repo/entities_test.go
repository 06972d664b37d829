package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestUpsert_SameIDTwiceKeepsLatest(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()

	s := &domain.WorkoutSession{ID: "s1", UserID: "u1", Name: "Legs", StartedAt: time.Now().UTC()}
	if err := Upsert(ctx, db, s); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	s2 := &domain.WorkoutSession{ID: "s1", UserID: "u1", Name: "Leg day", StartedAt: s.StartedAt, DurationSec: 3600}
	if err := Upsert(ctx, db, s2); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var n int64
	db.Model(&domain.WorkoutSession{}).Where("id = ?", "s1").Count(&n)
	if n != 1 {
		t.Fatalf("rows with id s1 = %d; want 1", n)
	}
	got, err := Get[domain.WorkoutSession](ctx, db, "s1", "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Leg day" || got.DurationSec != 3600 {
		t.Fatalf("row does not reflect the latest write: %+v", got)
	}
}

func TestUpsert_RequiresIDs(t *testing.T) {
	_, db := newTestStore(t)
	if err := Upsert(context.Background(), db, &domain.Gym{UserID: "u1"}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("err = %v; want ErrMissingID", err)
	}
	if err := Upsert(context.Background(), db, &domain.Gym{ID: "g1"}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("err = %v; want ErrMissingID", err)
	}
}

func TestGet_NotFoundAndOwnership(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	if err := Upsert(ctx, db, &domain.Measurement{ID: "m1", UserID: "u1", Metric: "weight", Value: 80, MeasuredAt: time.Now()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := Get[domain.Measurement](ctx, db, "nope", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id err = %v; want ErrNotFound", err)
	}
	if _, err := Get[domain.Measurement](ctx, db, "m1", "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign owner err = %v; want ErrNotFound", err)
	}
	owner, found, err := Owner[domain.Measurement](ctx, db, "m1")
	if err != nil || !found || owner != "u1" {
		t.Fatalf("Owner = (%q, %v, %v)", owner, found, err)
	}
	if _, found, _ := Owner[domain.Measurement](ctx, db, "nope"); found {
		t.Fatalf("Owner reported a missing row as found")
	}
}

func TestGetAndList_MalformedStructuredColumn(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		tpl := &domain.Template{ID: id, UserID: "u1", Name: "T-" + id,
			Exercises: domain.NewJSON([]domain.TemplateExercise{{ExerciseID: "squat", Sets: 5, Reps: 5}})}
		if err := Upsert(ctx, db, tpl); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}
	if err := db.Exec(`UPDATE templates SET exercises = ? WHERE id = ?`, "[{broken", "b").Error; err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, err := Get[domain.Template](ctx, db, "b", "u1")
	var de *DeserializationError
	if !errors.As(err, &de) {
		t.Fatalf("Get err = %v; want *DeserializationError", err)
	}
	if de.Table != domain.KindTemplate || de.ID != "b" || de.Field != "exercises" {
		t.Fatalf("unexpected error detail: %+v", de)
	}

	rows, err := ListTemplates(ctx, db, "u1")
	if len(rows) != 2 || rows[0].ID != "a" || rows[1].ID != "c" {
		t.Fatalf("expected the two decodable rows, got %+v", rows)
	}
	if !IsDeserialization(err) {
		t.Fatalf("List err = %v; want a joined DeserializationError", err)
	}
	if got, _ := Get[domain.Template](ctx, db, "a", "u1"); got == nil || len(got.Exercises.Val) != 1 {
		t.Fatalf("healthy row should decode, got %+v", got)
	}
}

func TestDelete_ReturnsNotFound(t *testing.T) {
	_, db := newTestStore(t)
	if err := Delete[domain.Goal](context.Background(), db, "g1", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestDeleteProgram_Cascades(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(Upsert(ctx, db, &domain.Program{ID: "p1", UserID: "u1", Name: "Base", Weeks: 4}))
	must(Upsert(ctx, db, &domain.Program{ID: "p2", UserID: "u1", Name: "Fork", Weeks: 4, ParentID: ptr("p1")}))
	must(Upsert(ctx, db, &domain.ProgramExercise{ID: "e1", UserID: "u1", ProgramID: "p1", ExerciseID: "squat",
		RepScheme: domain.NewJSON([]int{5, 5, 5})}))
	must(Upsert(ctx, db, &domain.ProgramExercise{ID: "e2", UserID: "u1", ProgramID: "p1", ExerciseID: "bench"}))
	must(Upsert(ctx, db, &domain.ProgramProgress{ID: "pr1", UserID: "u1", ProgramID: "p1", Week: 1, Day: 1, CompletedAt: time.Now()}))
	must(Upsert(ctx, db, &domain.ProgramExercise{ID: "e3", UserID: "u1", ProgramID: "p2", ExerciseID: "row"}))

	removed, err := DeleteProgram(ctx, db, "p1", "u1")
	if err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}
	if len(removed) != 2 ||
		removed[0].Kind != domain.KindProgramExercise || len(removed[0].IDs) != 2 ||
		removed[1].Kind != domain.KindProgramProgress || len(removed[1].IDs) != 1 {
		t.Fatalf("unexpected cascades: %+v", removed)
	}

	if _, err := Get[domain.Program](ctx, db, "p1", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("p1 should be gone, err=%v", err)
	}
	if ex, _ := ListProgramExercises(ctx, db, "u1", "p1"); len(ex) != 0 {
		t.Fatalf("p1 exercises should be gone, got %d", len(ex))
	}
	if pr, _ := ListProgramProgress(ctx, db, "u1", "p1"); len(pr) != 0 {
		t.Fatalf("p1 progress should be gone, got %d", len(pr))
	}
	child, err := Get[domain.Program](ctx, db, "p2", "u1")
	if err != nil {
		t.Fatalf("child program must survive: %v", err)
	}
	if child.ParentID != nil {
		t.Fatalf("child parent_id = %v; want nil", *child.ParentID)
	}
	if ex, _ := ListProgramExercises(ctx, db, "u1", "p2"); len(ex) != 1 {
		t.Fatalf("child exercises must be untouched, got %d", len(ex))
	}
}

func TestDeleteProgram_MissingRollsBack(t *testing.T) {
	_, db := newTestStore(t)
	if _, err := DeleteProgram(context.Background(), db, "ghost", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestDeleteGym_RemovesEquipment(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	if err := Upsert(ctx, db, &domain.Gym{ID: "g1", UserID: "u1", Name: "Garage"}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"q1", "q2"} {
		if err := Upsert(ctx, db, &domain.GymEquipment{ID: id, UserID: "u1", GymID: "g1", Name: "Rack " + id, Quantity: 1}); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := DeleteGym(ctx, db, "g1", "u1")
	if err != nil {
		t.Fatalf("DeleteGym: %v", err)
	}
	if len(removed) != 1 || len(removed[0].IDs) != 2 {
		t.Fatalf("unexpected cascades: %+v", removed)
	}
	if eq, _ := ListGymEquipment(ctx, db, "u1", "g1"); len(eq) != 0 {
		t.Fatalf("equipment should be gone, got %d", len(eq))
	}
}

func TestDeleteSession_RemovesSets(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	if err := Upsert(ctx, db, &domain.WorkoutSession{ID: "s1", UserID: "u1", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := Upsert(ctx, db, &domain.SetLog{ID: "l1", UserID: "u1", SessionID: "s1", ExerciseID: "squat", Weight: 100, Reps: 5}); err != nil {
		t.Fatal(err)
	}
	removed, err := DeleteSession(ctx, db, "s1", "u1")
	if err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if len(removed) != 1 || removed[0].Kind != domain.KindSetLog || removed[0].IDs[0] != "l1" {
		t.Fatalf("unexpected cascades: %+v", removed)
	}
	if sets, _ := ListSetLogs(ctx, db, "u1", "s1"); len(sets) != 0 {
		t.Fatalf("sets should be gone, got %d", len(sets))
	}
}

func TestListSessions_Since(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		s := &domain.WorkoutSession{ID: id, UserID: "u1", StartedAt: base.AddDate(0, 0, i*5)}
		if err := Upsert(ctx, db, s); err != nil {
			t.Fatal(err)
		}
	}
	all, err := ListSessions(ctx, db, "u1", time.Time{})
	if err != nil || len(all) != 3 || all[0].ID != "new" {
		t.Fatalf("ListSessions all = %+v, %v", all, err)
	}
	recent, err := ListSessions(ctx, db, "u1", base.AddDate(0, 0, 5))
	if err != nil || len(recent) != 2 {
		t.Fatalf("ListSessions since = %+v, %v", recent, err)
	}
}

func TestPreferences_AndUIState(t *testing.T) {
	_, db := newTestStore(t)
	ctx := context.Background()

	if _, err := GetPreferences(ctx, db, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("prefs err = %v; want ErrNotFound", err)
	}
	p := &domain.UserPreference{ID: "pref-u1", UserID: "u1", Units: "lb", WeekStartsOn: 0, RestTimerSec: 120,
		Settings: domain.NewJSON(map[string]any{"theme": "dark"})}
	if err := Upsert(ctx, db, p); err != nil {
		t.Fatalf("upsert prefs: %v", err)
	}
	got, err := GetPreferences(ctx, db, "u1")
	if err != nil || got.Units != "lb" || got.Settings.Val["theme"] != "dark" {
		t.Fatalf("GetPreferences = %+v, %v", got, err)
	}

	if err := PutUIState(ctx, db, "u1", "last_tab", "stats"); err != nil {
		t.Fatalf("PutUIState: %v", err)
	}
	if err := PutUIState(ctx, db, "u1", "last_tab", "log"); err != nil {
		t.Fatalf("PutUIState overwrite: %v", err)
	}
	if err := PutUIState(ctx, db, "u2", "last_tab", "stats"); err != nil {
		t.Fatalf("PutUIState u2: %v", err)
	}
	if v, err := GetUIState(ctx, db, "u1", "last_tab"); err != nil || v != "log" {
		t.Fatalf("GetUIState = %q, %v", v, err)
	}
	n, err := ClearUIState(ctx, db, "u1")
	if err != nil || n != 1 {
		t.Fatalf("ClearUIState = %d, %v", n, err)
	}
	if _, err := GetUIState(ctx, db, "u1", "last_tab"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("u1 state should be gone, err=%v", err)
	}
	if v, _ := GetUIState(ctx, db, "u2", "last_tab"); v != "stats" {
		t.Fatalf("u2 state must survive, got %q", v)
	}
}
