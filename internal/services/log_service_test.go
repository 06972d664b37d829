package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/cache"
	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/outbox"
	"github.com/tbourn/go-fitness-sync/internal/repo"
)

var testNow = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

type env struct {
	store *repo.Store
	db    *gorm.DB
	ob    *outbox.Outbox
	cache *cache.Cache
	log   *LogService
	stats *StatsService
	query *QueryService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := repo.NewStore(repo.Options{Dir: t.TempDir(), Location: time.UTC})
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	db, _ := st.DB()

	clock := func() time.Time { return testNow }
	c := cache.New(time.Minute, cache.WithClock(clock), cache.WithName(t.Name()))
	ob := outbox.New(st, outbox.WithClock(clock))

	ls := NewLogService(st, ob, c)
	ls.Now = clock
	ss := NewStatsService(st, c)
	ss.Now = clock
	return &env{store: st, db: db, ob: ob, cache: c, log: ls, stats: ss, query: NewQueryService(st, c)}
}

func (e *env) queue(t *testing.T) []domain.SyncQueueItem {
	t.Helper()
	items, err := e.ob.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	return items
}

func ptr[T any](v T) *T { return &v }

func completedSession(id string, started time.Time) *domain.WorkoutSession {
	return &domain.WorkoutSession{
		ID:        id,
		Name:      "Push day",
		StartedAt: started,
		Completed: ptr(started.Add(time.Hour)),
	}
}

func TestSaveSession_DraftIsDroppedThenCompletionIsQueued(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	draft := &domain.WorkoutSession{ID: "s1", Name: "  Leg   day ", StartedAt: testNow.Add(-time.Hour)}
	res, err := e.log.SaveSession(ctx, "u1", draft)
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if res.Operation != domain.OpCreate || res.Queued != 0 || res.Dropped != 1 {
		t.Fatalf("draft result = %+v", res)
	}
	if len(e.queue(t)) != 0 {
		t.Fatalf("draft sessions must not be queued")
	}
	stored, err := repo.Get[domain.WorkoutSession](ctx, e.db, "s1", "u1")
	if err != nil || stored.Name != "Leg day" {
		t.Fatalf("draft must be stored locally: %+v, %v", stored, err)
	}

	draft.Completed = ptr(testNow)
	res, err = e.log.SaveSession(ctx, "u1", draft)
	if err != nil || res.Operation != domain.OpUpdate || res.Queued != 1 {
		t.Fatalf("completion result = %+v, %v", res, err)
	}
	items := e.queue(t)
	if len(items) != 1 || items[0].Operation != domain.OpUpdate || items[0].Table != domain.KindSession {
		t.Fatalf("queue = %+v", items)
	}
	if items[0].PayloadField("user_id") != "u1" || items[0].PayloadField("completed") == "" {
		t.Fatalf("payload = %s", items[0].Payload)
	}
}

func TestSaveSession_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.log.SaveSession(ctx, "", completedSession("s1", testNow)); !errors.Is(err, ErrNoUser) {
		t.Fatalf("err = %v; want ErrNoUser", err)
	}
	if _, err := e.log.SaveSession(ctx, "u1", completedSession("", testNow)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v; want ErrInvalidInput for missing id", err)
	}
	bad := completedSession("s1", testNow)
	bad.Completed = ptr(testNow.Add(-time.Hour))
	if _, err := e.log.SaveSession(ctx, "u1", bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v; want ErrInvalidInput for completed before started", err)
	}
	other := completedSession("s1", testNow)
	other.UserID = "u2"
	if _, err := e.log.SaveSession(ctx, "u1", other); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v; want ErrForbidden for a foreign user_id", err)
	}
}

func TestSave_ForeignIDIsForbidden(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.log.SaveGym(ctx, "u1", &domain.Gym{ID: "g1", Name: "Home"}, nil); err != nil {
		t.Fatalf("SaveGym: %v", err)
	}
	_, err := e.log.SaveGym(ctx, "u2", &domain.Gym{ID: "g1", Name: "Stolen"}, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v; want ErrForbidden", err)
	}
	g, err := repo.Get[domain.Gym](ctx, e.db, "g1", "u1")
	if err != nil || g.Name != "Home" {
		t.Fatalf("original row changed: %+v, %v", g, err)
	}
	if n := len(e.queue(t)); n != 1 {
		t.Fatalf("queue length = %d; want 1", n)
	}
}

func TestSaveSetLogs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sets := []domain.SetLog{{ID: "l1", ExerciseID: "bench", ExerciseName: "  bench   press ", Weight: 100, Reps: 5}}
	if _, err := e.log.SaveSetLogs(ctx, "u1", "missing", sets); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound for an unknown session", err)
	}

	if _, err := e.log.SaveSession(ctx, "u1", completedSession("s1", testNow.Add(-2*time.Hour))); err != nil {
		t.Fatal(err)
	}
	sets = append(sets, domain.SetLog{ID: "l2", ExerciseID: "bench", ExerciseName: "bench press", Weight: 100, Reps: 4, SetIndex: 1})
	res, err := e.log.SaveSetLogs(ctx, "u1", "s1", sets)
	if err != nil || res.Queued != 2 {
		t.Fatalf("SaveSetLogs = %+v, %v", res, err)
	}
	stored, err := repo.ListSetLogs(ctx, e.db, "u1", "s1")
	if err != nil || len(stored) != 2 {
		t.Fatalf("ListSetLogs = %v, %v", stored, err)
	}
	if stored[0].ExerciseName != "Bench Press" || stored[0].SessionID != "s1" {
		t.Fatalf("set not normalized: %+v", stored[0])
	}

	if _, err := e.log.SaveSetLogs(ctx, "u1", "s1", []domain.SetLog{{ID: "l3", Weight: -1}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v; want ErrInvalidInput", err)
	}
}

func TestDeleteSession_QueuesChildrenFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.log.SaveSession(ctx, "u1", completedSession("s1", testNow)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.log.SaveSetLogs(ctx, "u1", "s1", []domain.SetLog{{ID: "l1", ExerciseID: "x", Reps: 1}}); err != nil {
		t.Fatal(err)
	}
	res, err := e.log.DeleteSession(ctx, "u1", "s1")
	if err != nil || res.Operation != domain.OpDelete || res.Queued != 2 {
		t.Fatalf("DeleteSession = %+v, %v", res, err)
	}
	items := e.queue(t)
	tail := items[len(items)-2:]
	if tail[0].Table != domain.KindSetLog || tail[0].PayloadField("id") != "l1" ||
		tail[1].Table != domain.KindSession || tail[1].PayloadField("id") != "s1" {
		t.Fatalf("delete order = %+v", tail)
	}

	if _, err := e.log.DeleteSession(ctx, "u1", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v; want ErrNotFound", err)
	}
}

func TestDeleteProgram_CascadesAndDetachesChildren(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	exs := []domain.ProgramExercise{
		{ID: "e1", ExerciseID: "squat", Name: "squat"},
		{ID: "e2", ExerciseID: "bench", Name: "bench"},
	}
	if _, err := e.log.SaveProgram(ctx, "u1", &domain.Program{ID: "p1", Name: "5x5"}, exs); err != nil {
		t.Fatalf("SaveProgram: %v", err)
	}
	if _, err := e.log.SaveProgramProgress(ctx, "u1", &domain.ProgramProgress{ID: "pp1", ProgramID: "p1", Week: 1}); err != nil {
		t.Fatalf("SaveProgramProgress: %v", err)
	}
	if _, err := e.log.SaveProgram(ctx, "u1", &domain.Program{ID: "p2", Name: "5x5 deload", ParentID: ptr("p1")}, nil); err != nil {
		t.Fatalf("SaveProgram child: %v", err)
	}
	before := len(e.queue(t))

	res, err := e.log.DeleteProgram(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}
	if res.Queued != 5 {
		t.Fatalf("queued = %d; want 5", res.Queued)
	}

	type step struct {
		op    domain.Operation
		table domain.EntityKind
		id    string
	}
	want := []step{
		{domain.OpDelete, domain.KindProgramExercise, "e1"},
		{domain.OpDelete, domain.KindProgramExercise, "e2"},
		{domain.OpDelete, domain.KindProgramProgress, "pp1"},
		{domain.OpDelete, domain.KindProgram, "p1"},
		{domain.OpUpdate, domain.KindProgram, "p2"},
	}
	got := e.queue(t)[before:]
	if len(got) != len(want) {
		t.Fatalf("got %d items; want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Operation != w.op || got[i].Table != w.table || got[i].PayloadField("id") != w.id {
			t.Fatalf("item %d = %s %s %s; want %+v", i, got[i].Operation, got[i].Table, got[i].PayloadField("id"), w)
		}
	}
	if got[4].PayloadField("parent_id") != "" {
		t.Fatalf("detached child still names its parent: %s", got[4].Payload)
	}

	for _, id := range []string{"e1", "e2"} {
		if _, err := repo.Get[domain.ProgramExercise](ctx, e.db, id, "u1"); !errors.Is(err, repo.ErrNotFound) {
			t.Fatalf("exercise %s still present: %v", id, err)
		}
	}
	if _, err := repo.Get[domain.ProgramProgress](ctx, e.db, "pp1", "u1"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("progress still present: %v", err)
	}
}

func TestSaveProgram_ReplacesExercises(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := &domain.Program{ID: "p1", Name: "PPL"}
	first := []domain.ProgramExercise{{ID: "e1", ExerciseID: "a"}, {ID: "e2", ExerciseID: "b"}}
	if _, err := e.log.SaveProgram(ctx, "u1", p, first); err != nil {
		t.Fatal(err)
	}
	before := len(e.queue(t))

	second := []domain.ProgramExercise{{ID: "e2", ExerciseID: "b", Day: 1}, {ID: "e3", ExerciseID: "c"}}
	res, err := e.log.SaveProgram(ctx, "u1", p, second)
	if err != nil {
		t.Fatal(err)
	}
	if res.Operation != domain.OpUpdate || res.Queued != 4 {
		t.Fatalf("result = %+v; want update with 4 queued", res)
	}
	got := e.queue(t)[before:]
	last := got[len(got)-1]
	if last.Operation != domain.OpDelete || last.PayloadField("id") != "e1" {
		t.Fatalf("dropped exercise not deleted: %+v", last)
	}

	d, err := e.query.GetProgram(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}
	if len(d.Exercises) != 2 || d.Exercises[0].ID != "e3" && d.Exercises[1].ID != "e3" {
		t.Fatalf("exercises = %+v", d.Exercises)
	}
}

func TestSaveProgram_UnknownParent(t *testing.T) {
	e := newEnv(t)
	_, err := e.log.SaveProgram(context.Background(), "u1", &domain.Program{ID: "p2", Name: "x", ParentID: ptr("nope")}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

type failingEnqueuer struct{}

func (failingEnqueuer) EnqueueTx(context.Context, *gorm.DB, domain.Operation, domain.EntityKind, any) (outbox.EnqueueResult, error) {
	return outbox.EnqueueResult{}, errors.New("disk full")
}

func TestWrite_RollsBackWhenEnqueueFails(t *testing.T) {
	e := newEnv(t)
	e.log.Outbox = failingEnqueuer{}

	_, err := e.log.SaveGoal(context.Background(), "u1", &domain.Goal{ID: "goal1", Title: "Squat 200"})
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("err = %v; want disk full", err)
	}
	if _, err := repo.Get[domain.Goal](context.Background(), e.db, "goal1", "u1"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("goal must be rolled back, got %v", err)
	}
}

func TestSavePreferences_DefaultsAndValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := &domain.UserPreference{WeekStartsOn: 0, RestTimerSec: 0}
	if _, err := e.log.SavePreferences(ctx, "u1", p); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err := repo.GetPreferences(ctx, e.db, "u1")
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.ID != "prefs-u1" || got.Units != "kg" || got.WeekStartsOn != 0 || got.RestTimerSec != 0 {
		t.Fatalf("prefs = %+v", got)
	}
	if _, err := e.log.SavePreferences(ctx, "u1", &domain.UserPreference{Units: "stone"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v; want ErrInvalidInput", err)
	}
}

func TestSimpleRecords_SaveAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	steps := []struct {
		name string
		save func() (WriteResult, error)
		del  func() (WriteResult, error)
	}{
		{
			"template",
			func() (WriteResult, error) {
				return e.log.SaveTemplate(ctx, "u1", &domain.Template{ID: "t1", Name: "Upper",
					Exercises: domain.NewJSON([]domain.TemplateExercise{{ExerciseID: "row", Name: "barbell row"}})})
			},
			func() (WriteResult, error) { return e.log.DeleteTemplate(ctx, "u1", "t1") },
		},
		{
			"measurement",
			func() (WriteResult, error) {
				return e.log.SaveMeasurement(ctx, "u1", &domain.Measurement{ID: "m1", Metric: " Weight ", Value: 80})
			},
			func() (WriteResult, error) { return e.log.DeleteMeasurement(ctx, "u1", "m1") },
		},
		{
			"achievement",
			func() (WriteResult, error) {
				return e.log.SaveAchievement(ctx, "u1", &domain.Achievement{ID: "a1", Code: "first_workout"})
			},
			func() (WriteResult, error) { return e.log.DeleteAchievement(ctx, "u1", "a1") },
		},
		{
			"gym",
			func() (WriteResult, error) {
				return e.log.SaveGym(ctx, "u1", &domain.Gym{ID: "g1", Name: "Home"},
					[]domain.GymEquipment{{ID: "eq1", Name: "Rack", Quantity: 1}})
			},
			func() (WriteResult, error) { return e.log.DeleteGym(ctx, "u1", "g1") },
		},
	}
	for _, tc := range steps {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.save()
			if err != nil || res.Operation != domain.OpCreate || res.Queued == 0 {
				t.Fatalf("save = %+v, %v", res, err)
			}
			res, err = tc.del()
			if err != nil || res.Operation != domain.OpDelete || res.Queued == 0 {
				t.Fatalf("delete = %+v, %v", res, err)
			}
			if _, err := tc.del(); !errors.Is(err, ErrNotFound) {
				t.Fatalf("second delete err = %v; want ErrNotFound", err)
			}
		})
	}

	tpl := e.queue(t)[0]
	var payload struct {
		Exercises []domain.TemplateExercise `json:"exercises"`
	}
	if err := json.Unmarshal(tpl.RawPayload(), &payload); err != nil || payload.Exercises[0].Name != "Barbell Row" {
		t.Fatalf("template payload = %s (%v)", tpl.Payload, err)
	}
}
