// Package services – LogService
//
// This file implements LogService, the write path of the app. Every save or
// delete runs in one store transaction that writes the entity rows and
// records the matching outbox items, so a mutation and its sync item commit
// or roll back together. Create vs update is decided by whether the id
// already exists. Cascading deletes record a delete for every removed child
// before the parent's own delete, keeping the remote ordering valid.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/outbox"
	"github.com/tbourn/go-fitness-sync/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Cache kinds derived from the entity tables. Writes invalidate the kinds
// that read the written table.
const (
	CacheSessions     = "sessions.list"
	CachePrograms     = "programs.list"
	CacheTemplates    = "templates.list"
	CacheGyms         = "gyms.list"
	CacheMeasurements = "measurements.list"
	CacheGoals        = "goals.list"
	CacheAchievements = "achievements.list"
	CacheVolume       = "stats.volume"
	CacheFrequency    = "stats.frequency"
	CacheStreaks      = "stats.streaks"
	CacheRecords      = "stats.records"
)

var invalidates = map[domain.EntityKind][]string{
	domain.KindSession:         {CacheSessions, CacheVolume, CacheFrequency, CacheStreaks, CacheRecords},
	domain.KindSetLog:          {CacheVolume, CacheRecords},
	domain.KindProgram:         {CachePrograms},
	domain.KindProgramExercise: {CachePrograms},
	domain.KindProgramProgress: {CachePrograms},
	domain.KindTemplate:        {CacheTemplates},
	domain.KindGym:             {CacheGyms},
	domain.KindMeasurement:     {CacheMeasurements},
	domain.KindGoal:            {CacheGoals},
	domain.KindAchievement:     {CacheAchievements},
}

// Store is the subset of repo.Store used by the services.
type Store interface {
	DB() (*gorm.DB, error)
	Location() *time.Location
}

// Enqueuer records outbox items inside a caller's transaction.
type Enqueuer interface {
	EnqueueTx(ctx context.Context, tx *gorm.DB, op domain.Operation, table domain.EntityKind, payload any) (outbox.EnqueueResult, error)
}

// Invalidator drops cached query results.
type Invalidator interface {
	Invalidate(userID string) int
	InvalidateKind(userID string, kinds ...string) int
}

// WriteResult summarizes a save or delete.
type WriteResult struct {
	// Operation applied to the primary record.
	Operation domain.Operation `json:"operation"`
	// Queued counts outbox items recorded, children included.
	Queued int `json:"queued"`
	// Dropped counts items filtered out by the outbox policy (draft sessions).
	Dropped int `json:"dropped"`
}

// LogService persists user records and records their sync items.
type LogService struct {
	Store  Store
	Outbox Enqueuer
	Cache  Invalidator

	// NameLocale drives title-casing of exercise names.
	NameLocale language.Tag
	// Now is the clock used for defaulted timestamps.
	Now func() time.Time
}

// NewLogService constructs a LogService with default settings.
func NewLogService(store Store, ob Enqueuer, c Invalidator) *LogService {
	return &LogService{
		Store:      store,
		Outbox:     ob,
		Cache:      c,
		NameLocale: language.English,
		Now:        time.Now,
	}
}

// SaveSession creates or updates a workout session. A session without a
// completion time is stored locally but not queued for sync.
func (s *LogService) SaveSession(ctx context.Context, userID string, sess *domain.WorkoutSession) (WriteResult, error) {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = s.Now()
	}
	sess.Name = cleanName(sess.Name)
	if sess.DurationSec < 0 {
		return WriteResult{}, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	if sess.Completed != nil && sess.Completed.Before(sess.StartedAt) {
		return WriteResult{}, fmt.Errorf("%w: completed before started", ErrInvalidInput)
	}
	return s.write(ctx, "SaveSession", userID, []domain.EntityKind{domain.KindSession}, func(tx *gorm.DB, res *WriteResult) error {
		return save(ctx, tx, s.Outbox, userID, sess, res)
	})
}

// DeleteSession removes a session and its set logs.
func (s *LogService) DeleteSession(ctx context.Context, userID, id string) (WriteResult, error) {
	return s.write(ctx, "DeleteSession", userID, []domain.EntityKind{domain.KindSession, domain.KindSetLog}, func(tx *gorm.DB, res *WriteResult) error {
		removed, err := repo.DeleteSession(ctx, tx, id, userID)
		if err != nil {
			return err
		}
		return s.recordDelete(ctx, tx, userID, domain.KindSession, id, removed, res)
	})
}

// SaveSetLogs creates or updates the given sets of one session. The session
// must exist and belong to userID.
func (s *LogService) SaveSetLogs(ctx context.Context, userID, sessionID string, sets []domain.SetLog) (WriteResult, error) {
	for i := range sets {
		l := &sets[i]
		if l.Weight < 0 || l.Reps < 0 {
			return WriteResult{}, fmt.Errorf("%w: weight and reps must not be negative", ErrInvalidInput)
		}
		l.SessionID = sessionID
		l.ExerciseName = s.exerciseName(l.ExerciseName)
	}
	return s.write(ctx, "SaveSetLogs", userID, []domain.EntityKind{domain.KindSetLog}, func(tx *gorm.DB, res *WriteResult) error {
		if err := requireOwned[domain.WorkoutSession](ctx, tx, sessionID, userID); err != nil {
			return err
		}
		for i := range sets {
			if err := save(ctx, tx, s.Outbox, userID, &sets[i], res); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSetLog removes one set.
func (s *LogService) DeleteSetLog(ctx context.Context, userID, id string) (WriteResult, error) {
	return s.write(ctx, "DeleteSetLog", userID, []domain.EntityKind{domain.KindSetLog}, func(tx *gorm.DB, res *WriteResult) error {
		return remove[domain.SetLog](ctx, tx, s.Outbox, userID, id, res)
	})
}

// SaveTemplate creates or updates a workout template.
func (s *LogService) SaveTemplate(ctx context.Context, userID string, t *domain.Template) (WriteResult, error) {
	t.Name = cleanName(t.Name)
	if t.Name == "" {
		return WriteResult{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	exs := t.Exercises.Val
	for i := range exs {
		exs[i].Name = s.exerciseName(exs[i].Name)
	}
	return s.write(ctx, "SaveTemplate", userID, []domain.EntityKind{domain.KindTemplate}, func(tx *gorm.DB, res *WriteResult) error {
		return save(ctx, tx, s.Outbox, userID, t, res)
	})
}

// DeleteTemplate removes a template.
func (s *LogService) DeleteTemplate(ctx context.Context, userID, id string) (WriteResult, error) {
	return s.write(ctx, "DeleteTemplate", userID, []domain.EntityKind{domain.KindTemplate}, func(tx *gorm.DB, res *WriteResult) error {
		return remove[domain.Template](ctx, tx, s.Outbox, userID, id, res)
	})
}

// SaveProgram creates or updates a program. When exercises is non-nil it
// replaces the program's exercise list: listed exercises are saved and the
// ones no longer listed are deleted. A nil slice leaves exercises untouched.
func (s *LogService) SaveProgram(ctx context.Context, userID string, p *domain.Program, exercises []domain.ProgramExercise) (WriteResult, error) {
	p.Name = cleanName(p.Name)
	if p.Name == "" {
		return WriteResult{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.Weeks < 1 {
		p.Weeks = 1
	}
	if p.ParentID != nil && *p.ParentID == p.ID {
		return WriteResult{}, fmt.Errorf("%w: program cannot be its own parent", ErrInvalidInput)
	}
	for i := range exercises {
		exercises[i].ProgramID = p.ID
		exercises[i].Name = s.exerciseName(exercises[i].Name)
	}
	kinds := []domain.EntityKind{domain.KindProgram, domain.KindProgramExercise}
	return s.write(ctx, "SaveProgram", userID, kinds, func(tx *gorm.DB, res *WriteResult) error {
		if p.ParentID != nil {
			if err := requireOwned[domain.Program](ctx, tx, *p.ParentID, userID); err != nil {
				return err
			}
		}
		if err := save(ctx, tx, s.Outbox, userID, p, res); err != nil {
			return err
		}
		if exercises == nil {
			return nil
		}

		keep := make(map[string]bool, len(exercises))
		for i := range exercises {
			var sub WriteResult
			if err := save(ctx, tx, s.Outbox, userID, &exercises[i], &sub); err != nil {
				return err
			}
			res.Queued += sub.Queued
			keep[exercises[i].ID] = true
		}
		existing, err := repo.ListProgramExercises(ctx, tx, userID, p.ID)
		if err != nil && !repo.IsDeserialization(err) {
			return err
		}
		for _, ex := range existing {
			if keep[ex.ID] {
				continue
			}
			var sub WriteResult
			if err := remove[domain.ProgramExercise](ctx, tx, s.Outbox, userID, ex.ID, &sub); err != nil {
				return err
			}
			res.Queued += sub.Queued
		}
		return nil
	})
}

// DeleteProgram removes a program with its exercises and progress rows.
// Programs derived from it are detached and recorded as updates.
func (s *LogService) DeleteProgram(ctx context.Context, userID, id string) (WriteResult, error) {
	kinds := []domain.EntityKind{domain.KindProgram, domain.KindProgramExercise, domain.KindProgramProgress}
	return s.write(ctx, "DeleteProgram", userID, kinds, func(tx *gorm.DB, res *WriteResult) error {
		children, err := repo.ChildPrograms(ctx, tx, id)
		if err != nil {
			return err
		}
		removed, err := repo.DeleteProgram(ctx, tx, id, userID)
		if err != nil {
			return err
		}
		if err := s.recordDelete(ctx, tx, userID, domain.KindProgram, id, removed, res); err != nil {
			return err
		}
		for _, childID := range children {
			child, err := repo.Get[domain.Program](ctx, tx, childID, userID)
			if errors.Is(err, repo.ErrNotFound) || repo.IsDeserialization(err) {
				continue
			}
			if err != nil {
				return err
			}
			if err := enqueue(ctx, tx, s.Outbox, domain.OpUpdate, domain.KindProgram, child, res); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveProgramProgress records a completed program day.
func (s *LogService) SaveProgramProgress(ctx context.Context, userID string, pp *domain.ProgramProgress) (WriteResult, error) {
	if pp.Week < 1 {
		return WriteResult{}, fmt.Errorf("%w: week must be at least 1", ErrInvalidInput)
	}
	if pp.CompletedAt.IsZero() {
		pp.CompletedAt = s.Now()
	}
	return s.write(ctx, "SaveProgramProgress", userID, []domain.EntityKind{domain.KindProgramProgress}, func(tx *gorm.DB, res *WriteResult) error {
		if err := requireOwned[domain.Program](ctx, tx, pp.ProgramID, userID); err != nil {
			return err
		}
		return save(ctx, tx, s.Outbox, userID, pp, res)
	})
}

// DeleteProgramProgress removes one progress row.
func (s *LogService) DeleteProgramProgress(ctx context.Context, userID, id string) (WriteResult, error) {
	return s.write(ctx, "DeleteProgramProgress", userID, []domain.EntityKind{domain.KindProgramProgress}, func(tx *gorm.DB, res *WriteResult) error {
		return remove[domain.ProgramProgress](ctx, tx, s.Outbox, userID, id, res)
	})
}

// SaveGym creates or updates a gym. A non-nil equipment slice replaces the
// gym's equipment list, as in SaveProgram.
func (s *LogService) SaveGym(ctx context.Context, userID string, g *domain.Gym, equipment []domain.GymEquipment) (WriteResult, error) {
	g.Name = cleanName(g.Name)
	if g.Name == "" {
		return WriteResult{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	for i := range equipment {
		equipment[i].GymID = g.ID
		equipment[i].Name = cleanName(equipment[i].Name)
		if equipment[i].Name == "" || equipment[i].Quantity < 0 {
			return WriteResult{}, fmt.Errorf("%w: equipment needs a name and a non-negative quantity", ErrInvalidInput)
		}
	}
	return s.write(ctx, "SaveGym", userID, []domain.EntityKind{domain.KindGym, domain.KindGymEquipment}, func(tx *gorm.DB, res *WriteResult) error {
		if err := save(ctx, tx, s.Outbox, userID, g, res); err != nil {
			return err
		}
		if equipment == nil {
			return nil
		}
		keep := make(map[string]bool, len(equipment))
		for i := range equipment {
			var sub WriteResult
			if err := save(ctx, tx, s.Outbox, userID, &equipment[i], &sub); err != nil {
				return err
			}
			res.Queued += sub.Queued
			keep[equipment[i].ID] = true
		}
		existing, err := repo.ListGymEquipment(ctx, tx, userID, g.ID)
		if err != nil {
			return err
		}
		for _, eq := range existing {
			if keep[eq.ID] {
				continue
			}
			var sub WriteResult
			if err := remove[domain.GymEquipment](ctx, tx, s.Outbox, userID, eq.ID, &sub); err != nil {
				return err
			}
			res.Queued += sub.Queued
		}
		return nil
	})
}

// DeleteGym removes a gym and its equipment.
func (s *LogService) DeleteGym(ctx context.Context, userID, id string) (WriteResult, error) {
	return s.write(ctx, "DeleteGym", userID, []domain.EntityKind{domain.KindGym, domain.KindGymEquipment}, func(tx *gorm.DB, res *WriteResult) error {
		removed, err := repo.DeleteGym(ctx, tx, id, userID)
		if err != nil {
			return err
		}
		return s.recordDelete(ctx, tx, userID, domain.KindGym, id, removed, res)
	})
}

// SaveMeasurement records a body measurement.
func (s *LogService) SaveMeasurement(ctx context.Context, userID string, m *domain.Measurement) (WriteResult, error) {
	m.Metric = strings.ToLower(strings.TrimSpace(m.Metric))
	if m.Metric == "" {
		return WriteResult{}, fmt.Errorf("%w: metric is required", ErrInvalidInput)
	}
	if m.MeasuredAt.IsZero() {
		m.MeasuredAt = s.Now()
	}
	return s.write(ctx, "SaveMeasurement", userID, []domain.EntityKind{domain.KindMeasurement}, func(tx *gorm.DB, res *WriteResult) error {
		return save(ctx, tx, s.Outbox, userID, m, res)
	})
}

// DeleteMeasurement removes a measurement.
func (s *LogService) DeleteMeasurement(ctx context.Context, userID, id string) (WriteResult, error) {
	return s.write(ctx, "DeleteMeasurement", userID, []domain.EntityKind{domain.KindMeasurement}, func(tx *gorm.DB, res *WriteResult) error {
		return remove[domain.Measurement](ctx, tx, s.Outbox, userID, id, res)
	})
}

// SaveGoal creates or updates a goal.
func (s *LogService) SaveGoal(ctx context.Context, userID string, g *domain.Goal) (WriteResult, error) {
	g.Title = cleanName(g.Title)
	if g.Title == "" {
		return WriteResult{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.write(ctx, "SaveGoal", userID, []domain.EntityKind{domain.KindGoal}, func(tx *gorm.DB, res *WriteResult) error {
		return save(ctx, tx, s.Outbox, userID, g, res)
	})
}

// DeleteGoal removes a goal.
func (s *LogService) DeleteGoal(ctx context.Context, userID, id string) (WriteResult, error) {
	return s.write(ctx, "DeleteGoal", userID, []domain.EntityKind{domain.KindGoal}, func(tx *gorm.DB, res *WriteResult) error {
		return remove[domain.Goal](ctx, tx, s.Outbox, userID, id, res)
	})
}

// SaveAchievement records an unlocked achievement.
func (s *LogService) SaveAchievement(ctx context.Context, userID string, a *domain.Achievement) (WriteResult, error) {
	if strings.TrimSpace(a.Code) == "" {
		return WriteResult{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if a.UnlockedAt.IsZero() {
		a.UnlockedAt = s.Now()
	}
	return s.write(ctx, "SaveAchievement", userID, []domain.EntityKind{domain.KindAchievement}, func(tx *gorm.DB, res *WriteResult) error {
		return save(ctx, tx, s.Outbox, userID, a, res)
	})
}

// DeleteAchievement removes an achievement.
func (s *LogService) DeleteAchievement(ctx context.Context, userID, id string) (WriteResult, error) {
	return s.write(ctx, "DeleteAchievement", userID, []domain.EntityKind{domain.KindAchievement}, func(tx *gorm.DB, res *WriteResult) error {
		return remove[domain.Achievement](ctx, tx, s.Outbox, userID, id, res)
	})
}

// SavePreferences stores the user's settings row. The row id defaults to
// "prefs-<user>" so there is exactly one per user.
func (s *LogService) SavePreferences(ctx context.Context, userID string, p *domain.UserPreference) (WriteResult, error) {
	if p.ID == "" {
		p.ID = "prefs-" + userID
	}
	if p.Units == "" {
		p.Units = "kg"
	}
	if p.Units != "kg" && p.Units != "lb" {
		return WriteResult{}, fmt.Errorf("%w: units must be kg or lb", ErrInvalidInput)
	}
	if p.WeekStartsOn < 0 || p.WeekStartsOn > 6 {
		return WriteResult{}, fmt.Errorf("%w: week_starts_on must be 0..6", ErrInvalidInput)
	}
	return s.write(ctx, "SavePreferences", userID, []domain.EntityKind{domain.KindUserPreferences}, func(tx *gorm.DB, res *WriteResult) error {
		return save(ctx, tx, s.Outbox, userID, p, res)
	})
}

// write runs fn in a transaction and invalidates the cache kinds derived
// from tables once it commits.
func (s *LogService) write(ctx context.Context, name, userID string, tables []domain.EntityKind, fn func(tx *gorm.DB, res *WriteResult) error) (WriteResult, error) {
	tr := otel.Tracer("services/LogService")
	ctx, span := tr.Start(ctx, name, trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return WriteResult{}, ErrNoUser
	}
	db, err := s.Store.DB()
	if err != nil {
		return WriteResult{}, err
	}

	var res WriteResult
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, &res)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return WriteResult{}, translate(err)
	}

	span.SetAttributes(
		attribute.String("operation", string(res.Operation)),
		attribute.Int("queued", res.Queued),
		attribute.Int("dropped", res.Dropped),
	)
	if s.Cache != nil {
		var kinds []string
		for _, t := range tables {
			kinds = append(kinds, invalidates[t]...)
		}
		if len(kinds) > 0 {
			s.Cache.InvalidateKind(userID, kinds...)
		}
	}
	return res, nil
}

// recordDelete queues deletes for the cascaded children, then for the parent.
func (s *LogService) recordDelete(ctx context.Context, tx *gorm.DB, userID string, kind domain.EntityKind, id string, removed []repo.Cascade, res *WriteResult) error {
	for _, c := range removed {
		for _, childID := range c.IDs {
			if err := enqueue(ctx, tx, s.Outbox, domain.OpDelete, c.Kind, deletePayload(childID, userID), res); err != nil {
				return err
			}
		}
	}
	res.Operation = domain.OpDelete
	return enqueue(ctx, tx, s.Outbox, domain.OpDelete, kind, deletePayload(id, userID), res)
}

func (s *LogService) exerciseName(name string) string {
	return cases.Title(s.NameLocale, cases.NoLower).String(cleanName(name))
}

// save upserts rec on behalf of userID and records a create or update.
func save[T domain.Entity](ctx context.Context, tx *gorm.DB, ob Enqueuer, userID string, rec *T, res *WriteResult) error {
	if err := setOwner(rec, userID); err != nil {
		return err
	}
	id := (*rec).EntityID()
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	owner, found, err := repo.Owner[T](ctx, tx, id)
	if err != nil {
		return err
	}
	op := domain.OpCreate
	if found {
		if owner != userID {
			return ErrForbidden
		}
		op = domain.OpUpdate
	}
	if err := repo.Upsert(ctx, tx, rec); err != nil {
		return err
	}
	res.Operation = op
	return enqueue(ctx, tx, ob, op, (*rec).Kind(), rec, res)
}

// remove deletes one row of T owned by userID and records the delete.
func remove[T domain.Entity](ctx context.Context, tx *gorm.DB, ob Enqueuer, userID, id string, res *WriteResult) error {
	if err := repo.Delete[T](ctx, tx, id, userID); err != nil {
		return err
	}
	var zero T
	res.Operation = domain.OpDelete
	return enqueue(ctx, tx, ob, domain.OpDelete, zero.Kind(), deletePayload(id, userID), res)
}

func enqueue(ctx context.Context, tx *gorm.DB, ob Enqueuer, op domain.Operation, kind domain.EntityKind, payload any, res *WriteResult) error {
	r, err := ob.EnqueueTx(ctx, tx, op, kind, payload)
	if err != nil {
		return err
	}
	switch r.Outcome {
	case outbox.Queued:
		res.Queued++
	case outbox.DroppedIneligible:
		res.Dropped++
	}
	return nil
}

// requireOwned returns ErrNotFound unless a row of T with id belongs to userID.
func requireOwned[T domain.Entity](ctx context.Context, tx *gorm.DB, id, userID string) error {
	owner, found, err := repo.Owner[T](ctx, tx, id)
	if err != nil {
		return err
	}
	if !found || owner != userID {
		return ErrNotFound
	}
	return nil
}

func deletePayload(id, userID string) map[string]string {
	return map[string]string{"id": id, "user_id": userID}
}

// setOwner stamps userID on rec, refusing records that name someone else.
func setOwner(rec any, userID string) error {
	var owner *string
	switch r := rec.(type) {
	case *domain.WorkoutSession:
		owner = &r.UserID
	case *domain.SetLog:
		owner = &r.UserID
	case *domain.Template:
		owner = &r.UserID
	case *domain.Program:
		owner = &r.UserID
	case *domain.ProgramExercise:
		owner = &r.UserID
	case *domain.ProgramProgress:
		owner = &r.UserID
	case *domain.Gym:
		owner = &r.UserID
	case *domain.GymEquipment:
		owner = &r.UserID
	case *domain.Measurement:
		owner = &r.UserID
	case *domain.Goal:
		owner = &r.UserID
	case *domain.Achievement:
		owner = &r.UserID
	case *domain.UserPreference:
		owner = &r.UserID
	default:
		return fmt.Errorf("%w: unsupported record %T", ErrInvalidInput, rec)
	}
	if *owner != "" && *owner != userID {
		return ErrForbidden
	}
	*owner = userID
	return nil
}

// translate maps store errors to service errors.
func translate(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrMissingID):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, outbox.ErrInvalidPayload):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}

// cleanName trims whitespace and collapses inner runs to one space.
func cleanName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
