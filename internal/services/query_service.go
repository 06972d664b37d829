// Package services – QueryService
//
// This file implements QueryService, the read path for records shown by the
// app: sessions, programs, templates, gyms, measurements, goals and
// achievements. List results
// go through the query cache; rows that fail to decode are skipped and
// reported next to the good ones, and such partial results are never cached.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/tbourn/go-fitness-sync/internal/cache"
	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SessionDetail is a session with its sets.
type SessionDetail struct {
	Session domain.WorkoutSession `json:"session"`
	Sets    []domain.SetLog       `json:"sets"`
}

// ProgramDetail is a program with its exercises and progress.
type ProgramDetail struct {
	Program   domain.Program           `json:"program"`
	Exercises []domain.ProgramExercise `json:"exercises"`
	Progress  []domain.ProgramProgress `json:"progress"`
}

// GymDetail is a gym with its equipment.
type GymDetail struct {
	Gym       domain.Gym            `json:"gym"`
	Equipment []domain.GymEquipment `json:"equipment"`
}

// QueryService reads user records.
type QueryService struct {
	Store Store
	Cache *cache.Cache // nil disables caching
}

// NewQueryService constructs a QueryService.
func NewQueryService(store Store, c *cache.Cache) *QueryService {
	return &QueryService{Store: store, Cache: c}
}

// ListSessions returns the user's sessions, most recent first, optionally
// restricted to those started at or after since.
func (s *QueryService) ListSessions(ctx context.Context, userID string, since time.Time) ([]domain.WorkoutSession, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "ListSessions", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return nil, ErrNoUser
	}
	var sinceKey int64
	if !since.IsZero() {
		sinceKey = since.UnixMilli()
	}
	return cachedList(s.Cache, cache.NewKey(CacheSessions, sinceKey), userID, func() ([]domain.WorkoutSession, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.ListSessions(ctx, db, userID, since)
	})
}

// GetSession returns one session with its sets.
func (s *QueryService) GetSession(ctx context.Context, userID, id string) (*SessionDetail, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "GetSession",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("session.id", id),
		),
	)
	defer span.End()

	db, err := s.Store.DB()
	if err != nil {
		return nil, err
	}
	sess, err := repo.Get[domain.WorkoutSession](ctx, db, id, userID)
	if err != nil {
		return nil, translate(err)
	}
	sets, err := repo.ListSetLogs(ctx, db, userID, id)
	if err != nil {
		return nil, err
	}
	if sets == nil {
		sets = []domain.SetLog{}
	}
	return &SessionDetail{Session: *sess, Sets: sets}, nil
}

// ListSetLogs returns the sets of a session owned by userID.
func (s *QueryService) ListSetLogs(ctx context.Context, userID, sessionID string) ([]domain.SetLog, error) {
	d, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return d.Sets, nil
}

// ListPrograms returns the user's programs.
func (s *QueryService) ListPrograms(ctx context.Context, userID string) ([]domain.Program, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "ListPrograms", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return nil, ErrNoUser
	}
	return cachedList(s.Cache, cache.NewKey(CachePrograms), userID, func() ([]domain.Program, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.ListPrograms(ctx, db, userID)
	})
}

// GetProgram returns one program with its exercises and progress. Children
// that fail to decode are skipped and reported in the returned error.
func (s *QueryService) GetProgram(ctx context.Context, userID, id string) (*ProgramDetail, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "GetProgram",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("program.id", id),
		),
	)
	defer span.End()

	db, err := s.Store.DB()
	if err != nil {
		return nil, err
	}
	p, err := repo.Get[domain.Program](ctx, db, id, userID)
	if err != nil {
		return nil, translate(err)
	}
	exs, exErr := repo.ListProgramExercises(ctx, db, userID, id)
	if exErr != nil && !repo.IsDeserialization(exErr) {
		return nil, exErr
	}
	prog, err := repo.ListProgramProgress(ctx, db, userID, id)
	if err != nil {
		return nil, err
	}
	if exs == nil {
		exs = []domain.ProgramExercise{}
	}
	if prog == nil {
		prog = []domain.ProgramProgress{}
	}
	return &ProgramDetail{Program: *p, Exercises: exs, Progress: prog}, exErr
}

// ListTemplates returns the user's templates by name.
func (s *QueryService) ListTemplates(ctx context.Context, userID string) ([]domain.Template, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "ListTemplates", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return nil, ErrNoUser
	}
	return cachedList(s.Cache, cache.NewKey(CacheTemplates), userID, func() ([]domain.Template, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.ListTemplates(ctx, db, userID)
	})
}

// ListGyms returns the user's gyms, the default gym first.
func (s *QueryService) ListGyms(ctx context.Context, userID string) ([]domain.Gym, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "ListGyms", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return nil, ErrNoUser
	}
	return cachedList(s.Cache, cache.NewKey(CacheGyms), userID, func() ([]domain.Gym, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.ListGyms(ctx, db, userID)
	})
}

// GetGym returns one gym with its equipment.
func (s *QueryService) GetGym(ctx context.Context, userID, id string) (*GymDetail, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "GetGym",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("gym.id", id),
		),
	)
	defer span.End()

	db, err := s.Store.DB()
	if err != nil {
		return nil, err
	}
	g, err := repo.Get[domain.Gym](ctx, db, id, userID)
	if err != nil {
		return nil, translate(err)
	}
	eq, err := repo.ListGymEquipment(ctx, db, userID, id)
	if err != nil {
		return nil, err
	}
	return &GymDetail{Gym: *g, Equipment: eq}, nil
}

// ListMeasurements returns the user's measurements, newest first. A
// non-empty metric restricts the result to that kind.
func (s *QueryService) ListMeasurements(ctx context.Context, userID, metric string) ([]domain.Measurement, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "ListMeasurements", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return nil, ErrNoUser
	}
	metric = strings.ToLower(strings.TrimSpace(metric))
	return cachedList(s.Cache, cache.NewKey(CacheMeasurements, metric), userID, func() ([]domain.Measurement, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.ListMeasurements(ctx, db, userID, metric)
	})
}

// ListGoals returns the user's goals, open goals first.
func (s *QueryService) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "ListGoals", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return nil, ErrNoUser
	}
	return cachedList(s.Cache, cache.NewKey(CacheGoals), userID, func() ([]domain.Goal, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.ListGoals(ctx, db, userID)
	})
}

// ListAchievements returns the user's achievements in unlock order.
func (s *QueryService) ListAchievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "ListAchievements", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return nil, ErrNoUser
	}
	return cachedList(s.Cache, cache.NewKey(CacheAchievements), userID, func() ([]domain.Achievement, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.ListAchievements(ctx, db, userID)
	})
}

// cachedList serves list loaders that may return good rows together with
// per-row decode errors. Partial lists are returned but not stored.
func cachedList[T any](c *cache.Cache, key cache.Key, userID string, load func() ([]T, error)) ([]T, error) {
	if c != nil {
		if v, ok := cache.GetAs[[]T](c, key, userID); ok {
			return v, nil
		}
	}
	rows, err := load()
	if rows == nil && err == nil {
		rows = []T{}
	}
	if err != nil {
		if repo.IsDeserialization(err) {
			return rows, err
		}
		return nil, err
	}
	if c != nil {
		c.Set(key, rows, userID)
	}
	return rows, nil
}
