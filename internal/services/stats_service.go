// Package services – StatsService
//
// This file implements StatsService, the read side for derived statistics
// (training volume and frequency per day, streaks, personal records). Results
// are cached per user in the query cache and dropped by LogService whenever a
// write touches the tables they read.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tbourn/go-fitness-sync/internal/cache"
	"github.com/tbourn/go-fitness-sync/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StatsService computes cached statistics over the local store.
type StatsService struct {
	Store Store
	Cache *cache.Cache // nil disables caching

	// MaxDays caps the window of the per-day series.
	MaxDays int
	// Now is the clock that defines "today".
	Now func() time.Time
}

// NewStatsService constructs a StatsService with default settings.
func NewStatsService(store Store, c *cache.Cache) *StatsService {
	return &StatsService{Store: store, Cache: c, MaxDays: 365, Now: time.Now}
}

// Volume returns the lifted volume per day over the last days days.
func (s *StatsService) Volume(ctx context.Context, userID string, days int) ([]repo.DailyTotal, error) {
	ctx, span := s.start(ctx, "Volume", userID, attribute.Int("days", days))
	defer span.End()

	days, err := s.window(userID, days)
	if err != nil {
		return nil, err
	}
	now, loc := s.Now(), s.Store.Location()
	key := cache.NewKey(CacheVolume, days, today(now, loc))
	return cached(s.Cache, key, userID, func() ([]repo.DailyTotal, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.VolumeByDay(ctx, db, userID, days, now, loc)
	})
}

// Frequency returns the number of sessions per day over the last days days.
func (s *StatsService) Frequency(ctx context.Context, userID string, days int) ([]repo.DailyTotal, error) {
	ctx, span := s.start(ctx, "Frequency", userID, attribute.Int("days", days))
	defer span.End()

	days, err := s.window(userID, days)
	if err != nil {
		return nil, err
	}
	now, loc := s.Now(), s.Store.Location()
	key := cache.NewKey(CacheFrequency, days, today(now, loc))
	return cached(s.Cache, key, userID, func() ([]repo.DailyTotal, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.FrequencyByDay(ctx, db, userID, days, now, loc)
	})
}

// Streaks returns the current and longest run of consecutive training days.
func (s *StatsService) Streaks(ctx context.Context, userID string) (repo.Streaks, error) {
	ctx, span := s.start(ctx, "Streaks", userID)
	defer span.End()

	if userID == "" {
		return repo.Streaks{}, ErrNoUser
	}
	now, loc := s.Now(), s.Store.Location()
	key := cache.NewKey(CacheStreaks, today(now, loc))
	return cached(s.Cache, key, userID, func() (repo.Streaks, error) {
		db, err := s.Store.DB()
		if err != nil {
			return repo.Streaks{}, err
		}
		dates, err := repo.SessionDates(ctx, db, userID)
		if err != nil {
			return repo.Streaks{}, err
		}
		return repo.ComputeStreaks(dates, now, loc), nil
	})
}

// PersonalRecord returns the heaviest weight logged for exerciseID.
func (s *StatsService) PersonalRecord(ctx context.Context, userID, exerciseID string) (float64, error) {
	ctx, span := s.start(ctx, "PersonalRecord", userID, attribute.String("exercise.id", exerciseID))
	defer span.End()

	if userID == "" {
		return 0, ErrNoUser
	}
	exerciseID = strings.TrimSpace(exerciseID)
	if exerciseID == "" {
		return 0, fmt.Errorf("%w: exercise id is required", ErrInvalidInput)
	}
	key := cache.NewKey(CacheRecords, exerciseID)
	return cached(s.Cache, key, userID, func() (float64, error) {
		db, err := s.Store.DB()
		if err != nil {
			return 0, err
		}
		return repo.PersonalRecord(ctx, db, userID, exerciseID)
	})
}

// History returns the per-session progression of an exercise, most recent
// first.
func (s *StatsService) History(ctx context.Context, userID, exerciseID string, limit int) ([]repo.ExercisePoint, error) {
	ctx, span := s.start(ctx, "History", userID,
		attribute.String("exercise.id", exerciseID),
		attribute.Int("limit", limit),
	)
	defer span.End()

	if userID == "" {
		return nil, ErrNoUser
	}
	key := cache.NewKey(CacheRecords, "history", exerciseID, limit)
	return cached(s.Cache, key, userID, func() ([]repo.ExercisePoint, error) {
		db, err := s.Store.DB()
		if err != nil {
			return nil, err
		}
		return repo.ExerciseHistory(ctx, db, userID, exerciseID, limit, s.Store.Location())
	})
}

func (s *StatsService) start(ctx context.Context, name, userID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tr := otel.Tracer("services/StatsService")
	attrs = append(attrs, attribute.String("user.id", userID))
	return tr.Start(ctx, name, trace.WithAttributes(attrs...))
}

// window validates a day count; 0 selects a week.
func (s *StatsService) window(userID string, days int) (int, error) {
	if userID == "" {
		return 0, ErrNoUser
	}
	switch {
	case days == 0:
		return 7, nil
	case days < 0:
		return 0, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	case s.MaxDays > 0 && days > s.MaxDays:
		return s.MaxDays, nil
	}
	return days, nil
}

// cached serves key from c or computes it with load. Failed loads are not
// stored.
func cached[T any](c *cache.Cache, key cache.Key, userID string, load func() (T, error)) (T, error) {
	if c != nil {
		if v, ok := cache.GetAs[T](c, key, userID); ok {
			return v, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if c != nil {
		c.Set(key, v, userID)
	}
	return v, nil
}

// today is the calendar date of now in loc. It is part of every date-relative
// cache key so entries roll over at midnight.
func today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format("2006-01-02")
}
