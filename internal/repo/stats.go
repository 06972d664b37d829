// Calendar statistics behind the dashboard: volume and frequency per day,
// streaks, personal records and per-exercise history.
//
// Calendar days are computed in Go, in the store's location. Stored
// timestamps keep their original zone offset and SQLite has no notion of the
// user's timezone, so grouping by date() in SQL would put late evening
// sessions on the wrong day.

package repo

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// DailyTotal is one calendar day of an aggregate series.
type DailyTotal struct {
	Date  string  `json:"date"` // YYYY-MM-DD in the store location
	Value float64 `json:"value"`
}

// Streaks holds the current and longest run of consecutive training days.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ExercisePoint is the best set of one session for an exercise.
type ExercisePoint struct {
	SessionID  string  `json:"session_id"`
	Date       string  `json:"date"`
	BestWeight float64 `json:"best_weight"`
	Volume     float64 `json:"volume"`
}

const dateLayout = "2006-01-02"

// inClauseChunk bounds the number of bind variables per IN (...) query.
const inClauseChunk = 500

// VolumeByDay sums weight × reps of the set logs whose session started within
// the last days calendar days (today included). Days without sets are
// omitted; the series is in ascending date order.
func VolumeByDay(ctx context.Context, db *gorm.DB, userID string, days int, now time.Time, loc *time.Location) ([]DailyTotal, error) {
	sessions, err := sessionDaysInWindow(ctx, db, userID, days, now, loc)
	if err != nil || len(sessions) == 0 {
		return []DailyTotal{}, err
	}

	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	totals := map[string]float64{}
	for start := 0; start < len(ids); start += inClauseChunk {
		end := min(start+inClauseChunk, len(ids))
		var sets []struct {
			SessionID string
			Weight    float64
			Reps      int
		}
		err := db.WithContext(ctx).
			Model(&domain.SetLog{}).
			Select("session_id, weight, reps").
			Where("user_id = ? AND session_id IN ?", userID, ids[start:end]).
			Scan(&sets).Error
		if err != nil {
			return nil, err
		}
		for _, s := range sets {
			totals[sessions[s.SessionID]] += s.Weight * float64(s.Reps)
		}
	}
	return sortedTotals(totals), nil
}

// FrequencyByDay counts sessions per calendar day over the same window as
// VolumeByDay.
func FrequencyByDay(ctx context.Context, db *gorm.DB, userID string, days int, now time.Time, loc *time.Location) ([]DailyTotal, error) {
	sessions, err := sessionDaysInWindow(ctx, db, userID, days, now, loc)
	if err != nil || len(sessions) == 0 {
		return []DailyTotal{}, err
	}
	counts := map[string]float64{}
	for _, day := range sessions {
		counts[day]++
	}
	return sortedTotals(counts), nil
}

// SessionDates returns the start time of every session of a user.
func SessionDates(ctx context.Context, db *gorm.DB, userID string) ([]time.Time, error) {
	var out []time.Time
	err := db.WithContext(ctx).
		Model(&domain.WorkoutSession{}).
		Where("user_id = ?", userID).
		Pluck("started_at", &out).Error
	return out, err
}

// ComputeStreaks derives streaks from session start times.
//
// Dates collapse to calendar days in loc. The current streak only exists
// when the most recent training day is today or yesterday; it then extends
// back while each earlier day is exactly one day before the previous one. The
// longest streak is the longest run of consecutive days anywhere.
func ComputeStreaks(dates []time.Time, now time.Time, loc *time.Location) Streaks {
	if len(dates) == 0 {
		return Streaks{}
	}
	seen := make(map[int64]struct{}, len(dates))
	days := make([]int64, 0, len(dates))
	for _, d := range dates {
		n := dayNumber(d, loc)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		days = append(days, n)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	var st Streaks
	run := 1
	st.Longest = 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] == 1 {
			run++
		} else {
			run = 1
		}
		if run > st.Longest {
			st.Longest = run
		}
	}

	if gap := dayNumber(now, loc) - days[0]; gap == 0 || gap == 1 {
		st.Current = 1
		for i := 1; i < len(days) && days[i-1]-days[i] == 1; i++ {
			st.Current++
		}
	}
	return st
}

// PersonalRecord returns the heaviest weight logged for an exercise, 0 when
// the exercise was never logged.
func PersonalRecord(ctx context.Context, db *gorm.DB, userID, exerciseID string) (float64, error) {
	var best float64
	err := db.WithContext(ctx).
		Model(&domain.SetLog{}).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Select("COALESCE(MAX(weight), 0)").
		Scan(&best).Error
	return best, err
}

// ExerciseHistory returns, per session, the best weight and total volume of
// an exercise, most recent session first. limit <= 0 means no limit.
func ExerciseHistory(ctx context.Context, db *gorm.DB, userID, exerciseID string, limit int, loc *time.Location) ([]ExercisePoint, error) {
	var sets []struct {
		SessionID string
		Weight    float64
		Reps      int
	}
	err := db.WithContext(ctx).
		Model(&domain.SetLog{}).
		Select("session_id, weight, reps").
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Scan(&sets).Error
	if err != nil || len(sets) == 0 {
		return []ExercisePoint{}, err
	}

	points := map[string]*ExercisePoint{}
	ids := make([]string, 0)
	for _, s := range sets {
		p, ok := points[s.SessionID]
		if !ok {
			p = &ExercisePoint{SessionID: s.SessionID}
			points[s.SessionID] = p
			ids = append(ids, s.SessionID)
		}
		p.BestWeight = max(p.BestWeight, s.Weight)
		p.Volume += s.Weight * float64(s.Reps)
	}

	started := map[string]time.Time{}
	for start := 0; start < len(ids); start += inClauseChunk {
		end := min(start+inClauseChunk, len(ids))
		var rows []struct {
			ID        string
			StartedAt time.Time
		}
		if err := db.WithContext(ctx).
			Model(&domain.WorkoutSession{}).
			Select("id, started_at").
			Where("user_id = ? AND id IN ?", userID, ids[start:end]).
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			started[r.ID] = r.StartedAt
		}
	}

	out := make([]ExercisePoint, 0, len(points))
	for id, p := range points {
		t, ok := started[id]
		if !ok {
			continue
		}
		p.Date = t.In(loc).Format(dateLayout)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := started[out[i].SessionID], started[out[j].SessionID]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].SessionID < out[j].SessionID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// sessionDaysInWindow maps the ids of a user's sessions started within the
// last days calendar days (today included) to their YYYY-MM-DD day in loc.
func sessionDaysInWindow(ctx context.Context, db *gorm.DB, userID string, days int, now time.Time, loc *time.Location) (map[string]string, error) {
	if days <= 0 {
		return nil, nil
	}
	var rows []struct {
		ID        string
		StartedAt time.Time
	}
	err := db.WithContext(ctx).
		Model(&domain.WorkoutSession{}).
		Select("id, started_at").
		Where("user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	today := dayNumber(now, loc)
	first := today - int64(days) + 1
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		if n := dayNumber(r.StartedAt, loc); n >= first && n <= today {
			out[r.ID] = r.StartedAt.In(loc).Format(dateLayout)
		}
	}
	return out, nil
}

// dayNumber is the civil day of t in loc, counted from the Unix epoch. Using
// the civil date (not elapsed hours) keeps DST transitions from skewing
// differences.
func dayNumber(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func sortedTotals(m map[string]float64) []DailyTotal {
	out := make([]DailyTotal, 0, len(m))
	for day, v := range m {
		out = append(out, DailyTotal{Date: day, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
