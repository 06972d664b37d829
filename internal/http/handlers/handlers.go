// Package handlers exposes the local control API used by the app shell:
// workout logging, the other user records, history queries, statistics and
// the sync control surface.
//
// Handlers are transport-thin: they bind input, call application services and
// translate results into HTTP responses.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/http/middleware"
	"github.com/tbourn/go-fitness-sync/internal/processor"
	"github.com/tbourn/go-fitness-sync/internal/repo"
	"github.com/tbourn/go-fitness-sync/internal/services"
)

//
// Service contracts (context-aware)
//

// LogService records user writes and queues them for sync.
type LogService interface {
	SaveSession(ctx context.Context, userID string, sess *domain.WorkoutSession) (services.WriteResult, error)
	DeleteSession(ctx context.Context, userID, id string) (services.WriteResult, error)
	SaveSetLogs(ctx context.Context, userID, sessionID string, sets []domain.SetLog) (services.WriteResult, error)
	SaveProgram(ctx context.Context, userID string, p *domain.Program, exercises []domain.ProgramExercise) (services.WriteResult, error)
	DeleteProgram(ctx context.Context, userID, id string) (services.WriteResult, error)
	SaveTemplate(ctx context.Context, userID string, t *domain.Template) (services.WriteResult, error)
	DeleteTemplate(ctx context.Context, userID, id string) (services.WriteResult, error)
	SaveGym(ctx context.Context, userID string, g *domain.Gym, equipment []domain.GymEquipment) (services.WriteResult, error)
	DeleteGym(ctx context.Context, userID, id string) (services.WriteResult, error)
	SaveMeasurement(ctx context.Context, userID string, m *domain.Measurement) (services.WriteResult, error)
	DeleteMeasurement(ctx context.Context, userID, id string) (services.WriteResult, error)
	SaveGoal(ctx context.Context, userID string, g *domain.Goal) (services.WriteResult, error)
	DeleteGoal(ctx context.Context, userID, id string) (services.WriteResult, error)
	SaveAchievement(ctx context.Context, userID string, a *domain.Achievement) (services.WriteResult, error)
	DeleteAchievement(ctx context.Context, userID, id string) (services.WriteResult, error)
	SavePreferences(ctx context.Context, userID string, p *domain.UserPreference) (services.WriteResult, error)
}

// QueryService reads user records.
type QueryService interface {
	ListSessions(ctx context.Context, userID string, since time.Time) ([]domain.WorkoutSession, error)
	GetSession(ctx context.Context, userID, id string) (*services.SessionDetail, error)
	ListSetLogs(ctx context.Context, userID, sessionID string) ([]domain.SetLog, error)
	ListPrograms(ctx context.Context, userID string) ([]domain.Program, error)
	GetProgram(ctx context.Context, userID, id string) (*services.ProgramDetail, error)
	ListTemplates(ctx context.Context, userID string) ([]domain.Template, error)
	ListGyms(ctx context.Context, userID string) ([]domain.Gym, error)
	GetGym(ctx context.Context, userID, id string) (*services.GymDetail, error)
	ListMeasurements(ctx context.Context, userID, metric string) ([]domain.Measurement, error)
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	ListAchievements(ctx context.Context, userID string) ([]domain.Achievement, error)
}

// StatsService computes cached aggregates.
type StatsService interface {
	Volume(ctx context.Context, userID string, days int) ([]repo.DailyTotal, error)
	Frequency(ctx context.Context, userID string, days int) ([]repo.DailyTotal, error)
	Streaks(ctx context.Context, userID string) (repo.Streaks, error)
	PersonalRecord(ctx context.Context, userID, exerciseID string) (float64, error)
	History(ctx context.Context, userID, exerciseID string, limit int) ([]repo.ExercisePoint, error)
}

// AccountService handles the sign-in lifecycle and the UI state store.
type AccountService interface {
	SignOut(ctx context.Context, userID string, wipeQueue bool) (services.SignOutResult, error)
	SignIn(ctx context.Context, userID string) error
	PutUIState(ctx context.Context, userID, key, value string) error
	GetUIState(ctx context.Context, userID, key string) (string, error)
}

// SyncController is the sync processor as seen by the API.
type SyncController interface {
	IsSyncing() bool
	Enabled() bool
	QueueLength() int
	RefreshLength(ctx context.Context) int
	Trigger()
	Drain(ctx context.Context) (processor.DrainResult, error)
}

// SyncQueue is the outbox as seen by the API.
type SyncQueue interface {
	ListPending(ctx context.Context) ([]domain.SyncQueueItem, error)
	Clear(ctx context.Context) (int64, error)
}

// Connectivity is the reachability monitor as seen by the API.
type Connectivity interface {
	Online() bool
	Set(online bool) bool
	Foreground(ctx context.Context) bool
}

//
// Handler wiring
//

// Deps bundles the services behind the API.
type Deps struct {
	Log          LogService
	Query        QueryService
	Stats        StatsService
	Account      AccountService
	Sync         SyncController
	Queue        SyncQueue
	Connectivity Connectivity
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	log     LogService
	query   QueryService
	stats   StatsService
	account AccountService
	sync    SyncController
	queue   SyncQueue
	conn    Connectivity
}

// New constructs Handlers bound to the given services.
func New(d Deps) *Handlers {
	return &Handlers{
		log:     d.Log,
		query:   d.Query,
		stats:   d.Stats,
		account: d.Account,
		sync:    d.Sync,
		queue:   d.Queue,
		conn:    d.Connectivity,
	}
}

// userID returns the acting user set by middleware.Identity, or "".
// Services reject an empty id with ErrNoUser.
func userID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}
