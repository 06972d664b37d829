// Package domain defines the persistence models of the fitness log: workout
// sessions and their set logs, templates, training programs, gyms,
// measurements, goals, achievements and preferences, plus the sync outbox
// row. These types are mapped with GORM and are also the payloads shipped to
// the remote backend, so their JSON tags are the wire field names.
//
// Rows are flat and versionless. Ids are supplied by the caller (the app
// generates them offline) and every synced row carries its owner's user id.
package domain

import "time"

// WorkoutSession is one training session. A session is a draft until
// Completed is set; drafts stay local and are never pushed.
//
// Fields:
//   - ID: caller-supplied primary key.
//   - UserID: owner; indexed together with StartedAt for calendar queries.
//   - StartedAt: when the session began; its calendar day drives statistics.
//   - Completed: completion marker, null while the session is in progress.
//   - Tags: free-form labels stored as a structured column.
type WorkoutSession struct {
	ID          string         `json:"id"                    gorm:"type:varchar(64);primaryKey"`
	UserID      string         `json:"user_id"               gorm:"type:varchar(64);not null;index:idx_sessions_user_started,priority:1"`
	Name        string         `json:"name"                  gorm:"type:varchar(255);not null;default:''"`
	TemplateID  *string        `json:"template_id,omitempty" gorm:"type:varchar(64)"`
	ProgramID   *string        `json:"program_id,omitempty"  gorm:"type:varchar(64);index"`
	GymID       *string        `json:"gym_id,omitempty"      gorm:"type:varchar(64)"`
	StartedAt   time.Time      `json:"started_at"            gorm:"not null;index:idx_sessions_user_started,priority:2"`
	Completed   *time.Time     `json:"completed"             gorm:"column:completed_at"`
	DurationSec int            `json:"duration_sec"          gorm:"not null;default:0"`
	Notes       string         `json:"notes"                 gorm:"type:text;not null;default:''"`
	Tags        JSON[[]string] `json:"tags"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TableName returns the database table name for WorkoutSession.
func (WorkoutSession) TableName() string { return string(KindSession) }

func (s WorkoutSession) EntityID() string { return s.ID }
func (s WorkoutSession) OwnerID() string  { return s.UserID }
func (WorkoutSession) Kind() EntityKind   { return KindSession }
func (s WorkoutSession) DecodeErr() (string, error) {
	if err := s.Tags.Err(); err != nil {
		return "tags", err
	}
	return "", nil
}

// SetLog is a single performed set inside a session.
type SetLog struct {
	ID           string    `json:"id"            gorm:"type:varchar(64);primaryKey"`
	UserID       string    `json:"user_id"       gorm:"type:varchar(64);not null;index:idx_set_logs_user_exercise,priority:1"`
	SessionID    string    `json:"session_id"    gorm:"type:varchar(64);not null;index"`
	ExerciseID   string    `json:"exercise_id"   gorm:"type:varchar(64);not null;index:idx_set_logs_user_exercise,priority:2"`
	ExerciseName string    `json:"exercise_name" gorm:"type:varchar(255);not null;default:''"`
	SetIndex     int       `json:"set_index"     gorm:"not null;default:0"`
	Weight       float64   `json:"weight"        gorm:"not null;default:0;check:weight >= 0"`
	Reps         int       `json:"reps"          gorm:"not null;default:0;check:reps >= 0"`
	RPE          *float64  `json:"rpe,omitempty"`
	IsWarmup     bool      `json:"is_warmup"     gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for SetLog.
func (SetLog) TableName() string { return string(KindSetLog) }

func (l SetLog) EntityID() string { return l.ID }
func (l SetLog) OwnerID() string  { return l.UserID }
func (SetLog) Kind() EntityKind   { return KindSetLog }

// TemplateExercise is one planned exercise inside a Template.
type TemplateExercise struct {
	ExerciseID string `json:"exercise_id"`
	Name       string `json:"name"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	RestSec    int    `json:"rest_sec,omitempty"`
}

// Template is a reusable session plan.
type Template struct {
	ID          string                   `json:"id"          gorm:"type:varchar(64);primaryKey"`
	UserID      string                   `json:"user_id"     gorm:"type:varchar(64);not null;index"`
	Name        string                   `json:"name"        gorm:"type:varchar(255);not null"`
	Description string                   `json:"description" gorm:"type:text;not null;default:''"`
	Exercises   JSON[[]TemplateExercise] `json:"exercises"`
	CreatedAt   time.Time                `json:"created_at"`
}

// TableName returns the database table name for Template.
func (Template) TableName() string { return string(KindTemplate) }

func (t Template) EntityID() string { return t.ID }
func (t Template) OwnerID() string  { return t.UserID }
func (Template) Kind() EntityKind   { return KindTemplate }
func (t Template) DecodeErr() (string, error) {
	if err := t.Exercises.Err(); err != nil {
		return "exercises", err
	}
	return "", nil
}

// Program is a multi-week training plan. ParentID links a derived program to
// the program it was forked from; deleting the parent detaches the children.
//
// Schedule maps a day label ("mon", "day1", ...) to ordered exercise ids.
type Program struct {
	ID          string                    `json:"id"                  gorm:"type:varchar(64);primaryKey"`
	UserID      string                    `json:"user_id"             gorm:"type:varchar(64);not null;index"`
	ParentID    *string                   `json:"parent_id,omitempty" gorm:"type:varchar(64);index"`
	Name        string                    `json:"name"                gorm:"type:varchar(255);not null"`
	Description string                    `json:"description"         gorm:"type:text;not null;default:''"`
	Weeks       int                       `json:"weeks"               gorm:"not null;default:1;check:weeks >= 1"`
	Schedule    JSON[map[string][]string] `json:"schedule"`
	StartedAt   *time.Time                `json:"started_at,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`

	// Parent declares the program→program foreign key. It is never loaded.
	Parent *Program `json:"-" gorm:"foreignKey:ParentID;references:ID"`
}

// TableName returns the database table name for Program.
func (Program) TableName() string { return string(KindProgram) }

func (p Program) EntityID() string { return p.ID }
func (p Program) OwnerID() string  { return p.UserID }
func (Program) Kind() EntityKind   { return KindProgram }
func (p Program) DecodeErr() (string, error) {
	if err := p.Schedule.Err(); err != nil {
		return "schedule", err
	}
	return "", nil
}

// ProgramExercise is an exercise slot inside a program day. RepScheme holds
// the target reps per set, e.g. [5,5,5] or [12,10,8].
type ProgramExercise struct {
	ID         string      `json:"id"          gorm:"type:varchar(64);primaryKey"`
	UserID     string      `json:"user_id"     gorm:"type:varchar(64);not null;index"`
	ProgramID  string      `json:"program_id"  gorm:"type:varchar(64);not null;index"`
	ExerciseID string      `json:"exercise_id" gorm:"type:varchar(64);not null"`
	Name       string      `json:"name"        gorm:"type:varchar(255);not null;default:''"`
	Day        int         `json:"day"         gorm:"not null;default:0"`
	Position   int         `json:"position"    gorm:"not null;default:0"`
	RepScheme  JSON[[]int] `json:"rep_scheme"`
	CreatedAt  time.Time   `json:"created_at"`

	Program Program `json:"-" gorm:"foreignKey:ProgramID;references:ID"`
}

// TableName returns the database table name for ProgramExercise.
func (ProgramExercise) TableName() string { return string(KindProgramExercise) }

func (e ProgramExercise) EntityID() string { return e.ID }
func (e ProgramExercise) OwnerID() string  { return e.UserID }
func (ProgramExercise) Kind() EntityKind   { return KindProgramExercise }
func (e ProgramExercise) DecodeErr() (string, error) {
	if err := e.RepScheme.Err(); err != nil {
		return "rep_scheme", err
	}
	return "", nil
}

// ProgramProgress records a completed program day.
type ProgramProgress struct {
	ID          string    `json:"id"                   gorm:"type:varchar(64);primaryKey"`
	UserID      string    `json:"user_id"              gorm:"type:varchar(64);not null;index"`
	ProgramID   string    `json:"program_id"           gorm:"type:varchar(64);not null;index"`
	Week        int       `json:"week"                 gorm:"not null;default:1"`
	Day         int       `json:"day"                  gorm:"not null;default:0"`
	SessionID   *string   `json:"session_id,omitempty" gorm:"type:varchar(64)"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`

	Program Program `json:"-" gorm:"foreignKey:ProgramID;references:ID"`
}

// TableName returns the database table name for ProgramProgress.
func (ProgramProgress) TableName() string { return string(KindProgramProgress) }

func (p ProgramProgress) EntityID() string { return p.ID }
func (p ProgramProgress) OwnerID() string  { return p.UserID }
func (ProgramProgress) Kind() EntityKind   { return KindProgramProgress }

// Gym is a training location. It owns its GymEquipment rows.
type Gym struct {
	ID        string    `json:"id"         gorm:"type:varchar(64);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	Location  string    `json:"location"   gorm:"type:varchar(255);not null;default:''"`
	IsDefault bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Gym.
func (Gym) TableName() string { return string(KindGym) }

func (g Gym) EntityID() string { return g.ID }
func (g Gym) OwnerID() string  { return g.UserID }
func (Gym) Kind() EntityKind   { return KindGym }

// GymEquipment is a piece of equipment available at a gym.
type GymEquipment struct {
	ID        string    `json:"id"                   gorm:"type:varchar(64);primaryKey"`
	UserID    string    `json:"user_id"              gorm:"type:varchar(64);not null;index"`
	GymID     string    `json:"gym_id"               gorm:"type:varchar(64);not null;index"`
	Name      string    `json:"name"                 gorm:"type:varchar(255);not null"`
	Quantity  int       `json:"quantity"             gorm:"not null"`
	MaxWeight *float64  `json:"max_weight,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Gym Gym `json:"-" gorm:"foreignKey:GymID;references:ID"`
}

// TableName returns the database table name for GymEquipment.
func (GymEquipment) TableName() string { return string(KindGymEquipment) }

func (e GymEquipment) EntityID() string { return e.ID }
func (e GymEquipment) OwnerID() string  { return e.UserID }
func (GymEquipment) Kind() EntityKind   { return KindGymEquipment }

// Measurement is a body measurement such as weight or body fat.
type Measurement struct {
	ID         string    `json:"id"          gorm:"type:varchar(64);primaryKey"`
	UserID     string    `json:"user_id"     gorm:"type:varchar(64);not null;index:idx_measurements_user_kind,priority:1"`
	Metric     string    `json:"metric"      gorm:"type:varchar(32);not null;index:idx_measurements_user_kind,priority:2"`
	Value      float64   `json:"value"       gorm:"not null"`
	Unit       string    `json:"unit"        gorm:"type:varchar(16);not null;default:''"`
	MeasuredAt time.Time `json:"measured_at" gorm:"not null"`
	Notes      string    `json:"notes"       gorm:"type:text;not null;default:''"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for Measurement.
func (Measurement) TableName() string { return string(KindMeasurement) }

func (m Measurement) EntityID() string { return m.ID }
func (m Measurement) OwnerID() string  { return m.UserID }
func (Measurement) Kind() EntityKind   { return KindMeasurement }

// GoalMilestone is an intermediate target on the way to a goal.
type GoalMilestone struct {
	Value     float64    `json:"value"`
	Label     string     `json:"label,omitempty"`
	ReachedAt *time.Time `json:"reached_at,omitempty"`
}

// Goal is a user target, optionally tied to an exercise.
type Goal struct {
	ID         string                `json:"id"                    gorm:"type:varchar(64);primaryKey"`
	UserID     string                `json:"user_id"               gorm:"type:varchar(64);not null;index"`
	Title      string                `json:"title"                 gorm:"type:varchar(255);not null"`
	Metric     string                `json:"metric"                gorm:"type:varchar(32);not null;default:''"`
	ExerciseID *string               `json:"exercise_id,omitempty" gorm:"type:varchar(64)"`
	Target     float64               `json:"target"                gorm:"not null;default:0"`
	Current    float64               `json:"current"               gorm:"not null;default:0"`
	Deadline   *time.Time            `json:"deadline,omitempty"`
	AchievedAt *time.Time            `json:"achieved_at,omitempty"`
	Milestones JSON[[]GoalMilestone] `json:"milestones"`
	CreatedAt  time.Time             `json:"created_at"`
}

// TableName returns the database table name for Goal.
func (Goal) TableName() string { return string(KindGoal) }

func (g Goal) EntityID() string { return g.ID }
func (g Goal) OwnerID() string  { return g.UserID }
func (Goal) Kind() EntityKind   { return KindGoal }
func (g Goal) DecodeErr() (string, error) {
	if err := g.Milestones.Err(); err != nil {
		return "milestones", err
	}
	return "", nil
}

// Achievement is an unlocked badge.
type Achievement struct {
	ID         string               `json:"id"          gorm:"type:varchar(64);primaryKey"`
	UserID     string               `json:"user_id"     gorm:"type:varchar(64);not null;uniqueIndex:ux_achievements_user_code"`
	Code       string               `json:"code"        gorm:"type:varchar(64);not null;uniqueIndex:ux_achievements_user_code"`
	Title      string               `json:"title"       gorm:"type:varchar(255);not null;default:''"`
	UnlockedAt time.Time            `json:"unlocked_at" gorm:"not null"`
	Metadata   JSON[map[string]any] `json:"metadata"`
	CreatedAt  time.Time            `json:"created_at"`
}

// TableName returns the database table name for Achievement.
func (Achievement) TableName() string { return string(KindAchievement) }

func (a Achievement) EntityID() string { return a.ID }
func (a Achievement) OwnerID() string  { return a.UserID }
func (Achievement) Kind() EntityKind   { return KindAchievement }
func (a Achievement) DecodeErr() (string, error) {
	if err := a.Metadata.Err(); err != nil {
		return "metadata", err
	}
	return "", nil
}

// UserPreference holds per-user settings. There is one row per user.
type UserPreference struct {
	ID           string               `json:"id"             gorm:"type:varchar(64);primaryKey"`
	UserID       string               `json:"user_id"        gorm:"type:varchar(64);not null;uniqueIndex"`
	Units        string               `json:"units"          gorm:"type:varchar(8);not null;default:'kg';check:units IN ('kg','lb')"`
	WeekStartsOn int                  `json:"week_starts_on" gorm:"not null;check:week_starts_on BETWEEN 0 AND 6"`
	RestTimerSec int                  `json:"rest_timer_sec" gorm:"not null"`
	Settings     JSON[map[string]any] `json:"settings"`
	CreatedAt    time.Time            `json:"created_at"`
}

// TableName returns the database table name for UserPreference.
func (UserPreference) TableName() string { return string(KindUserPreferences) }

func (p UserPreference) EntityID() string { return p.ID }
func (p UserPreference) OwnerID() string  { return p.UserID }
func (UserPreference) Kind() EntityKind   { return KindUserPreferences }
func (p UserPreference) DecodeErr() (string, error) {
	if err := p.Settings.Err(); err != nil {
		return "settings", err
	}
	return "", nil
}

// UIStateEntry is auxiliary per-user UI state (last tab, drafts, dismissed
// hints). It is local only, never synced, and cleared on sign-out.
type UIStateEntry struct {
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);primaryKey"`
	Key       string    `json:"key"        gorm:"column:state_key;type:varchar(128);primaryKey"`
	Value     string    `json:"value"      gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for UIStateEntry.
func (UIStateEntry) TableName() string { return "ui_state" }

// Models lists every GORM model of the entity store in migration order.
func Models() []any {
	return []any{
		&WorkoutSession{}, &SetLog{}, &Template{},
		&Program{}, &ProgramExercise{}, &ProgramProgress{},
		&Gym{}, &GymEquipment{},
		&Measurement{}, &Goal{}, &Achievement{}, &UserPreference{},
	}
}
