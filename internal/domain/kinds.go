package domain

// EntityKind names a synced table. The value is also the remote table name
// used on the wire and the table name used locally.
type EntityKind string

const (
	KindSession         EntityKind = "sessions"
	KindSetLog          EntityKind = "set_logs"
	KindTemplate        EntityKind = "templates"
	KindProgram         EntityKind = "programs"
	KindProgramExercise EntityKind = "program_exercises"
	KindProgramProgress EntityKind = "program_progress"
	KindGym             EntityKind = "gyms"
	KindGymEquipment    EntityKind = "gym_equipment"
	KindMeasurement     EntityKind = "measurements"
	KindGoal            EntityKind = "goals"
	KindAchievement     EntityKind = "achievements"
	KindUserPreferences EntityKind = "user_preferences"
)

// Kinds lists every synced entity kind.
var Kinds = []EntityKind{
	KindSession, KindSetLog, KindTemplate,
	KindProgram, KindProgramExercise, KindProgramProgress,
	KindGym, KindGymEquipment,
	KindMeasurement, KindGoal, KindAchievement, KindUserPreferences,
}

// Valid reports whether k is a known synced table.
func (k EntityKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Operation is the kind of mutation recorded in the outbox.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Valid reports whether op is create, update or delete.
func (op Operation) Valid() bool {
	switch op {
	case OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

// Entity is implemented by every synced row.
type Entity interface {
	EntityID() string
	OwnerID() string
	Kind() EntityKind
}

// Decodable is implemented by entities with structured columns. DecodeErr
// names the first column that failed to decode on the last read.
type Decodable interface {
	DecodeErr() (field string, err error)
}
