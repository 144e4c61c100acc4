package repository

import (
	"athletiq/coach-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TransactionManager runs a function inside a storage transaction. Repository
// calls made with the callback's context join the transaction; any error rolls
// the whole unit back.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for the user directory.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ExerciseRepository defines the interface for the shared exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TemplateRepository defines the interface for workout templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetByTitle(ctx context.Context, title string) (*domain.WorkoutTemplate, error)
	List(ctx context.Context) ([]domain.WorkoutTemplate, error)
	// Replace overwrites the template's mutable fields, including the whole
	// block tree, in a single document write.
	Replace(ctx context.Context, tpl *domain.WorkoutTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CustomWorkoutRepository defines the interface for coach-private workouts.
type CustomWorkoutRepository interface {
	Create(ctx context.Context, w *domain.CustomWorkout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomWorkout, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.CustomWorkout, error)
	Replace(ctx context.Context, w *domain.CustomWorkout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AssignmentRepository defines the interface for scheduled assignments.
type AssignmentRepository interface {
	CreateMany(ctx context.Context, assignments []domain.Assignment) ([]domain.Assignment, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	// GetByAthleteID and GetByCoachID return assignments sorted by
	// scheduledDate descending (newest first).
	GetByAthleteID(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Assignment, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Assignment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AssignmentStatus) error
}

// RecurringAssignmentRepository defines the interface for recurrence rules.
type RecurringAssignmentRepository interface {
	Create(ctx context.Context, rec *domain.RecurringAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RecurringAssignment, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.RecurringAssignment, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// WorkoutLogRepository defines the interface for workout logs. Logs are keyed
// by assignment id (one log per assignment, enforced by a unique index).
type WorkoutLogRepository interface {
	GetByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) (*domain.WorkoutLog, error)
	// SaveProgress upserts the log for log.AssignmentID: notes, heart-rate
	// fields, and the full set list are written; completedAt is untouched.
	SaveProgress(ctx context.Context, log *domain.WorkoutLog) (*domain.WorkoutLog, error)
	// SetCompleted upserts the log for the assignment and stamps completedAt.
	SetCompleted(ctx context.Context, assignmentID, athleteID primitive.ObjectID, at time.Time) error
}

// GroupRepository defines the interface for coach-owned athlete rosters.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Group, error)
}
