package service

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrAssignmentAccessDenied = errors.New("assignment does not belong to this athlete")
	ErrLogNotFound            = errors.New("workout log not found")
	ErrLogAccessDenied        = errors.New("access denied to read this workout log")
)

// SetLogInput is one submitted set row. The exercise is identified by its
// display name, not by id: logs stay valid even if the source workout is
// edited afterwards.
type SetLogInput struct {
	ExerciseName   string
	SetNumber      int
	Reps           *int
	Weight         *string
	TimeSeconds    *int
	DistanceMeters *float64
	RPE            *float64
	Notes          string
}

// SaveProgressInput is the full payload of one progress save. Sets replace all
// previously saved sets; an empty slice clears them. HeartRate is the optional
// summary produced by an external sensor session.
type SaveProgressInput struct {
	OverallNotes string
	Sets         []SetLogInput
	HeartRate    *domain.HeartRateSummary
}

// WorkoutLogService captures athlete results against assignments and owns the
// assignment completion transition.
type WorkoutLogService interface {
	// SaveProgress upserts the assignment's log (insert on first save, update
	// after) and replaces its set rows with the submitted ones. CompletedAt is
	// never touched by this call.
	SaveProgress(ctx context.Context, assignmentID, athleteID primitive.ObjectID, input SaveProgressInput) (*domain.WorkoutLog, error)

	// Complete stamps completedAt on the log and transitions the assignment
	// UPCOMING -> COMPLETED. Completing an already-completed assignment is
	// idempotent: the status stays COMPLETED and completedAt is refreshed.
	Complete(ctx context.Context, assignmentID, athleteID primitive.ObjectID) (*domain.Assignment, error)

	// GetLog returns the assignment's log to its athlete or issuing coach.
	GetLog(ctx context.Context, assignmentID, actorID primitive.ObjectID) (*domain.WorkoutLog, error)
}

// workoutLogService implements the WorkoutLogService interface.
type workoutLogService struct {
	assignmentRepo repository.AssignmentRepository
	logRepo        repository.WorkoutLogRepository
	logger         *zap.Logger
}

// NewWorkoutLogService creates a new instance of workoutLogService.
func NewWorkoutLogService(
	assignmentRepo repository.AssignmentRepository,
	logRepo repository.WorkoutLogRepository,
	logger *zap.Logger,
) WorkoutLogService {
	return &workoutLogService{
		assignmentRepo: assignmentRepo,
		logRepo:        logRepo,
		logger:         logger,
	}
}

// getOwnedAssignment fetches an assignment and verifies the athlete owns it.
func (s *workoutLogService) getOwnedAssignment(ctx context.Context, assignmentID, athleteID primitive.ObjectID) (*domain.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.AthleteID != athleteID {
		return nil, ErrAssignmentAccessDenied
	}
	return assignment, nil
}

func (s *workoutLogService) SaveProgress(ctx context.Context, assignmentID, athleteID primitive.ObjectID, input SaveProgressInput) (*domain.WorkoutLog, error) {
	if assignmentID == primitive.NilObjectID || athleteID == primitive.NilObjectID {
		return nil, errors.New("assignment ID and athlete ID are required")
	}

	if _, err := s.getOwnedAssignment(ctx, assignmentID, athleteID); err != nil {
		return nil, err
	}

	sets := make([]domain.SetLog, len(input.Sets))
	for i, in := range input.Sets {
		sets[i] = domain.SetLog{
			ID:             uuid.NewString(),
			ExerciseName:   in.ExerciseName,
			SetNumber:      in.SetNumber,
			Reps:           in.Reps,
			Weight:         in.Weight,
			TimeSeconds:    in.TimeSeconds,
			DistanceMeters: in.DistanceMeters,
			RPE:            in.RPE,
			Notes:          in.Notes,
		}
	}

	log := &domain.WorkoutLog{
		AssignmentID: assignmentID,
		AthleteID:    athleteID,
		OverallNotes: input.OverallNotes,
		Sets:         sets,
	}
	if hr := input.HeartRate; hr != nil {
		avg, max, min := hr.AvgHeartRate, hr.MaxHeartRate, hr.MinHeartRate
		log.AvgHeartRate = &avg
		log.MaxHeartRate = &max
		log.MinHeartRate = &min
		log.DeviceName = hr.DeviceName
	}

	saved, err := s.logRepo.SaveProgress(ctx, log)
	if err != nil {
		return nil, err
	}

	s.logger.Info("workout progress saved",
		zap.String("assignmentId", assignmentID.Hex()),
		zap.String("athleteId", athleteID.Hex()),
		zap.Int("sets", len(saved.Sets)))
	return saved, nil
}

func (s *workoutLogService) Complete(ctx context.Context, assignmentID, athleteID primitive.ObjectID) (*domain.Assignment, error) {
	if assignmentID == primitive.NilObjectID || athleteID == primitive.NilObjectID {
		return nil, errors.New("assignment ID and athlete ID are required")
	}

	assignment, err := s.getOwnedAssignment(ctx, assignmentID, athleteID)
	if err != nil {
		return nil, err
	}

	if err := s.logRepo.SetCompleted(ctx, assignmentID, athleteID, time.Now().UTC()); err != nil {
		return nil, err
	}

	// COMPLETED is terminal: re-completing just refreshes completedAt above
	// and rewrites the same status.
	if err := s.assignmentRepo.UpdateStatus(ctx, assignmentID, domain.StatusCompleted); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	assignment.Status = domain.StatusCompleted

	s.logger.Info("assignment completed",
		zap.String("assignmentId", assignmentID.Hex()),
		zap.String("athleteId", athleteID.Hex()))
	return assignment, nil
}

func (s *workoutLogService) GetLog(ctx context.Context, assignmentID, actorID primitive.ObjectID) (*domain.WorkoutLog, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.AthleteID != actorID && assignment.CoachID != actorID {
		return nil, ErrLogAccessDenied
	}

	log, err := s.logRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return log, nil
}
