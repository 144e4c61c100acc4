package service

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrGroupNotFound         = errors.New("group not found")
	ErrRecurringNotFound     = errors.New("recurring assignment not found")
	ErrRecurringAccessDenied = errors.New("access denied to modify this recurring assignment")
	ErrInvalidTarget         = errors.New("target must be exactly one of athleteIds or groupId")
	ErrInvalidDateRange      = errors.New("end date must not be before start date")
	ErrInvalidDaysOfWeek     = errors.New("daysOfWeek must be a non-empty set of values 0 (Sunday) through 6 (Saturday)")
)

// AssignmentView is an assignment enriched for display: the resolved workout
// title plus the counterpart's name (athlete name for the coach view, coach
// name for the athlete view).
type AssignmentView struct {
	domain.Assignment
	WorkoutTitle string `json:"workoutTitle"`
	AthleteName  string `json:"athleteName,omitempty"`
	CoachName    string `json:"coachName,omitempty"`
}

// RecurringResult is what creating a recurrence rule returns: the persisted
// rule and every assignment its eager expansion produced.
type RecurringResult struct {
	Recurring *domain.RecurringAssignment `json:"recurring"`
	Created   []domain.Assignment         `json:"created"`
}

// AssignmentService owns assignment fan-out, recurring expansion, and the
// enriched read views.
type AssignmentService interface {
	// Assign fans one assign action out to every resolved athlete: one
	// UPCOMING assignment per athlete on the scheduled date. Re-assigning the
	// same source/date/athlete creates a second independent assignment.
	Assign(ctx context.Context, coachID primitive.ObjectID, ref domain.SourceRef, scheduledDate time.Time, target domain.AssignmentTarget) ([]domain.Assignment, error)

	// CreateRecurring persists the rule and eagerly expands it over the whole
	// inclusive date range, fanning out on every matching weekday.
	CreateRecurring(ctx context.Context, coachID primitive.ObjectID, ref domain.SourceRef, target domain.AssignmentTarget, frequency domain.Frequency, daysOfWeek []int, startDate, endDate time.Time) (*RecurringResult, error)

	// StopRecurring deactivates a rule. Only the creating coach may stop it;
	// already-created assignments stay scheduled.
	StopRecurring(ctx context.Context, recurringID, coachID primitive.ObjectID) error

	ListRecurring(ctx context.Context, coachID primitive.ObjectID) ([]domain.RecurringAssignment, error)

	// ListForCoach / ListForAthlete return assignments newest scheduled date
	// first, enriched with workout title and counterpart name.
	ListForCoach(ctx context.Context, coachID primitive.ObjectID) ([]AssignmentView, error)
	ListForAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]AssignmentView, error)
}

// assignmentService implements the AssignmentService interface.
type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	recurringRepo  repository.RecurringAssignmentRepository
	groupRepo      repository.GroupRepository
	userRepo       repository.UserRepository
	templateRepo   repository.TemplateRepository
	customRepo     repository.CustomWorkoutRepository
	txn            repository.TransactionManager
	logger         *zap.Logger
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	recurringRepo repository.RecurringAssignmentRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	templateRepo repository.TemplateRepository,
	customRepo repository.CustomWorkoutRepository,
	txn repository.TransactionManager,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		recurringRepo:  recurringRepo,
		groupRepo:      groupRepo,
		userRepo:       userRepo,
		templateRepo:   templateRepo,
		customRepo:     customRepo,
		txn:            txn,
		logger:         logger,
	}
}

// resolveTarget expands a target into concrete athlete ids. A group with zero
// members resolves to an empty list, which is accepted, not an error.
func (s *assignmentService) resolveTarget(ctx context.Context, coachID primitive.ObjectID, target domain.AssignmentTarget) ([]primitive.ObjectID, error) {
	if target.GroupID != nil && *target.GroupID != primitive.NilObjectID {
		group, err := s.groupRepo.GetByID(ctx, *target.GroupID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}
		if group.CoachID != coachID {
			return nil, ErrGroupAccessDenied
		}
		return group.AthleteIDs, nil
	}
	return target.AthleteIDs, nil
}

// buildFanOut produces one assignment per athlete, all sharing the same
// source, date, and coach.
func buildFanOut(coachID primitive.ObjectID, ref domain.SourceRef, date time.Time, athleteIDs []primitive.ObjectID, recurringID *primitive.ObjectID) []domain.Assignment {
	assignments := make([]domain.Assignment, len(athleteIDs))
	for i, athleteID := range athleteIDs {
		assignments[i] = domain.Assignment{
			AthleteID:     athleteID,
			CoachID:       coachID,
			Source:        ref,
			ScheduledDate: domain.DateOnly(date),
			Status:        domain.StatusUpcoming,
			RecurringID:   recurringID,
		}
	}
	return assignments
}

// === Fan-out ===

func (s *assignmentService) Assign(ctx context.Context, coachID primitive.ObjectID, ref domain.SourceRef, scheduledDate time.Time, target domain.AssignmentTarget) ([]domain.Assignment, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	if !ref.Valid() {
		return nil, ErrInvalidSource
	}
	if !target.Valid() {
		return nil, ErrInvalidTarget
	}

	athleteIDs, err := s.resolveTarget(ctx, coachID, target)
	if err != nil {
		return nil, err
	}

	created, err := s.assignmentRepo.CreateMany(ctx, buildFanOut(coachID, ref, scheduledDate, athleteIDs, nil))
	if err != nil {
		return nil, err
	}

	s.logger.Info("assignments fanned out",
		zap.String("coachId", coachID.Hex()),
		zap.Int("count", len(created)),
		zap.Time("scheduledDate", domain.DateOnly(scheduledDate)))
	return created, nil
}

// === Recurring expansion ===

func validDaysOfWeek(days []int) bool {
	if len(days) == 0 {
		return false
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return false
		}
	}
	return true
}

func (s *assignmentService) CreateRecurring(ctx context.Context, coachID primitive.ObjectID, ref domain.SourceRef, target domain.AssignmentTarget, frequency domain.Frequency, daysOfWeek []int, startDate, endDate time.Time) (*RecurringResult, error) {
	// Everything is validated before the first write; a rejected call leaves
	// no partial state.
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	if !ref.Valid() {
		return nil, ErrInvalidSource
	}
	if !target.Valid() {
		return nil, ErrInvalidTarget
	}
	if !validDaysOfWeek(daysOfWeek) {
		return nil, ErrInvalidDaysOfWeek
	}

	start := domain.DateOnly(startDate)
	end := domain.DateOnly(endDate)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	if frequency == "" {
		frequency = domain.FrequencyWeekly
	}

	athleteIDs, err := s.resolveTarget(ctx, coachID, target)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(daysOfWeek))
	for _, d := range daysOfWeek {
		wanted[d] = true
	}

	rec := &domain.RecurringAssignment{
		CoachID:    coachID,
		Source:     ref,
		AthleteIDs: target.AthleteIDs,
		GroupID:    target.GroupID,
		Frequency:  frequency,
		DaysOfWeek: daysOfWeek,
		StartDate:  start,
		EndDate:    end,
		Active:     true,
	}

	var created []domain.Assignment
	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		// The rule row goes first, fixing its id so expanded assignments can
		// point back at it.
		recID, err := s.recurringRepo.Create(ctx, rec)
		if err != nil {
			return err
		}
		rec.ID = recID

		// Day-by-day scan over the inclusive range: every date whose weekday
		// (0=Sunday..6=Saturday) is in the set gets a full fan-out. No past
		// dates are skipped and nothing is deduplicated against existing
		// assignments.
		var assignments []domain.Assignment
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if wanted[int(d.Weekday())] {
				assignments = append(assignments, buildFanOut(coachID, ref, d, athleteIDs, &rec.ID)...)
			}
		}

		created, err = s.assignmentRepo.CreateMany(ctx, assignments)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recurring assignment created",
		zap.String("recurringId", rec.ID.Hex()),
		zap.String("coachId", coachID.Hex()),
		zap.Int("assignmentsCreated", len(created)))
	return &RecurringResult{Recurring: rec, Created: created}, nil
}

func (s *assignmentService) StopRecurring(ctx context.Context, recurringID, coachID primitive.ObjectID) error {
	rec, err := s.recurringRepo.GetByID(ctx, recurringID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecurringNotFound
		}
		return err
	}
	if rec.CoachID != coachID {
		return ErrRecurringAccessDenied
	}

	// Deactivation only: assignments already expanded from this rule stay
	// scheduled.
	return s.recurringRepo.SetActive(ctx, recurringID, false)
}

func (s *assignmentService) ListRecurring(ctx context.Context, coachID primitive.ObjectID) ([]domain.RecurringAssignment, error) {
	return s.recurringRepo.GetByCoachID(ctx, coachID)
}

// === Enriched views ===

// resolveWorkoutTitle branches on source type. A dangling reference degrades to
// "#<id>" rather than failing the whole listing.
func (s *assignmentService) resolveWorkoutTitle(ctx context.Context, ref domain.SourceRef) string {
	switch ref.Type {
	case domain.SourceTemplate:
		if tpl, err := s.templateRepo.GetByID(ctx, ref.ID); err == nil {
			return tpl.Title
		}
	case domain.SourceCustom:
		if w, err := s.customRepo.GetByID(ctx, ref.ID); err == nil {
			return w.Title
		}
	}
	return "#" + ref.ID.Hex()
}

// resolveUserName looks up a counterpart's display name, degrading to
// "Unknown" when the record is missing.
func (s *assignmentService) resolveUserName(ctx context.Context, id primitive.ObjectID) string {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return domain.UnknownUserName
	}
	return user.DisplayName()
}

func (s *assignmentService) ListForCoach(ctx context.Context, coachID primitive.ObjectID) ([]AssignmentView, error) {
	assignments, err := s.assignmentRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}

	titles := make(map[domain.SourceRef]string)
	names := make(map[primitive.ObjectID]string)

	views := make([]AssignmentView, len(assignments))
	for i, a := range assignments {
		title, ok := titles[a.Source]
		if !ok {
			title = s.resolveWorkoutTitle(ctx, a.Source)
			titles[a.Source] = title
		}
		name, ok := names[a.AthleteID]
		if !ok {
			name = s.resolveUserName(ctx, a.AthleteID)
			names[a.AthleteID] = name
		}
		views[i] = AssignmentView{Assignment: a, WorkoutTitle: title, AthleteName: name}
	}
	return views, nil
}

func (s *assignmentService) ListForAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]AssignmentView, error) {
	assignments, err := s.assignmentRepo.GetByAthleteID(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	titles := make(map[domain.SourceRef]string)
	names := make(map[primitive.ObjectID]string)

	views := make([]AssignmentView, len(assignments))
	for i, a := range assignments {
		title, ok := titles[a.Source]
		if !ok {
			title = s.resolveWorkoutTitle(ctx, a.Source)
			titles[a.Source] = title
		}
		name, ok := names[a.CoachID]
		if !ok {
			name = s.resolveUserName(ctx, a.CoachID)
			names[a.CoachID] = name
		}
		views[i] = AssignmentView{Assignment: a, WorkoutTitle: title, CoachName: name}
	}
	return views, nil
}
