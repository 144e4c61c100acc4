package service

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound      = errors.New("workout template not found")
	ErrCustomWorkoutNotFound = errors.New("custom workout not found")
	ErrWorkoutAccessDenied   = errors.New("access denied to modify this workout")
	ErrSourceNotFound        = errors.New("workout source not found")
	ErrInvalidSource         = errors.New("invalid workout source reference")
)

// BlockExerciseInput is one exercise entry as submitted by a coach.
type BlockExerciseInput struct {
	Name         string
	ExerciseID   *primitive.ObjectID
	Order        int
	Prescription domain.Prescription
	Notes        string
}

// BlockInput is one block as submitted by a coach.
type BlockInput struct {
	Title     string
	Order     int
	Exercises []BlockExerciseInput
}

// WorkoutInput carries the editable fields shared by templates and custom
// workouts. Every update replaces the whole block tree with this input.
type WorkoutInput struct {
	Title             string
	Description       string
	Tags              []string
	Difficulty        string
	Equipment         []string
	EstimatedDuration *int
	Blocks            []BlockInput
}

// WorkoutService manages workout sources: templates, custom workouts, the
// clone operation, and polymorphic source resolution.
type WorkoutService interface {
	// Templates
	CreateTemplate(ctx context.Context, input WorkoutInput) (*domain.WorkoutTemplate, error)
	GetTemplate(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, id primitive.ObjectID, input WorkoutInput) (*domain.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, id primitive.ObjectID) error

	// Custom workouts (coach-owned)
	CreateCustomWorkout(ctx context.Context, coachID primitive.ObjectID, input WorkoutInput) (*domain.CustomWorkout, error)
	ListCustomWorkouts(ctx context.Context, coachID primitive.ObjectID) ([]domain.CustomWorkout, error)
	UpdateCustomWorkout(ctx context.Context, coachID, id primitive.ObjectID, input WorkoutInput) (*domain.CustomWorkout, error)
	DeleteCustomWorkout(ctx context.Context, coachID, id primitive.ObjectID) error

	// Clone deep-copies a template's block tree into a new custom workout
	// owned by the coach, recording provenance.
	CloneTemplate(ctx context.Context, templateID, coachID primitive.ObjectID) (*domain.CustomWorkout, error)

	// GetSource resolves a polymorphic source reference into a render-ready
	// view with blocks and exercises sorted by order.
	GetSource(ctx context.Context, ref domain.SourceRef) (*domain.WorkoutSource, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	templateRepo repository.TemplateRepository
	customRepo   repository.CustomWorkoutRepository
	logger       *zap.Logger
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	templateRepo repository.TemplateRepository,
	customRepo repository.CustomWorkoutRepository,
	logger *zap.Logger,
) WorkoutService {
	return &workoutService{
		templateRepo: templateRepo,
		customRepo:   customRepo,
		logger:       logger,
	}
}

// buildBlocks materializes submitted block inputs into domain blocks with fresh
// ids. Order values are stored as given; uniqueness is not enforced and ties
// keep insertion order on read.
func buildBlocks(inputs []BlockInput) []domain.Block {
	blocks := make([]domain.Block, len(inputs))
	for i, b := range inputs {
		exercises := make([]domain.BlockExercise, len(b.Exercises))
		for j, e := range b.Exercises {
			exercises[j] = domain.BlockExercise{
				ID:           uuid.NewString(),
				Name:         e.Name,
				ExerciseID:   e.ExerciseID,
				Order:        e.Order,
				Prescription: e.Prescription,
				Notes:        e.Notes,
			}
		}
		blocks[i] = domain.Block{
			ID:        uuid.NewString(),
			Title:     b.Title,
			Order:     b.Order,
			Exercises: exercises,
		}
	}
	return blocks
}

// cloneBlocks deep-copies a block tree with fresh ids, preserving titles,
// order, prescriptions, and notes.
func cloneBlocks(src []domain.Block) []domain.Block {
	blocks := make([]domain.Block, len(src))
	for i, b := range src {
		exercises := make([]domain.BlockExercise, len(b.Exercises))
		for j, e := range b.Exercises {
			copied := e
			copied.ID = uuid.NewString()
			exercises[j] = copied
		}
		blocks[i] = domain.Block{
			ID:        uuid.NewString(),
			Title:     b.Title,
			Order:     b.Order,
			Exercises: exercises,
		}
	}
	return blocks
}

// === Templates ===

func (s *workoutService) CreateTemplate(ctx context.Context, input WorkoutInput) (*domain.WorkoutTemplate, error) {
	if input.Title == "" {
		return nil, errors.New("template title is required")
	}

	tpl := &domain.WorkoutTemplate{
		Title:             input.Title,
		Description:       input.Description,
		Tags:              input.Tags,
		Difficulty:        input.Difficulty,
		Equipment:         input.Equipment,
		EstimatedDuration: input.EstimatedDuration,
		Blocks:            buildBlocks(input.Blocks),
	}

	id, err := s.templateRepo.Create(ctx, tpl)
	if err != nil {
		return nil, err
	}
	tpl.ID = id

	s.logger.Info("template created", zap.String("templateId", id.Hex()), zap.String("title", tpl.Title))
	return tpl, nil
}

func (s *workoutService) GetTemplate(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	domain.SortBlocks(tpl.Blocks)
	return tpl, nil
}

func (s *workoutService) ListTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	return s.templateRepo.List(ctx)
}

// UpdateTemplate replaces the template's fields and whole block tree.
func (s *workoutService) UpdateTemplate(ctx context.Context, id primitive.ObjectID, input WorkoutInput) (*domain.WorkoutTemplate, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	tpl.Title = input.Title
	tpl.Description = input.Description
	tpl.Tags = input.Tags
	tpl.Difficulty = input.Difficulty
	tpl.Equipment = input.Equipment
	tpl.EstimatedDuration = input.EstimatedDuration
	tpl.Blocks = buildBlocks(input.Blocks)

	if err := s.templateRepo.Replace(ctx, tpl); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

func (s *workoutService) DeleteTemplate(ctx context.Context, id primitive.ObjectID) error {
	err := s.templateRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

// === Custom workouts ===

func (s *workoutService) CreateCustomWorkout(ctx context.Context, coachID primitive.ObjectID, input WorkoutInput) (*domain.CustomWorkout, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	if input.Title == "" {
		return nil, errors.New("workout title is required")
	}

	w := &domain.CustomWorkout{
		CoachID:           coachID,
		Title:             input.Title,
		Description:       input.Description,
		Tags:              input.Tags,
		Difficulty:        input.Difficulty,
		Equipment:         input.Equipment,
		EstimatedDuration: input.EstimatedDuration,
		Blocks:            buildBlocks(input.Blocks),
	}

	id, err := s.customRepo.Create(ctx, w)
	if err != nil {
		return nil, err
	}
	w.ID = id
	return w, nil
}

func (s *workoutService) ListCustomWorkouts(ctx context.Context, coachID primitive.ObjectID) ([]domain.CustomWorkout, error) {
	return s.customRepo.GetByCoachID(ctx, coachID)
}

// UpdateCustomWorkout replaces the workout's fields and whole block tree. Only
// the owning coach may update it.
func (s *workoutService) UpdateCustomWorkout(ctx context.Context, coachID, id primitive.ObjectID, input WorkoutInput) (*domain.CustomWorkout, error) {
	w, err := s.customRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomWorkoutNotFound
		}
		return nil, err
	}
	if w.CoachID != coachID {
		return nil, ErrWorkoutAccessDenied
	}

	w.Title = input.Title
	w.Description = input.Description
	w.Tags = input.Tags
	w.Difficulty = input.Difficulty
	w.Equipment = input.Equipment
	w.EstimatedDuration = input.EstimatedDuration
	w.Blocks = buildBlocks(input.Blocks)

	if err := s.customRepo.Replace(ctx, w); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomWorkoutNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *workoutService) DeleteCustomWorkout(ctx context.Context, coachID, id primitive.ObjectID) error {
	w, err := s.customRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCustomWorkoutNotFound
		}
		return err
	}
	if w.CoachID != coachID {
		return ErrWorkoutAccessDenied
	}
	return s.customRepo.Delete(ctx, id)
}

// === Clone ===

// CloneTemplate deep-copies a template into a new custom workout owned by the
// coach. The copy is written as one document insert, so a failure leaves no
// partial tree behind.
func (s *workoutService) CloneTemplate(ctx context.Context, templateID, coachID primitive.ObjectID) (*domain.CustomWorkout, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}

	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	w := &domain.CustomWorkout{
		CoachID:           coachID,
		SourceTemplateID:  &tpl.ID,
		Title:             tpl.Title,
		Description:       tpl.Description,
		Tags:              append([]string(nil), tpl.Tags...),
		Difficulty:        tpl.Difficulty,
		Equipment:         append([]string(nil), tpl.Equipment...),
		EstimatedDuration: tpl.EstimatedDuration,
		Blocks:            cloneBlocks(tpl.Blocks),
	}

	id, err := s.customRepo.Create(ctx, w)
	if err != nil {
		return nil, err
	}
	w.ID = id

	s.logger.Info("template cloned",
		zap.String("templateId", templateID.Hex()),
		zap.String("customWorkoutId", id.Hex()),
		zap.String("coachId", coachID.Hex()))
	return w, nil
}

// === Source resolution ===

// GetSource resolves a polymorphic reference by branching on its type. Blocks
// and exercises come back sorted ascending by order (stable, ties keep
// insertion order).
func (s *workoutService) GetSource(ctx context.Context, ref domain.SourceRef) (*domain.WorkoutSource, error) {
	if !ref.Valid() {
		return nil, ErrInvalidSource
	}

	var src domain.WorkoutSource
	src.Ref = ref

	switch ref.Type {
	case domain.SourceTemplate:
		tpl, err := s.templateRepo.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrSourceNotFound
			}
			return nil, err
		}
		src.Title = tpl.Title
		src.Description = tpl.Description
		src.Blocks = tpl.Blocks
	case domain.SourceCustom:
		w, err := s.customRepo.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrSourceNotFound
			}
			return nil, err
		}
		src.Title = w.Title
		src.Description = w.Description
		src.Blocks = w.Blocks
	}

	domain.SortBlocks(src.Blocks)
	return &src, nil
}
