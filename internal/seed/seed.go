// Package seed bootstraps a fresh database with a starter exercise library
// and a couple of workout templates. Seeding is explicit (run via cmd/seed)
// and idempotent: existing records are matched by name or title and never
// duplicated or overwritten.
package seed

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Seeder inserts the starter data set.
type Seeder struct {
	exerciseRepo repository.ExerciseRepository
	templateRepo repository.TemplateRepository
	logger       *zap.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(exerciseRepo repository.ExerciseRepository, templateRepo repository.TemplateRepository, logger *zap.Logger) *Seeder {
	return &Seeder{
		exerciseRepo: exerciseRepo,
		templateRepo: templateRepo,
		logger:       logger,
	}
}

// Result reports what a seeding run actually created.
type Result struct {
	ExercisesCreated int
	TemplatesCreated int
}

type seedExercise struct {
	Name         string
	Category     string
	Instructions string
}

var starterExercises = []seedExercise{
	{"Back Squat", "legs", "Bar on upper back, squat to parallel, drive up through the heels."},
	{"Bench Press", "chest", "Lower the bar to mid chest, press to lockout."},
	{"Deadlift", "back", "Hinge at the hips, keep the bar close, stand tall."},
	{"Overhead Press", "shoulders", "Press the bar from the shoulders to overhead lockout."},
	{"Pull-Up", "back", "Hang from the bar, pull chin over, lower under control."},
	{"Plank", "core", "Forearms on the floor, hold a straight line from head to heels."},
	{"Running", "conditioning", "Steady pace, nose breathing, relaxed shoulders."},
}

// Run seeds exercises then templates. Safe to call repeatedly.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	if err := s.seedExercises(ctx, result); err != nil {
		return nil, err
	}
	if err := s.seedTemplates(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info("seeding finished",
		zap.Int("exercisesCreated", result.ExercisesCreated),
		zap.Int("templatesCreated", result.TemplatesCreated))
	return result, nil
}

func (s *Seeder) seedExercises(ctx context.Context, result *Result) error {
	for _, se := range starterExercises {
		_, err := s.exerciseRepo.GetByName(ctx, se.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if _, err := s.exerciseRepo.Create(ctx, &domain.Exercise{
			Name:         se.Name,
			Category:     se.Category,
			Instructions: se.Instructions,
		}); err != nil {
			return err
		}
		result.ExercisesCreated++
	}
	return nil
}

func (s *Seeder) seedTemplates(ctx context.Context, result *Result) error {
	for _, template := range s.starterTemplates(ctx) {
		_, err := s.templateRepo.GetByTitle(ctx, template.Title)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if _, err := s.templateRepo.Create(ctx, template); err != nil {
			return err
		}
		result.TemplatesCreated++
	}
	return nil
}

// lookupExerciseID resolves a seeded exercise by name so template blocks can
// carry a strong reference. Missing exercises degrade to a name-only entry.
func (s *Seeder) lookupExerciseID(ctx context.Context, name string) *primitive.ObjectID {
	exercise, err := s.exerciseRepo.GetByName(ctx, name)
	if err != nil {
		return nil
	}
	return &exercise.ID
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func (s *Seeder) starterTemplates(ctx context.Context) []*domain.WorkoutTemplate {
	return []*domain.WorkoutTemplate{
		{
			Title:             "Full Body Strength A",
			Description:       "Three compound lifts with a core finisher.",
			Tags:              []string{"strength", "full-body"},
			Difficulty:        "intermediate",
			Equipment:         []string{"barbell", "rack"},
			EstimatedDuration: intPtr(60),
			Blocks: []domain.Block{
				{
					ID:    uuid.NewString(),
					Title: "Main Lifts",
					Order: 0,
					Exercises: []domain.BlockExercise{
						{
							ID:           uuid.NewString(),
							Name:         "Back Squat",
							ExerciseID:   s.lookupExerciseID(ctx, "Back Squat"),
							Order:        0,
							Prescription: domain.Prescription{Sets: intPtr(5), Reps: strPtr("5"), Weight: strPtr("80% 1RM")},
						},
						{
							ID:           uuid.NewString(),
							Name:         "Bench Press",
							ExerciseID:   s.lookupExerciseID(ctx, "Bench Press"),
							Order:        1,
							Prescription: domain.Prescription{Sets: intPtr(5), Reps: strPtr("5"), Weight: strPtr("75% 1RM")},
						},
						{
							ID:           uuid.NewString(),
							Name:         "Deadlift",
							ExerciseID:   s.lookupExerciseID(ctx, "Deadlift"),
							Order:        2,
							Prescription: domain.Prescription{Sets: intPtr(3), Reps: strPtr("5")},
						},
					},
				},
				{
					ID:    uuid.NewString(),
					Title: "Finisher",
					Order: 1,
					Exercises: []domain.BlockExercise{
						{
							ID:           uuid.NewString(),
							Name:         "Plank",
							ExerciseID:   s.lookupExerciseID(ctx, "Plank"),
							Order:        0,
							Prescription: domain.Prescription{Sets: intPtr(3), Reps: strPtr("60s hold")},
						},
					},
				},
			},
		},
		{
			Title:             "Conditioning Base",
			Description:       "Aerobic base building with bodyweight support work.",
			Tags:              []string{"conditioning", "endurance"},
			Difficulty:        "beginner",
			Equipment:         []string{},
			EstimatedDuration: intPtr(45),
			Blocks: []domain.Block{
				{
					ID:    uuid.NewString(),
					Title: "Aerobic Work",
					Order: 0,
					Exercises: []domain.BlockExercise{
						{
							ID:           uuid.NewString(),
							Name:         "Running",
							ExerciseID:   s.lookupExerciseID(ctx, "Running"),
							Order:        0,
							Prescription: domain.Prescription{Reps: strPtr("30 min easy pace")},
						},
					},
				},
				{
					ID:    uuid.NewString(),
					Title: "Support Work",
					Order: 1,
					Exercises: []domain.BlockExercise{
						{
							ID:           uuid.NewString(),
							Name:         "Pull-Up",
							ExerciseID:   s.lookupExerciseID(ctx, "Pull-Up"),
							Order:        0,
							Prescription: domain.Prescription{Sets: intPtr(3), Reps: strPtr("max")},
						},
						{
							ID:           uuid.NewString(),
							Name:         "Plank",
							ExerciseID:   s.lookupExerciseID(ctx, "Plank"),
							Order:        1,
							Prescription: domain.Prescription{Sets: intPtr(3), Reps: strPtr("45s hold")},
						},
					},
				},
			},
		},
	}
}
