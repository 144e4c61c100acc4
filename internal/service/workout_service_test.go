package service

import (
	"athletiq/coach-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestWorkoutService() (WorkoutService, *mockTemplateRepo, *mockCustomWorkoutRepo) {
	templateRepo := newMockTemplateRepo()
	customRepo := newMockCustomWorkoutRepo()
	svc := NewWorkoutService(templateRepo, customRepo, zap.NewNop())
	return svc, templateRepo, customRepo
}

func sampleWorkoutInput() WorkoutInput {
	sets := 3
	reps := "8-10"
	return WorkoutInput{
		Title:       "Upper Body A",
		Description: "Push focus",
		Tags:        []string{"strength"},
		Difficulty:  "intermediate",
		Equipment:   []string{"barbell"},
		Blocks: []BlockInput{
			{
				Title: "Main",
				Order: 0,
				Exercises: []BlockExerciseInput{
					{
						Name:         "Bench Press",
						Order:        0,
						Prescription: domain.Prescription{Sets: &sets, Reps: &reps},
					},
					{
						Name:  "Overhead Press",
						Order: 1,
					},
				},
			},
			{
				Title: "Accessories",
				Order: 1,
				Exercises: []BlockExerciseInput{
					{Name: "Lateral Raise", Order: 0},
				},
			},
		},
	}
}

func TestCreateTemplateAssignsBlockIDs(t *testing.T) {
	svc, _, _ := newTestWorkoutService()

	tpl, err := svc.CreateTemplate(context.Background(), sampleWorkoutInput())
	require.NoError(t, err)
	require.Len(t, tpl.Blocks, 2)

	seen := make(map[string]bool)
	for _, block := range tpl.Blocks {
		require.NotEmpty(t, block.ID)
		require.False(t, seen[block.ID], "duplicate block id")
		seen[block.ID] = true
		for _, ex := range block.Exercises {
			require.NotEmpty(t, ex.ID)
			require.False(t, seen[ex.ID], "duplicate exercise id")
			seen[ex.ID] = true
		}
	}
}

func TestCloneTemplateDeepCopy(t *testing.T) {
	svc, _, _ := newTestWorkoutService()
	coachID := primitive.NewObjectID()

	tpl, err := svc.CreateTemplate(context.Background(), sampleWorkoutInput())
	require.NoError(t, err)

	clone, err := svc.CloneTemplate(context.Background(), tpl.ID, coachID)
	require.NoError(t, err)

	assert.Equal(t, coachID, clone.CoachID)
	require.NotNil(t, clone.SourceTemplateID)
	assert.Equal(t, tpl.ID, *clone.SourceTemplateID)
	assert.Equal(t, tpl.Title, clone.Title)

	// Same structure, fresh identity.
	require.Len(t, clone.Blocks, len(tpl.Blocks))
	for i, block := range clone.Blocks {
		original := tpl.Blocks[i]
		assert.NotEqual(t, original.ID, block.ID)
		assert.Equal(t, original.Title, block.Title)
		assert.Equal(t, original.Order, block.Order)
		require.Len(t, block.Exercises, len(original.Exercises))
		for j, ex := range block.Exercises {
			assert.NotEqual(t, original.Exercises[j].ID, ex.ID)
			assert.Equal(t, original.Exercises[j].Name, ex.Name)
			assert.Equal(t, original.Exercises[j].Prescription, ex.Prescription)
		}
	}
}

func TestCloneTemplateIsIndependentOfOriginal(t *testing.T) {
	svc, _, _ := newTestWorkoutService()
	coachID := primitive.NewObjectID()

	tpl, err := svc.CreateTemplate(context.Background(), sampleWorkoutInput())
	require.NoError(t, err)

	clone, err := svc.CloneTemplate(context.Background(), tpl.ID, coachID)
	require.NoError(t, err)

	// Mutating the template afterwards must not reach the clone.
	edited := sampleWorkoutInput()
	edited.Title = "Edited Title"
	edited.Blocks = edited.Blocks[:1]
	_, err = svc.UpdateTemplate(context.Background(), tpl.ID, edited)
	require.NoError(t, err)

	workouts, err := svc.ListCustomWorkouts(context.Background(), coachID)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, clone.Title, workouts[0].Title)
	assert.Len(t, workouts[0].Blocks, 2)
}

func TestCloneTemplateNotFound(t *testing.T) {
	svc, _, _ := newTestWorkoutService()

	_, err := svc.CloneTemplate(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestGetSourceSortsBlocksAndExercises(t *testing.T) {
	svc, _, _ := newTestWorkoutService()

	input := WorkoutInput{
		Title: "Scrambled",
		Blocks: []BlockInput{
			{
				Title: "Second",
				Order: 1,
				Exercises: []BlockExerciseInput{
					{Name: "C", Order: 2},
					{Name: "A", Order: 0},
					{Name: "B", Order: 1},
				},
			},
			{Title: "First", Order: 0},
		},
	}
	tpl, err := svc.CreateTemplate(context.Background(), input)
	require.NoError(t, err)

	source, err := svc.GetSource(context.Background(), domain.SourceRef{
		Type: domain.SourceTemplate,
		ID:   tpl.ID,
	})
	require.NoError(t, err)

	require.Len(t, source.Blocks, 2)
	assert.Equal(t, "First", source.Blocks[0].Title)
	assert.Equal(t, "Second", source.Blocks[1].Title)

	names := make([]string, 0, 3)
	for _, ex := range source.Blocks[1].Exercises {
		names = append(names, ex.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestGetSourceCustomWorkout(t *testing.T) {
	svc, _, _ := newTestWorkoutService()
	coachID := primitive.NewObjectID()

	w, err := svc.CreateCustomWorkout(context.Background(), coachID, sampleWorkoutInput())
	require.NoError(t, err)

	source, err := svc.GetSource(context.Background(), domain.SourceRef{
		Type: domain.SourceCustom,
		ID:   w.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, w.Title, source.Title)
}

func TestGetSourceInvalidAndDangling(t *testing.T) {
	svc, _, _ := newTestWorkoutService()

	_, err := svc.GetSource(context.Background(), domain.SourceRef{Type: "BOGUS", ID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = svc.GetSource(context.Background(), domain.SourceRef{Type: domain.SourceTemplate, ID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = svc.GetSource(context.Background(), domain.SourceRef{Type: domain.SourceCustom, ID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestUpdateCustomWorkoutOwnership(t *testing.T) {
	svc, _, _ := newTestWorkoutService()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	w, err := svc.CreateCustomWorkout(context.Background(), owner, sampleWorkoutInput())
	require.NoError(t, err)

	_, err = svc.UpdateCustomWorkout(context.Background(), stranger, w.ID, sampleWorkoutInput())
	assert.ErrorIs(t, err, ErrWorkoutAccessDenied)

	err = svc.DeleteCustomWorkout(context.Background(), stranger, w.ID)
	assert.ErrorIs(t, err, ErrWorkoutAccessDenied)
}

func TestUpdateTemplateReplacesBlockTree(t *testing.T) {
	svc, _, _ := newTestWorkoutService()

	tpl, err := svc.CreateTemplate(context.Background(), sampleWorkoutInput())
	require.NoError(t, err)

	replacement := WorkoutInput{
		Title: "Rebuilt",
		Blocks: []BlockInput{
			{Title: "Only Block", Order: 0, Exercises: []BlockExerciseInput{{Name: "Row", Order: 0}}},
		},
	}
	updated, err := svc.UpdateTemplate(context.Background(), tpl.ID, replacement)
	require.NoError(t, err)

	assert.Equal(t, "Rebuilt", updated.Title)
	require.Len(t, updated.Blocks, 1)
	assert.Equal(t, "Only Block", updated.Blocks[0].Title)
}
