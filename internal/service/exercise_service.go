package service

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/repository"
	"athletiq/coach-app/internal/storage"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrExerciseNameTaken = errors.New("an exercise with this name already exists")
	ErrNoVideoAttached   = errors.New("exercise has no demo video")
	ErrValidationFailed  = errors.New("exercise validation failed")
)

// ExerciseInput carries the editable fields of a library exercise.
type ExerciseInput struct {
	Name         string
	Category     string
	Instructions string
}

// VideoUpload is a presigned PUT grant for a demo video. The client uploads
// the file directly to object storage, then the stored key is already attached
// to the exercise.
type VideoUpload struct {
	UploadURL string
	ObjectKey string
}

// ExerciseService manages the shared exercise library. Writes are restricted
// to coaches at the API layer; the library itself has no per-coach ownership.
type ExerciseService interface {
	CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error

	// RequestVideoUpload issues a presigned PUT URL for a fresh object key and
	// records the key on the exercise. A previously attached video is removed
	// from storage.
	RequestVideoUpload(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (*VideoUpload, error)

	// GetVideoURL issues a short-lived presigned GET URL for the exercise's
	// demo video.
	GetVideoURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
	logger       *zap.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage, logger *zap.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

func (s *exerciseService) CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	if _, err := s.exerciseRepo.GetByName(ctx, input.Name); err == nil {
		return nil, ErrExerciseNameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:         input.Name,
		Category:     input.Category,
		Instructions: input.Instructions,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	// Fetch again to get DB-populated timestamps.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if other, err := s.exerciseRepo.GetByName(ctx, input.Name); err == nil && other.ID != existing.ID {
		return nil, ErrExerciseNameTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	existing.Name = input.Name
	existing.Category = input.Category
	existing.Instructions = input.Instructions

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	// Best effort: the exercise is already gone, an orphaned object is not
	// worth failing the request over.
	if existing.VideoObjectKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, existing.VideoObjectKey); err != nil {
			s.logger.Warn("failed to delete demo video object",
				zap.String("exerciseId", exerciseID.Hex()),
				zap.String("key", existing.VideoObjectKey),
				zap.Error(err))
		}
	}
	return nil
}

func (s *exerciseService) RequestVideoUpload(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (*VideoUpload, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	oldKey := exercise.VideoObjectKey
	newKey := fmt.Sprintf("exercise-videos/%s/%s", exerciseID.Hex(), uuid.NewString())

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, newKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	exercise.VideoObjectKey = newKey
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}

	if oldKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, oldKey); err != nil {
			s.logger.Warn("failed to delete replaced demo video object",
				zap.String("exerciseId", exerciseID.Hex()),
				zap.String("key", oldKey),
				zap.Error(err))
		}
	}

	return &VideoUpload{UploadURL: uploadURL, ObjectKey: newKey}, nil
}

func (s *exerciseService) GetVideoURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}
	if exercise.VideoObjectKey == "" {
		return "", ErrNoVideoAttached
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.VideoObjectKey, storage.DefaultPresignedURLExpiry)
}
