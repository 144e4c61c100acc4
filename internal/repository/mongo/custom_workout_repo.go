package mongo

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const customWorkoutCollectionName = "custom_workouts"

// mongoCustomWorkoutRepository implements repository.CustomWorkoutRepository
type mongoCustomWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomWorkoutRepository creates a new CustomWorkout repository backed by MongoDB.
func NewMongoCustomWorkoutRepository(db *mongo.Database) repository.CustomWorkoutRepository {
	return &mongoCustomWorkoutRepository{
		collection: db.Collection(customWorkoutCollectionName),
	}
}

// Create inserts a new custom workout. Clone relies on this being a single
// document write: either the whole copied tree lands or nothing does.
func (r *mongoCustomWorkoutRepository) Create(ctx context.Context, w *domain.CustomWorkout) (primitive.ObjectID, error) {
	if w.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("custom workout requires coachId")
	}
	if w.Title == "" {
		return primitive.NilObjectID, errors.New("custom workout requires a title")
	}

	w.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, w)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted custom workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a custom workout by its ID.
func (r *mongoCustomWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomWorkout, error) {
	var w domain.CustomWorkout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetByCoachID retrieves all custom workouts owned by a coach, newest first.
func (r *mongoCustomWorkoutRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.CustomWorkout, error) {
	var workouts []domain.CustomWorkout
	filter := bson.M{"coachId": coachID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Replace overwrites the workout's mutable fields including the embedded block
// tree. CoachID and SourceTemplateID are fixed at creation and never rewritten.
func (r *mongoCustomWorkoutRepository) Replace(ctx context.Context, w *domain.CustomWorkout) error {
	if w.ID == primitive.NilObjectID {
		return errors.New("custom workout ID is required for replace")
	}

	update := bson.M{"$set": bson.M{
		"title":             w.Title,
		"description":       w.Description,
		"tags":              w.Tags,
		"difficulty":        w.Difficulty,
		"equipment":         w.Equipment,
		"estimatedDuration": w.EstimatedDuration,
		"blocks":            w.Blocks,
		"updatedAt":         time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": w.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a custom workout and its embedded tree.
func (r *mongoCustomWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCustomWorkoutIndexes creates necessary indexes for the custom workouts collection.
func EnsureCustomWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Coach library listing
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
