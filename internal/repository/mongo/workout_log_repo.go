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

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new WorkoutLog repository backed by MongoDB.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// GetByAssignmentID retrieves the log for an assignment.
func (r *mongoWorkoutLogRepository) GetByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.collection.FindOne(ctx, bson.M{"assignmentId": assignmentID}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// SaveProgress upserts the log keyed by assignmentId. The embedded set array is
// written wholesale, so replacing prior sets is a single document write.
// CompletedAt is deliberately not in the $set: only SetCompleted touches it.
func (r *mongoWorkoutLogRepository) SaveProgress(ctx context.Context, log *domain.WorkoutLog) (*domain.WorkoutLog, error) {
	if log.AssignmentID == primitive.NilObjectID || log.AthleteID == primitive.NilObjectID {
		return nil, errors.New("workout log requires assignmentId and athleteId")
	}
	if log.Sets == nil {
		log.Sets = []domain.SetLog{}
	}

	now := time.Now().UTC()
	filter := bson.M{"assignmentId": log.AssignmentID}
	update := bson.M{
		"$set": bson.M{
			"athleteId":    log.AthleteID,
			"overallNotes": log.OverallNotes,
			"avgHeartRate": log.AvgHeartRate,
			"maxHeartRate": log.MaxHeartRate,
			"minHeartRate": log.MinHeartRate,
			"deviceName":   log.DeviceName,
			"sets":         log.Sets,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved domain.WorkoutLog
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SetCompleted upserts the log for the assignment and stamps completedAt.
// Calling it again simply refreshes the timestamp.
func (r *mongoWorkoutLogRepository) SetCompleted(ctx context.Context, assignmentID, athleteID primitive.ObjectID, at time.Time) error {
	if assignmentID == primitive.NilObjectID || athleteID == primitive.NilObjectID {
		return errors.New("assignmentId and athleteId are required")
	}

	now := time.Now().UTC()
	filter := bson.M{"assignmentId": assignmentID}
	update := bson.M{
		"$set": bson.M{
			"athleteId":   athleteID,
			"completedAt": at,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"sets":      bson.A{},
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// EnsureWorkoutLogIndexes creates necessary indexes for the workout logs collection.
// The unique assignmentId index is what enforces one-log-per-assignment.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assignmentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
