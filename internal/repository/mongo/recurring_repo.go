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

const recurringCollectionName = "recurring_assignments"

// mongoRecurringRepository implements repository.RecurringAssignmentRepository
type mongoRecurringRepository struct {
	collection *mongo.Collection
}

// NewMongoRecurringRepository creates a new RecurringAssignment repository backed by MongoDB.
func NewMongoRecurringRepository(db *mongo.Database) repository.RecurringAssignmentRepository {
	return &mongoRecurringRepository{
		collection: db.Collection(recurringCollectionName),
	}
}

// Create persists a recurrence rule. Expansion into dated assignments happens
// in the service layer, after this row has fixed the rule's id.
func (r *mongoRecurringRepository) Create(ctx context.Context, rec *domain.RecurringAssignment) (primitive.ObjectID, error) {
	if rec.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("recurring assignment requires coachId")
	}

	rec.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted recurring assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a recurrence rule by its ID.
func (r *mongoRecurringRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RecurringAssignment, error) {
	var rec domain.RecurringAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// GetByCoachID retrieves all recurrence rules created by a coach, newest first.
func (r *mongoRecurringRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.RecurringAssignment, error) {
	var recs []domain.RecurringAssignment
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// SetActive flips the rule's active flag. Already-created assignments are never
// touched.
func (r *mongoRecurringRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	update := bson.M{"$set": bson.M{
		"active":    active,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRecurringIndexes creates necessary indexes for the recurring assignments collection.
func EnsureRecurringIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "active", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
