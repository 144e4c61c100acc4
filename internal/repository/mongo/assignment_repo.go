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

const assignmentCollectionName = "assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// CreateMany inserts one assignment per resolved athlete in a single ordered
// InsertMany. Run it under the transaction manager when it must be atomic with
// other writes (recurring expansion).
func (r *mongoAssignmentRepository) CreateMany(ctx context.Context, assignments []domain.Assignment) ([]domain.Assignment, error) {
	if len(assignments) == 0 {
		return []domain.Assignment{}, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(assignments))
	for i := range assignments {
		if assignments[i].AthleteID == primitive.NilObjectID || assignments[i].CoachID == primitive.NilObjectID {
			return nil, errors.New("assignment requires athleteId and coachId")
		}
		assignments[i].ID = primitive.NewObjectID()
		if assignments[i].Status == "" {
			assignments[i].Status = domain.StatusUpcoming
		}
		assignments[i].CreatedAt = now
		assignments[i].UpdatedAt = now
		docs[i] = assignments[i]
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByAthleteID retrieves all assignments for an athlete, newest scheduled first.
func (r *mongoAssignmentRepository) GetByAthleteID(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"athleteId": athleteID})
}

// GetByCoachID retrieves all assignments issued by a coach, newest scheduled first.
func (r *mongoAssignmentRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"coachId": coachID})
}

func (r *mongoAssignmentRepository) find(ctx context.Context, filter bson.M) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// UpdateStatus sets the assignment's status field. The service layer owns the
// transition rules; this write is unconditional.
func (r *mongoAssignmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AssignmentStatus) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
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

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Athlete schedule listing
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "scheduledDate", Value: -1}},
			Options: options.Index(),
		},
		{
			// Coach dashboard listing
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "scheduledDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "recurringId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
