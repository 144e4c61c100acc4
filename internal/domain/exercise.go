// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the shared library.
// Block entries reference it only as a weak lookup (see BlockExercise.ExerciseID);
// deleting or renaming a library entry never invalidates existing workouts or logs.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"` // e.g., "Chest", "Legs", "Conditioning"
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`

	// VideoObjectKey points at a demo video in object storage. The API layer
	// resolves it to a temporary presigned URL; the key itself is never exposed.
	VideoObjectKey string `bson:"videoObjectKey,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
