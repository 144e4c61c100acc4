package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a coach-owned roster of athletes used as a fan-out target. A group
// with zero members is valid; assigning to it simply creates nothing.
type Group struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CoachID    primitive.ObjectID   `bson:"coachId" json:"coachId"`
	Name       string               `bson:"name" json:"name"`
	AthleteIDs []primitive.ObjectID `bson:"athleteIds,omitempty" json:"athleteIds,omitempty"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`
}
