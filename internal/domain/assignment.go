package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus type for assignment lifecycle
type AssignmentStatus string

const (
	StatusUpcoming  AssignmentStatus = "UPCOMING"
	StatusCompleted AssignmentStatus = "COMPLETED" // Terminal: no operation returns an assignment to UPCOMING
)

// Assignment is a scheduled instance of a workout source for one athlete on one
// date. Created by fan-out or recurring expansion; the only mutation is the
// UPCOMING -> COMPLETED transition; never deleted by normal flow.
type Assignment struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AthleteID     primitive.ObjectID  `bson:"athleteId" json:"athleteId"`
	CoachID       primitive.ObjectID  `bson:"coachId" json:"coachId"`
	Source        SourceRef           `bson:"source" json:"source"`
	ScheduledDate time.Time           `bson:"scheduledDate" json:"scheduledDate"` // date only, midnight UTC
	Status        AssignmentStatus    `bson:"status" json:"status"`
	RecurringID   *primitive.ObjectID `bson:"recurringId,omitempty" json:"recurringId,omitempty"` // set when created by recurring expansion
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// AssignmentTarget names who an assign action fans out to: an explicit athlete
// list or a group, exactly one of the two.
type AssignmentTarget struct {
	AthleteIDs []primitive.ObjectID `json:"athleteIds,omitempty"`
	GroupID    *primitive.ObjectID  `json:"groupId,omitempty"`
}

// Valid reports whether exactly one of AthleteIDs / GroupID is set.
func (t AssignmentTarget) Valid() bool {
	hasAthletes := len(t.AthleteIDs) > 0
	hasGroup := t.GroupID != nil && *t.GroupID != primitive.NilObjectID
	return hasAthletes != hasGroup
}

// DateOnly truncates a timestamp to midnight UTC. Assignments are scheduled per
// calendar day; the time component is never significant.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
