package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frequency labels how a recurring assignment recurs. DaysOfWeek already
// encodes the actual expansion days, so this is display labeling only.
type Frequency string

const (
	FrequencyWeekly       Frequency = "weekly"
	FrequencyTwicePerWeek Frequency = "2x_per_week"
)

// RecurringAssignment is a saved rule that eagerly generated assignments across
// a date range at creation time. It never regenerates retroactively; stopping
// it (active=false) does not retract already-created assignments.
type RecurringAssignment struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CoachID    primitive.ObjectID   `bson:"coachId" json:"coachId"`
	Source     SourceRef            `bson:"source" json:"source"`
	AthleteIDs []primitive.ObjectID `bson:"athleteIds,omitempty" json:"athleteIds,omitempty"`
	GroupID    *primitive.ObjectID  `bson:"groupId,omitempty" json:"groupId,omitempty"`
	Frequency  Frequency            `bson:"frequency" json:"frequency"`
	DaysOfWeek []int                `bson:"daysOfWeek" json:"daysOfWeek"` // 0=Sunday .. 6=Saturday
	StartDate  time.Time            `bson:"startDate" json:"startDate"`
	EndDate    time.Time            `bson:"endDate" json:"endDate"` // inclusive
	Active     bool                 `bson:"active" json:"active"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Target returns the rule's fan-out target in the form the assignment engine
// consumes.
func (r *RecurringAssignment) Target() AssignmentTarget {
	return AssignmentTarget{AthleteIDs: r.AthleteIDs, GroupID: r.GroupID}
}
