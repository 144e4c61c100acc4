package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetLog is one row of per-set results within a workout log. ExerciseName is
// free text matched by name against the source's block exercises, not by id:
// renaming an exercise in the source after logging intentionally does not touch
// historical logs.
type SetLog struct {
	ID             string   `bson:"id" json:"id"` // uuid, assigned on write
	ExerciseName   string   `bson:"exerciseName" json:"exerciseName"`
	SetNumber      int      `bson:"setNumber" json:"setNumber"`
	Reps           *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight         *string  `bson:"weight,omitempty" json:"weight,omitempty"` // free text, supports "bodyweight"
	TimeSeconds    *int     `bson:"timeSeconds,omitempty" json:"timeSeconds,omitempty"`
	DistanceMeters *float64 `bson:"distanceMeters,omitempty" json:"distanceMeters,omitempty"`
	RPE            *float64 `bson:"rpe,omitempty" json:"rpe,omitempty"`
	Notes          string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// HeartRateSummary is the opaque per-session payload produced by an external
// sensor collaborator.
type HeartRateSummary struct {
	AvgHeartRate int    `json:"avgHeartRate"`
	MaxHeartRate int    `json:"maxHeartRate"`
	MinHeartRate int    `json:"minHeartRate"`
	DeviceName   string `json:"deviceName,omitempty"`
}

// WorkoutLog is an athlete's submitted results for one assignment. There is at
// most one log per assignment (unique index on assignmentId); every save
// replaces the embedded set list wholesale. CompletedAt is set only by the
// completion action, independent of whether sets are present.
type WorkoutLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssignmentID primitive.ObjectID `bson:"assignmentId" json:"assignmentId"`
	AthleteID    primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	OverallNotes string             `bson:"overallNotes,omitempty" json:"overallNotes,omitempty"`
	AvgHeartRate *int               `bson:"avgHeartRate,omitempty" json:"avgHeartRate,omitempty"`
	MaxHeartRate *int               `bson:"maxHeartRate,omitempty" json:"maxHeartRate,omitempty"`
	MinHeartRate *int               `bson:"minHeartRate,omitempty" json:"minHeartRate,omitempty"`
	DeviceName   string             `bson:"deviceName,omitempty" json:"deviceName,omitempty"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Sets         []SetLog           `bson:"sets" json:"sets"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
