package domain

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prescription is the coach's target for one exercise entry. All fields are
// optional; Reps and Weight are free text to support notations like "8-12" or
// "bodyweight".
type Prescription struct {
	Sets   *int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps   *string `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight *string `bson:"weight,omitempty" json:"weight,omitempty"`
}

// BlockExercise is one exercise entry inside a block. Name is free text and
// renders independently of the library; ExerciseID is a weak reference used only
// to look up optional display metadata (instructions, demo video).
type BlockExercise struct {
	ID           string              `bson:"id" json:"id"` // uuid, assigned on write
	Name         string              `bson:"name" json:"name"`
	ExerciseID   *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	Order        int                 `bson:"order" json:"order"`
	Prescription Prescription        `bson:"prescription" json:"prescription"`
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Block is a named, ordered group of exercises within a workout. Blocks live
// embedded in their parent workout document and are replaced wholesale on
// update, so a block never outlives its parent.
type Block struct {
	ID        string          `bson:"id" json:"id"` // uuid, assigned on write
	Title     string          `bson:"title" json:"title"`
	Order     int             `bson:"order" json:"order"`
	Exercises []BlockExercise `bson:"exercises" json:"exercises"`
}

// SortBlocks orders blocks and each block's exercises ascending by their order
// field. The sort is stable: ties keep insertion order.
func SortBlocks(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Order < blocks[j].Order })
	for b := range blocks {
		ex := blocks[b].Exercises
		sort.SliceStable(ex, func(i, j int) bool { return ex[i].Order < ex[j].Order })
	}
}

// WorkoutTemplate is a coach-shareable, clonable workout definition.
type WorkoutTemplate struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	Tags              []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Difficulty        string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"` // e.g., "beginner", "intermediate", "advanced"
	Equipment         []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	EstimatedDuration *int               `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"` // minutes
	Blocks            []Block            `bson:"blocks" json:"blocks"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CustomWorkout is a coach-private workout definition, structurally identical to
// a template. SourceTemplateID records clone provenance; it is informational
// only and never re-synced against the origin template.
type CustomWorkout struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CoachID           primitive.ObjectID  `bson:"coachId" json:"coachId"`
	SourceTemplateID  *primitive.ObjectID `bson:"sourceTemplateId,omitempty" json:"sourceTemplateId,omitempty"`
	Title             string              `bson:"title" json:"title"`
	Description       string              `bson:"description,omitempty" json:"description,omitempty"`
	Tags              []string            `bson:"tags,omitempty" json:"tags,omitempty"`
	Difficulty        string              `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Equipment         []string            `bson:"equipment,omitempty" json:"equipment,omitempty"`
	EstimatedDuration *int                `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"`
	Blocks            []Block             `bson:"blocks" json:"blocks"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}
