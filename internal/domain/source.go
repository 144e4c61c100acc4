package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SourceType discriminates which table a workout source reference points into.
type SourceType string

const (
	SourceTemplate SourceType = "TEMPLATE"
	SourceCustom   SourceType = "CUSTOM"
)

// SourceRef is a polymorphic reference to a workout source, resolved at read
// time by branching on Type. There is no database-level constraint across the
// two source collections; a dangling reference degrades to a display fallback,
// never a hard failure.
type SourceRef struct {
	Type SourceType         `bson:"type" json:"sourceType"`
	ID   primitive.ObjectID `bson:"id" json:"sourceId"`
}

// Valid reports whether the reference names a known source type and a non-nil id.
func (r SourceRef) Valid() bool {
	if r.ID == primitive.NilObjectID {
		return false
	}
	return r.Type == SourceTemplate || r.Type == SourceCustom
}

// WorkoutSource is the resolved, render-ready view of a template or custom
// workout: blocks and exercises sorted ascending by order.
type WorkoutSource struct {
	Ref         SourceRef `json:"ref"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Blocks      []Block   `json:"blocks"`
}
