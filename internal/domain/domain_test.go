package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{"full name", &User{FirstName: "Alex", LastName: "Kim", Email: "a@x.io"}, "Alex Kim"},
		{"first only", &User{FirstName: "Alex", Email: "a@x.io"}, "Alex"},
		{"last only", &User{LastName: "Kim", Email: "a@x.io"}, "Kim"},
		{"whitespace names fall back to email", &User{FirstName: "  ", LastName: " ", Email: "a@x.io"}, "a@x.io"},
		{"email fallback", &User{Email: "a@x.io"}, "a@x.io"},
		{"nothing left", &User{}, UnknownUserName},
		{"nil user", nil, UnknownUserName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestAssignmentTargetValid(t *testing.T) {
	groupID := primitive.NewObjectID()
	athletes := []primitive.ObjectID{primitive.NewObjectID()}

	tests := []struct {
		name   string
		target AssignmentTarget
		want   bool
	}{
		{"athletes only", AssignmentTarget{AthleteIDs: athletes}, true},
		{"group only", AssignmentTarget{GroupID: &groupID}, true},
		{"neither", AssignmentTarget{}, false},
		{"both", AssignmentTarget{AthleteIDs: athletes, GroupID: &groupID}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.Valid())
		})
	}
}

func TestSourceRefValid(t *testing.T) {
	id := primitive.NewObjectID()
	assert.True(t, SourceRef{Type: SourceTemplate, ID: id}.Valid())
	assert.True(t, SourceRef{Type: SourceCustom, ID: id}.Valid())
	assert.False(t, SourceRef{Type: "BOGUS", ID: id}.Valid())
	assert.False(t, SourceRef{Type: SourceTemplate}.Valid())
}

func TestSortBlocksIsStable(t *testing.T) {
	blocks := []Block{
		{ID: "b", Title: "Second", Order: 1, Exercises: []BlockExercise{
			{ID: "e3", Name: "C", Order: 1},
			{ID: "e1", Name: "A", Order: 0},
			{ID: "e2", Name: "B", Order: 1},
		}},
		{ID: "a", Title: "First", Order: 0},
	}

	SortBlocks(blocks)

	assert.Equal(t, "First", blocks[0].Title)
	assert.Equal(t, "Second", blocks[1].Title)

	// Equal orders keep their insertion order.
	got := make([]string, 0, 3)
	for _, ex := range blocks[1].Exercises {
		got = append(got, ex.Name)
	}
	assert.Equal(t, []string{"A", "C", "B"}, got)
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2024, time.March, 4, 18, 45, 12, 999, loc)

	got := DateOnly(in)

	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), got)
}
