package service

import (
	"athletiq/coach-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestGroupService() (GroupService, *mockGroupRepo, *mockUserRepo) {
	groupRepo := newMockGroupRepo()
	userRepo := newMockUserRepo()
	svc := NewGroupService(groupRepo, userRepo, zap.NewNop())
	return svc, groupRepo, userRepo
}

func TestCreateGroupValidation(t *testing.T) {
	svc, _, _ := newTestGroupService()

	_, err := svc.CreateGroup(context.Background(), primitive.NewObjectID(), "", nil)
	assert.ErrorIs(t, err, ErrGroupNameRequired)

	group, err := svc.CreateGroup(context.Background(), primitive.NewObjectID(), "Sprinters", nil)
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, group.ID)
}

func TestGetGroupOwnership(t *testing.T) {
	svc, _, _ := newTestGroupService()
	coachID := primitive.NewObjectID()

	group, err := svc.CreateGroup(context.Background(), coachID, "Sprinters", nil)
	require.NoError(t, err)

	_, err = svc.GetGroup(context.Background(), group.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrGroupAccessDenied)

	_, err = svc.GetGroup(context.Background(), primitive.NewObjectID(), coachID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestGetGroupMembersSkipsMissingUsers(t *testing.T) {
	svc, _, userRepo := newTestGroupService()
	coachID := primitive.NewObjectID()

	existing := primitive.NewObjectID()
	_, err := userRepo.Create(context.Background(), &domain.User{
		ID:        existing,
		FirstName: "Mia",
		LastName:  "Novak",
		Email:     "mia@example.com",
		Role:      domain.RoleAthlete,
	})
	require.NoError(t, err)

	group, err := svc.CreateGroup(context.Background(), coachID, "Mixed", []primitive.ObjectID{
		existing,
		primitive.NewObjectID(), // deleted account
	})
	require.NoError(t, err)

	members, err := svc.GetGroupMembers(context.Background(), group.ID, coachID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Mia Novak", members[0].DisplayName())
}
