package service

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrGroupAccessDenied = errors.New("group does not belong to this coach")
	ErrGroupNameRequired = errors.New("group name is required")
)

// GroupService manages a coach's athlete rosters. Groups exist so a single
// assignment or recurring rule can fan out to many athletes at once.
type GroupService interface {
	CreateGroup(ctx context.Context, coachID primitive.ObjectID, name string, athleteIDs []primitive.ObjectID) (*domain.Group, error)
	GetGroup(ctx context.Context, groupID, coachID primitive.ObjectID) (*domain.Group, error)
	ListGroups(ctx context.Context, coachID primitive.ObjectID) ([]domain.Group, error)

	// GetGroupMembers resolves the group's athlete ids to user records.
	// Members that no longer exist are silently skipped.
	GetGroupMembers(ctx context.Context, groupID, coachID primitive.ObjectID) ([]domain.User, error)
}

// groupService implements the GroupService interface.
type groupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	logger    *zap.Logger
}

// NewGroupService creates a new instance of groupService.
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository, logger *zap.Logger) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, coachID primitive.ObjectID, name string, athleteIDs []primitive.ObjectID) (*domain.Group, error) {
	if name == "" {
		return nil, ErrGroupNameRequired
	}
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}

	group := &domain.Group{
		CoachID:    coachID,
		Name:       name,
		AthleteIDs: athleteIDs,
	}

	groupID, err := s.groupRepo.Create(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = groupID

	s.logger.Info("group created",
		zap.String("groupId", groupID.Hex()),
		zap.String("coachId", coachID.Hex()),
		zap.Int("members", len(athleteIDs)))
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, groupID, coachID primitive.ObjectID) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.CoachID != coachID {
		return nil, ErrGroupAccessDenied
	}
	return group, nil
}

func (s *groupService) ListGroups(ctx context.Context, coachID primitive.ObjectID) ([]domain.Group, error) {
	return s.groupRepo.GetByCoachID(ctx, coachID)
}

func (s *groupService) GetGroupMembers(ctx context.Context, groupID, coachID primitive.ObjectID) ([]domain.User, error) {
	group, err := s.GetGroup(ctx, groupID, coachID)
	if err != nil {
		return nil, err
	}

	members := make([]domain.User, 0, len(group.AthleteIDs))
	for _, athleteID := range group.AthleteIDs {
		user, err := s.userRepo.GetByID(ctx, athleteID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		members = append(members, *user)
	}
	return members, nil
}
