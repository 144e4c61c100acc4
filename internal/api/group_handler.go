package api

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupHandler holds the group service dependency.
type GroupHandler struct {
	groupService service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// --- DTOs for API (Data Transfer Objects) ---

type CreateGroupRequest struct {
	Name       string   `json:"name" binding:"required"`
	AthleteIDs []string `json:"athleteIds"`
}

type GroupResponse struct {
	ID         string    `json:"id"`
	CoachID    string    `json:"coachId"`
	Name       string    `json:"name"`
	AthleteIDs []string  `json:"athleteIds"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// GroupMemberResponse is a roster entry resolved to its user record.
type GroupMemberResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MapGroupToResponse converts a domain.Group to its DTO.
func MapGroupToResponse(g *domain.Group) GroupResponse {
	if g == nil {
		return GroupResponse{}
	}
	athleteIDs := make([]string, len(g.AthleteIDs))
	for i, id := range g.AthleteIDs {
		athleteIDs[i] = id.Hex()
	}
	return GroupResponse{
		ID:         g.ID.Hex(),
		CoachID:    g.CoachID.Hex(),
		Name:       g.Name,
		AthleteIDs: athleteIDs,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

// --- Handler Methods ---

// CreateGroup godoc
// @Summary Create an athlete group
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /coach/groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	athleteIDs := make([]primitive.ObjectID, 0, len(req.AthleteIDs))
	for _, idStr := range req.AthleteIDs {
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid athlete ID format: "+idStr)
			return
		}
		athleteIDs = append(athleteIDs, id)
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), coachID, req.Name, athleteIDs)
	if err != nil {
		if errors.Is(err, service.ErrGroupNameRequired) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create group.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapGroupToResponse(group))
}

// ListGroups godoc
// @Summary List the coach's groups
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} GroupResponse
// @Router /coach/groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListGroups(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve groups.")
		return
	}

	responses := make([]GroupResponse, len(groups))
	for i := range groups {
		responses[i] = MapGroupToResponse(&groups[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetGroupMembers godoc
// @Summary List a group's members
// @Description Resolves the roster to user records. Members that no longer exist are skipped.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {array} GroupMemberResponse
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Group not found"
// @Router /coach/groups/{id}/members [get]
func (h *GroupHandler) GetGroupMembers(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	groupID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	members, err := h.groupService.GetGroupMembers(c.Request.Context(), groupID, coachID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			abortWithError(c, http.StatusNotFound, "Group not found.")
		case errors.Is(err, service.ErrGroupAccessDenied):
			abortWithError(c, http.StatusForbidden, "Group belongs to another coach.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve group members.")
		}
		return
	}

	responses := make([]GroupMemberResponse, len(members))
	for i, m := range members {
		responses[i] = GroupMemberResponse{
			ID:    m.ID.Hex(),
			Name:  m.DisplayName(),
			Email: m.Email,
		}
	}
	c.JSON(http.StatusOK, responses)
}
