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

// Dates on the wire are plain calendar days.
const dateLayout = "2006-01-02"

// AssignmentHandler holds the assignment service dependency.
type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// --- DTOs for API (Data Transfer Objects) ---

// SourceRefRequest identifies the workout being assigned.
type SourceRefRequest struct {
	SourceType string `json:"sourceType" binding:"required,oneof=TEMPLATE CUSTOM"`
	SourceID   string `json:"sourceId" binding:"required"`
}

// AssignRequest fans a workout out to athletes on one date. Exactly one of
// athleteIds and groupId must be set.
type AssignRequest struct {
	Source        SourceRefRequest `json:"source" binding:"required"`
	ScheduledDate string           `json:"scheduledDate" binding:"required"`
	AthleteIDs    []string         `json:"athleteIds"`
	GroupID       *string          `json:"groupId"`
}

// CreateRecurringRequest describes a weekly recurrence over a date range.
type CreateRecurringRequest struct {
	Source     SourceRefRequest `json:"source" binding:"required"`
	AthleteIDs []string         `json:"athleteIds"`
	GroupID    *string          `json:"groupId"`
	Frequency  string           `json:"frequency" binding:"omitempty,oneof=weekly 2x_per_week"`
	DaysOfWeek []int            `json:"daysOfWeek" binding:"required"`
	StartDate  string           `json:"startDate" binding:"required"`
	EndDate    string           `json:"endDate" binding:"required"`
}

// AssignmentResponse is the DTO for one scheduled assignment.
type AssignmentResponse struct {
	ID            string    `json:"id"`
	AthleteID     string    `json:"athleteId"`
	CoachID       string    `json:"coachId"`
	SourceType    string    `json:"sourceType"`
	SourceID      string    `json:"sourceId"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Status        string    `json:"status"`
	RecurringID   string    `json:"recurringId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AssignmentViewResponse adds the display enrichments to AssignmentResponse.
type AssignmentViewResponse struct {
	AssignmentResponse
	WorkoutTitle string `json:"workoutTitle"`
	AthleteName  string `json:"athleteName,omitempty"`
	CoachName    string `json:"coachName,omitempty"`
}

// RecurringResponse is the DTO for a recurrence rule.
type RecurringResponse struct {
	ID         string    `json:"id"`
	CoachID    string    `json:"coachId"`
	SourceType string    `json:"sourceType"`
	SourceID   string    `json:"sourceId"`
	AthleteIDs []string  `json:"athleteIds,omitempty"`
	GroupID    string    `json:"groupId,omitempty"`
	Frequency  string    `json:"frequency,omitempty"`
	DaysOfWeek []int     `json:"daysOfWeek"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateRecurringResponse returns the rule plus everything its expansion created.
type CreateRecurringResponse struct {
	Recurring RecurringResponse    `json:"recurring"`
	Created   []AssignmentResponse `json:"created"`
}

// MapAssignmentToResponse converts a domain.Assignment to its DTO.
func MapAssignmentToResponse(a *domain.Assignment) AssignmentResponse {
	if a == nil {
		return AssignmentResponse{}
	}
	recurringID := ""
	if a.RecurringID != nil {
		recurringID = a.RecurringID.Hex()
	}
	return AssignmentResponse{
		ID:            a.ID.Hex(),
		AthleteID:     a.AthleteID.Hex(),
		CoachID:       a.CoachID.Hex(),
		SourceType:    string(a.Source.Type),
		SourceID:      a.Source.ID.Hex(),
		ScheduledDate: a.ScheduledDate,
		Status:        string(a.Status),
		RecurringID:   recurringID,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// MapAssignmentsToResponse converts a slice of assignments to DTOs.
func MapAssignmentsToResponse(assignments []domain.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = MapAssignmentToResponse(&assignments[i])
	}
	return responses
}

// MapRecurringToResponse converts a domain.RecurringAssignment to its DTO.
func MapRecurringToResponse(r *domain.RecurringAssignment) RecurringResponse {
	if r == nil {
		return RecurringResponse{}
	}
	athleteIDs := make([]string, len(r.AthleteIDs))
	for i, id := range r.AthleteIDs {
		athleteIDs[i] = id.Hex()
	}
	groupID := ""
	if r.GroupID != nil {
		groupID = r.GroupID.Hex()
	}
	return RecurringResponse{
		ID:         r.ID.Hex(),
		CoachID:    r.CoachID.Hex(),
		SourceType: string(r.Source.Type),
		SourceID:   r.Source.ID.Hex(),
		AthleteIDs: athleteIDs,
		GroupID:    groupID,
		Frequency:  string(r.Frequency),
		DaysOfWeek: r.DaysOfWeek,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func mapViewToResponse(v service.AssignmentView) AssignmentViewResponse {
	return AssignmentViewResponse{
		AssignmentResponse: MapAssignmentToResponse(&v.Assignment),
		WorkoutTitle:       v.WorkoutTitle,
		AthleteName:        v.AthleteName,
		CoachName:          v.CoachName,
	}
}

func parseSourceRef(req SourceRefRequest) (domain.SourceRef, error) {
	id, err := primitive.ObjectIDFromHex(req.SourceID)
	if err != nil {
		return domain.SourceRef{}, errors.New("invalid sourceId format")
	}
	return domain.SourceRef{Type: domain.SourceType(req.SourceType), ID: id}, nil
}

func parseTarget(athleteIDs []string, groupID *string) (domain.AssignmentTarget, error) {
	var target domain.AssignmentTarget
	for _, idStr := range athleteIDs {
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			return target, errors.New("invalid athlete ID format: " + idStr)
		}
		target.AthleteIDs = append(target.AthleteIDs, id)
	}
	if groupID != nil && *groupID != "" {
		id, err := primitive.ObjectIDFromHex(*groupID)
		if err != nil {
			return target, errors.New("invalid groupId format")
		}
		target.GroupID = &id
	}
	return target, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// --- Handler Methods ---

// Assign godoc
// @Summary Assign a workout
// @Description Fans a workout out to the listed athletes or a group on one date. One UPCOMING assignment per athlete.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body AssignRequest true "Assignment details"
// @Success 201 {array} AssignmentResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Source or group not found"
// @Router /coach/assignments [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ref, err := parseSourceRef(req.Source)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	target, err := parseTarget(req.AthleteIDs, req.GroupID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	scheduledDate, err := parseDate(req.ScheduledDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "scheduledDate must be formatted as YYYY-MM-DD.")
		return
	}

	created, err := h.assignmentService.Assign(c.Request.Context(), coachID, ref, scheduledDate, target)
	if err != nil {
		h.mapAssignError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapAssignmentsToResponse(created))
}

// CreateRecurring godoc
// @Summary Create a recurring assignment
// @Description Persists the recurrence rule and eagerly expands it over the whole date range.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recurring body CreateRecurringRequest true "Recurrence details"
// @Success 201 {object} CreateRecurringResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Source or group not found"
// @Router /coach/assignments/recurring [post]
func (h *AssignmentHandler) CreateRecurring(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ref, err := parseSourceRef(req.Source)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	target, err := parseTarget(req.AthleteIDs, req.GroupID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "startDate must be formatted as YYYY-MM-DD.")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "endDate must be formatted as YYYY-MM-DD.")
		return
	}

	result, err := h.assignmentService.CreateRecurring(
		c.Request.Context(),
		coachID,
		ref,
		target,
		domain.Frequency(req.Frequency),
		req.DaysOfWeek,
		startDate,
		endDate,
	)
	if err != nil {
		h.mapAssignError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateRecurringResponse{
		Recurring: MapRecurringToResponse(result.Recurring),
		Created:   MapAssignmentsToResponse(result.Created),
	})
}

// StopRecurring godoc
// @Summary Stop a recurring assignment
// @Description Deactivates the rule. Already-created assignments stay scheduled.
// @Tags Assignments
// @Security BearerAuth
// @Param id path string true "Recurring assignment ID"
// @Success 204 "Stopped"
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Rule not found"
// @Router /coach/assignments/recurring/{id}/stop [post]
func (h *AssignmentHandler) StopRecurring(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	recurringID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentService.StopRecurring(c.Request.Context(), recurringID, coachID); err != nil {
		switch {
		case errors.Is(err, service.ErrRecurringNotFound):
			abortWithError(c, http.StatusNotFound, "Recurring assignment not found.")
		case errors.Is(err, service.ErrRecurringAccessDenied):
			abortWithError(c, http.StatusForbidden, "Recurring assignment belongs to another coach.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to stop recurring assignment.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRecurring godoc
// @Summary List the coach's recurring assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RecurringResponse
// @Router /coach/assignments/recurring [get]
func (h *AssignmentHandler) ListRecurring(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	rules, err := h.assignmentService.ListRecurring(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve recurring assignments.")
		return
	}

	responses := make([]RecurringResponse, len(rules))
	for i := range rules {
		responses[i] = MapRecurringToResponse(&rules[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ListCoachAssignments godoc
// @Summary List assignments issued by the coach
// @Description Newest scheduled date first, enriched with workout title and athlete name.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AssignmentViewResponse
// @Router /coach/assignments [get]
func (h *AssignmentHandler) ListCoachAssignments(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	views, err := h.assignmentService.ListForCoach(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments.")
		return
	}

	responses := make([]AssignmentViewResponse, len(views))
	for i, v := range views {
		responses[i] = mapViewToResponse(v)
	}
	c.JSON(http.StatusOK, responses)
}

// ListAthleteAssignments godoc
// @Summary List the athlete's assignments
// @Description Newest scheduled date first, enriched with workout title and coach name.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AssignmentViewResponse
// @Router /athlete/assignments [get]
func (h *AssignmentHandler) ListAthleteAssignments(c *gin.Context) {
	athleteID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	views, err := h.assignmentService.ListForAthlete(c.Request.Context(), athleteID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments.")
		return
	}

	responses := make([]AssignmentViewResponse, len(views))
	for i, v := range views {
		responses[i] = mapViewToResponse(v)
	}
	c.JSON(http.StatusOK, responses)
}

func (h *AssignmentHandler) mapAssignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrInvalidSource),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidDaysOfWeek):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSourceNotFound):
		abortWithError(c, http.StatusNotFound, "Workout source not found.")
	case errors.Is(err, service.ErrGroupNotFound):
		abortWithError(c, http.StatusNotFound, "Group not found.")
	case errors.Is(err, service.ErrGroupAccessDenied):
		abortWithError(c, http.StatusForbidden, "Group belongs to another coach.")
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to create assignments.")
	}
}
