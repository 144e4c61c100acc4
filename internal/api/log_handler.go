package api

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WorkoutLogHandler holds the workout log service dependency.
type WorkoutLogHandler struct {
	logService service.WorkoutLogService
}

// NewWorkoutLogHandler creates a new WorkoutLogHandler.
func NewWorkoutLogHandler(logService service.WorkoutLogService) *WorkoutLogHandler {
	return &WorkoutLogHandler{logService: logService}
}

// --- DTOs for API (Data Transfer Objects) ---

type SetLogRequest struct {
	ExerciseName   string   `json:"exerciseName" binding:"required"`
	SetNumber      int      `json:"setNumber" binding:"min=1"`
	Reps           *int     `json:"reps" binding:"omitempty,min=0"`
	Weight         *string  `json:"weight"`
	TimeSeconds    *int     `json:"timeSeconds" binding:"omitempty,min=0"`
	DistanceMeters *float64 `json:"distanceMeters" binding:"omitempty,min=0"`
	RPE            *float64 `json:"rpe" binding:"omitempty,min=0,max=10"`
	Notes          string   `json:"notes"`
}

type HeartRateRequest struct {
	AvgHeartRate int    `json:"avgHeartRate" binding:"min=0"`
	MaxHeartRate int    `json:"maxHeartRate" binding:"min=0"`
	MinHeartRate int    `json:"minHeartRate" binding:"min=0"`
	DeviceName   string `json:"deviceName"`
}

// SaveProgressRequest replaces all previously saved sets for the assignment.
type SaveProgressRequest struct {
	OverallNotes string            `json:"overallNotes"`
	Sets         []SetLogRequest   `json:"sets"`
	HeartRate    *HeartRateRequest `json:"heartRate"`
}

type SetLogResponse struct {
	ID             string   `json:"id"`
	ExerciseName   string   `json:"exerciseName"`
	SetNumber      int      `json:"setNumber"`
	Reps           *int     `json:"reps,omitempty"`
	Weight         *string  `json:"weight,omitempty"`
	TimeSeconds    *int     `json:"timeSeconds,omitempty"`
	DistanceMeters *float64 `json:"distanceMeters,omitempty"`
	RPE            *float64 `json:"rpe,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// WorkoutLogResponse is the DTO for an assignment's logged results.
type WorkoutLogResponse struct {
	ID           string           `json:"id"`
	AssignmentID string           `json:"assignmentId"`
	AthleteID    string           `json:"athleteId"`
	OverallNotes string           `json:"overallNotes,omitempty"`
	AvgHeartRate *int             `json:"avgHeartRate,omitempty"`
	MaxHeartRate *int             `json:"maxHeartRate,omitempty"`
	MinHeartRate *int             `json:"minHeartRate,omitempty"`
	DeviceName   string           `json:"deviceName,omitempty"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
	Sets         []SetLogResponse `json:"sets"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// MapWorkoutLogToResponse converts a domain.WorkoutLog to its DTO.
func MapWorkoutLogToResponse(log *domain.WorkoutLog) WorkoutLogResponse {
	if log == nil {
		return WorkoutLogResponse{}
	}
	sets := make([]SetLogResponse, len(log.Sets))
	for i, s := range log.Sets {
		sets[i] = SetLogResponse{
			ID:             s.ID,
			ExerciseName:   s.ExerciseName,
			SetNumber:      s.SetNumber,
			Reps:           s.Reps,
			Weight:         s.Weight,
			TimeSeconds:    s.TimeSeconds,
			DistanceMeters: s.DistanceMeters,
			RPE:            s.RPE,
			Notes:          s.Notes,
		}
	}
	return WorkoutLogResponse{
		ID:           log.ID.Hex(),
		AssignmentID: log.AssignmentID.Hex(),
		AthleteID:    log.AthleteID.Hex(),
		OverallNotes: log.OverallNotes,
		AvgHeartRate: log.AvgHeartRate,
		MaxHeartRate: log.MaxHeartRate,
		MinHeartRate: log.MinHeartRate,
		DeviceName:   log.DeviceName,
		CompletedAt:  log.CompletedAt,
		Sets:         sets,
		CreatedAt:    log.CreatedAt,
		UpdatedAt:    log.UpdatedAt,
	}
}

// --- Handler Methods ---

// SaveProgress godoc
// @Summary Save workout progress
// @Description Upserts the assignment's log and replaces its set rows with the submitted ones.
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignmentId path string true "Assignment ID"
// @Param progress body SaveProgressRequest true "Progress details"
// @Success 200 {object} WorkoutLogResponse
// @Failure 403 {object} gin.H "Assignment belongs to another athlete"
// @Failure 404 {object} gin.H "Assignment not found"
// @Router /athlete/assignments/{assignmentId}/log [put]
func (h *WorkoutLogHandler) SaveProgress(c *gin.Context) {
	athleteID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}
	var req SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.SaveProgressInput{OverallNotes: req.OverallNotes}
	for _, s := range req.Sets {
		input.Sets = append(input.Sets, service.SetLogInput{
			ExerciseName:   s.ExerciseName,
			SetNumber:      s.SetNumber,
			Reps:           s.Reps,
			Weight:         s.Weight,
			TimeSeconds:    s.TimeSeconds,
			DistanceMeters: s.DistanceMeters,
			RPE:            s.RPE,
			Notes:          s.Notes,
		})
	}
	if hr := req.HeartRate; hr != nil {
		input.HeartRate = &domain.HeartRateSummary{
			AvgHeartRate: hr.AvgHeartRate,
			MaxHeartRate: hr.MaxHeartRate,
			MinHeartRate: hr.MinHeartRate,
			DeviceName:   hr.DeviceName,
		}
	}

	log, err := h.logService.SaveProgress(c.Request.Context(), assignmentID, athleteID, input)
	if err != nil {
		h.mapLogError(c, err, "Failed to save workout progress.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutLogToResponse(log))
}

// Complete godoc
// @Summary Complete an assignment
// @Description Stamps completion time on the log and transitions the assignment to COMPLETED. Idempotent.
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} AssignmentResponse
// @Failure 403 {object} gin.H "Assignment belongs to another athlete"
// @Failure 404 {object} gin.H "Assignment not found"
// @Router /athlete/assignments/{assignmentId}/complete [post]
func (h *WorkoutLogHandler) Complete(c *gin.Context) {
	athleteID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}

	assignment, err := h.logService.Complete(c.Request.Context(), assignmentID, athleteID)
	if err != nil {
		h.mapLogError(c, err, "Failed to complete assignment.")
		return
	}
	c.JSON(http.StatusOK, MapAssignmentToResponse(assignment))
}

// GetLog godoc
// @Summary Get an assignment's workout log
// @Description Returns the submitted log to its athlete or the issuing coach.
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} WorkoutLogResponse
// @Failure 403 {object} gin.H "Not the athlete or coach of this assignment"
// @Failure 404 {object} gin.H "Assignment or log not found"
// @Router /assignments/{assignmentId}/log [get]
func (h *WorkoutLogHandler) GetLog(c *gin.Context) {
	actorID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}

	log, err := h.logService.GetLog(c.Request.Context(), assignmentID, actorID)
	if err != nil {
		h.mapLogError(c, err, "Failed to retrieve workout log.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutLogToResponse(log))
}

func (h *WorkoutLogHandler) mapLogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		abortWithError(c, http.StatusNotFound, "Assignment not found.")
	case errors.Is(err, service.ErrLogNotFound):
		abortWithError(c, http.StatusNotFound, "Workout log not found.")
	case errors.Is(err, service.ErrAssignmentAccessDenied):
		abortWithError(c, http.StatusForbidden, "Assignment belongs to another athlete.")
	case errors.Is(err, service.ErrLogAccessDenied):
		abortWithError(c, http.StatusForbidden, "Access denied to this workout log.")
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
