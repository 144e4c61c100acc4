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

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

// PrescriptionRequest defines the target numbers of one exercise in a block.
type PrescriptionRequest struct {
	Sets   *int    `json:"sets" binding:"omitempty,min=1"`
	Reps   *string `json:"reps"`
	Weight *string `json:"weight"`
}

type BlockExerciseRequest struct {
	Name         string              `json:"name" binding:"required"`
	ExerciseID   *string             `json:"exerciseId"`
	Order        int                 `json:"order"`
	Prescription PrescriptionRequest `json:"prescription"`
	Notes        string              `json:"notes"`
}

type BlockRequest struct {
	Title     string                 `json:"title" binding:"required"`
	Order     int                    `json:"order"`
	Exercises []BlockExerciseRequest `json:"exercises"`
}

// WorkoutRequest is the shared payload for creating or replacing a template
// or a custom workout. Updates replace the whole block tree.
type WorkoutRequest struct {
	Title             string         `json:"title" binding:"required"`
	Description       string         `json:"description"`
	Tags              []string       `json:"tags"`
	Difficulty        string         `json:"difficulty"`
	Equipment         []string       `json:"equipment"`
	EstimatedDuration *int           `json:"estimatedDuration" binding:"omitempty,min=1"`
	Blocks            []BlockRequest `json:"blocks"`
}

type PrescriptionResponse struct {
	Sets   *int    `json:"sets,omitempty"`
	Reps   *string `json:"reps,omitempty"`
	Weight *string `json:"weight,omitempty"`
}

type BlockExerciseResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	ExerciseID   string               `json:"exerciseId,omitempty"`
	Order        int                  `json:"order"`
	Prescription PrescriptionResponse `json:"prescription"`
	Notes        string               `json:"notes,omitempty"`
}

type BlockResponse struct {
	ID        string                  `json:"id"`
	Title     string                  `json:"title"`
	Order     int                     `json:"order"`
	Exercises []BlockExerciseResponse `json:"exercises"`
}

// WorkoutTemplateResponse is the DTO for returning template details.
type WorkoutTemplateResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	Difficulty        string          `json:"difficulty,omitempty"`
	Equipment         []string        `json:"equipment,omitempty"`
	EstimatedDuration *int            `json:"estimatedDuration,omitempty"`
	Blocks            []BlockResponse `json:"blocks"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// CustomWorkoutResponse is the DTO for returning custom workout details.
type CustomWorkoutResponse struct {
	ID                string          `json:"id"`
	CoachID           string          `json:"coachId"`
	SourceTemplateID  string          `json:"sourceTemplateId,omitempty"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	Difficulty        string          `json:"difficulty,omitempty"`
	Equipment         []string        `json:"equipment,omitempty"`
	EstimatedDuration *int            `json:"estimatedDuration,omitempty"`
	Blocks            []BlockResponse `json:"blocks"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// WorkoutSourceResponse is the render-ready view of an assignment's workout.
type WorkoutSourceResponse struct {
	SourceType  string          `json:"sourceType"`
	SourceID    string          `json:"sourceId"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Blocks      []BlockResponse `json:"blocks"`
}

func mapBlocksToResponse(blocks []domain.Block) []BlockResponse {
	responses := make([]BlockResponse, len(blocks))
	for i, b := range blocks {
		exercises := make([]BlockExerciseResponse, len(b.Exercises))
		for j, ex := range b.Exercises {
			exerciseID := ""
			if ex.ExerciseID != nil {
				exerciseID = ex.ExerciseID.Hex()
			}
			exercises[j] = BlockExerciseResponse{
				ID:         ex.ID,
				Name:       ex.Name,
				ExerciseID: exerciseID,
				Order:      ex.Order,
				Prescription: PrescriptionResponse{
					Sets:   ex.Prescription.Sets,
					Reps:   ex.Prescription.Reps,
					Weight: ex.Prescription.Weight,
				},
				Notes: ex.Notes,
			}
		}
		responses[i] = BlockResponse{
			ID:        b.ID,
			Title:     b.Title,
			Order:     b.Order,
			Exercises: exercises,
		}
	}
	return responses
}

// MapTemplateToResponse converts a domain.WorkoutTemplate to its DTO.
func MapTemplateToResponse(t *domain.WorkoutTemplate) WorkoutTemplateResponse {
	if t == nil {
		return WorkoutTemplateResponse{}
	}
	return WorkoutTemplateResponse{
		ID:                t.ID.Hex(),
		Title:             t.Title,
		Description:       t.Description,
		Tags:              t.Tags,
		Difficulty:        t.Difficulty,
		Equipment:         t.Equipment,
		EstimatedDuration: t.EstimatedDuration,
		Blocks:            mapBlocksToResponse(t.Blocks),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// MapCustomWorkoutToResponse converts a domain.CustomWorkout to its DTO.
func MapCustomWorkoutToResponse(w *domain.CustomWorkout) CustomWorkoutResponse {
	if w == nil {
		return CustomWorkoutResponse{}
	}
	sourceTemplateID := ""
	if w.SourceTemplateID != nil {
		sourceTemplateID = w.SourceTemplateID.Hex()
	}
	return CustomWorkoutResponse{
		ID:                w.ID.Hex(),
		CoachID:           w.CoachID.Hex(),
		SourceTemplateID:  sourceTemplateID,
		Title:             w.Title,
		Description:       w.Description,
		Tags:              w.Tags,
		Difficulty:        w.Difficulty,
		Equipment:         w.Equipment,
		EstimatedDuration: w.EstimatedDuration,
		Blocks:            mapBlocksToResponse(w.Blocks),
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func mapWorkoutRequestToInput(req WorkoutRequest) (service.WorkoutInput, error) {
	blocks := make([]service.BlockInput, len(req.Blocks))
	for i, b := range req.Blocks {
		exercises := make([]service.BlockExerciseInput, len(b.Exercises))
		for j, ex := range b.Exercises {
			var exerciseID *primitive.ObjectID
			if ex.ExerciseID != nil && *ex.ExerciseID != "" {
				id, err := primitive.ObjectIDFromHex(*ex.ExerciseID)
				if err != nil {
					return service.WorkoutInput{}, errors.New("invalid exercise ID format: " + *ex.ExerciseID)
				}
				exerciseID = &id
			}
			exercises[j] = service.BlockExerciseInput{
				Name:       ex.Name,
				ExerciseID: exerciseID,
				Order:      ex.Order,
				Prescription: domain.Prescription{
					Sets:   ex.Prescription.Sets,
					Reps:   ex.Prescription.Reps,
					Weight: ex.Prescription.Weight,
				},
				Notes: ex.Notes,
			}
		}
		blocks[i] = service.BlockInput{
			Title:     b.Title,
			Order:     b.Order,
			Exercises: exercises,
		}
	}
	return service.WorkoutInput{
		Title:             req.Title,
		Description:       req.Description,
		Tags:              req.Tags,
		Difficulty:        req.Difficulty,
		Equipment:         req.Equipment,
		EstimatedDuration: req.EstimatedDuration,
		Blocks:            blocks,
	}, nil
}

// userIDFromContext parses the authenticated user's id out of the request.
func userIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// --- Handler Methods ---

// CreateTemplate godoc
// @Summary Create a workout template
// @Description Creates a reusable workout template with its block tree.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param template body WorkoutRequest true "Template details"
// @Success 201 {object} WorkoutTemplateResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /coach/templates [post]
func (h *WorkoutHandler) CreateTemplate(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := mapWorkoutRequestToInput(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	template, err := h.workoutService.CreateTemplate(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create template.")
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(template))
}

// GetTemplate godoc
// @Summary Get a workout template
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 200 {object} WorkoutTemplateResponse
// @Failure 404 {object} gin.H "Template not found"
// @Router /coach/templates/{id} [get]
func (h *WorkoutHandler) GetTemplate(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	template, err := h.workoutService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, "Template not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve template.")
		}
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// ListTemplates godoc
// @Summary List workout templates
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutTemplateResponse
// @Router /coach/templates [get]
func (h *WorkoutHandler) ListTemplates(c *gin.Context) {
	templates, err := h.workoutService.ListTemplates(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve templates.")
		return
	}

	responses := make([]WorkoutTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateTemplate godoc
// @Summary Update a workout template
// @Description Replaces the template's fields and whole block tree.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param template body WorkoutRequest true "Template details"
// @Success 200 {object} WorkoutTemplateResponse
// @Failure 404 {object} gin.H "Template not found"
// @Router /coach/templates/{id} [put]
func (h *WorkoutHandler) UpdateTemplate(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := mapWorkoutRequestToInput(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	template, err := h.workoutService.UpdateTemplate(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, "Template not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update template.")
		}
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// DeleteTemplate godoc
// @Summary Delete a workout template
// @Tags Workouts
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Template not found"
// @Router /coach/templates/{id} [delete]
func (h *WorkoutHandler) DeleteTemplate(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteTemplate(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, "Template not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete template.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// CloneTemplate godoc
// @Summary Clone a template into a custom workout
// @Description Deep-copies the template's block tree into a new custom workout owned by the coach.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 201 {object} CustomWorkoutResponse
// @Failure 404 {object} gin.H "Template not found"
// @Router /coach/templates/{id}/clone [post]
func (h *WorkoutHandler) CloneTemplate(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	templateID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	workout, err := h.workoutService.CloneTemplate(c.Request.Context(), templateID, coachID)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, "Template not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to clone template.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapCustomWorkoutToResponse(workout))
}

// CreateCustomWorkout godoc
// @Summary Create a custom workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout details"
// @Success 201 {object} CustomWorkoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /coach/workouts [post]
func (h *WorkoutHandler) CreateCustomWorkout(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := mapWorkoutRequestToInput(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.CreateCustomWorkout(c.Request.Context(), coachID, input)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout.")
		return
	}
	c.JSON(http.StatusCreated, MapCustomWorkoutToResponse(workout))
}

// ListCustomWorkouts godoc
// @Summary List the coach's custom workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CustomWorkoutResponse
// @Router /coach/workouts [get]
func (h *WorkoutHandler) ListCustomWorkouts(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	workouts, err := h.workoutService.ListCustomWorkouts(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		return
	}

	responses := make([]CustomWorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapCustomWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateCustomWorkout godoc
// @Summary Update a custom workout
// @Description Replaces the workout's fields and whole block tree. Only the owning coach may update it.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout details"
// @Success 200 {object} CustomWorkoutResponse
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /coach/workouts/{id} [put]
func (h *WorkoutHandler) UpdateCustomWorkout(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := mapWorkoutRequestToInput(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.UpdateCustomWorkout(c.Request.Context(), coachID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Workout not found.")
		case errors.Is(err, service.ErrWorkoutAccessDenied):
			abortWithError(c, http.StatusForbidden, "Workout belongs to another coach.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout.")
		}
		return
	}
	c.JSON(http.StatusOK, MapCustomWorkoutToResponse(workout))
}

// DeleteCustomWorkout godoc
// @Summary Delete a custom workout
// @Tags Workouts
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /coach/workouts/{id} [delete]
func (h *WorkoutHandler) DeleteCustomWorkout(c *gin.Context) {
	coachID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteCustomWorkout(c.Request.Context(), coachID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrCustomWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Workout not found.")
		case errors.Is(err, service.ErrWorkoutAccessDenied):
			abortWithError(c, http.StatusForbidden, "Workout belongs to another coach.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetWorkoutSource godoc
// @Summary Resolve a workout source reference
// @Description Resolves a TEMPLATE or CUSTOM source into a render-ready view with ordered blocks.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param sourceType query string true "Source type" Enums(TEMPLATE, CUSTOM)
// @Param sourceId query string true "Source ID"
// @Success 200 {object} WorkoutSourceResponse
// @Failure 400 {object} gin.H "Invalid source reference"
// @Failure 404 {object} gin.H "Source not found"
// @Router /workouts/source [get]
func (h *WorkoutHandler) GetWorkoutSource(c *gin.Context) {
	sourceID, err := primitive.ObjectIDFromHex(c.Query("sourceId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid sourceId format.")
		return
	}
	ref := domain.SourceRef{
		Type: domain.SourceType(c.Query("sourceType")),
		ID:   sourceID,
	}

	source, err := h.workoutService.GetSource(c.Request.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSource):
			abortWithError(c, http.StatusBadRequest, "Invalid source reference.")
		case errors.Is(err, service.ErrSourceNotFound):
			abortWithError(c, http.StatusNotFound, "Workout source not found.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve workout source.")
		}
		return
	}

	c.JSON(http.StatusOK, WorkoutSourceResponse{
		SourceType:  string(source.Ref.Type),
		SourceID:    source.Ref.ID.Hex(),
		Title:       source.Title,
		Description: source.Description,
		Blocks:      mapBlocksToResponse(source.Blocks),
	})
}
