package api

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	workoutService service.WorkoutService,
	assignmentService service.AssignmentService,
	logService service.WorkoutLogService,
	exerciseService service.ExerciseService,
	groupService service.GroupService,
) {
	workoutHandler := NewWorkoutHandler(workoutService)
	assignmentHandler := NewAssignmentHandler(assignmentService)
	logHandler := NewWorkoutLogHandler(logService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	groupHandler := NewGroupHandler(groupService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Shared Routes (any authenticated user) ---
		protected.GET("/exercises", exerciseHandler.ListExercises)
		protected.GET("/exercises/:id", exerciseHandler.GetExercise)
		protected.GET("/exercises/:id/video", exerciseHandler.GetVideoURL)
		protected.GET("/workouts/source", workoutHandler.GetWorkoutSource)
		protected.GET("/assignments/:assignmentId/log", logHandler.GetLog)

		// --- Coach Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			// Exercise library management
			coachGroup.POST("/exercises", exerciseHandler.CreateExercise)
			coachGroup.PUT("/exercises/:id", exerciseHandler.UpdateExercise)
			coachGroup.DELETE("/exercises/:id", exerciseHandler.DeleteExercise)
			coachGroup.POST("/exercises/:id/video", exerciseHandler.RequestVideoUpload)

			// Workout templates
			coachGroup.POST("/templates", workoutHandler.CreateTemplate)
			coachGroup.GET("/templates", workoutHandler.ListTemplates)
			coachGroup.GET("/templates/:id", workoutHandler.GetTemplate)
			coachGroup.PUT("/templates/:id", workoutHandler.UpdateTemplate)
			coachGroup.DELETE("/templates/:id", workoutHandler.DeleteTemplate)
			coachGroup.POST("/templates/:id/clone", workoutHandler.CloneTemplate)

			// Custom workouts
			coachGroup.POST("/workouts", workoutHandler.CreateCustomWorkout)
			coachGroup.GET("/workouts", workoutHandler.ListCustomWorkouts)
			coachGroup.PUT("/workouts/:id", workoutHandler.UpdateCustomWorkout)
			coachGroup.DELETE("/workouts/:id", workoutHandler.DeleteCustomWorkout)

			// Assignments
			coachGroup.POST("/assignments", assignmentHandler.Assign)
			coachGroup.GET("/assignments", assignmentHandler.ListCoachAssignments)
			coachGroup.POST("/assignments/recurring", assignmentHandler.CreateRecurring)
			coachGroup.GET("/assignments/recurring", assignmentHandler.ListRecurring)
			coachGroup.POST("/assignments/recurring/:id/stop", assignmentHandler.StopRecurring)

			// Groups
			coachGroup.POST("/groups", groupHandler.CreateGroup)
			coachGroup.GET("/groups", groupHandler.ListGroups)
			coachGroup.GET("/groups/:id/members", groupHandler.GetGroupMembers)
		}

		// --- Athlete Routes ---
		athleteGroup := protected.Group("/athlete")
		athleteGroup.Use(RoleMiddleware(domain.RoleAthlete))
		{
			athleteGroup.GET("/assignments", assignmentHandler.ListAthleteAssignments)
			athleteGroup.PUT("/assignments/:assignmentId/log", logHandler.SaveProgress)
			athleteGroup.POST("/assignments/:assignmentId/complete", logHandler.Complete)
		}
	}
}
