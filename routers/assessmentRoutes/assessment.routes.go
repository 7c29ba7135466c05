package assessmentRoutes

import (
	controllers "lms/controllers/assessment"
	"lms/middleware"
	validators "lms/validators/assessment"

	"github.com/gofiber/fiber/v2"
)

// SetupAssessmentRoutes sets up attempt submission and grading routes
func SetupAssessmentRoutes(app *fiber.App) {
	assignmentGroup := app.Group("/assignment")

	// Attempt submission (gated, auto-graded when possible)
	assignmentGroup.Post("/:assignment_id/attempt", middleware.JWTMiddleware, validators.SubmitAttempt(), controllers.SubmitAssignmentAttempt)

	// The caller's attempts so far
	assignmentGroup.Get("/:assignment_id/submissions", middleware.JWTMiddleware, validators.SubmissionList(), controllers.GetAssignmentSubmissions)

	// Manual grading by the course teacher or an admin
	submissionGroup := app.Group("/submission")
	submissionGroup.Post("/:submission_id/grade", middleware.JWTMiddleware, middleware.RequireRole("TEACHER", "ADMIN"), validators.GradeSubmission(), controllers.GradeSubmissionManual)
}
