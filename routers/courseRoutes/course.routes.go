package courseRoutes

import (
	assessmentControllers "lms/controllers/assessment"
	controllers "lms/controllers/course"
	"lms/middleware"
	assessmentValidators "lms/validators/assessment"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up enrollment, progress and certificate routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Enrollment
	courseGroup.Post("/:course_id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Content completion
	courseGroup.Post("/:course_id/content/:content_id/complete", middleware.JWTMiddleware, validators.MarkContentComplete(), assessmentControllers.MarkContentComplete)

	// Progress tracking
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), assessmentControllers.GetCourseProgress)
	courseGroup.Post("/:course_id/progress/refresh", middleware.JWTMiddleware, validators.GetCourseProgress(), assessmentControllers.RefreshCompletion)

	// User enrollments and certificates
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
	userGroup.Get("/certificates", middleware.JWTMiddleware, assessmentControllers.GetUserCertificates)

	// Public certificate verification
	app.Get("/certificate/verify/:code", assessmentValidators.VerifyCertificate(), assessmentControllers.VerifyCertificate)
}
