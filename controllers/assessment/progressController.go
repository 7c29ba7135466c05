package controllers

import (
	"errors"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CalculateProgress computes the completion percentage for an enrollment:
// completed content items plus passed assignments over all content items plus
// all assignments of the course, rounded to 1 decimal. An empty course yields 0.
func CalculateProgress(enrollment courseModels.Enrollment) (float64, error) {
	db := database.Database.Db

	var totalContent int64
	if err := db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", enrollment.CourseID, false, true).
		Count(&totalContent).Error; err != nil {
		return 0, err
	}

	var completedContent int64
	if err := db.Model(&courseModels.ContentProgress{}).
		Where("enrollment_id = ? AND completed = ? AND is_deleted = ?", enrollment.ID, true, false).
		Count(&completedContent).Error; err != nil {
		return 0, err
	}

	var assignments []courseModels.Assignment
	if err := db.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Find(&assignments).Error; err != nil {
		return 0, err
	}

	// An assignment counts as passed when at least one graded submission meets
	// its own passing grade
	passedAssignments := 0
	for _, assignment := range assignments {
		var passed int64
		if err := db.Model(&courseModels.Submission{}).
			Where("enrollment_id = ? AND assignment_id = ? AND status = ? AND grade >= ? AND is_deleted = ?",
				enrollment.ID, assignment.ID, courseModels.SubmissionGraded, assignment.PassingGrade, false).
			Count(&passed).Error; err != nil {
			return 0, err
		}
		if passed > 0 {
			passedAssignments++
		}
	}

	totalItems := totalContent + int64(len(assignments))
	if totalItems == 0 {
		return 0, nil
	}

	completedItems := completedContent + int64(passedAssignments)
	return roundTo1(float64(completedItems) / float64(totalItems) * 100), nil
}

// CheckCompletionAndIssueCertificate recomputes progress and performs the
// one-way ACTIVE to COMPLETED transition when the enrollment reaches 100%.
// Returns true only for the caller that actually performed the transition, so
// one-time downstream events fire exactly once. Completion is sticky: an
// already completed enrollment is never touched again.
func CheckCompletionAndIssueCertificate(enrollment *courseModels.Enrollment) (bool, error) {
	db := database.Database.Db

	progress, err := CalculateProgress(*enrollment)
	if err != nil {
		return false, err
	}

	// Keep the cached percentage fresh on active enrollments
	if enrollment.Status != courseModels.EnrollmentCompleted {
		if err := db.Model(&courseModels.Enrollment{}).
			Where("id = ? AND status <> ?", enrollment.ID, courseModels.EnrollmentCompleted).
			Update("progress", progress).Error; err != nil {
			log.Printf("Failed to refresh cached progress for enrollment %d: %v", enrollment.ID, err)
		}
		enrollment.Progress = progress
	}

	if progress < 100 || enrollment.Status == courseModels.EnrollmentCompleted {
		return false, nil
	}

	// Compare-and-set on status so only one of two racing triggers wins
	now := time.Now()
	result := db.Model(&courseModels.Enrollment{}).
		Where("id = ? AND status <> ?", enrollment.ID, courseModels.EnrollmentCompleted).
		Updates(map[string]interface{}{
			"status":       courseModels.EnrollmentCompleted,
			"progress":     progress,
			"completed_at": &now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		// Another trigger completed it first
		enrollment.Status = courseModels.EnrollmentCompleted
		return false, nil
	}

	enrollment.Status = courseModels.EnrollmentCompleted
	enrollment.CompletedAt = &now

	if err := issueCertificate(*enrollment); err != nil {
		log.Printf("Failed to issue certificate for enrollment %d: %v", enrollment.ID, err)
	}

	utils.EmitGamificationEvent(utils.EventCourseCompleted, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"student_id":    enrollment.StudentID,
		"course_id":     enrollment.CourseID,
	})

	return true, nil
}

// issueCertificate creates the single certificate for the enrollment's
// (student, course) pair. The existence check is a fast path only; a unique
// index violation from a concurrent issuer means the certificate exists and
// is not an error.
func issueCertificate(enrollment courseModels.Enrollment) error {
	db := database.Database.Db

	var existing courseModels.Certificate
	if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ?",
		enrollment.StudentID, enrollment.CourseID, false).First(&existing).Error; err == nil {
		return nil
	}

	certificate := courseModels.Certificate{
		StudentID:        enrollment.StudentID,
		CourseID:         enrollment.CourseID,
		VerificationCode: utils.GenerateVerificationCode(enrollment.CourseID, enrollment.StudentID),
		IssuedAt:         time.Now(),
	}

	if err := db.Create(&certificate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	// Congratulate the student, fire and forget
	var student models.User
	var course courseModels.Course
	if err := db.Where("id = ?", enrollment.StudentID).First(&student).Error; err == nil {
		if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err == nil {
			go utils.SendCertificateIssuedEmail(student.Email, student.Name, course.Title, certificate.VerificationCode)
		}
	}

	return nil
}

// MarkContentComplete marks a content item as completed for the caller's
// enrollment and re-runs completion detection
func MarkContentComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check content exists and is published
	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", contentID, courseID, false, true).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	// Completed only flips false to true once; re-marking is an idempotent
	// no-op that fires no duplicate events
	var existing courseModels.ContentProgress
	if err := database.Database.Db.Where("enrollment_id = ? AND content_id = ? AND is_deleted = ?", enrollment.ID, contentID, false).First(&existing).Error; err == nil && existing.Completed {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Content already marked as completed!", existing)
	}

	now := time.Now()
	progress := courseModels.ContentProgress{
		EnrollmentID:  enrollment.ID,
		ContentID:     uint(contentID),
		Completed:     true,
		CompletedDate: &now,
	}

	if existing.ID != 0 {
		progress.ID = existing.ID
		progress.CreatedAt = existing.CreatedAt
	}

	tx := database.Database.Db.Begin()
	if err := tx.Save(&progress).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A racing request marked it first; same idempotent outcome
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Content already marked as completed!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark content as completed!", nil)
	}
	tx.Commit()

	utils.EmitGamificationEvent(utils.EventContentCompleted, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"student_id":    enrollment.StudentID,
		"course_id":     enrollment.CourseID,
		"content_id":    content.ID,
	})

	// Completion detection must not undo the completed content on failure
	if _, err := CheckCompletionAndIssueCertificate(&enrollment); err != nil {
		log.Printf("Completion check failed for enrollment %d: %v", enrollment.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content marked as completed successfully!", progress)
}

// GetCourseProgress returns the caller's recomputed progress in a course
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	progress, err := CalculateProgress(enrollment)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to calculate progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"progress":   progress,
	})
}

// RefreshCompletion recomputes the caller's progress and performs the
// completion transition when due. Returns whether this call transitioned the
// enrollment.
func RefreshCompletion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	transitioned, err := CheckCompletionAndIssueCertificate(&enrollment)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion refreshed successfully!", fiber.Map{
		"enrollment":   enrollment,
		"transitioned": transitioned,
	})
}
