package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GradeSubmissionManual lets the course teacher (or an admin) grade a
// submission directly, bypassing the autograder. The SUBMITTED to GRADED
// transition is one-way; re-grading is rejected.
func GradeSubmissionManual(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	submissionID := c.Locals("submissionID").(int)
	reqData := c.Locals("validatedGrade").(*struct {
		Grade    *float64 `json:"grade"`
		Feedback string   `json:"feedback"`
	})

	var submission courseModels.Submission
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submissionID, false).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	if submission.Status == courseModels.SubmissionGraded {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Submission already graded!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submission.AssignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	// Only the course teacher or an admin can grade
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if user.Role != "ADMIN" && course.TeacherID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You don't have permission to grade this submission!", nil)
	}

	submission.Grade = reqData.Grade
	submission.Status = courseModels.SubmissionGraded
	if reqData.Feedback != "" {
		submission.Feedback = reqData.Feedback
	}

	tx := database.Database.Db.Begin()
	if err := tx.Save(&submission).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}
	tx.Commit()

	// Manual grading re-enters the same downstream path as the autograder
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submission.EnrollmentID, false).First(&enrollment).Error; err == nil {
		afterSubmissionGraded(&enrollment, assignment, submission)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}
