package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrAttemptConflict is returned when a racing request claimed the same
// attempt number first; the unique index on (enrollment, assignment,
// attempt_number) is the authoritative guard.
var ErrAttemptConflict = errors.New("attempt number already taken")

// SubmitAssignmentAttempt creates a new submission for the caller after the
// gate rules allow it, and grades it inline when the assignment is
// auto-gradable
func SubmitAssignmentAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)
	answers := c.Locals("validatedAnswers").([]courseModels.AnswerPayload)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	// The gate's first precondition: the caller must hold an enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", userID, assignment.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!",
			&GateError{Code: GateNotEnrolled, Message: "User not enrolled in this course!"})
	}

	var questions []courseModels.AssignmentQuestion
	if err := database.Database.Db.Where("assignment_id = ? AND is_deleted = ?", assignment.ID, false).
		Order("order_index asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load assignment questions!", nil)
	}

	var options []courseModels.AssignmentOption
	if len(questions) > 0 {
		questionIDs := make([]uint, len(questions))
		for i, q := range questions {
			questionIDs[i] = q.ID
		}
		if err := database.Database.Db.Where("question_id IN ? AND is_deleted = ?", questionIDs, false).
			Find(&options).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load assignment options!", nil)
		}
	}

	// Malformed payloads are rejected before anything is persisted
	if errs := validateAnswersPayload(assignment, questions, options, answers); len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}

	submission, gateErr, err := createSubmissionAttempt(enrollment, assignment, questions, options, answers)
	if gateErr != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, gateErr.Message, gateErr)
	}
	if errors.Is(err, ErrAttemptConflict) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Another attempt was submitted at the same time. Please try again!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attempt submitted successfully!", submission)
}

// validateAnswersPayload checks the answers against the assignment's question
// and option configuration. Unknown question references, option IDs that do
// not belong to the answered question, repeated option IDs and shape
// mismatches are validation errors; the grader itself stays defensive about
// anything that slips through.
func validateAnswersPayload(assignment courseModels.Assignment, questions []courseModels.AssignmentQuestion, options []courseModels.AssignmentOption, answers []courseModels.AnswerPayload) map[string]string {
	errs := make(map[string]string)

	known := make(map[uint]courseModels.AssignmentQuestion, len(questions))
	for _, q := range questions {
		known[q.ID] = q
	}

	optionOwner := make(map[uint]uint, len(options))
	for _, opt := range options {
		optionOwner[opt.ID] = opt.QuestionID
	}

	for i, ans := range answers {
		field := fmt.Sprintf("answers[%d]", i)

		question, ok := known[ans.QuestionID]
		if !ok {
			errs[field] = "Unknown question reference!"
			continue
		}

		switch question.Type {
		case courseModels.AssignmentTypeMCQ:
			if len(ans.SelectedOptionIDs) == 0 {
				errs[field] = "Please select at least one option!"
			}
			if ans.Text != "" {
				errs[field] = "MCQ answers cannot carry free text!"
			}
			seen := make(map[uint]bool, len(ans.SelectedOptionIDs))
			for _, id := range ans.SelectedOptionIDs {
				if optionOwner[id] != question.ID {
					errs[field] = "Selected option does not belong to this question!"
					break
				}
				if seen[id] {
					errs[field] = "Duplicate option selections are not allowed!"
					break
				}
				seen[id] = true
			}
		case courseModels.AssignmentTypeQA:
			if ans.Text == "" {
				errs[field] = "Answer text is required!"
			}
			if len(ans.SelectedOptionIDs) > 0 {
				errs[field] = "Free text answers cannot carry option selections!"
			}
		}
	}

	return errs
}

// createSubmissionAttempt runs the gate, persists the new attempt and grades
// it inline for auto-gradable assignments. The gate decision and the insert
// are one atomic unit: a concurrent attempt that slips past the in-memory
// check is rejected by the unique attempt-number index and surfaces as
// ErrAttemptConflict.
func createSubmissionAttempt(enrollment courseModels.Enrollment, assignment courseModels.Assignment, questions []courseModels.AssignmentQuestion, options []courseModels.AssignmentOption, answers []courseModels.AnswerPayload) (*courseModels.Submission, *GateError, error) {
	db := database.Database.Db

	var prior []courseModels.Submission
	if err := db.Where("enrollment_id = ? AND assignment_id = ? AND is_deleted = ?", enrollment.ID, assignment.ID, false).
		Order("attempt_number asc").Find(&prior).Error; err != nil {
		return nil, nil, err
	}

	attemptNumber, gateErr := EvaluateSubmissionGate(assignment, prior)
	if gateErr != nil {
		return nil, gateErr, nil
	}

	payload, err := json.Marshal(answers)
	if err != nil {
		return nil, nil, err
	}

	submission := courseModels.Submission{
		EnrollmentID:  enrollment.ID,
		AssignmentID:  assignment.ID,
		AttemptNumber: attemptNumber,
		Answers:       datatypes.JSON(payload),
		Status:        courseModels.SubmissionSubmitted,
	}

	// Grading is synchronous and CPU-bound, safe to run inside the insert
	// transaction
	autoGrade := hasAutoGradableQuestions(assignment, questions)
	var grade float64
	if autoGrade {
		switch assignment.Type {
		case courseModels.AssignmentTypeMCQ:
			grade = GradeMCQAnswers(questions, options, answers)
		case courseModels.AssignmentTypeQA:
			grade = GradeQAAnswers(questions, answers)
		}
		submission.Grade = &grade
		submission.Status = courseModels.SubmissionGraded
	}

	tx := db.Begin()
	if err := tx.Create(&submission).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrAttemptConflict
		}
		return nil, nil, err
	}
	tx.Commit()

	if autoGrade {
		afterSubmissionGraded(&enrollment, assignment, submission)
	}

	return &submission, nil, nil
}

// afterSubmissionGraded fires the downstream effects of a graded submission:
// the assignment_passed event when the grade meets the passing threshold, and
// completion detection. Failures here never undo the stored submission.
func afterSubmissionGraded(enrollment *courseModels.Enrollment, assignment courseModels.Assignment, submission courseModels.Submission) {
	if submission.Grade != nil && *submission.Grade >= float64(assignment.PassingGrade) {
		utils.EmitGamificationEvent(utils.EventAssignmentPassed, map[string]interface{}{
			"enrollment_id":  enrollment.ID,
			"student_id":     enrollment.StudentID,
			"assignment_id":  assignment.ID,
			"attempt_number": submission.AttemptNumber,
			"grade":          *submission.Grade,
			"first_attempt":  submission.AttemptNumber == 1,
			"perfect":        *submission.Grade == 100,
		})
	}

	if _, err := CheckCompletionAndIssueCertificate(enrollment); err != nil {
		log.Printf("Completion check failed for enrollment %d: %v", enrollment.ID, err)
	}
}

// GetAssignmentSubmissions lists the caller's attempts for an assignment
func GetAssignmentSubmissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", userID, assignment.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var submissions []courseModels.Submission
	if err := database.Database.Db.Where("enrollment_id = ? AND assignment_id = ? AND is_deleted = ?", enrollment.ID, assignment.ID, false).
		Order("attempt_number asc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", fiber.Map{
		"submissions":   submissions,
		"attempts_used": len(submissions),
		"max_attempts":  assignment.MaxAttempts,
	})
}
