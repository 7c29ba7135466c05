package assessmentValidator

import (
	"regexp"
	"strconv"
	"strings"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// verificationCodePattern matches codes like 1A2B3C4D-12-7
var verificationCodePattern = regexp.MustCompile(`^[0-9A-F]{8}-\d+-\d+$`)

// parseIDParam parses a positive integer route parameter
func parseIDParam(c *fiber.Ctx, name string) (int, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func SubmitAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignmentID, ok := parseIDParam(c, "assignment_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid assignment ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Answers []courseModels.AnswerPayload `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}

		seen := make(map[uint]bool)
		for i := range reqData.Answers {
			reqData.Answers[i].Text = strings.TrimSpace(reqData.Answers[i].Text)

			if reqData.Answers[i].QuestionID == 0 {
				errors["answers"] = "Every answer must reference a question!"
				break
			}
			if seen[reqData.Answers[i].QuestionID] {
				errors["answers"] = "Duplicate answers for the same question are not allowed!"
				break
			}
			seen[reqData.Answers[i].QuestionID] = true
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("assignmentID", assignmentID)
		c.Locals("validatedAnswers", reqData.Answers)
		return c.Next()
	}
}

func SubmissionList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignmentID, ok := parseIDParam(c, "assignment_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid assignment ID is required in the URL!", nil)
		}

		c.Locals("assignmentID", assignmentID)
		return c.Next()
	}
}

func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		submissionID, ok := parseIDParam(c, "submission_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid submission ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Grade    *float64 `json:"grade"`
			Feedback string   `json:"feedback"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Grade
		if reqData.Grade == nil {
			errors["grade"] = "Grade is required!"
		} else if *reqData.Grade < 0 || *reqData.Grade > 100 {
			errors["grade"] = "Grade must be between 0 and 100!"
		}

		// Validate Feedback (optional field)
		reqData.Feedback = strings.TrimSpace(reqData.Feedback)
		if len(reqData.Feedback) > 2000 {
			errors["feedback"] = "Feedback must not exceed 2000 characters!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("submissionID", submissionID)
		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}

func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
		if code == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification code is required in the URL!", nil)
		}
		if !verificationCodePattern.MatchString(code) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid verification code format!", nil)
		}

		c.Locals("verificationCode", code)
		return c.Next()
	}
}
