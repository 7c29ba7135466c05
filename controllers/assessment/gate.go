package controllers

import (
	courseModels "lms/models/course"
)

// Gate rejection codes
const (
	GateAlreadyPassed  = "ALREADY_PASSED"
	GateNoAttemptsLeft = "NO_ATTEMPTS_LEFT"
	GatePendingGrading = "PENDING_GRADING"
	GateNotEnrolled    = "NOT_ENROLLED"
)

// GateError describes why a new attempt was rejected
type GateError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *GateError) Error() string {
	return e.Message
}

// EvaluateSubmissionGate decides whether a new attempt may be created for the
// assignment given all prior submissions of the same enrollment. Rules are
// checked in order: already passed, attempts exhausted, then (for QA
// assignments) an earlier attempt still waiting on grading. On success it
// returns the next attempt number, which is count of prior submissions + 1.
func EvaluateSubmissionGate(assignment courseModels.Assignment, prior []courseModels.Submission) (int, *GateError) {
	for _, sub := range prior {
		if sub.Status == courseModels.SubmissionGraded && sub.Grade != nil && *sub.Grade >= float64(assignment.PassingGrade) {
			return 0, &GateError{Code: GateAlreadyPassed, Message: "Assignment already passed!"}
		}
	}

	if len(prior) >= assignment.MaxAttempts {
		return 0, &GateError{Code: GateNoAttemptsLeft, Message: "No attempts left for this assignment!"}
	}

	if assignment.Type == courseModels.AssignmentTypeQA {
		for _, sub := range prior {
			if sub.Status == courseModels.SubmissionSubmitted {
				return 0, &GateError{Code: GatePendingGrading, Message: "A previous attempt is still waiting to be graded!"}
			}
		}
	}

	return len(prior) + 1, nil
}
