package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission statuses. The SUBMITTED to GRADED transition is one-way.
const (
	SubmissionSubmitted = "SUBMITTED"
	SubmissionGraded    = "GRADED"
)

// Submission is one attempt at an assignment. Attempt numbers per
// (enrollment, assignment) are contiguous starting at 1; the unique index is
// the authoritative guard against racing duplicate attempts.
type Submission struct {
	gorm.Model
	EnrollmentID  uint           `json:"enrollment_id" gorm:"uniqueIndex:idx_enrollment_assignment_attempt;not null"`
	AssignmentID  uint           `json:"assignment_id" gorm:"uniqueIndex:idx_enrollment_assignment_attempt;not null"`
	AttemptNumber int            `json:"attempt_number" gorm:"uniqueIndex:idx_enrollment_assignment_attempt;default:1"`
	Answers       datatypes.JSON `json:"answers"`                        // Submitted answer payload
	Grade         *float64       `json:"grade"`                          // Percent in [0,100], unset until graded
	Status        string         `json:"status" gorm:"default:'SUBMITTED'"`
	Feedback      string         `json:"feedback" gorm:"type:text"`
	IsDeleted     bool           `gorm:"default:false"`
}

// AnswerPayload is one entry of a submission's answers payload. MCQ answers
// carry selected option IDs, QA answers carry free text.
type AnswerPayload struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids,omitempty"`
	Text              string `json:"text,omitempty"`
}
