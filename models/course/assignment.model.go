package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assignment types
const (
	AssignmentTypeMCQ = "MCQ" // Multiple choice, auto-graded against option sets
	AssignmentTypeQA  = "QA"  // Free text, keyword-graded or manually graded
)

// Assignment belongs to a course (optionally pinned to a module)
type Assignment struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	ModuleID     *uint  `json:"module_id" gorm:"index"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Type         string `json:"type" gorm:"default:'MCQ'"` // MCQ, QA
	TotalPoints  int    `json:"total_points" gorm:"default:100"`
	PassingGrade int    `json:"passing_grade" gorm:"default:60"` // Percentage needed to pass
	MaxAttempts  int    `json:"max_attempts" gorm:"default:3"`
	IsDeleted    bool   `gorm:"default:false"`
}

// AssignmentQuestion holds one question's configuration. MCQ questions carry
// options (AssignmentOption rows); QA questions carry keyword lists stored as
// JSON arrays of strings.
type AssignmentQuestion struct {
	gorm.Model
	AssignmentID uint   `json:"assignment_id" gorm:"index;not null"`
	Type         string `json:"type" gorm:"default:'MCQ'"` // MCQ, QA
	Text         string `json:"text" gorm:"type:text"`
	Points       int    `json:"points" gorm:"default:0"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`

	// QA grading configuration (JSON string arrays)
	RequiredKeywords  datatypes.JSON `json:"required_keywords"`  // All must appear in the answer
	OptionalKeywords  datatypes.JSON `json:"optional_keywords"`  // Each found adds partial credit
	NegativeKeywords  datatypes.JSON `json:"negative_keywords"`  // Each found deducts points
	AcceptableAnswers datatypes.JSON `json:"acceptable_answers"` // Exact-match full credit answers

	IsDeleted bool `gorm:"default:false"`
}

// AssignmentOption represents an option for a multiple choice question
type AssignmentOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
