package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses. The ACTIVE to COMPLETED transition is one-way.
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
)

// Enrollment tracks a student's enrollment in a course with progress
type Enrollment struct {
	gorm.Model
	StudentID   uint       `json:"student_id" gorm:"uniqueIndex:idx_student_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_student_course;not null"`
	Status      string     `json:"status" gorm:"default:'ACTIVE'"`
	Progress    float64    `json:"progress" gorm:"default:0"` // Cached completion percentage (0-100)
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
