package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// At most one exists per (student, course); the unique index backs that up
// under concurrent completion triggers.
type Certificate struct {
	gorm.Model
	StudentID        uint      `json:"student_id" gorm:"uniqueIndex:idx_student_course_cert;not null"`
	CourseID         uint      `json:"course_id" gorm:"uniqueIndex:idx_student_course_cert;not null"`
	VerificationCode string    `json:"verification_code" gorm:"unique"`
	IssuedAt         time.Time `json:"issued_at"`
	IsDeleted        bool      `gorm:"default:false"`
}
