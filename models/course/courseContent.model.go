package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseContent represents a content item within a module
type CourseContent struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, READING
	TextContent string `json:"text_content" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Order within module
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// ContentProgress tracks an enrollment's completion of a single content item.
// Completed only ever flips false to true.
type ContentProgress struct {
	gorm.Model
	EnrollmentID  uint       `json:"enrollment_id" gorm:"uniqueIndex:idx_enrollment_content;not null"`
	ContentID     uint       `json:"content_id" gorm:"uniqueIndex:idx_enrollment_content;not null"`
	Completed     bool       `json:"completed" gorm:"default:false"`
	CompletedDate *time.Time `json:"completed_date"`
	IsDeleted     bool       `gorm:"default:false"`
}
