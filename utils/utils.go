package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateVerificationCode builds a certificate verification code from a
// short random identifier plus the course and student identifiers. The random
// prefix keeps codes unguessable; the unique column keeps them unique.
func GenerateVerificationCode(courseID, studentID uint) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%d", random, courseID, studentID)
}
