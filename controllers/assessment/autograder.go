package controllers

import (
	"encoding/json"
	"math"
	"strings"

	courseModels "lms/models/course"

	"gorm.io/datatypes"
)

// negativeKeywordPenalty is the fraction of a question's points deducted per
// negative keyword found in the answer
const negativeKeywordPenalty = 0.2

// GradeMCQAnswers scores MCQ answers against question option configuration.
// A question earns its points only when the selected option set matches the
// correct option set exactly; subsets and supersets earn nothing. Returns the
// percentage in [0,100] rounded to 2 decimals, or 0 when the assignment has
// no MCQ points configured.
func GradeMCQAnswers(questions []courseModels.AssignmentQuestion, options []courseModels.AssignmentOption, answers []courseModels.AnswerPayload) float64 {
	// Group correct option IDs by question
	correctByQuestion := make(map[uint]map[uint]bool)
	for _, opt := range options {
		if !opt.IsCorrect {
			continue
		}
		if correctByQuestion[opt.QuestionID] == nil {
			correctByQuestion[opt.QuestionID] = make(map[uint]bool)
		}
		correctByQuestion[opt.QuestionID][opt.ID] = true
	}

	answerByQuestion := make(map[uint]courseModels.AnswerPayload)
	for _, ans := range answers {
		answerByQuestion[ans.QuestionID] = ans
	}

	totalPoints := 0
	earnedPoints := 0
	for _, q := range questions {
		if q.Type != courseModels.AssignmentTypeMCQ {
			continue
		}
		totalPoints += q.Points

		ans, answered := answerByQuestion[q.ID]
		if !answered {
			continue
		}

		// Compare as sets so repeated IDs cannot pad a partial selection up
		// to the correct count
		selected := make(map[uint]bool, len(ans.SelectedOptionIDs))
		for _, id := range ans.SelectedOptionIDs {
			selected[id] = true
		}

		correct := correctByQuestion[q.ID]
		if len(selected) != len(correct) {
			continue
		}
		matched := true
		for id := range selected {
			if !correct[id] {
				matched = false
				break
			}
		}
		if matched {
			earnedPoints += q.Points
		}
	}

	if totalPoints == 0 {
		return 0
	}
	return roundTo2(float64(earnedPoints) / float64(totalPoints) * 100)
}

// GradeQAAnswers scores free-text answers against keyword configuration.
// Matching is substring based throughout. Per question: an exact acceptable
// answer earns full points; a missing required keyword earns zero; otherwise
// optional keywords earn proportional credit and each negative keyword found
// deducts a fifth of the points, with the result clamped to [0, points].
// Returns the percentage in [0,100] rounded to 2 decimals.
func GradeQAAnswers(questions []courseModels.AssignmentQuestion, answers []courseModels.AnswerPayload) float64 {
	answerByQuestion := make(map[uint]courseModels.AnswerPayload)
	for _, ans := range answers {
		answerByQuestion[ans.QuestionID] = ans
	}

	totalPoints := 0
	earnedCredit := 0.0
	for _, q := range questions {
		if q.Type != courseModels.AssignmentTypeQA {
			continue
		}
		if q.Points <= 0 {
			// Misconfigured question, skip it entirely
			continue
		}
		totalPoints += q.Points

		ans, answered := answerByQuestion[q.ID]
		if !answered {
			continue
		}

		earnedCredit += gradeQAQuestion(q, ans.Text)
	}

	if totalPoints == 0 {
		return 0
	}
	return roundTo2(earnedCredit / float64(totalPoints) * 100)
}

// gradeQAQuestion returns the credit in [0, q.Points] earned by one answer
func gradeQAQuestion(q courseModels.AssignmentQuestion, text string) float64 {
	answer := strings.ToLower(strings.TrimSpace(text))
	points := float64(q.Points)

	// Exact acceptable answer earns full credit regardless of keywords
	for _, acceptable := range decodeKeywords(q.AcceptableAnswers) {
		if answer == acceptable {
			return points
		}
	}

	// Every required keyword must be present
	required := decodeKeywords(q.RequiredKeywords)
	for _, keyword := range required {
		if !strings.Contains(answer, keyword) {
			return 0
		}
	}

	// Optional keywords earn proportional credit
	credit := points
	optional := decodeKeywords(q.OptionalKeywords)
	if len(optional) > 0 {
		found := 0
		for _, keyword := range optional {
			if strings.Contains(answer, keyword) {
				found++
			}
		}
		credit = points * float64(found) / float64(len(optional))
	}

	// Each negative keyword found deducts points, uncapped
	for _, keyword := range decodeKeywords(q.NegativeKeywords) {
		if strings.Contains(answer, keyword) {
			credit -= negativeKeywordPenalty * points
		}
	}

	return math.Max(0, math.Min(credit, points))
}

// decodeKeywords parses a JSON string array column into lowercased, trimmed,
// deduplicated entries. Empty entries and malformed columns yield nothing.
func decodeKeywords(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}

	var entries []string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		result = append(result, entry)
	}
	return result
}

// hasAutoGradableQuestions reports whether a QA assignment carries enough
// keyword configuration to be graded without a teacher. A QA submission with
// nothing to match against stays SUBMITTED for manual grading.
func hasAutoGradableQuestions(assignment courseModels.Assignment, questions []courseModels.AssignmentQuestion) bool {
	if assignment.Type == courseModels.AssignmentTypeMCQ {
		return len(questions) > 0
	}
	for _, q := range questions {
		if q.Points <= 0 {
			continue
		}
		if len(decodeKeywords(q.RequiredKeywords)) > 0 ||
			len(decodeKeywords(q.OptionalKeywords)) > 0 ||
			len(decodeKeywords(q.AcceptableAnswers)) > 0 {
			return true
		}
	}
	return false
}

func roundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}

func roundTo1(value float64) float64 {
	return math.Round(value*10) / 10
}
