package controllers

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func mcqQuestion(id uint, points int) courseModels.AssignmentQuestion {
	q := courseModels.AssignmentQuestion{Type: courseModels.AssignmentTypeMCQ, Points: points}
	q.ID = id
	return q
}

func qaQuestion(id uint, points int, required, optional, negative, acceptable string) courseModels.AssignmentQuestion {
	q := courseModels.AssignmentQuestion{Type: courseModels.AssignmentTypeQA, Points: points}
	q.ID = id
	if required != "" {
		q.RequiredKeywords = datatypes.JSON(required)
	}
	if optional != "" {
		q.OptionalKeywords = datatypes.JSON(optional)
	}
	if negative != "" {
		q.NegativeKeywords = datatypes.JSON(negative)
	}
	if acceptable != "" {
		q.AcceptableAnswers = datatypes.JSON(acceptable)
	}
	return q
}

func option(id, questionID uint, correct bool) courseModels.AssignmentOption {
	opt := courseModels.AssignmentOption{QuestionID: questionID, IsCorrect: correct}
	opt.ID = id
	return opt
}

func TestGradeMCQAnswersExactSetOnly(t *testing.T) {
	questions := []courseModels.AssignmentQuestion{mcqQuestion(1, 100)}
	options := []courseModels.AssignmentOption{
		option(10, 1, true),
		option(11, 1, true),
		option(12, 1, false),
	}

	tests := []struct {
		name     string
		selected []uint
		want     float64
	}{
		{"exact correct set", []uint{10, 11}, 100},
		{"subset earns nothing", []uint{10}, 0},
		{"superset earns nothing", []uint{10, 11, 12}, 0},
		{"wrong option swapped in", []uint{10, 12}, 0},
		{"repeated id is still a subset", []uint{10, 10}, 0},
		{"exact set with repeats still matches", []uint{10, 11, 11}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := []courseModels.AnswerPayload{{QuestionID: 1, SelectedOptionIDs: tt.selected}}
			assert.Equal(t, tt.want, GradeMCQAnswers(questions, options, answers))
		})
	}
}

func TestGradeMCQAnswersTwoQuestionsHalfCorrect(t *testing.T) {
	// Two questions worth 50 points each, correct set chosen for the first only
	questions := []courseModels.AssignmentQuestion{mcqQuestion(1, 50), mcqQuestion(2, 50)}
	options := []courseModels.AssignmentOption{
		option(10, 1, true),
		option(11, 1, false),
		option(20, 2, true),
		option(21, 2, false),
	}
	answers := []courseModels.AnswerPayload{
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
		{QuestionID: 2, SelectedOptionIDs: []uint{21}},
	}

	assert.Equal(t, 50.00, GradeMCQAnswers(questions, options, answers))
}

func TestGradeMCQAnswersDefensive(t *testing.T) {
	questions := []courseModels.AssignmentQuestion{mcqQuestion(1, 50)}
	options := []courseModels.AssignmentOption{option(10, 1, true)}

	t.Run("unknown question reference is ignored", func(t *testing.T) {
		answers := []courseModels.AnswerPayload{
			{QuestionID: 1, SelectedOptionIDs: []uint{10}},
			{QuestionID: 999, SelectedOptionIDs: []uint{10}},
		}
		assert.Equal(t, 100.00, GradeMCQAnswers(questions, options, answers))
	})

	t.Run("unanswered question earns nothing", func(t *testing.T) {
		assert.Equal(t, 0.00, GradeMCQAnswers(questions, options, nil))
	})

	t.Run("no mcq points configured yields zero", func(t *testing.T) {
		assert.Equal(t, 0.00, GradeMCQAnswers(nil, nil, nil))
	})
}

func TestGradeQAAnswersAcceptableAnswer(t *testing.T) {
	questions := []courseModels.AssignmentQuestion{
		qaQuestion(1, 20, `["recursion"]`, `["base case","stack"]`, `["goto"]`, `["a function calling itself"]`),
	}

	// Exact acceptable answer earns full credit even without any keyword,
	// case-insensitive and trimmed
	answers := []courseModels.AnswerPayload{{QuestionID: 1, Text: "  A Function Calling Itself "}}
	assert.Equal(t, 100.00, GradeQAAnswers(questions, answers))
}

func TestGradeQAAnswersKeywordScoring(t *testing.T) {
	questions := []courseModels.AssignmentQuestion{
		qaQuestion(1, 20, `["recursion"]`, `["base case","stack"]`, `["goto"]`, ""),
	}

	tests := []struct {
		name   string
		answer string
		want   float64
	}{
		// 1 of 2 optional keywords matched: credit 10 of 20
		{"partial optional credit", "recursion with a base case", 50.00},
		{"all optional keywords", "recursion with a base case on the stack", 100.00},
		{"missing required keyword", "a base case on the stack", 0.00},
		// 10 - 0.2*20 = 6 of 20
		{"negative keyword deducts", "recursion with a base case using goto", 30.00},
		{"no optional keywords matched", "recursion", 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := []courseModels.AnswerPayload{{QuestionID: 1, Text: tt.answer}}
			assert.Equal(t, tt.want, GradeQAAnswers(questions, answers))
		})
	}
}

func TestGradeQAAnswersSubstringMatching(t *testing.T) {
	// Matching is substring based: "ai" matches inside "rain"
	questions := []courseModels.AssignmentQuestion{
		qaQuestion(1, 10, `["ai"]`, "", "", ""),
	}
	answers := []courseModels.AnswerPayload{{QuestionID: 1, Text: "the rain in spain"}}

	assert.Equal(t, 100.00, GradeQAAnswers(questions, answers))
}

func TestGradeQAAnswersNoOptionalKeywords(t *testing.T) {
	// With required satisfied and no optional list, full credit
	questions := []courseModels.AssignmentQuestion{
		qaQuestion(1, 10, `["recursion"]`, "", "", ""),
	}
	answers := []courseModels.AnswerPayload{{QuestionID: 1, Text: "recursion everywhere"}}

	assert.Equal(t, 100.00, GradeQAAnswers(questions, answers))
}

func TestGradeQAAnswersPenaltyAdditive(t *testing.T) {
	// Three negative hits on full credit: 10 - 3*(0.2*10) = 4 of 10
	questions := []courseModels.AssignmentQuestion{
		qaQuestion(1, 10, "", `["loop"]`, `["goto","eval","global"]`, ""),
	}
	answers := []courseModels.AnswerPayload{{QuestionID: 1, Text: "loop with goto eval global"}}

	assert.Equal(t, 40.00, GradeQAAnswers(questions, answers))
}

func TestGradeQAAnswersPenaltyClamped(t *testing.T) {
	// Six negative hits drive credit to 10 - 6*(0.2*10) = -2; clamps at 0
	questions := []courseModels.AssignmentQuestion{
		qaQuestion(1, 10, "", `["loop"]`, `["goto","eval","global","panic","unsafe","reflect"]`, ""),
	}
	answers := []courseModels.AnswerPayload{{QuestionID: 1, Text: "loop with goto eval global panic unsafe reflect"}}

	assert.Equal(t, 0.00, GradeQAAnswers(questions, answers))
}

func TestGradeQAAnswersZeroPointQuestionSkipped(t *testing.T) {
	questions := []courseModels.AssignmentQuestion{
		qaQuestion(1, 0, `["anything"]`, "", "", ""),
		qaQuestion(2, 10, `["recursion"]`, "", "", ""),
	}
	answers := []courseModels.AnswerPayload{
		{QuestionID: 1, Text: "irrelevant"},
		{QuestionID: 2, Text: "recursion"},
	}

	// The zero-point question neither earns nor dilutes
	assert.Equal(t, 100.00, GradeQAAnswers(questions, answers))
}

func TestGradeQAAnswersZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.00, GradeQAAnswers(nil, nil))
}

func TestDecodeKeywords(t *testing.T) {
	decoded := decodeKeywords(datatypes.JSON(`[" Base Case", "base case", "", "STACK"]`))
	assert.Equal(t, []string{"base case", "stack"}, decoded)

	assert.Nil(t, decodeKeywords(nil))
	assert.Nil(t, decodeKeywords(datatypes.JSON(`{"not":"an array"}`)))
}
