package grading

import (
	"strings"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

const MinOptions = 2

// ValidateQuestion is applied on create and update so no ungradable question is stored.
func ValidateQuestion(text string, options []string, correctIndex int) error {
	if strings.TrimSpace(text) == "" {
		return apierr.Validation("invalid_question", "question text is required")
	}
	if len(options) < MinOptions {
		return apierr.Validation("invalid_question", "a question needs at least %d options, got %d", MinOptions, len(options))
	}
	for i, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return apierr.Validation("invalid_question", "option %d is empty", i)
		}
	}
	if correctIndex < 0 || correctIndex >= len(options) {
		return apierr.Validation("invalid_question", "correct_index %d is outside 0..%d", correctIndex, len(options)-1)
	}
	return nil
}

func ValidatePassingScore(score int) error {
	if score < 0 || score > 100 {
		return apierr.Validation("invalid_quiz", "passing_score must be within 0..100, got %d", score)
	}
	return nil
}

// ValidateGradable checks a stored quiz before a submission is accepted against it.
func ValidateGradable(quiz *types.Quiz) error {
	if quiz == nil {
		return apierr.NotFound("quiz_not_found", "")
	}
	if err := ValidatePassingScore(quiz.PassingScore); err != nil {
		return err
	}
	if len(quiz.Questions) == 0 {
		return apierr.Validation("quiz_has_no_questions", "quiz %s has no questions", quiz.ID)
	}
	for _, q := range quiz.Questions {
		if err := ValidateQuestion(q.Text, q.Options, q.CorrectIndex); err != nil {
			return err
		}
	}
	return nil
}
