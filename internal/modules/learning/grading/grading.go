package grading

import (
	"math"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

type Result struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
}

// Grade scores answers against quiz. answers[i] is the chosen option for
// question i, or types.Unanswered. It never mutates quiz.
func Grade(quiz *types.Quiz, answers []int) (Result, error) {
	if quiz == nil {
		return Result{}, apierr.NotFound("quiz_not_found", "")
	}
	total := len(quiz.Questions)
	if total == 0 {
		return Result{}, apierr.Validation("quiz_has_no_questions", "quiz %s has no questions", quiz.ID)
	}
	if len(answers) != total {
		return Result{}, apierr.Malformed("answer_count_mismatch", "expected %d answers, got %d", total, len(answers))
	}

	correct := 0
	for i, q := range quiz.Questions {
		if isCorrect(q, answers[i]) {
			correct++
		}
	}
	score := Score(correct, total)
	return Result{
		Correct: correct,
		Total:   total,
		Score:   score,
		Passed:  score >= quiz.PassingScore,
	}, nil
}

// Score is round(correct/total*100), halves away from zero.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// An unanswered or out-of-range choice never matches, whatever CorrectIndex holds.
func isCorrect(q types.Question, answer int) bool {
	if answer == types.Unanswered || answer < 0 || answer >= len(q.Options) {
		return false
	}
	return answer == q.CorrectIndex
}

// CheckAnswers rejects submissions that cannot be graded as sent: wrong length
// or a choice outside the question's options. Unanswered is allowed.
func CheckAnswers(quiz *types.Quiz, answers []int) error {
	if quiz == nil {
		return apierr.NotFound("quiz_not_found", "")
	}
	if len(answers) != len(quiz.Questions) {
		return apierr.Malformed("answer_count_mismatch", "expected %d answers, got %d", len(quiz.Questions), len(answers))
	}
	for i, a := range answers {
		if a == types.Unanswered {
			continue
		}
		if a < 0 || a >= len(quiz.Questions[i].Options) {
			return apierr.Malformed("answer_out_of_range", "answer %d: option %d does not exist", i, a)
		}
	}
	return nil
}

// HasPassed is best-ever: one passing attempt is enough, later failures do not undo it.
func HasPassed(attempts []*types.QuizAttempt) bool {
	for _, a := range attempts {
		if a != nil && a.Passed {
			return true
		}
	}
	return false
}

func BestScore(attempts []*types.QuizAttempt) (int, bool) {
	best, seen := 0, false
	for _, a := range attempts {
		if a == nil {
			continue
		}
		if !seen || a.Score > best {
			best, seen = a.Score, true
		}
	}
	return best, seen
}
