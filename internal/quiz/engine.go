package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/lussekatt/internal/metrics"
	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

// Engine resolves quiz visibility and scores submissions. Scoring is
// pure arithmetic over the answer key; everything stateful goes
// through the store.
type Engine struct {
	store store.QuizStore
}

func NewEngine(s store.QuizStore) *Engine {
	return &Engine{store: s}
}

// Submit scores one attempt and persists it. Unanswered questions
// count as wrong, answers to questions outside the quiz are ignored,
// and the attempt ceiling is enforced inside the insert transaction.
func (e *Engine) Submit(studentID, quizID int64, answers map[int64]int64) (*models.Result, error) {
	if len(answers) == 0 {
		metrics.SubmissionsTotal.WithLabelValues("no_answers").Inc()
		return nil, ErrNoAnswers
	}

	q, err := e.store.GetQuiz(quizID)
	if errors.Is(err, store.ErrNotFound) {
		metrics.SubmissionsTotal.WithLabelValues("quiz_not_found").Inc()
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	// Fast-fail on an already exhausted limit. The authoritative check
	// happens again inside the insert transaction.
	count, err := e.store.CountAttempts(studentID, quizID)
	if err != nil {
		return nil, err
	}
	if count >= q.AttemptLimit {
		metrics.SubmissionsTotal.WithLabelValues("limit_reached").Inc()
		return nil, &store.AttemptLimitError{Limit: q.AttemptLimit}
	}

	assigned, err := e.store.IsAssigned(studentID, quizID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		metrics.SubmissionsTotal.WithLabelValues("not_assigned").Inc()
		return nil, ErrNotAssigned
	}

	key, err := e.store.AnswerKey(quizID)
	if err != nil {
		return nil, err
	}

	score := scoreAnswers(key, answers)
	result := &models.Result{
		StudentID: studentID,
		QuizID:    quizID,
		Score:     score,
		Feedback:  fmt.Sprintf("Your score is %d/%d.", score, len(key)),
		CreatedAt: time.Now().Unix(),
	}

	if err := e.store.RecordResult(result, q.AttemptLimit); err != nil {
		var limitErr *store.AttemptLimitError
		if errors.As(err, &limitErr) {
			metrics.SubmissionsTotal.WithLabelValues("limit_reached").Inc()
		}
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("scored").Inc()
	metrics.ScoreHistogram.WithLabelValues(q.Title).Observe(float64(score))

	return result, nil
}

// scoreAnswers counts one point per question whose picked option is
// flagged correct. Legacy questions may carry several correct options;
// matching any of them scores the point.
func scoreAnswers(key map[int64][]int64, answers map[int64]int64) int {
	score := 0
	for questionID, correct := range key {
		picked, ok := answers[questionID]
		if !ok {
			continue
		}
		for _, optionID := range correct {
			if picked == optionID {
				score++
				break
			}
		}
	}
	return score
}
