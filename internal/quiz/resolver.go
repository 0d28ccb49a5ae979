package quiz

import (
	"errors"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

// VisibleQuizzes lists the quizzes assigned to the student directly or
// through class membership, deduplicated. Class membership is looked
// up at call time, so moving a student between classes changes the
// list immediately.
func (e *Engine) VisibleQuizzes(studentID int64) ([]models.Quiz, error) {
	return e.store.ListVisibleQuizzes(studentID)
}

// QuestionsForStudent returns the quiz's questions with correctness
// flags stripped. Students only see questions of quizzes assigned to
// them.
func (e *Engine) QuestionsForStudent(studentID, quizID int64) ([]models.QuestionWithOptions, error) {
	_, err := e.store.GetQuiz(quizID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	assigned, err := e.store.IsAssigned(studentID, quizID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, ErrNotAssigned
	}

	return e.store.QuizQuestions(quizID, false)
}
