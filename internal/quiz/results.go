package quiz

import (
	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// QuizResults groups a student's attempts under the quiz title,
// attempts in ascending order.
type QuizResults struct {
	QuizTitle string             `json:"quiz_title"`
	Attempts  []models.ResultRow `json:"attempts"`
}

// ResultsForStudent returns the student's results grouped per quiz,
// quizzes ordered by title. A student with no recorded attempts gets
// ErrNoResults rather than an empty list.
func (e *Engine) ResultsForStudent(studentID int64) ([]QuizResults, error) {
	rows, err := e.store.ListStudentResults(studentID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoResults
	}
	return groupByQuiz(rows), nil
}

// AllResults is the admin view: every student's attempts, grouped per
// quiz with student names on the rows.
func (e *Engine) AllResults() ([]QuizResults, error) {
	rows, err := e.store.ListAllResults()
	if err != nil {
		return nil, err
	}
	return groupByQuiz(rows), nil
}

// groupByQuiz relies on the rows arriving ordered by quiz title, so
// each title change starts a new group.
func groupByQuiz(rows []models.ResultRow) []QuizResults {
	var grouped []QuizResults
	for _, row := range rows {
		n := len(grouped)
		if n == 0 || grouped[n-1].QuizTitle != row.QuizTitle {
			grouped = append(grouped, QuizResults{QuizTitle: row.QuizTitle})
			n++
		}
		grouped[n-1].Attempts = append(grouped[n-1].Attempts, row)
	}
	return grouped
}
