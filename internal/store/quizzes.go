package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

func (s *BaseStore) CreateQuiz(quiz *models.Quiz) error {
	query := s.Converter(`
		INSERT INTO quizzes (title, description, attempt_limit, created_by)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&quiz.ID, query, quiz.Title, quiz.Description, quiz.AttemptLimit, quiz.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (s *BaseStore) GetQuiz(id int64) (*models.Quiz, error) {
	var quiz models.Quiz
	query := s.Converter(`
		SELECT id, title, description, attempt_limit, created_by
		FROM quizzes
		WHERE id = ?
	`)
	err := s.DB.Get(&quiz, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return &quiz, nil
}

func (s *BaseStore) ListQuizzes() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.DB.Select(&quizzes, `
		SELECT id, title, description, attempt_limit, created_by
		FROM quizzes
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *BaseStore) UpdateQuiz(quiz *models.Quiz) error {
	query := s.Converter(`
		UPDATE quizzes
		SET title = ?, description = ?, attempt_limit = ?
		WHERE id = ?
	`)
	res, err := s.DB.Exec(query, quiz.Title, quiz.Description, quiz.AttemptLimit, quiz.ID)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuiz cascades to questions, options, assignments and results.
func (s *BaseStore) DeleteQuiz(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM quizzes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateQuestion(question *models.Question) error {
	query := s.Converter(`
		INSERT INTO quiz_questions (quiz_id, question)
		VALUES (?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&question.ID, query, question.QuizID, question.Question)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("question already exists for quiz %d: %w", question.QuizID, ErrConflict)
		}
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (s *BaseStore) ListQuestions(quizID int64) ([]models.Question, error) {
	var questions []models.Question
	query := s.Converter(`
		SELECT id, quiz_id, question
		FROM quiz_questions
		WHERE quiz_id = ?
		ORDER BY id
	`)
	if err := s.DB.Select(&questions, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *BaseStore) ListAllQuestions() ([]models.Question, error) {
	var questions []models.Question
	err := s.DB.Select(&questions, `
		SELECT id, quiz_id, question
		FROM quiz_questions
		ORDER BY quiz_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// CreateOption enforces single-correct at write time: the partial
// unique index on (question_id) WHERE is_correct rejects a second
// correct option with ErrConflict.
func (s *BaseStore) CreateOption(option *models.Option) error {
	query := s.Converter(`
		INSERT INTO quiz_options (question_id, option_text, is_correct)
		VALUES (?, ?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&option.ID, query, option.QuestionID, option.OptionText, option.IsCorrect)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("option for question %d: %w", option.QuestionID, ErrConflict)
		}
		return fmt.Errorf("failed to create option: %w", err)
	}
	return nil
}

func (s *BaseStore) ListOptions(questionID int64) ([]models.Option, error) {
	var options []models.Option
	query := s.Converter(`
		SELECT id, question_id, option_text, is_correct
		FROM quiz_options
		WHERE question_id = ?
		ORDER BY id
	`)
	if err := s.DB.Select(&options, query, questionID); err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	return options, nil
}

// QuizQuestions returns the quiz's questions with their options grouped
// in insertion order. With includeCorrect false the correctness flags
// are zeroed so the answer key never reaches a student.
func (s *BaseStore) QuizQuestions(quizID int64, includeCorrect bool) ([]models.QuestionWithOptions, error) {
	type row struct {
		QuestionID int64  `db:"question_id"`
		Question   string `db:"question"`
		OptionID   int64  `db:"option_id"`
		OptionText string `db:"option_text"`
		IsCorrect  bool   `db:"is_correct"`
	}
	var rows []row
	query := s.Converter(`
		SELECT q.id AS question_id, q.question,
		       o.id AS option_id, o.option_text, o.is_correct
		FROM quiz_questions q
		JOIN quiz_options o ON q.id = o.question_id
		WHERE q.quiz_id = ?
		ORDER BY q.id, o.id
	`)
	if err := s.DB.Select(&rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to fetch quiz questions: %w", err)
	}

	var questions []models.QuestionWithOptions
	idx := make(map[int64]int)
	for _, r := range rows {
		i, ok := idx[r.QuestionID]
		if !ok {
			questions = append(questions, models.QuestionWithOptions{
				Question: models.Question{ID: r.QuestionID, QuizID: quizID, Question: r.Question},
			})
			i = len(questions) - 1
			idx[r.QuestionID] = i
		}
		opt := models.Option{
			ID:         r.OptionID,
			QuestionID: r.QuestionID,
			OptionText: r.OptionText,
		}
		if includeCorrect {
			opt.IsCorrect = r.IsCorrect
		}
		questions[i].Options = append(questions[i].Options, opt)
	}
	return questions, nil
}

func (s *BaseStore) CreateStudentAssignment(a *models.StudentAssignment) error {
	query := s.Converter(`
		INSERT INTO quiz_student_assignments (quiz_id, student_id)
		VALUES (?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&a.ID, query, a.QuizID, a.StudentID)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("quiz %d already assigned to student %d: %w", a.QuizID, a.StudentID, ErrConflict)
		}
		return fmt.Errorf("failed to assign quiz to student: %w", err)
	}
	return nil
}

func (s *BaseStore) ListStudentAssignments() ([]models.StudentAssignment, error) {
	var assignments []models.StudentAssignment
	err := s.DB.Select(&assignments, `
		SELECT a.id, a.quiz_id, a.student_id,
		       q.title AS quiz_title, s.name AS student_name
		FROM quiz_student_assignments a
		JOIN quizzes q ON a.quiz_id = q.id
		JOIN students s ON a.student_id = s.id
		ORDER BY a.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (s *BaseStore) DeleteStudentAssignment(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM quiz_student_assignments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateClassAssignment(a *models.ClassAssignment) error {
	query := s.Converter(`
		INSERT INTO quiz_class_assignments (quiz_id, class_id)
		VALUES (?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&a.ID, query, a.QuizID, a.ClassID)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("quiz %d already assigned to class %d: %w", a.QuizID, a.ClassID, ErrConflict)
		}
		return fmt.Errorf("failed to assign quiz to class: %w", err)
	}
	return nil
}

func (s *BaseStore) ListClassAssignments() ([]models.ClassAssignment, error) {
	var assignments []models.ClassAssignment
	err := s.DB.Select(&assignments, `
		SELECT a.id, a.quiz_id, a.class_id,
		       q.title AS quiz_title, c.name AS class_name
		FROM quiz_class_assignments a
		JOIN quizzes q ON a.quiz_id = q.id
		JOIN classes c ON a.class_id = c.id
		ORDER BY a.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list class assignments: %w", err)
	}
	return assignments, nil
}

func (s *BaseStore) DeleteClassAssignment(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM quiz_class_assignments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete class assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVisibleQuizzes unions direct assignments with assignments to the
// student's class, looked up at call time. DISTINCT keeps a quiz
// assigned through both paths from appearing twice.
func (s *BaseStore) ListVisibleQuizzes(studentID int64) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	query := s.Converter(`
		SELECT DISTINCT q.id, q.title, q.description, q.attempt_limit, q.created_by
		FROM quizzes q
		LEFT JOIN quiz_student_assignments qsa
		       ON q.id = qsa.quiz_id AND qsa.student_id = ?
		LEFT JOIN quiz_class_assignments qca ON q.id = qca.quiz_id
		LEFT JOIN students s ON s.id = ? AND s.class_id = qca.class_id
		WHERE qsa.id IS NOT NULL OR s.id IS NOT NULL
		ORDER BY q.id
	`)
	if err := s.DB.Select(&quizzes, query, studentID, studentID); err != nil {
		return nil, fmt.Errorf("failed to list visible quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *BaseStore) IsAssigned(studentID, quizID int64) (bool, error) {
	var one int
	query := s.Converter(`
		SELECT 1
		FROM quizzes q
		LEFT JOIN quiz_student_assignments qsa
		       ON q.id = qsa.quiz_id AND qsa.student_id = ?
		LEFT JOIN quiz_class_assignments qca ON q.id = qca.quiz_id
		LEFT JOIN students s ON s.id = ? AND s.class_id = qca.class_id
		WHERE q.id = ? AND (qsa.id IS NOT NULL OR s.id IS NOT NULL)
		LIMIT 1
	`)
	err := s.DB.Get(&one, query, studentID, studentID, quizID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return true, nil
}
