package store

import (
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// AnswerKey maps each question of the quiz to the option ids flagged
// correct. New data carries exactly one correct option per question
// (write-time constraint); legacy rows may carry several, and any of
// them counts as a match.
func (s *BaseStore) AnswerKey(quizID int64) (map[int64][]int64, error) {
	type row struct {
		QuestionID int64 `db:"question_id"`
		OptionID   int64 `db:"option_id"`
	}
	var rows []row
	query := s.Converter(`
		SELECT q.id AS question_id, o.id AS option_id
		FROM quiz_questions q
		JOIN quiz_options o ON q.id = o.question_id
		WHERE q.quiz_id = ? AND o.is_correct
		ORDER BY q.id, o.id
	`)
	if err := s.DB.Select(&rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to build answer key: %w", err)
	}

	key := make(map[int64][]int64, len(rows))
	for _, r := range rows {
		key[r.QuestionID] = append(key[r.QuestionID], r.OptionID)
	}
	return key, nil
}

func (s *BaseStore) CountAttempts(studentID, quizID int64) (int, error) {
	var count int
	query := s.Converter(`
		SELECT COUNT(*)
		FROM quiz_results
		WHERE student_id = ? AND quiz_id = ?
	`)
	if err := s.DB.Get(&count, query, studentID, quizID); err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return count, nil
}

// RecordResult persists a scored attempt plus its mirror-outbox intent
// in one transaction. The attempt number is derived from the result
// count read inside that same transaction, and the unique constraint
// on (student_id, quiz_id, attempt_number) turns a concurrent
// double-submit into a bounded retry instead of a duplicate or an
// over-limit row.
func (s *BaseStore) RecordResult(res *models.Result, attemptLimit int) error {
	// Every conflict means a competing attempt committed, so the recount
	// moves forward each round and attemptLimit+1 rounds always settle
	// on either an insert or the ceiling.
	for i := 0; i <= attemptLimit; i++ {
		err := s.tryRecordResult(res, attemptLimit)
		if err == nil || !errors.Is(err, ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("attempt insert kept conflicting: %w", ErrConflict)
}

func (s *BaseStore) tryRecordResult(res *models.Result, attemptLimit int) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	query := s.Converter(`
		SELECT COUNT(*)
		FROM quiz_results
		WHERE student_id = ? AND quiz_id = ?
	`)
	if err := tx.Get(&count, query, res.StudentID, res.QuizID); err != nil {
		return fmt.Errorf("failed to count attempts: %w", err)
	}
	if count >= attemptLimit {
		return &AttemptLimitError{Limit: attemptLimit}
	}
	res.AttemptNumber = count + 1

	query = s.Converter(`
		INSERT INTO quiz_results (student_id, quiz_id, attempt_number, score, feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err = tx.Get(&res.ID, query,
		res.StudentID, res.QuizID, res.AttemptNumber, res.Score, res.Feedback, res.CreatedAt)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("attempt %d for student %d quiz %d: %w",
				res.AttemptNumber, res.StudentID, res.QuizID, ErrConflict)
		}
		return fmt.Errorf("failed to insert result: %w", err)
	}

	query = s.Converter(`
		INSERT INTO result_outbox (result_id, synced, created_at)
		VALUES (?, ?, ?)
	`)
	if _, err := tx.Exec(query, res.ID, false, res.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert outbox intent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result: %w", err)
	}
	return nil
}

func (s *BaseStore) ListStudentResults(studentID int64) ([]models.ResultRow, error) {
	var results []models.ResultRow
	query := s.Converter(`
		SELECT qr.quiz_id, q.title AS quiz_title, qr.score, qr.feedback, qr.attempt_number
		FROM quiz_results qr
		JOIN quizzes q ON qr.quiz_id = q.id
		WHERE qr.student_id = ?
		ORDER BY q.title ASC, qr.attempt_number ASC
	`)
	if err := s.DB.Select(&results, query, studentID); err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	return results, nil
}

func (s *BaseStore) ListAllResults() ([]models.ResultRow, error) {
	var results []models.ResultRow
	err := s.DB.Select(&results, `
		SELECT qr.quiz_id, q.title AS quiz_title, st.name AS student_name,
		       qr.score, qr.feedback, qr.attempt_number
		FROM quiz_results qr
		JOIN students st ON qr.student_id = st.id
		JOIN quizzes q ON qr.quiz_id = q.id
		ORDER BY q.title ASC, st.name ASC, qr.attempt_number ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	return results, nil
}

func (s *BaseStore) FetchUnsyncedResults() ([]models.MirrorRow, error) {
	var rows []models.MirrorRow
	query := s.Converter(`
		SELECT ob.id AS outbox_id, qr.id AS result_id,
		       st.name AS student_name, q.title AS quiz_title,
		       qr.score, qr.attempt_number, qr.feedback, qr.created_at
		FROM result_outbox ob
		JOIN quiz_results qr ON ob.result_id = qr.id
		JOIN students st ON qr.student_id = st.id
		JOIN quizzes q ON qr.quiz_id = q.id
		WHERE NOT ob.synced
		ORDER BY ob.id
	`)
	if err := s.DB.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to fetch unsynced results: %w", err)
	}
	return rows, nil
}

func (s *BaseStore) MarkResultSynced(outboxID int64) error {
	query := s.Converter(`UPDATE result_outbox SET synced = ? WHERE id = ?`)
	if _, err := s.DB.Exec(query, true, outboxID); err != nil {
		return fmt.Errorf("failed to mark outbox row synced: %w", err)
	}
	return nil
}
