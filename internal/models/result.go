package models

// Result is immutable once written. AttemptNumber is assigned by the
// store inside the transaction that inserts the row.
type Result struct {
	ID            int64  `db:"id" json:"id"`
	StudentID     int64  `db:"student_id" json:"student_id"`
	QuizID        int64  `db:"quiz_id" json:"quiz_id"`
	AttemptNumber int    `db:"attempt_number" json:"attempt_number"`
	Score         int    `db:"score" json:"score"`
	Feedback      string `db:"feedback" json:"feedback"`
	CreatedAt     int64  `db:"created_at" json:"created_at"`
}

// ResultRow is a result joined with its quiz title (and, for the admin
// view, the student name), ordered for grouping.
type ResultRow struct {
	QuizID        int64  `db:"quiz_id" json:"quiz_id"`
	QuizTitle     string `db:"quiz_title" json:"-"`
	StudentName   string `db:"student_name" json:"student_name,omitempty"`
	Score         int    `db:"score" json:"score"`
	Feedback      string `db:"feedback" json:"feedback"`
	AttemptNumber int    `db:"attempt_number" json:"attempt_number"`
}

// MirrorRow is an unsynced outbox entry joined with everything the
// sheet mirror writes out.
type MirrorRow struct {
	OutboxID      int64  `db:"outbox_id"`
	ResultID      int64  `db:"result_id"`
	StudentName   string `db:"student_name"`
	QuizTitle     string `db:"quiz_title"`
	Score         int    `db:"score"`
	AttemptNumber int    `db:"attempt_number"`
	Feedback      string `db:"feedback"`
	CreatedAt     int64  `db:"created_at"`
}
