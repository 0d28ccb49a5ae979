package models

import (
	"github.com/go-playground/validator/v10"
)

type Quiz struct {
	ID           int64  `db:"id" json:"id"`
	Title        string `db:"title" json:"title" validate:"required"`
	Description  string `db:"description" json:"description"`
	AttemptLimit int    `db:"attempt_limit" json:"attempt_limit" validate:"min=1"`
	CreatedBy    *int64 `db:"created_by" json:"created_by,omitempty"`
}

type Question struct {
	ID       int64  `db:"id" json:"question_id"`
	QuizID   int64  `db:"quiz_id" json:"quiz_id"`
	Question string `db:"question" json:"question_text" validate:"required"`
}

type Option struct {
	ID         int64  `db:"id" json:"option_id"`
	QuestionID int64  `db:"question_id" json:"question_id" validate:"required"`
	OptionText string `db:"option_text" json:"option_text" validate:"required"`
	IsCorrect  bool   `db:"is_correct" json:"is_correct"`
}

// QuestionWithOptions is the grouped shape students and admins fetch.
// Correctness flags are stripped before the student-facing variant
// leaves the store.
type QuestionWithOptions struct {
	Question
	Options []Option `json:"options"`
}

type StudentAssignment struct {
	ID        int64 `db:"id" json:"assignment_id"`
	QuizID    int64 `db:"quiz_id" json:"quiz_id" validate:"required"`
	StudentID int64 `db:"student_id" json:"student_id" validate:"required"`

	QuizTitle   string `db:"quiz_title" json:"quiz_title,omitempty"`
	StudentName string `db:"student_name" json:"student_name,omitempty"`
}

type ClassAssignment struct {
	ID      int64 `db:"id" json:"assignment_id"`
	QuizID  int64 `db:"quiz_id" json:"quiz_id" validate:"required"`
	ClassID int64 `db:"class_id" json:"class_id" validate:"required"`

	QuizTitle string `db:"quiz_title" json:"quiz_title,omitempty"`
	ClassName string `db:"class_name" json:"class_name,omitempty"`
}

func (q *Quiz) Validate() error {
	return validator.New().Struct(q)
}

func (q *Question) Validate() error {
	return validator.New().Struct(q)
}

func (o *Option) Validate() error {
	return validator.New().Struct(o)
}

func (a *StudentAssignment) Validate() error {
	return validator.New().Struct(a)
}

func (a *ClassAssignment) Validate() error {
	return validator.New().Struct(a)
}
