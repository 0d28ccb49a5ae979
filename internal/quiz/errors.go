package quiz

import "errors"

var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrNotAssigned  = errors.New("quiz is not assigned to this student")
	ErrNoAnswers    = errors.New("submission carries no answers")
	ErrNoResults    = errors.New("no results found")
)
