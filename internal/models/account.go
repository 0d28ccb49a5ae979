package models

import (
	"github.com/go-playground/validator/v10"
)

type Admin struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name" validate:"required"`
	Email        string `db:"email" json:"email" validate:"required,email"`
	PasswordHash string `db:"password_hash" json:"-"`
}

type Student struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name" validate:"required"`
	Email        string `db:"email" json:"email" validate:"required,email"`
	PasswordHash string `db:"password_hash" json:"-"`
	ClassID      *int64 `db:"class_id" json:"class_id,omitempty"`
	ClassName    *string `db:"class_name" json:"class_name,omitempty"`
}

type Class struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name" validate:"required"`
	CreatedBy *int64 `db:"created_by" json:"created_by,omitempty"`
}

// Session is the single live login of a student. At most one row per
// student exists at any time, enforced by the store.
type Session struct {
	StudentID int64  `db:"student_id" json:"student_id"`
	Token     string `db:"token" json:"session_token"`
	CreatedAt int64  `db:"created_at" json:"-"`
}

func (s *Student) Validate() error {
	return validator.New().Struct(s)
}

func (c *Class) Validate() error {
	return validator.New().Struct(c)
}

func (a *Admin) Validate() error {
	return validator.New().Struct(a)
}
