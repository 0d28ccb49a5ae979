package models

import (
	"github.com/go-playground/validator/v10"
)

type StudentNotification struct {
	ID        int64  `db:"id" json:"notification_id"`
	StudentID int64  `db:"student_id" json:"student_id" validate:"required"`
	Message   string `db:"message" json:"message" validate:"required"`
	CreatedBy *int64 `db:"created_by" json:"created_by,omitempty"`
	CreatedAt int64  `db:"created_at" json:"created_at"`

	StudentName string `db:"student_name" json:"student_name,omitempty"`
}

type ClassNotification struct {
	ID        int64  `db:"id" json:"notification_id"`
	ClassID   int64  `db:"class_id" json:"class_id" validate:"required"`
	Message   string `db:"message" json:"message" validate:"required"`
	CreatedBy *int64 `db:"created_by" json:"created_by,omitempty"`
	CreatedAt int64  `db:"created_at" json:"created_at"`

	ClassName string `db:"class_name" json:"class_name,omitempty"`
}

// Notification is the student-facing union of personal and class
// notifications.
type Notification struct {
	Message   string `db:"message" json:"message"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

type Message struct {
	ID        int64  `db:"id" json:"message_id"`
	SenderID  int64  `db:"sender_id" json:"sender_id" validate:"required"`
	Subject   string `db:"subject" json:"subject" validate:"required"`
	Content   string `db:"content" json:"content" validate:"required"`
	CreatedAt int64  `db:"created_at" json:"created_at"`

	StudentName string `db:"student_name" json:"student_name,omitempty"`
}

type StudyMaterial struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title" validate:"required"`
	Description string `db:"description" json:"description"`
	FileRef     string `db:"file_ref" json:"file_ref"`
	ClassID     int64  `db:"class_id" json:"class_id" validate:"required"`
	UploadedBy  *int64 `db:"uploaded_by" json:"uploaded_by,omitempty"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`

	ClassName string `db:"class_name" json:"class_name,omitempty"`
}

func (n *StudentNotification) Validate() error {
	return validator.New().Struct(n)
}

func (n *ClassNotification) Validate() error {
	return validator.New().Struct(n)
}

func (m *Message) Validate() error {
	return validator.New().Struct(m)
}

func (m *StudyMaterial) Validate() error {
	return validator.New().Struct(m)
}
