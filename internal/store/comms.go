package store

import (
	"fmt"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

func (s *BaseStore) CreateStudentNotification(n *models.StudentNotification) error {
	query := s.Converter(`
		INSERT INTO student_notifications (student_id, message, created_by, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&n.ID, query, n.StudentID, n.Message, n.CreatedBy, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student notification: %w", err)
	}
	return nil
}

func (s *BaseStore) CreateClassNotification(n *models.ClassNotification) error {
	query := s.Converter(`
		INSERT INTO class_notifications (class_id, message, created_by, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&n.ID, query, n.ClassID, n.Message, n.CreatedBy, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create class notification: %w", err)
	}
	return nil
}

// ListNotificationsForStudent unions personal notifications with the
// ones addressed to the student's class.
func (s *BaseStore) ListNotificationsForStudent(studentID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.Converter(`
		SELECT message, created_at FROM student_notifications
		WHERE student_id = ?
		UNION
		SELECT cn.message, cn.created_at
		FROM class_notifications cn
		JOIN students s ON cn.class_id = s.class_id
		WHERE s.id = ?
		ORDER BY created_at DESC
	`)
	if err := s.DB.Select(&notifications, query, studentID, studentID); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

func (s *BaseStore) ListStudentNotifications() ([]models.StudentNotification, error) {
	var notifications []models.StudentNotification
	err := s.DB.Select(&notifications, `
		SELECT sn.id, sn.student_id, sn.message, sn.created_by, sn.created_at,
		       s.name AS student_name
		FROM student_notifications sn
		JOIN students s ON sn.student_id = s.id
		ORDER BY sn.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list student notifications: %w", err)
	}
	return notifications, nil
}

func (s *BaseStore) ListClassNotifications() ([]models.ClassNotification, error) {
	var notifications []models.ClassNotification
	err := s.DB.Select(&notifications, `
		SELECT cn.id, cn.class_id, cn.message, cn.created_by, cn.created_at,
		       c.name AS class_name
		FROM class_notifications cn
		JOIN classes c ON cn.class_id = c.id
		ORDER BY cn.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list class notifications: %w", err)
	}
	return notifications, nil
}

func (s *BaseStore) CreateMessage(m *models.Message) error {
	query := s.Converter(`
		INSERT INTO messages (sender_id, subject, content, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&m.ID, query, m.SenderID, m.Subject, m.Content, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (s *BaseStore) ListMessagesByStudent(studentID int64) ([]models.Message, error) {
	var messages []models.Message
	query := s.Converter(`
		SELECT id, sender_id, subject, content, created_at
		FROM messages
		WHERE sender_id = ?
		ORDER BY created_at DESC
	`)
	if err := s.DB.Select(&messages, query, studentID); err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

func (s *BaseStore) ListAllMessages() ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Select(&messages, `
		SELECT m.id, m.sender_id, m.subject, m.content, m.created_at,
		       s.name AS student_name
		FROM messages m
		JOIN students s ON m.sender_id = s.id
		ORDER BY m.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *BaseStore) CreateStudyMaterial(m *models.StudyMaterial) error {
	query := s.Converter(`
		INSERT INTO study_materials (title, description, file_ref, class_id, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&m.ID, query, m.Title, m.Description, m.FileRef, m.ClassID, m.UploadedBy, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create study material: %w", err)
	}
	return nil
}

func (s *BaseStore) ListMaterialsByClass(classID int64) ([]models.StudyMaterial, error) {
	var materials []models.StudyMaterial
	query := s.Converter(`
		SELECT id, title, description, file_ref, class_id, uploaded_by, created_at
		FROM study_materials
		WHERE class_id = ?
		ORDER BY title ASC
	`)
	if err := s.DB.Select(&materials, query, classID); err != nil {
		return nil, fmt.Errorf("failed to fetch study materials: %w", err)
	}
	return materials, nil
}

func (s *BaseStore) ListAllMaterials() ([]models.StudyMaterial, error) {
	var materials []models.StudyMaterial
	err := s.DB.Select(&materials, `
		SELECT sm.id, sm.title, sm.description, sm.file_ref, sm.class_id,
		       sm.uploaded_by, sm.created_at, c.name AS class_name
		FROM study_materials sm
		LEFT JOIN classes c ON sm.class_id = c.id
		ORDER BY sm.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list study materials: %w", err)
	}
	return materials, nil
}
