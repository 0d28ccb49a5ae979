package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

func (s *BaseStore) CreateAdmin(admin *models.Admin) error {
	query := s.Converter(`
		INSERT INTO admins (name, email, password_hash)
		VALUES (?, ?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&admin.ID, query, admin.Name, admin.Email, admin.PasswordHash)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("admin email %s: %w", admin.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (s *BaseStore) GetAdminByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	query := s.Converter(`
		SELECT id, name, email, password_hash
		FROM admins
		WHERE email = ?
	`)
	err := s.DB.Get(&admin, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

func (s *BaseStore) GetAdminName(id int64) (string, error) {
	var name string
	query := s.Converter(`SELECT name FROM admins WHERE id = ?`)
	err := s.DB.Get(&name, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get admin name: %w", err)
	}
	return name, nil
}

func (s *BaseStore) CreateStudent(student *models.Student) error {
	query := s.Converter(`
		INSERT INTO students (name, email, password_hash, class_id)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&student.ID, query, student.Name, student.Email, student.PasswordHash, student.ClassID)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("student email %s: %w", student.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (s *BaseStore) GetStudent(id int64) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT s.id, s.name, s.email, s.password_hash, s.class_id, c.name AS class_name
		FROM students s
		LEFT JOIN classes c ON s.class_id = c.id
		WHERE s.id = ?
	`)
	err := s.DB.Get(&student, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) GetStudentByEmail(email string) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, name, email, password_hash, class_id
		FROM students
		WHERE email = ?
	`)
	err := s.DB.Get(&student, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by email: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) GetStudentIDByName(name string) (int64, error) {
	var id int64
	query := s.Converter(`SELECT id FROM students WHERE name = ? LIMIT 1`)
	err := s.DB.Get(&id, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up student by name: %w", err)
	}
	return id, nil
}

func (s *BaseStore) ListStudents() ([]models.Student, error) {
	var students []models.Student
	err := s.DB.Select(&students, `
		SELECT s.id, s.name, s.email, s.password_hash, s.class_id, c.name AS class_name
		FROM students s
		LEFT JOIN classes c ON s.class_id = c.id
		ORDER BY s.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *BaseStore) UpdateStudent(student *models.Student) error {
	query := s.Converter(`
		UPDATE students
		SET name = ?, email = ?, password_hash = ?, class_id = ?
		WHERE id = ?
	`)
	res, err := s.DB.Exec(query, student.Name, student.Email, student.PasswordHash, student.ClassID, student.ID)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("student email %s: %w", student.Email, ErrConflict)
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) DeleteStudent(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM students WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) ClassRoster(classID int64) ([]models.Student, error) {
	var students []models.Student
	query := s.Converter(`
		SELECT id, name, email, password_hash, class_id
		FROM students
		WHERE class_id = ?
		ORDER BY name
	`)
	if err := s.DB.Select(&students, query, classID); err != nil {
		return nil, fmt.Errorf("failed to fetch class roster: %w", err)
	}
	return students, nil
}

func (s *BaseStore) CreateClass(class *models.Class) error {
	query := s.Converter(`
		INSERT INTO classes (name, created_by)
		VALUES (?, ?)
		RETURNING id
	`)
	err := s.DB.Get(&class.ID, query, class.Name, class.CreatedBy)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("class %s: %w", class.Name, ErrConflict)
		}
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

func (s *BaseStore) GetClass(id int64) (*models.Class, error) {
	var class models.Class
	query := s.Converter(`SELECT id, name, created_by FROM classes WHERE id = ?`)
	err := s.DB.Get(&class, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return &class, nil
}

func (s *BaseStore) GetClassIDByName(name string) (int64, error) {
	var id int64
	query := s.Converter(`SELECT id FROM classes WHERE name = ? LIMIT 1`)
	err := s.DB.Get(&id, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up class by name: %w", err)
	}
	return id, nil
}

func (s *BaseStore) ListClasses() ([]models.Class, error) {
	var classes []models.Class
	err := s.DB.Select(&classes, `SELECT id, name, created_by FROM classes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func (s *BaseStore) UpdateClass(class *models.Class) error {
	res, err := s.DB.Exec(s.Converter(`UPDATE classes SET name = ? WHERE id = ?`), class.Name, class.ID)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("class %s: %w", class.Name, ErrConflict)
		}
		return fmt.Errorf("failed to update class: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) DeleteClass(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM classes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSession inserts the session row. The UNIQUE constraint on
// student_id is the single-session guarantee: a concurrent login races
// to the same constraint and loses with ErrConflict.
func (s *BaseStore) CreateSession(session *models.Session) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO sessions (student_id, token, created_at)
		VALUES (:student_id, :token, :created_at)
	`, session)
	if err != nil {
		if s.IsConflict(err) {
			return fmt.Errorf("session for student %d: %w", session.StudentID, ErrConflict)
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *BaseStore) GetSessionByToken(token string) (*models.Session, error) {
	var session models.Session
	query := s.Converter(`
		SELECT student_id, token, created_at
		FROM sessions
		WHERE token = ?
	`)
	err := s.DB.Get(&session, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *BaseStore) GetSessionByStudent(studentID int64) (*models.Session, error) {
	var session models.Session
	query := s.Converter(`
		SELECT student_id, token, created_at
		FROM sessions
		WHERE student_id = ?
	`)
	err := s.DB.Get(&session, query, studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteSessionByToken is idempotent: deleting an absent token is not
// an error.
func (s *BaseStore) DeleteSessionByToken(token string) error {
	if _, err := s.DB.Exec(s.Converter(`DELETE FROM sessions WHERE token = ?`), token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
