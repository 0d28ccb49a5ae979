package store

import (
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

var (
	// ErrNotFound reports a missing row for single-entity lookups.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a uniqueness violation the caller should
	// surface as a named condition, never as a raw database error.
	ErrConflict = errors.New("conflict")
)

// AttemptLimitError is returned by RecordResult when the per-quiz
// attempt ceiling is already reached. The limit travels with the error
// so callers can report it.
type AttemptLimitError struct {
	Limit int
}

func (e *AttemptLimitError) Error() string {
	return fmt.Sprintf("you have reached the maximum attempt limit of %d", e.Limit)
}

type QuizStore interface {
	Close() error
	ApplyMigrations(dir string) error

	// admins
	CreateAdmin(admin *models.Admin) error
	GetAdminByEmail(email string) (*models.Admin, error)
	GetAdminName(id int64) (string, error)

	// students and classes
	CreateStudent(student *models.Student) error
	GetStudent(id int64) (*models.Student, error)
	GetStudentByEmail(email string) (*models.Student, error)
	GetStudentIDByName(name string) (int64, error)
	ListStudents() ([]models.Student, error)
	UpdateStudent(student *models.Student) error
	DeleteStudent(id int64) error
	ClassRoster(classID int64) ([]models.Student, error)

	CreateClass(class *models.Class) error
	GetClass(id int64) (*models.Class, error)
	GetClassIDByName(name string) (int64, error)
	ListClasses() ([]models.Class, error)
	UpdateClass(class *models.Class) error
	DeleteClass(id int64) error

	// sessions
	CreateSession(session *models.Session) error
	GetSessionByToken(token string) (*models.Session, error)
	GetSessionByStudent(studentID int64) (*models.Session, error)
	DeleteSessionByToken(token string) error

	// quizzes, questions, options
	CreateQuiz(quiz *models.Quiz) error
	GetQuiz(id int64) (*models.Quiz, error)
	ListQuizzes() ([]models.Quiz, error)
	UpdateQuiz(quiz *models.Quiz) error
	DeleteQuiz(id int64) error
	CreateQuestion(question *models.Question) error
	ListQuestions(quizID int64) ([]models.Question, error)
	ListAllQuestions() ([]models.Question, error)
	CreateOption(option *models.Option) error
	ListOptions(questionID int64) ([]models.Option, error)
	QuizQuestions(quizID int64, includeCorrect bool) ([]models.QuestionWithOptions, error)

	// assignments and visibility
	CreateStudentAssignment(a *models.StudentAssignment) error
	ListStudentAssignments() ([]models.StudentAssignment, error)
	DeleteStudentAssignment(id int64) error
	CreateClassAssignment(a *models.ClassAssignment) error
	ListClassAssignments() ([]models.ClassAssignment, error)
	DeleteClassAssignment(id int64) error
	ListVisibleQuizzes(studentID int64) ([]models.Quiz, error)
	IsAssigned(studentID, quizID int64) (bool, error)

	// attempts and results
	AnswerKey(quizID int64) (map[int64][]int64, error)
	CountAttempts(studentID, quizID int64) (int, error)
	RecordResult(res *models.Result, attemptLimit int) error
	ListStudentResults(studentID int64) ([]models.ResultRow, error)
	ListAllResults() ([]models.ResultRow, error)

	// mirror outbox
	FetchUnsyncedResults() ([]models.MirrorRow, error)
	MarkResultSynced(outboxID int64) error

	// notifications, messages, study materials
	CreateStudentNotification(n *models.StudentNotification) error
	CreateClassNotification(n *models.ClassNotification) error
	ListNotificationsForStudent(studentID int64) ([]models.Notification, error)
	ListStudentNotifications() ([]models.StudentNotification, error)
	ListClassNotifications() ([]models.ClassNotification, error)
	CreateMessage(m *models.Message) error
	ListMessagesByStudent(studentID int64) ([]models.Message, error)
	ListAllMessages() ([]models.Message, error)
	CreateStudyMaterial(m *models.StudyMaterial) error
	ListMaterialsByClass(classID int64) ([]models.StudyMaterial, error)
	ListAllMaterials() ([]models.StudyMaterial, error)
}
