// internal/store/sqlite/store_test.go
package sqlite

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := New(":memory:")
	require.NoError(t, err, "Failed to create store")

	err = s.ApplyMigrations("../../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

type testData struct {
	store   *SQLiteStore
	class   models.Class
	student models.Student
	quiz    models.Quiz
	now     time.Time
}

// setupTestData seeds a class, one student in it, and a quiz with two
// questions of three options each.
func setupTestData(t *testing.T) (*testData, func()) {
	s, cleanup := setupTestDB(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	class := models.Class{Name: "7B"}
	require.NoError(t, s.CreateClass(&class))

	student := models.Student{
		Name:         "john.doe",
		Email:        "john.doe@example.com",
		PasswordHash: "not-a-real-hash",
		ClassID:      &class.ID,
	}
	require.NoError(t, s.CreateStudent(&student))

	quiz := models.Quiz{Title: "Fractions", Description: "intro", AttemptLimit: 3}
	require.NoError(t, s.CreateQuiz(&quiz))

	for _, text := range []string{"What is 1/2 + 1/4?", "What is 2/3 of 9?"} {
		q := models.Question{QuizID: quiz.ID, Question: text}
		require.NoError(t, s.CreateQuestion(&q))
		for i, opt := range []string{"wrong one", "right one", "wrong two"} {
			o := models.Option{QuestionID: q.ID, OptionText: opt, IsCorrect: i == 1}
			require.NoError(t, s.CreateOption(&o))
		}
	}

	return &testData{
		store:   s,
		class:   class,
		student: student,
		quiz:    quiz,
		now:     now,
	}, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestStudentCRUD(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	t.Run("duplicate email conflicts", func(t *testing.T) {
		dup := models.Student{
			Name:         "someone.else",
			Email:        td.student.Email,
			PasswordHash: "x",
		}
		err := td.store.CreateStudent(&dup)
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("get joins class name", func(t *testing.T) {
		got, err := td.store.GetStudent(td.student.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ClassName)
		assert.Equal(t, td.class.Name, *got.ClassName)
	})

	t.Run("update moves student out of class", func(t *testing.T) {
		s := td.student
		s.ClassID = nil
		require.NoError(t, td.store.UpdateStudent(&s))

		got, err := td.store.GetStudent(s.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ClassID)

		s.ClassID = &td.class.ID
		require.NoError(t, td.store.UpdateStudent(&s))
	})

	t.Run("missing student is not found", func(t *testing.T) {
		_, err := td.store.GetStudent(9999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSessions(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	first := models.Session{
		StudentID: td.student.ID,
		Token:     "sk-lsktt-aaaaaaaaaaaaaaaaaaaaaaaa",
		CreatedAt: td.now.Unix(),
	}
	require.NoError(t, td.store.CreateSession(&first))

	t.Run("second session for same student conflicts", func(t *testing.T) {
		second := models.Session{
			StudentID: td.student.ID,
			Token:     "sk-lsktt-bbbbbbbbbbbbbbbbbbbbbbbb",
			CreatedAt: td.now.Unix(),
		}
		err := td.store.CreateSession(&second)
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("lookup by token and by student agree", func(t *testing.T) {
		byToken, err := td.store.GetSessionByToken(first.Token)
		require.NoError(t, err)
		byStudent, err := td.store.GetSessionByStudent(td.student.ID)
		require.NoError(t, err)
		assert.Equal(t, byToken.Token, byStudent.Token)
	})

	t.Run("delete frees the slot", func(t *testing.T) {
		require.NoError(t, td.store.DeleteSessionByToken(first.Token))

		second := models.Session{
			StudentID: td.student.ID,
			Token:     "sk-lsktt-cccccccccccccccccccccccc",
			CreatedAt: td.now.Unix(),
		}
		require.NoError(t, td.store.CreateSession(&second))
	})

	t.Run("deleting unknown token is fine", func(t *testing.T) {
		assert.NoError(t, td.store.DeleteSessionByToken("sk-lsktt-nope"))
	})
}

func TestQuizVisibility(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	t.Run("nothing visible without assignments", func(t *testing.T) {
		quizzes, err := td.store.ListVisibleQuizzes(td.student.ID)
		require.NoError(t, err)
		assert.Empty(t, quizzes)

		assigned, err := td.store.IsAssigned(td.student.ID, td.quiz.ID)
		require.NoError(t, err)
		assert.False(t, assigned)
	})

	t.Run("direct and class assignment dedupe to one", func(t *testing.T) {
		direct := models.StudentAssignment{QuizID: td.quiz.ID, StudentID: td.student.ID}
		require.NoError(t, td.store.CreateStudentAssignment(&direct))
		byClass := models.ClassAssignment{QuizID: td.quiz.ID, ClassID: td.class.ID}
		require.NoError(t, td.store.CreateClassAssignment(&byClass))

		quizzes, err := td.store.ListVisibleQuizzes(td.student.ID)
		require.NoError(t, err)
		require.Len(t, quizzes, 1)
		assert.Equal(t, td.quiz.ID, quizzes[0].ID)

		assigned, err := td.store.IsAssigned(td.student.ID, td.quiz.ID)
		require.NoError(t, err)
		assert.True(t, assigned)
	})

	t.Run("duplicate assignment pair conflicts", func(t *testing.T) {
		dup := models.StudentAssignment{QuizID: td.quiz.ID, StudentID: td.student.ID}
		err := td.store.CreateStudentAssignment(&dup)
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("class reassignment changes visibility at read time", func(t *testing.T) {
		other := models.Class{Name: "8A"}
		require.NoError(t, td.store.CreateClass(&other))

		loner := models.Student{
			Name:         "jane.roe",
			Email:        "jane.roe@example.com",
			PasswordHash: "x",
			ClassID:      &other.ID,
		}
		require.NoError(t, td.store.CreateStudent(&loner))

		quizzes, err := td.store.ListVisibleQuizzes(loner.ID)
		require.NoError(t, err)
		assert.Empty(t, quizzes)

		loner.ClassID = &td.class.ID
		require.NoError(t, td.store.UpdateStudent(&loner))

		quizzes, err = td.store.ListVisibleQuizzes(loner.ID)
		require.NoError(t, err)
		assert.Len(t, quizzes, 1)
	})
}

func TestQuizQuestions(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	t.Run("student view strips correctness", func(t *testing.T) {
		questions, err := td.store.QuizQuestions(td.quiz.ID, false)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		for _, q := range questions {
			require.Len(t, q.Options, 3)
			for _, o := range q.Options {
				assert.False(t, o.IsCorrect)
			}
		}
	})

	t.Run("admin view keeps correctness", func(t *testing.T) {
		questions, err := td.store.QuizQuestions(td.quiz.ID, true)
		require.NoError(t, err)
		for _, q := range questions {
			correct := 0
			for _, o := range q.Options {
				if o.IsCorrect {
					correct++
				}
			}
			assert.Equal(t, 1, correct)
		}
	})

	t.Run("second correct option per question conflicts", func(t *testing.T) {
		questions, err := td.store.ListQuestions(td.quiz.ID)
		require.NoError(t, err)
		extra := models.Option{
			QuestionID: questions[0].ID,
			OptionText: "also right",
			IsCorrect:  true,
		}
		err = td.store.CreateOption(&extra)
		require.ErrorIs(t, err, store.ErrConflict)
	})
}

func TestAnswerKey(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	key, err := td.store.AnswerKey(td.quiz.ID)
	require.NoError(t, err)
	require.Len(t, key, 2)
	for _, optionIDs := range key {
		assert.Len(t, optionIDs, 1)
	}
}

func TestRecordResult(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	record := func() (*models.Result, error) {
		res := &models.Result{
			StudentID: td.student.ID,
			QuizID:    td.quiz.ID,
			Score:     1,
			Feedback:  "Your score is 1/2.",
			CreatedAt: td.now.Unix(),
		}
		return res, td.store.RecordResult(res, td.quiz.AttemptLimit)
	}

	t.Run("attempt numbers are contiguous", func(t *testing.T) {
		for want := 1; want <= 3; want++ {
			res, err := record()
			require.NoError(t, err)
			assert.Equal(t, want, res.AttemptNumber)
		}
	})

	t.Run("fourth attempt hits the ceiling", func(t *testing.T) {
		_, err := record()
		var limitErr *store.AttemptLimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, 3, limitErr.Limit)
		assert.Contains(t, err.Error(), "maximum attempt limit of 3")
	})

	t.Run("attempts of another quiz count separately", func(t *testing.T) {
		other := models.Quiz{Title: "Decimals", AttemptLimit: 3}
		require.NoError(t, td.store.CreateQuiz(&other))

		res := &models.Result{
			StudentID: td.student.ID,
			QuizID:    other.ID,
			Score:     0,
			Feedback:  "Your score is 0/0.",
			CreatedAt: td.now.Unix(),
		}
		require.NoError(t, td.store.RecordResult(res, other.AttemptLimit))
		assert.Equal(t, 1, res.AttemptNumber)
	})

	t.Run("results list orders by title then attempt", func(t *testing.T) {
		rows, err := td.store.ListStudentResults(td.student.ID)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "Decimals", rows[0].QuizTitle)
		assert.Equal(t, "Fractions", rows[1].QuizTitle)
		assert.Equal(t, 1, rows[1].AttemptNumber)
		assert.Equal(t, 3, rows[3].AttemptNumber)
	})
}

func TestResultOutbox(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	res := &models.Result{
		StudentID: td.student.ID,
		QuizID:    td.quiz.ID,
		Score:     2,
		Feedback:  "Your score is 2/2.",
		CreatedAt: td.now.Unix(),
	}
	require.NoError(t, td.store.RecordResult(res, td.quiz.AttemptLimit))

	rows, err := td.store.FetchUnsyncedResults()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, res.ID, rows[0].ResultID)
	assert.Equal(t, td.student.Name, rows[0].StudentName)
	assert.Equal(t, td.quiz.Title, rows[0].QuizTitle)

	require.NoError(t, td.store.MarkResultSynced(rows[0].OutboxID))

	rows, err = td.store.FetchUnsyncedResults()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNotificationsUnion(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	personal := models.StudentNotification{
		StudentID: td.student.ID,
		Message:   "see me after class",
		CreatedAt: td.now.Unix(),
	}
	require.NoError(t, td.store.CreateStudentNotification(&personal))

	forClass := models.ClassNotification{
		ClassID:   td.class.ID,
		Message:   "quiz on friday",
		CreatedAt: td.now.Add(time.Hour).Unix(),
	}
	require.NoError(t, td.store.CreateClassNotification(&forClass))

	notifications, err := td.store.ListNotificationsForStudent(td.student.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "quiz on friday", notifications[0].Message)
	assert.Equal(t, "see me after class", notifications[1].Message)
}

func TestDeleteQuizCascades(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	a := models.StudentAssignment{QuizID: td.quiz.ID, StudentID: td.student.ID}
	require.NoError(t, td.store.CreateStudentAssignment(&a))

	res := &models.Result{
		StudentID: td.student.ID,
		QuizID:    td.quiz.ID,
		Score:     1,
		Feedback:  "Your score is 1/2.",
		CreatedAt: td.now.Unix(),
	}
	require.NoError(t, td.store.RecordResult(res, td.quiz.AttemptLimit))

	require.NoError(t, td.store.DeleteQuiz(td.quiz.ID))

	questions, err := td.store.ListQuestions(td.quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)

	rows, err := td.store.ListStudentResults(td.student.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assignments, err := td.store.ListStudentAssignments()
	require.NoError(t, err)
	assert.Empty(t, assignments)
}
