package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
	"github.com/shrimpsizemoose/lussekatt/internal/store/sqlite"
)

type testFixture struct {
	engine  *Engine
	store   *sqlite.SQLiteStore
	student models.Student
	quiz    models.Quiz
	// correct and wrong option ids per question, in question order
	questions []models.QuestionWithOptions
}

// setupEngine seeds one assigned student and a two-question quiz with
// attempt limit 3.
func setupEngine(t *testing.T) (*testFixture, func()) {
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations("../../migrations"))

	class := models.Class{Name: "7B"}
	require.NoError(t, s.CreateClass(&class))

	student := models.Student{
		Name:         "john.doe",
		Email:        "john.doe@example.com",
		PasswordHash: "x",
		ClassID:      &class.ID,
	}
	require.NoError(t, s.CreateStudent(&student))

	quiz := models.Quiz{Title: "Fractions", AttemptLimit: 3}
	require.NoError(t, s.CreateQuiz(&quiz))

	for _, text := range []string{"What is 1/2 + 1/4?", "What is 2/3 of 9?"} {
		q := models.Question{QuizID: quiz.ID, Question: text}
		require.NoError(t, s.CreateQuestion(&q))
		for i, opt := range []string{"wrong one", "right one", "wrong two"} {
			o := models.Option{QuestionID: q.ID, OptionText: opt, IsCorrect: i == 1}
			require.NoError(t, s.CreateOption(&o))
		}
	}

	assignment := models.StudentAssignment{QuizID: quiz.ID, StudentID: student.ID}
	require.NoError(t, s.CreateStudentAssignment(&assignment))

	questions, err := s.QuizQuestions(quiz.ID, true)
	require.NoError(t, err)

	fixture := &testFixture{
		engine:    NewEngine(s),
		store:     s,
		student:   student,
		quiz:      quiz,
		questions: questions,
	}
	return fixture, func() { s.Close() }
}

func (f *testFixture) correctOption(q int) int64 {
	for _, o := range f.questions[q].Options {
		if o.IsCorrect {
			return o.ID
		}
	}
	return 0
}

func (f *testFixture) wrongOption(q int) int64 {
	for _, o := range f.questions[q].Options {
		if !o.IsCorrect {
			return o.ID
		}
	}
	return 0
}

func TestSubmitScoring(t *testing.T) {
	f, cleanup := setupEngine(t)
	defer cleanup()

	t.Run("one right one wrong scores one", func(t *testing.T) {
		answers := map[int64]int64{
			f.questions[0].Question.ID: f.wrongOption(0),
			f.questions[1].Question.ID: f.correctOption(1),
		}
		result, err := f.engine.Submit(f.student.ID, f.quiz.ID, answers)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, "Your score is 1/2.", result.Feedback)
		assert.Equal(t, 1, result.AttemptNumber)
	})

	t.Run("unanswered question counts as wrong", func(t *testing.T) {
		answers := map[int64]int64{
			f.questions[0].Question.ID: f.correctOption(0),
		}
		result, err := f.engine.Submit(f.student.ID, f.quiz.ID, answers)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 2, result.AttemptNumber)
	})

	t.Run("answers to unknown questions are ignored", func(t *testing.T) {
		answers := map[int64]int64{
			f.questions[0].Question.ID: f.correctOption(0),
			f.questions[1].Question.ID: f.correctOption(1),
			99999:                      1,
		}
		result, err := f.engine.Submit(f.student.ID, f.quiz.ID, answers)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Score)
		assert.Equal(t, "Your score is 2/2.", result.Feedback)
	})
}

func TestSubmitRejections(t *testing.T) {
	f, cleanup := setupEngine(t)
	defer cleanup()

	someAnswer := map[int64]int64{f.questions[0].Question.ID: f.correctOption(0)}

	t.Run("empty answers", func(t *testing.T) {
		_, err := f.engine.Submit(f.student.ID, f.quiz.ID, nil)
		assert.ErrorIs(t, err, ErrNoAnswers)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		_, err := f.engine.Submit(f.student.ID, 99999, someAnswer)
		assert.ErrorIs(t, err, ErrQuizNotFound)
	})

	t.Run("unassigned student", func(t *testing.T) {
		outsider := models.Student{
			Name:         "jane.roe",
			Email:        "jane.roe@example.com",
			PasswordHash: "x",
		}
		require.NoError(t, f.store.CreateStudent(&outsider))

		_, err := f.engine.Submit(outsider.ID, f.quiz.ID, someAnswer)
		assert.ErrorIs(t, err, ErrNotAssigned)
	})

	t.Run("attempt limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := f.engine.Submit(f.student.ID, f.quiz.ID, someAnswer)
			require.NoError(t, err)
		}

		_, err := f.engine.Submit(f.student.ID, f.quiz.ID, someAnswer)
		var limitErr *store.AttemptLimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, 3, limitErr.Limit)
		assert.EqualError(t, err, "you have reached the maximum attempt limit of 3")
	})
}

func TestQuestionsForStudent(t *testing.T) {
	f, cleanup := setupEngine(t)
	defer cleanup()

	t.Run("assigned student gets stripped questions", func(t *testing.T) {
		questions, err := f.engine.QuestionsForStudent(f.student.ID, f.quiz.ID)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		for _, q := range questions {
			for _, o := range q.Options {
				assert.False(t, o.IsCorrect)
			}
		}
	})

	t.Run("unassigned student is refused", func(t *testing.T) {
		outsider := models.Student{
			Name:         "no.quiz",
			Email:        "no.quiz@example.com",
			PasswordHash: "x",
		}
		require.NoError(t, f.store.CreateStudent(&outsider))

		_, err := f.engine.QuestionsForStudent(outsider.ID, f.quiz.ID)
		assert.ErrorIs(t, err, ErrNotAssigned)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		_, err := f.engine.QuestionsForStudent(f.student.ID, 99999)
		assert.ErrorIs(t, err, ErrQuizNotFound)
	})
}

func TestResultsGrouping(t *testing.T) {
	f, cleanup := setupEngine(t)
	defer cleanup()

	t.Run("no attempts yet", func(t *testing.T) {
		_, err := f.engine.ResultsForStudent(f.student.ID)
		assert.ErrorIs(t, err, ErrNoResults)
	})

	// Second quiz sorting before the first by title.
	other := models.Quiz{Title: "Decimals", AttemptLimit: 3}
	require.NoError(t, f.store.CreateQuiz(&other))
	q := models.Question{QuizID: other.ID, Question: "What is 0.1 + 0.2?"}
	require.NoError(t, f.store.CreateQuestion(&q))
	o := models.Option{QuestionID: q.ID, OptionText: "0.3", IsCorrect: true}
	require.NoError(t, f.store.CreateOption(&o))
	a := models.StudentAssignment{QuizID: other.ID, StudentID: f.student.ID}
	require.NoError(t, f.store.CreateStudentAssignment(&a))

	answers := map[int64]int64{f.questions[0].Question.ID: f.correctOption(0)}
	_, err := f.engine.Submit(f.student.ID, f.quiz.ID, answers)
	require.NoError(t, err)
	_, err = f.engine.Submit(f.student.ID, f.quiz.ID, answers)
	require.NoError(t, err)
	_, err = f.engine.Submit(f.student.ID, other.ID, map[int64]int64{q.ID: o.ID})
	require.NoError(t, err)

	t.Run("grouped by title with ordered attempts", func(t *testing.T) {
		grouped, err := f.engine.ResultsForStudent(f.student.ID)
		require.NoError(t, err)
		require.Len(t, grouped, 2)
		assert.Equal(t, "Decimals", grouped[0].QuizTitle)
		assert.Equal(t, "Fractions", grouped[1].QuizTitle)
		require.Len(t, grouped[1].Attempts, 2)
		assert.Equal(t, 1, grouped[1].Attempts[0].AttemptNumber)
		assert.Equal(t, 2, grouped[1].Attempts[1].AttemptNumber)
	})

	t.Run("admin view carries student names", func(t *testing.T) {
		grouped, err := f.engine.AllResults()
		require.NoError(t, err)
		require.Len(t, grouped, 2)
		assert.Equal(t, f.student.Name, grouped[0].Attempts[0].StudentName)
	})
}

func TestScoreAnswers(t *testing.T) {
	key := map[int64][]int64{
		1: {11},
		2: {22},
		3: {31, 33}, // legacy rows may flag several correct options
	}

	tests := []struct {
		name    string
		answers map[int64]int64
		want    int
	}{
		{"all correct", map[int64]int64{1: 11, 2: 22, 3: 31}, 3},
		{"legacy alternate correct", map[int64]int64{3: 33}, 1},
		{"all wrong", map[int64]int64{1: 12, 2: 23, 3: 32}, 0},
		{"partial with noise", map[int64]int64{1: 11, 99: 1}, 1},
		{"empty", map[int64]int64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreAnswers(key, tt.answers))
		})
	}
}
