package postgres

import (
	"context"
	"flag"
	"log"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(dsn)
	require.NoError(t, err, "Failed to create store")
	require.NoError(t, s.ApplyMigrations("../../../migrations"))

	cleanup := func() {
		s.Close()
		container.Terminate(ctx)
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping Postgres store tests in short mode")
		os.Exit(0)
	}
	code := m.Run()
	os.Exit(code)
}

func seedStudentAndQuiz(t *testing.T, s *PostgresStore) (models.Student, models.Quiz) {
	student := models.Student{
		Name:         "john.doe",
		Email:        "john.doe@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, s.CreateStudent(&student))

	quiz := models.Quiz{Title: "Fractions", AttemptLimit: 3}
	require.NoError(t, s.CreateQuiz(&quiz))

	return student, quiz
}

// Six simultaneous submissions against a limit of three: exactly three
// must land, with attempt numbers 1..3, and every loser must see the
// limit error.
func TestConcurrentSubmissions(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student, quiz := seedStudentAndQuiz(t, s)

	const submitters = 6
	var wg sync.WaitGroup
	errs := make([]error, submitters)
	attempts := make([]int, submitters)

	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := &models.Result{
				StudentID: student.ID,
				QuizID:    quiz.ID,
				Score:     1,
				Feedback:  "Your score is 1/2.",
				CreatedAt: time.Now().Unix(),
			}
			errs[i] = s.RecordResult(res, quiz.AttemptLimit)
			if errs[i] == nil {
				attempts[i] = res.AttemptNumber
			}
		}(i)
	}
	wg.Wait()

	var won []int
	for i, err := range errs {
		if err == nil {
			won = append(won, attempts[i])
			continue
		}
		var limitErr *store.AttemptLimitError
		require.ErrorAs(t, err, &limitErr, "losers must see the attempt limit")
		assert.Equal(t, quiz.AttemptLimit, limitErr.Limit)
	}

	require.Len(t, won, quiz.AttemptLimit)
	sort.Ints(won)
	assert.Equal(t, []int{1, 2, 3}, won)

	count, err := s.CountAttempts(student.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.AttemptLimit, count)
}

func TestConcurrentLogins(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student, _ := seedStudentAndQuiz(t, s)

	const logins = 4
	var wg sync.WaitGroup
	errs := make([]error, logins)

	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session := &models.Session{
				StudentID: student.ID,
				Token:     "sk-lsktt-aaaaaaaaaaaaaaaaaaaaaa" + string(rune('a'+i)),
				CreatedAt: time.Now().Unix(),
			}
			errs[i] = s.CreateSession(session)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, store.ErrConflict)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestPlaceholderConversion(t *testing.T) {
	assert.Equal(t,
		"SELECT * FROM t WHERE a = $1 AND b = $2",
		convertPlaceholders("SELECT * FROM t WHERE a = ? AND b = ?"),
	)
	assert.Equal(t, "SELECT 1", convertPlaceholders("SELECT 1"))
}

func TestOutboxRoundTrip(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	student, quiz := seedStudentAndQuiz(t, s)

	res := &models.Result{
		StudentID: student.ID,
		QuizID:    quiz.ID,
		Score:     2,
		Feedback:  "Your score is 2/2.",
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, s.RecordResult(res, quiz.AttemptLimit))

	rows, err := s.FetchUnsyncedResults()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, student.Name, rows[0].StudentName)

	require.NoError(t, s.MarkResultSynced(rows[0].OutboxID))

	rows, err = s.FetchUnsyncedResults()
	require.NoError(t, err)
	assert.Empty(t, rows)
}
