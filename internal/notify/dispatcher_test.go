package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
	"github.com/shrimpsizemoose/lussekatt/internal/store/sqlite"
)

// flakyMailer fails for the addresses listed in failFor and records
// the rest.
type flakyMailer struct {
	failFor map[string]bool
	sent    []string
}

func (m *flakyMailer) Send(toName, toAddress, subject, body string) error {
	if m.failFor[toAddress] {
		return errors.New("mailbox on fire")
	}
	m.sent = append(m.sent, toAddress)
	return nil
}

func setupDispatcher(t *testing.T, mailer Mailer) (*Dispatcher, *sqlite.SQLiteStore, func()) {
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations("../../migrations"))

	d, err := NewDispatcher(s, mailer, "")
	require.NoError(t, err)

	return d, s, func() {
		d.Close()
		s.Close()
	}
}

func seedClass(t *testing.T, s *sqlite.SQLiteStore, emails ...string) (models.Class, []models.Student) {
	class := models.Class{Name: "7B"}
	require.NoError(t, s.CreateClass(&class))

	students := make([]models.Student, 0, len(emails))
	for _, email := range emails {
		st := models.Student{
			Name:         email,
			Email:        email,
			PasswordHash: "x",
			ClassID:      &class.ID,
		}
		require.NoError(t, s.CreateStudent(&st))
		students = append(students, st)
	}
	return class, students
}

func TestNotifyStudent(t *testing.T) {
	mailer := &flakyMailer{}
	d, s, cleanup := setupDispatcher(t, mailer)
	defer cleanup()

	_, students := seedClass(t, s, "a@example.com")

	t.Run("delivers and persists", func(t *testing.T) {
		report, err := d.NotifyStudent(context.Background(), students[0].ID, "see me", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a@example.com"}, report.Delivered)
		assert.Empty(t, report.Failed)

		notifications, err := s.ListNotificationsForStudent(students[0].ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, "see me", notifications[0].Message)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := d.NotifyStudent(context.Background(), 9999, "hello", nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestNotifyStudentMailFailure(t *testing.T) {
	mailer := &flakyMailer{failFor: map[string]bool{"a@example.com": true}}
	d, s, cleanup := setupDispatcher(t, mailer)
	defer cleanup()

	_, students := seedClass(t, s, "a@example.com")

	report, err := d.NotifyStudent(context.Background(), students[0].ID, "see me", nil)
	require.NoError(t, err, "mail failure must not fail the call")
	assert.Equal(t, []string{"a@example.com"}, report.Failed)
	assert.Empty(t, report.Delivered)

	// The row is the source of truth and survives the failed email.
	notifications, err := s.ListNotificationsForStudent(students[0].ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestNotifyClass(t *testing.T) {
	mailer := &flakyMailer{failFor: map[string]bool{"b@example.com": true}}
	d, s, cleanup := setupDispatcher(t, mailer)
	defer cleanup()

	class, _ := seedClass(t, s, "a@example.com", "b@example.com", "c@example.com")

	t.Run("partial failure is reported, not fatal", func(t *testing.T) {
		report, err := d.NotifyClass(context.Background(), class.ID, "quiz on friday", nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a@example.com", "c@example.com"}, report.Delivered)
		assert.Equal(t, []string{"b@example.com"}, report.Failed)
	})

	t.Run("empty class", func(t *testing.T) {
		empty := models.Class{Name: "8A"}
		require.NoError(t, s.CreateClass(&empty))

		_, err := d.NotifyClass(context.Background(), empty.ID, "anyone there?", nil)
		assert.ErrorIs(t, err, ErrEmptyClass)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := d.NotifyClass(context.Background(), 9999, "hello", nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
