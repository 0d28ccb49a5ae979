// internal/app/sessions.go
package app

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/metrics"
	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

const tokenPrefix = "sk-lsktt-"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionConflict reports a live session already held by the
	// student. The old session stays valid.
	ErrSessionConflict = errors.New("student already has an active session")
	ErrInvalidSession  = errors.New("missing or invalid session token")
)

func generateToken() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login authenticates the student and opens their session. One live
// session per student: a second login while the first token is valid
// gets ErrSessionConflict, and the database row is what makes a
// session live.
func (s *Service) Login(email, password string) (*models.Session, error) {
	student, err := s.Store.GetStudentByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	existing, err := s.Store.GetSessionByStudent(student.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if !s.sessionExpired(existing) {
			metrics.LoginsTotal.WithLabelValues("session_conflict").Inc()
			return nil, ErrSessionConflict
		}
		if err := s.Store.DeleteSessionByToken(existing.Token); err != nil {
			return nil, err
		}
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		StudentID: student.ID,
		Token:     token,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.Store.CreateSession(session); err != nil {
		// Two logins raced past the lookup; the constraint picked the
		// winner.
		if errors.Is(err, store.ErrConflict) {
			metrics.LoginsTotal.WithLabelValues("session_conflict").Inc()
			return nil, ErrSessionConflict
		}
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	logger.Debug.Printf("Opened session for student %d", student.ID)

	return session, nil
}

// Logout is idempotent: an unknown or already deleted token is fine.
func (s *Service) Logout(token string) error {
	return s.Store.DeleteSessionByToken(token)
}

// RequireSession resolves the bearer token to its session row. Expired
// rows are deleted on sight.
func (s *Service) RequireSession(r *http.Request) (*models.Session, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.Store.GetSessionByToken(token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}

	if s.sessionExpired(session) {
		if err := s.Store.DeleteSessionByToken(session.Token); err != nil {
			logger.Error.Printf("Failed to drop expired session: %v", err)
		}
		return nil, ErrInvalidSession
	}

	return session, nil
}

func (s *Service) sessionExpired(session *models.Session) bool {
	ttl := s.Config.Auth.SessionTTLMinutes
	if ttl <= 0 {
		return false
	}
	expiry := time.Unix(session.CreatedAt, 0).Add(time.Duration(ttl) * time.Minute)
	return time.Now().After(expiry)
}

// AdminLogin checks admin credentials. Admins carry no session row;
// every admin call re-authenticates (original behavior).
func (s *Service) AdminLogin(email, password string) (*models.Admin, error) {
	admin, err := s.Store.GetAdminByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}
