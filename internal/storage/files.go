// internal/storage/files.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ErrExtensionNotAllowed reports a filename outside the configured
// allowlist. Checked before any write or network call.
var ErrExtensionNotAllowed = errors.New("file type is not allowed")

// FileStore saves an uploaded study material and returns the reference
// stored alongside it: a filesystem path for the local backend, a
// share link for the Drive backend.
type FileStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

func checkExtension(filename string, allowed []string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("%w: .%s", ErrExtensionNotAllowed, ext)
}

type LocalStore struct {
	dir     string
	allowed []string
}

func NewLocalStore(dir string, allowed []string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create materials directory: %w", err)
	}
	return &LocalStore{dir: dir, allowed: allowed}, nil
}

func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	if err := checkExtension(filename, s.allowed); err != nil {
		return "", err
	}

	// Base strips any path components a client smuggles into the name.
	path := filepath.Join(s.dir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

type DriveStore struct {
	svc      *drive.Service
	folderID string
	allowed  []string
}

func NewDriveStore(ctx context.Context, credentialsFile, folderID string, allowed []string) (*DriveStore, error) {
	svc, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveStore{svc: svc, folderID: folderID, allowed: allowed}, nil
}

func (s *DriveStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := checkExtension(filename, s.allowed); err != nil {
		return "", err
	}

	meta := &drive.File{
		Name:    filepath.Base(filename),
		Parents: []string{s.folderID},
	}
	created, err := s.svc.Files.Create(meta).
		Media(r).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload to drive: %w", err)
	}

	return created.WebViewLink, nil
}
