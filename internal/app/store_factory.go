package app

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/lussekatt/internal/store"
	"github.com/shrimpsizemoose/lussekatt/internal/store/postgres"
	"github.com/shrimpsizemoose/lussekatt/internal/store/sqlite"
)

func NewStore(dsn, migrationsDir string) (store.QuizStore, error) {
	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}

	var (
		s   store.QuizStore
		err error
	)
	switch dbType {
	case store.DBTypePostgres:
		s, err = postgres.New(dsn)
	case store.DBTypeSQLite:
		s, err = sqlite.New(dsn)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
	if err != nil {
		return nil, err
	}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}
