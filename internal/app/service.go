package app

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/lussekatt/internal/notify"
	"github.com/shrimpsizemoose/lussekatt/internal/quiz"
	"github.com/shrimpsizemoose/lussekatt/internal/storage"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

type Service struct {
	Config     *Config
	Store      store.QuizStore
	Engine     *quiz.Engine
	Dispatcher *notify.Dispatcher
	Files      storage.FileStore
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	quizStore, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	var mailer notify.Mailer = notify.ConsoleMailer{}
	if config.Email.Enabled {
		mailer = notify.NewSendGridMailer(
			config.Email.SendGridKey,
			config.Email.FromName,
			config.Email.FromAddress,
		)
	}

	redisURL := ""
	if config.Redis.Enabled {
		redisURL = config.Redis.URL
	}
	dispatcher, err := notify.NewDispatcher(quizStore, mailer, redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init dispatcher: %w", err)
	}

	var files storage.FileStore
	if config.Materials.DriveEnabled {
		files, err = storage.NewDriveStore(
			context.Background(),
			config.Materials.DriveCredentialsFile,
			config.Materials.DriveFolderID,
			config.Materials.AllowedExtensions,
		)
	} else {
		files, err = storage.NewLocalStore(config.Materials.Dir, config.Materials.AllowedExtensions)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to init file store: %w", err)
	}

	return &Service{
		Config:     config,
		Store:      quizStore,
		Engine:     quiz.NewEngine(quizStore),
		Dispatcher: dispatcher,
		Files:      files,
	}, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Dispatcher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("dispatcher: %w", err))
	}
	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
