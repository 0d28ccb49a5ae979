package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	Auth struct {
		// SessionTTLMinutes of 0 means sessions never expire.
		SessionTTLMinutes int `toml:"session_ttl_minutes"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Redis struct {
		Enabled bool   `toml:"enabled"`
		URL     string `toml:"url"`
	} `toml:"redis"`

	Email struct {
		Enabled     bool   `toml:"enabled"`
		SendGridKey string `toml:"sendgrid_key"`
		FromName    string `toml:"from_name"`
		FromAddress string `toml:"from_address"`
	} `toml:"email"`

	Materials struct {
		Dir                  string   `toml:"dir"`
		AllowedExtensions    []string `toml:"allowed_extensions"`
		DriveEnabled         bool     `toml:"drive_enabled"`
		DriveCredentialsFile string   `toml:"drive_credentials_file"`
		DriveFolderID        string   `toml:"drive_folder_id"`
	} `toml:"materials"`

	GSheet struct {
		Enabled         bool   `toml:"enabled"`
		CredentialsFile string `toml:"credentials_file"`
		SpreadsheetID   string `toml:"spreadsheet_id"`
		SheetName       string `toml:"sheet_name"`
		Schedule        string `toml:"schedule"`
	} `toml:"gsheet"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database DSN is not specified in config")
	}
	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if config.Materials.Dir == "" {
		config.Materials.Dir = "./materials"
	}
	if len(config.Materials.AllowedExtensions) == 0 {
		config.Materials.AllowedExtensions = []string{
			"pdf", "doc", "docx", "ppt", "pptx", "txt", "xlsx",
		}
	}

	logger.Debug.Printf("Loaded config for server on %s", config.Server.Port)

	return &config, nil
}
