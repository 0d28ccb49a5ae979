// internal/export/gsheet.go
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/metrics"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

// SheetMirror drains the result outbox into a Google Sheet on a cron
// schedule. Rows are marked synced only after the append succeeds, so
// a crashed run re-appends rather than loses (at-least-once).
type SheetMirror struct {
	config        *app.Config
	store         store.QuizStore
	scheduler     *gocron.Scheduler
	sheetsService *sheets.Service
}

func NewSheetMirror(config *app.Config, store store.QuizStore) (*SheetMirror, error) {
	ctx := context.Background()

	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(config.GSheet.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	m := &SheetMirror{
		config:        config,
		store:         store,
		scheduler:     gocron.NewScheduler(time.UTC),
		sheetsService: svc,
	}

	if _, err := m.scheduler.Cron(config.GSheet.Schedule).Do(func() {
		if err := m.Sync(); err != nil {
			logger.Error.Printf("Mirror sync failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule mirror sync: %w", err)
	}

	m.scheduler.StartAsync()
	return m, nil
}

func (m *SheetMirror) Stop() {
	m.scheduler.Stop()
}

// Sync appends every unsynced result to the sheet. One bad row stops
// the run; the next run picks up from the same row.
func (m *SheetMirror) Sync() error {
	rows, err := m.store.FetchUnsyncedResults()
	if err != nil {
		return fmt.Errorf("failed to fetch unsynced results: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	appendRange := fmt.Sprintf("%s!A:F", m.config.GSheet.SheetName)
	for _, row := range rows {
		values := &sheets.ValueRange{
			Values: [][]interface{}{{
				row.StudentName,
				row.QuizTitle,
				row.Score,
				row.AttemptNumber,
				row.Feedback,
				time.Unix(row.CreatedAt, 0).UTC().Format("2006-01-02 15:04:05"),
			}},
		}

		_, err := m.sheetsService.Spreadsheets.Values.
			Append(m.config.GSheet.SpreadsheetID, appendRange, values).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Do()
		if err != nil {
			metrics.MirroredResultsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to append result %d: %w", row.ResultID, err)
		}

		if err := m.store.MarkResultSynced(row.OutboxID); err != nil {
			return fmt.Errorf("failed to mark result %d synced: %w", row.ResultID, err)
		}
		metrics.MirroredResultsTotal.WithLabelValues("ok").Inc()
	}

	logger.Info.Printf("Mirrored %d results to sheet", len(rows))
	return nil
}
