// Package repository selects the store the dashboard reads its records from.
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
	"github.com/mamadbah2/dairy/internal/repository/sheets"
	"github.com/mamadbah2/dairy/pkg/clients/dairyapi"
)

// Source delivers the three raw collections behind the dashboard.
type Source interface {
	FetchMilkEntries(ctx context.Context) ([]models.Record, error)
	FetchPayments(ctx context.Context) ([]models.Record, error)
	FetchUsers(ctx context.Context) ([]models.Record, error)
}

// Result carries the selected source and the function releasing it.
type Result struct {
	Source  Source
	Cleanup func(ctx context.Context) error
}

func noCleanup(context.Context) error { return nil }

// NewSource builds the source named by cfg.Backend.
func NewSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case config.BackendAPI:
		logger.Info("using dairy api backend", zap.String("base_url", cfg.DairyAPI.BaseURL))
		return &Result{Source: dairyapi.NewClient(cfg.DairyAPI), Cleanup: noCleanup}, nil

	case config.BackendMongoDB:
		loc, err := cfg.Dashboard.Location()
		if err != nil {
			return nil, fmt.Errorf("resolve timezone: %w", err)
		}
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, loc, logger.Named("mongodb"))
		if err != nil {
			return nil, fmt.Errorf("init mongodb backend: %w", err)
		}
		logger.Info("using mongodb backend", zap.String("db", cfg.MongoDB.DBName))
		return &Result{Source: repo, Cleanup: repo.Close}, nil

	case config.BackendSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("sheets"))
		if err != nil {
			return nil, fmt.Errorf("init sheets backend: %w", err)
		}
		logger.Info("using google sheets backend", zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID))
		return &Result{Source: sheets.NewSource(repo), Cleanup: noCleanup}, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.Backend)
	}
}
