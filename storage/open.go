package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"hotel-reviews/config"
	"hotel-reviews/utils"
)

// Open picks the ReviewSource matching cfg.SourceDSN. An empty DSN means
// the published CSV at cfg.DatasetURL.
func Open(cfg *config.Config, logger *utils.Logger) (ReviewSource, error) {
	dsn := strings.TrimSpace(cfg.SourceDSN)
	if dsn == "" {
		return NewCSVSource(cfg.DatasetURL, cfg, logger), nil
	}

	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewCSVSource(dsn, cfg, logger), nil
	case strings.HasPrefix(lower, "file://"):
		return NewCSVSource(dsn[len("file://"):], cfg, logger), nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return openSQL(DriverPostgres, dsn, cfg, logger)
	case strings.HasPrefix(lower, "sqlite://"):
		return openSQL(DriverSQLite, dsn[len("sqlite://"):], cfg, logger)
	}

	switch strings.ToLower(filepath.Ext(dsn)) {
	case ".csv":
		return NewCSVSource(dsn, cfg, logger), nil
	case ".db", ".sqlite", ".sqlite3":
		return openSQL(DriverSQLite, dsn, cfg, logger)
	}
	return nil, fmt.Errorf("unsupported source %q", dsn)
}

func openSQL(driver Driver, dsn string, cfg *config.Config, logger *utils.Logger) (ReviewSource, error) {
	src, err := NewSQLSource(driver, dsn, cfg.SourceTable, logger)
	if err != nil {
		return nil, err
	}
	src.timeout = cfg.FetchTimeout()
	return src, nil
}
