package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotel-reviews/config"
	"hotel-reviews/models"
	"hotel-reviews/utils"

	_ "github.com/lib/pq"  // driver: postgres
	_ "modernc.org/sqlite" // driver: sqlite
)

// Driver names a supported database/sql driver
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// SQLSource reads the review dataset from a database table
type SQLSource struct {
	db      *sql.DB
	driver  Driver
	table   string
	timeout time.Duration // 0 means ctx alone bounds the query
	logger  *utils.Logger
}

// NewSQLSource opens the database handle. The connection is checked on Load.
func NewSQLSource(driver Driver, dsn, table string, logger *utils.Logger) (*SQLSource, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	if !config.ValidTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Minute * 5)

	return &SQLSource{db: db, driver: driver, table: table, logger: logger}, nil
}

// Load reads every row of the table; NULL text or ratings become nil
func (s *SQLSource) Load(ctx context.Context) ([]*models.RawReview, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	s.logger.Info("Connected to %s successfully", s.driver)

	query := fmt.Sprintf(`SELECT name, topic_label, text, ratings FROM %s`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	var reviews []*models.RawReview
	for rows.Next() {
		var hotel, topic, text, ratings sql.NullString
		if err := rows.Scan(&hotel, &topic, &text, &ratings); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(reviews), err)
		}
		reviews = append(reviews, &models.RawReview{
			Row:     len(reviews),
			Hotel:   hotel.String,
			Topic:   topic.String,
			Text:    nullable(text),
			Ratings: nullable(ratings),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.table, err)
	}

	s.logger.Info("Loaded %d rows from table '%s'", len(reviews), s.table)
	return reviews, nil
}

// Close closes the database connection
func (s *SQLSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullable(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}
