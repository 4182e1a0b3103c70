package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/gridbase/internal/database/common"
	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/query"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const defaultOptions = "_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000"

type Adapter struct {
	db       *sql.DB
	qb       squirrel.StatementBuilderType
	dialect  query.SQLite
	maxConns int
}

func New(maxConns int) *Adapter {
	if maxConns <= 0 {
		maxConns = 4
	}
	return &Adapter{
		qb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		maxConns: maxConns,
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite://"), "file:")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?" + defaultOptions
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(s.maxConns)
	db.SetMaxIdleConns(s.maxConns)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) Dialect() query.Dialect {
	return s.dialect
}

func (s *Adapter) Init(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range common.ParseSQLStatements(schemaSQL) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement '%s': %w", firstLine(stmt), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i > 0 {
		return stmt[:i]
	}
	return stmt
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("%s %d not found", what, id)
	}
	return fmt.Errorf("failed to load %s %d: %w", what, id, err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
