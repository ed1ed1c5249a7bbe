package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/config"
)

// RunRecord is the archived summary of one research run: the final answer
// plus the execution and error logs that explain how it was produced.
type RunRecord struct {
	RunID         string          `db:"run_id"`
	SessionID     string          `db:"session_id"`
	Query         string          `db:"query"`
	FinalResponse string          `db:"final_response"`
	Confidence    float64         `db:"confidence"`
	Iterations    int             `db:"iterations"`
	ExecutionLog  json.RawMessage `db:"execution_log"`
	ErrorLog      json.RawMessage `db:"error_log"`
	CreatedAt     time.Time       `db:"created_at"`
}

// Store persists run records and situation reports to Postgres.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open connects to Postgres and verifies the connection.
func Open(cfg config.PostgresConfig, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{db: db, logger: logger}, nil
}

// NewStore wraps an existing connection (used by tests).
func NewStore(db *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// SaveRunRecord archives one completed run.
func (s *Store) SaveRunRecord(ctx context.Context, rec RunRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO run_records
			(run_id, session_id, query, final_response, confidence, iterations, execution_log, error_log, created_at)
		VALUES
			(:run_id, :session_id, :query, :final_response, :confidence, :iterations, :execution_log, :error_log, :created_at)`,
		rec)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

// SaveSitrep archives a generated situation report. Implements the
// subagents.SitrepArchiver contract.
func (s *Store) SaveSitrep(ctx context.Context, keywords []string, report string, topicCount int) error {
	kw, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("marshal sitrep keywords: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sitreps (keywords, report, topic_count, generated_at)
		VALUES ($1, $2, $3, $4)`,
		kw, report, topicCount, time.Now())
	if err != nil {
		return fmt.Errorf("insert sitrep: %w", err)
	}
	return nil
}

// RecentSitreps returns the newest n reports.
func (s *Store) RecentSitreps(ctx context.Context, n int) ([]SitrepRecord, error) {
	var out []SitrepRecord
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, keywords, report, topic_count, generated_at
		FROM sitreps ORDER BY generated_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("select sitreps: %w", err)
	}
	return out, nil
}

// SitrepRecord is one archived situation report.
type SitrepRecord struct {
	ID          int64           `db:"id"`
	Keywords    json.RawMessage `db:"keywords"`
	Report      string          `db:"report"`
	TopicCount  int             `db:"topic_count"`
	GeneratedAt time.Time       `db:"generated_at"`
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
