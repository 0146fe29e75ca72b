// Package snapshot persists point-in-time records of odds and value
// signals to PostgreSQL. Writes are best effort: the data layer keeps
// serving when the database is down, it just stops leaving a trail.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fortuna/vantage/internal/model"
	"github.com/fortuna/vantage/internal/odds"
)

// Store wraps the snapshot database connection.
type Store struct {
	conn *sql.DB
}

// New opens the snapshot database and ensures the schema exists.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{conn: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// HealthCheck pings the database with a short timeout.
func (s *Store) HealthCheck() error {
	if s == nil || s.conn == nil {
		return fmt.Errorf("snapshot store not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.conn.PingContext(ctx)
}

func (s *Store) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS odds_snapshots (
			id UUID PRIMARY KEY,
			sport VARCHAR(32) NOT NULL,
			home_team VARCHAR(128) NOT NULL,
			away_team VARCHAR(128) NOT NULL,
			books JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_odds_snapshots_pairing
			ON odds_snapshots (sport, home_team, away_team, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS signal_snapshots (
			id UUID PRIMARY KEY,
			sport VARCHAR(32) NOT NULL,
			home_team VARCHAR(128) NOT NULL,
			away_team VARCHAR(128) NOT NULL,
			outcome VARCHAR(16) NOT NULL,
			edge_percent DOUBLE PRECISION NOT NULL,
			strength VARCHAR(16) NOT NULL,
			model_prob JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_snapshots_created
			ON signal_snapshots (created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.conn.Exec(stmt); err != nil {
			return err
		}
	}
	log.Println("[snapshot] ✓ schema ready")
	return nil
}

// SaveOdds records one normalized odds fetch. Nil-safe.
func (s *Store) SaveOdds(ctx context.Context, sport model.Sport, home, away string, books []odds.BookIntel) error {
	if s == nil || s.conn == nil {
		return nil
	}
	payload, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("marshaling books: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO odds_snapshots (id, sport, home_team, away_team, books)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), string(sport), home, away, payload)
	if err != nil {
		return fmt.Errorf("inserting odds snapshot: %w", err)
	}
	return nil
}

// SaveSignal records one computed value edge. Nil-safe.
func (s *Store) SaveSignal(ctx context.Context, sport model.Sport, home, away string, modelProb model.Probability, signal model.ValueEdge) error {
	if s == nil || s.conn == nil {
		return nil
	}
	probJSON, err := json.Marshal(modelProb)
	if err != nil {
		return fmt.Errorf("marshaling model probability: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO signal_snapshots (id, sport, home_team, away_team, outcome, edge_percent, strength, model_prob)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New().String(), string(sport), home, away,
		string(signal.Outcome), signal.EdgePercent, string(signal.Strength), probJSON)
	if err != nil {
		return fmt.Errorf("inserting signal snapshot: %w", err)
	}
	return nil
}

// RecentSignals returns the latest recorded signals, newest first.
func (s *Store) RecentSignals(ctx context.Context, limit int) ([]SignalRecord, error) {
	if s == nil || s.conn == nil {
		return nil, fmt.Errorf("snapshot store not configured")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, sport, home_team, away_team, outcome, edge_percent, strength, created_at
		 FROM signal_snapshots ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying signals: %w", err)
	}
	defer rows.Close()

	var records []SignalRecord
	for rows.Next() {
		var r SignalRecord
		if err := rows.Scan(&r.ID, &r.Sport, &r.HomeTeam, &r.AwayTeam, &r.Outcome, &r.EdgePercent, &r.Strength, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning signal row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SignalRecord is one persisted value signal.
type SignalRecord struct {
	ID          string    `json:"id"`
	Sport       string    `json:"sport"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	Outcome     string    `json:"outcome"`
	EdgePercent float64   `json:"edge_percent"`
	Strength    string    `json:"strength"`
	CreatedAt   time.Time `json:"created_at"`
}
