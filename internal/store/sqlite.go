package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/callcentersim/callsim/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at dsn and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS simulations (
			simulation_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME,
			transferred_to TEXT,
			transfer_reason TEXT,
			notes TEXT NOT NULL DEFAULT '[]',
			tags TEXT NOT NULL DEFAULT '[]',
			quality_metrics TEXT NOT NULL,
			resolution_time INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_simulations_start ON simulations(start_time)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id INTEGER PRIMARY KEY AUTOINCREMENT,
			simulation_id TEXT NOT NULL,
			content TEXT NOT NULL,
			sender TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			FOREIGN KEY (simulation_id) REFERENCES simulations(simulation_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_simulation ON messages(simulation_id, timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSimulation inserts a new simulation record.
func (s *SQLiteStore) CreateSimulation(ctx context.Context, sim *domain.Simulation) error {
	notes, tags, metrics, err := marshalSimulationJSON(sim)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO simulations (simulation_id, status, start_time, end_time, transferred_to, transfer_reason, notes, tags, quality_metrics, resolution_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sim.ID, sim.Status, sim.StartTime, nullTime(sim.EndTime),
		nullString(sim.TransferredTo), nullString(sim.TransferReason),
		notes, tags, metrics, sim.ResolutionTime)
	return err
}

// GetSimulation retrieves a simulation by id, or (nil, nil) when absent.
func (s *SQLiteStore) GetSimulation(ctx context.Context, simulationID string) (*domain.Simulation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT simulation_id, status, start_time, end_time, transferred_to, transfer_reason, notes, tags, quality_metrics, resolution_time
		 FROM simulations WHERE simulation_id = ?`, simulationID)

	sim, err := scanSimulation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sim, nil
}

// UpdateSimulation overwrites the mutable fields of a simulation.
func (s *SQLiteStore) UpdateSimulation(ctx context.Context, sim *domain.Simulation) error {
	return s.updateSimulation(ctx, s.db, sim)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *SQLiteStore) updateSimulation(ctx context.Context, ex execer, sim *domain.Simulation) error {
	notes, tags, metrics, err := marshalSimulationJSON(sim)
	if err != nil {
		return err
	}
	res, err := ex.ExecContext(ctx,
		`UPDATE simulations SET status = ?, end_time = ?, transferred_to = ?, transfer_reason = ?, notes = ?, tags = ?, quality_metrics = ?, resolution_time = ?
		 WHERE simulation_id = ?`,
		sim.Status, nullTime(sim.EndTime),
		nullString(sim.TransferredTo), nullString(sim.TransferReason),
		notes, tags, metrics, sim.ResolutionTime, sim.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("simulation %s does not exist", sim.ID)
	}
	return nil
}

// ApplyTurn appends the messages and, when sim is non-nil, updates its metrics
// in a single transaction.
func (s *SQLiteStore) ApplyTurn(ctx context.Context, sim *domain.Simulation, messages []domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range messages {
		msg := &messages[i]
		res, err := tx.ExecContext(ctx,
			`INSERT INTO messages (simulation_id, content, sender, timestamp) VALUES (?, ?, ?, ?)`,
			msg.SimulationID, msg.Content, msg.Sender, msg.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			msg.MessageID = id
		}
	}

	if sim != nil {
		if err := s.updateSimulation(ctx, tx, sim); err != nil {
			return fmt.Errorf("failed to update simulation: %w", err)
		}
	}

	return tx.Commit()
}

// ListMessages retrieves all messages for a simulation in insertion order.
func (s *SQLiteStore) ListMessages(ctx context.Context, simulationID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, simulation_id, content, sender, timestamp
		 FROM messages WHERE simulation_id = ? ORDER BY message_id ASC`, simulationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.MessageID, &msg.SimulationID, &msg.Content, &msg.Sender, &msg.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListSimulations retrieves all simulations ordered by start time.
func (s *SQLiteStore) ListSimulations(ctx context.Context) ([]domain.Simulation, error) {
	return s.querySimulations(ctx,
		`SELECT simulation_id, status, start_time, end_time, transferred_to, transfer_reason, notes, tags, quality_metrics, resolution_time
		 FROM simulations ORDER BY start_time, simulation_id`)
}

// ListSimulationsStartedBetween retrieves simulations with start_time in [from, to).
func (s *SQLiteStore) ListSimulationsStartedBetween(ctx context.Context, from, to time.Time) ([]domain.Simulation, error) {
	return s.querySimulations(ctx,
		`SELECT simulation_id, status, start_time, end_time, transferred_to, transfer_reason, notes, tags, quality_metrics, resolution_time
		 FROM simulations WHERE start_time >= ? AND start_time < ? ORDER BY start_time, simulation_id`,
		from, to)
}

func (s *SQLiteStore) querySimulations(ctx context.Context, query string, args ...interface{}) ([]domain.Simulation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sims []domain.Simulation
	for rows.Next() {
		sim, err := scanSimulation(rows)
		if err != nil {
			return nil, err
		}
		sims = append(sims, *sim)
	}
	return sims, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSimulation(row rowScanner) (*domain.Simulation, error) {
	var sim domain.Simulation
	var endTime sql.NullTime
	var transferredTo, transferReason sql.NullString
	var notes, tags, metrics string

	err := row.Scan(&sim.ID, &sim.Status, &sim.StartTime, &endTime,
		&transferredTo, &transferReason, &notes, &tags, &metrics, &sim.ResolutionTime)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		sim.EndTime = &endTime.Time
	}
	if transferredTo.Valid {
		sim.TransferredTo = transferredTo.String
	}
	if transferReason.Valid {
		sim.TransferReason = transferReason.String
	}
	if err := json.Unmarshal([]byte(notes), &sim.Notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes for %s: %w", sim.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &sim.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for %s: %w", sim.ID, err)
	}
	if err := json.Unmarshal([]byte(metrics), &sim.QualityMetrics); err != nil {
		return nil, fmt.Errorf("failed to decode quality metrics for %s: %w", sim.ID, err)
	}
	return &sim, nil
}

func marshalSimulationJSON(sim *domain.Simulation) (notes, tags, metrics string, err error) {
	n := sim.Notes
	if n == nil {
		n = []domain.Note{}
	}
	t := sim.Tags
	if t == nil {
		t = []string{}
	}
	notesB, err := json.Marshal(n)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal notes: %w", err)
	}
	tagsB, err := json.Marshal(t)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	metricsB, err := json.Marshal(sim.QualityMetrics)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal quality metrics: %w", err)
	}
	return string(notesB), string(tagsB), string(metricsB), nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
