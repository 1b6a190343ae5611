// Package journal stores negotiation events in SQLite so a game can be
// audited or replayed after the fact.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"dipnego/game"

	_ "modernc.org/sqlite"
)

type Kind string

const (
	ProposeSent Kind = "propose_sent"
	AcceptSent  Kind = "accept_sent"
	RejectSent  Kind = "reject_sent"
	Confirmed   Kind = "confirmed"
	Dropped     Kind = "dropped"
)

// Event is one thing a power did or saw during negotiation.
type Event struct {
	ID         int64
	RecordedAt time.Time
	Power      game.Power
	Time       game.Time
	Kind       Kind
	ProposalID string
	Peer       game.Power
	Deal       string
	Detail     string
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	power       TEXT NOT NULL,
	year        INTEGER NOT NULL,
	phase       TEXT NOT NULL,
	kind        TEXT NOT NULL,
	proposal_id TEXT NOT NULL DEFAULT '',
	peer        TEXT NOT NULL DEFAULT '',
	deal        TEXT NOT NULL DEFAULT '',
	detail      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS events_power ON events (power, id);
`

type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path. ":memory:" keeps it in memory.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One connection so an in-memory database is shared and writes serialise
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(e Event) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO events (recorded_at, power, year, phase, kind, proposal_id, peer, deal, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RecordedAt.UnixNano(), string(e.Power), e.Time.Year, e.Time.Phase.String(),
		string(e.Kind), e.ProposalID, string(e.Peer), e.Deal, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("record %s event: %w", e.Kind, err)
	}
	return nil
}

// Events returns power's events in the order they were recorded, or every
// event when power is empty.
func (s *Store) Events(power game.Power) ([]Event, error) {
	query := `SELECT id, recorded_at, power, year, phase, kind, proposal_id, peer, deal, detail FROM events`
	var args []any
	if power != "" {
		query += ` WHERE power = ?`
		args = append(args, string(power))
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e                        Event
			recordedAt               int64
			power, phase, kind, peer string
		)
		err := rows.Scan(&e.ID, &recordedAt, &power, &e.Time.Year, &phase, &kind, &e.ProposalID, &peer, &e.Deal, &e.Detail)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.RecordedAt = time.Unix(0, recordedAt)
		e.Power = game.Power(power)
		e.Kind = Kind(kind)
		e.Peer = game.Power(peer)
		if e.Time.Phase, err = game.ParsePhase(phase); err != nil {
			return nil, fmt.Errorf("scan event %d: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
