// Package db records distance observations and mood transitions to sqlite
// so the API can serve recent history. Render state is never persisted.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the sqlite database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS observations (
			distance_cm DOUBLE,
			simulated BOOLEAN,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS mood_changes (
			mood TEXT,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// RecordObservation stores one distance sample.
func (db *DB) RecordObservation(distanceCM float64, simulated bool) error {
	_, err := db.Exec("INSERT INTO observations (distance_cm, simulated) VALUES (?, ?)", distanceCM, simulated)
	return err
}

// RecordMoodChange stores a committed mood transition.
func (db *DB) RecordMoodChange(mood string) error {
	_, err := db.Exec("INSERT INTO mood_changes (mood) VALUES (?)", mood)
	return err
}

// MoodChange is one committed transition as served by the history API.
type MoodChange struct {
	Mood string    `json:"mood"`
	At   time.Time `json:"at"`
}

func (m MoodChange) String() string {
	return fmt.Sprintf("%s: %s", m.At.Format(time.RFC3339), m.Mood)
}

// RecentMoodChanges returns up to limit transitions, newest first.
func (db *DB) RecentMoodChanges(limit int) ([]MoodChange, error) {
	rows, err := db.Query("SELECT mood, timestamp FROM mood_changes ORDER BY timestamp DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []MoodChange
	for rows.Next() {
		var c MoodChange
		if err := rows.Scan(&c.Mood, &c.At); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return changes, nil
}

// Observation is one recorded distance sample.
type Observation struct {
	DistanceCM float64   `json:"distance_cm"`
	Simulated  bool      `json:"simulated"`
	At         time.Time `json:"at"`
}

// RecentObservations returns up to limit samples, newest first.
func (db *DB) RecentObservations(limit int) ([]Observation, error) {
	rows, err := db.Query("SELECT distance_cm, simulated, timestamp FROM observations ORDER BY timestamp DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.DistanceCM, &o.Simulated, &o.At); err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return obs, nil
}
