package storage

import (
	"fmt"
	"time"
)

// SessionRecord is one finished frontend run.
type SessionRecord struct {
	ID        int64
	SceneID   string
	Frontend  string // "terminal", "ssh", "snapshot" or "wasm"
	Frames    int
	Dropped   int
	Duration  time.Duration
	CreatedAt time.Time
}

// SceneStats contains aggregated statistics for a scene.
type SceneStats struct {
	SceneID      string
	Sessions     int
	TotalFrames  int64
	TotalDropped int64
	LastRun      time.Time
}

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sessions (scene_id, frontend, frames, dropped, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.SceneID,
		rec.Frontend,
		rec.Frames,
		rec.Dropped,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, frontend, frames, dropped, duration_ms, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var durationMS int64
		var createdAt any

		if err := rows.Scan(
			&rec.ID,
			&rec.SceneID,
			&rec.Frontend,
			&rec.Frames,
			&rec.Dropped,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.CreatedAt = parseTimestamp(createdAt)

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SceneStats retrieves aggregated statistics for a specific scene.
func (s *Store) SceneStats(sceneID string) (*SceneStats, error) {
	stats := &SceneStats{SceneID: sceneID}

	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(frames), 0), COALESCE(SUM(dropped), 0), MAX(created_at)
		 FROM sessions WHERE scene_id = ?`,
		sceneID,
	).Scan(&stats.Sessions, &stats.TotalFrames, &stats.TotalDropped, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	stats.LastRun = parseTimestamp(lastRun)

	return stats, nil
}
