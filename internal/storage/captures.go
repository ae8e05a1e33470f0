package storage

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/vovakirdan/druid-frontend/internal/render"
)

// Capture describes one stored frame.
type Capture struct {
	ID        int64
	SceneID   string
	Width     int
	Height    int
	Size      int // PNG size in bytes
	CreatedAt time.Time
}

// SaveCapture stores a frame as PNG.
// Returns the ID of the inserted record.
func (s *Store) SaveCapture(sceneID string, b *render.Bitmap) (int64, error) {
	buf, err := render.Convert(b)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot convert capture: %w", err)
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, buf.Image()); err != nil {
		return 0, fmt.Errorf("storage: cannot encode capture: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO captures (scene_id, width, height, png) VALUES (?, ?, ?, ?)",
		sceneID, b.Width, b.Height, encoded.Bytes(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save capture: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Captures lists the most recent captures, newest first.
// An empty sceneID lists captures of every scene.
func (s *Store) Captures(sceneID string, limit int) ([]Capture, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, width, height, LENGTH(png), created_at
		 FROM captures
		 WHERE ? = '' OR scene_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sceneID, sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query captures: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		var createdAt any
		if err := rows.Scan(&c.ID, &c.SceneID, &c.Width, &c.Height, &c.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CreatedAt = parseTimestamp(createdAt)
		captures = append(captures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return captures, nil
}

// Capture loads a stored frame and decodes it back into a bitmap.
func (s *Store) Capture(id int64) (*Capture, *render.Bitmap, error) {
	var c Capture
	var data []byte
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, scene_id, width, height, png, created_at
		 FROM captures
		 WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.SceneID, &c.Width, &c.Height, &data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("storage: capture %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("storage: cannot query capture: %w", err)
	}
	c.Size = len(data)
	c.CreatedAt = parseTimestamp(createdAt)

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("storage: cannot decode capture %d: %w", id, err)
	}

	return &c, render.BitmapFromImage(img), nil
}

// ClearCaptures deletes the captures of one scene, or all captures when
// sceneID is empty. Returns the number of deleted rows.
func (s *Store) ClearCaptures(sceneID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM captures WHERE ? = '' OR scene_id = ?", sceneID, sceneID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear captures: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared captures: %w", err)
	}
	return n, nil
}
