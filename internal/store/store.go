// Package store is the Postgres persistence layer: accounts, player
// avatars, and the shared drawing. Position and health writes are last
// write wins; nothing here is consulted during simulation.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	_ "github.com/lib/pq"

	"paintbrawl/internal/protocol"
)

var spawnColors = []string{
	"teal", "tomato", "orange", "green", "gold", "pink",
	"cyan", "magenta", "lime", "coral", "brown", "orchid",
	"lightblue", "lightgreen", "khaki", "peachpuff", "lavender",
}

// Spawn area for fresh avatars. New players appear near the map origin
// where the default camera looks.
const (
	spawnSpreadX = 800
	spawnSpreadY = 600
)

type Store struct {
	db *sql.DB
}

// Open connects, verifies the connection, and creates missing tables.
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS account (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			last_player_id INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS player (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			color TEXT NOT NULL,
			health INTEGER NOT NULL DEFAULT 100,
			account_id INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS drawing (
			id SERIAL PRIMARY KEY,
			player_id INTEGER,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			color TEXT NOT NULL,
			size INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Players returns every persisted avatar.
func (s *Store) Players(ctx context.Context) ([]protocol.PlayerSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, x, y, color, health FROM player`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []protocol.PlayerSnapshot
	for rows.Next() {
		var p protocol.PlayerSnapshot
		if err := rows.Scan(&p.ID, &p.Name, &p.X, &p.Y, &p.Color, &p.Health); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CreatePlayer inserts a fresh avatar with a random color and spawn
// point and records it as the account's last controlled player.
func (s *Store) CreatePlayer(ctx context.Context, name string, accountID int) (protocol.PlayerSnapshot, error) {
	p := protocol.PlayerSnapshot{
		Name:   name,
		X:      rand.Intn(spawnSpreadX),
		Y:      rand.Intn(spawnSpreadY),
		Color:  spawnColors[rand.Intn(len(spawnColors))],
		Health: 100,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO player (name, x, y, color, health, account_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.Name, p.X, p.Y, p.Color, p.Health, accountID).Scan(&p.ID)
	if err != nil {
		return protocol.PlayerSnapshot{}, err
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE account SET last_player_id = $1 WHERE id = $2`, p.ID, accountID); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Store) UpdatePosition(ctx context.Context, id, x, y int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE player SET x = $1, y = $2 WHERE id = $3`, x, y, id)
	return err
}

func (s *Store) RenamePlayer(ctx context.Context, id int, name string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE player SET name = $1 WHERE id = $2`, name, id)
	return err
}

func (s *Store) UpdateHealth(ctx context.Context, id, health int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE player SET health = $1 WHERE id = $2`, health, id)
	return err
}

// DeletePlayer removes an avatar and its drawings in one transaction.
func (s *Store) DeletePlayer(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM drawing WHERE player_id = $1`, id); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM player WHERE id = $1`, id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SetLastPlayer records which avatar an account controls.
func (s *Store) SetLastPlayer(ctx context.Context, accountID, playerID int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE account SET last_player_id = $1 WHERE id = $2`, playerID, accountID)
	return err
}

// Account is one login identity.
type Account struct {
	ID           int
	Username     string
	PasswordHash string
	LastPlayerID *int
}

func (s *Store) AccountByUsername(ctx context.Context, username string) (Account, error) {
	var a Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, last_player_id FROM account WHERE username = $1`,
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.LastPlayerID)
	return a, err
}

func (s *Store) CreateAccount(ctx context.Context, username, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (username, password_hash) VALUES ($1, $2)`, username, passwordHash)
	return err
}

// LastPlayer returns the account's last controlled avatar, if any.
func (s *Store) LastPlayer(ctx context.Context, accountID int) (*protocol.PlayerSnapshot, error) {
	var lastID *int
	err := s.db.QueryRowContext(ctx,
		`SELECT last_player_id FROM account WHERE id = $1`, accountID).Scan(&lastID)
	if err != nil {
		return nil, err
	}
	if lastID == nil {
		return nil, nil
	}
	var p protocol.PlayerSnapshot
	err = s.db.QueryRowContext(ctx,
		`SELECT id, name, x, y, color, health FROM player WHERE id = $1`, *lastID).
		Scan(&p.ID, &p.Name, &p.X, &p.Y, &p.Color, &p.Health)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveDrawing appends one point to the shared drawing.
func (s *Store) SaveDrawing(ctx context.Context, p protocol.DrawingPoint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drawing (player_id, x, y, color, size) VALUES ($1, $2, $3, $4, $5)`,
		p.PlayerID, p.X, p.Y, p.Color, p.Size)
	return err
}

// Drawings returns the whole drawing, oldest first.
func (s *Store) Drawings(ctx context.Context) ([]protocol.DrawingPoint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT x, y, color, size FROM drawing ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []protocol.DrawingPoint
	for rows.Next() {
		var p protocol.DrawingPoint
		if err := rows.Scan(&p.X, &p.Y, &p.Color, &p.Size); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
