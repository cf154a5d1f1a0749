package accounts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MariaConfig holds MariaDB connection settings for the account directory.
type MariaConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// MariaRepository implements Repository on MariaDB.
type MariaRepository struct {
	db *sql.DB
}

// NewMariaRepository connects to cfg and ensures the profiles table exists.
func NewMariaRepository(ctx context.Context, cfg MariaConfig) (*MariaRepository, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 3306
	}
	if cfg.Database == "" {
		cfg.Database = "chaos_core"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("accounts: open maria connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("accounts: ping maria: %w", err)
	}

	repo := &MariaRepository{db: db}
	if err := repo.createTable(ctx); err != nil {
		return nil, fmt.Errorf("accounts: create table: %w", err)
	}
	return repo, nil
}

func (m *MariaRepository) createTable(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS player_profiles (
		player_id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`
	_, err := m.db.ExecContext(ctx, ddl)
	return err
}

func (m *MariaRepository) GetByName(ctx context.Context, name string) (*Profile, error) {
	const q = `SELECT player_id, name, created_at, last_seen FROM player_profiles WHERE name = ?`
	var p Profile
	err := m.db.QueryRowContext(ctx, q, strings.ToLower(name)).Scan(&p.PlayerID, &p.Name, &p.CreatedAt, &p.LastSeen)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("accounts: get by name: %w", err)
	}
	return &p, nil
}

func (m *MariaRepository) GetByPlayerID(ctx context.Context, playerID string) (*Profile, error) {
	const q = `SELECT player_id, name, created_at, last_seen FROM player_profiles WHERE player_id = ?`
	var p Profile
	err := m.db.QueryRowContext(ctx, q, playerID).Scan(&p.PlayerID, &p.Name, &p.CreatedAt, &p.LastSeen)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("accounts: get by player id: %w", err)
	}
	return &p, nil
}

func (m *MariaRepository) CreateOrTouch(ctx context.Context, name string, newPlayerID string) (*Profile, error) {
	existing, err := m.GetByName(ctx, name)
	if err == nil {
		const touch = `UPDATE player_profiles SET last_seen = CURRENT_TIMESTAMP WHERE player_id = ?`
		if _, err := m.db.ExecContext(ctx, touch, existing.PlayerID); err != nil {
			return nil, fmt.Errorf("accounts: touch last_seen: %w", err)
		}
		existing.LastSeen = time.Now()
		return existing, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	now := time.Now()
	const insert = `INSERT INTO player_profiles (player_id, name, created_at, last_seen) VALUES (?, ?, ?, ?)`
	if _, err := m.db.ExecContext(ctx, insert, newPlayerID, strings.ToLower(name), now, now); err != nil {
		return nil, fmt.Errorf("accounts: insert profile: %w", err)
	}
	return &Profile{PlayerID: newPlayerID, Name: name, CreatedAt: now, LastSeen: now}, nil
}

func (m *MariaRepository) Close() error { return m.db.Close() }
