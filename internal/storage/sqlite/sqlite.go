// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveUser persists a new user.
func (s *SQLiteStore) SaveUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, display_name, avatar_url, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.DisplayName, user.AvatarURL, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// SaveGroup persists a new group and its member list.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
		group.ID, group.Name, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, userID := range group.MemberIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)",
			group.ID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load reads back all users, groups, expenses and settlements. Expenses and
// settlements are returned newest first.
func (s *SQLiteStore) Load(ctx context.Context) (*storage.Contents, error) {
	contents := &storage.Contents{}

	var err error
	if contents.Users, err = s.loadUsers(ctx); err != nil {
		return nil, err
	}
	if contents.Groups, err = s.loadGroups(ctx); err != nil {
		return nil, err
	}
	if contents.Expenses, err = s.loadExpenses(ctx); err != nil {
		return nil, err
	}
	if contents.Settlements, err = s.loadSettlements(ctx); err != nil {
		return nil, err
	}
	return contents, nil
}

func (s *SQLiteStore) loadUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, display_name, avatar_url, created_at FROM users ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) loadGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM groups ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for i := range groups {
		memberRows, err := s.db.QueryContext(ctx,
			"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position",
			groups[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load group members: %w", err)
		}
		for memberRows.Next() {
			var userID string
			if err := memberRows.Scan(&userID); err != nil {
				memberRows.Close()
				return nil, fmt.Errorf("failed to scan group member: %w", err)
			}
			groups[i].MemberIDs = append(groups[i].MemberIDs, userID)
		}
		if err := memberRows.Err(); err != nil {
			memberRows.Close()
			return nil, fmt.Errorf("failed to iterate group members: %w", err)
		}
		memberRows.Close()
	}
	return groups, nil
}
