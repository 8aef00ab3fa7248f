package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/gridbridge/profilegw/pkg/models"
)

// SQLite implements contracts.UserDirectory on a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// Connection pragmas go in the DSN so every pooled connection gets them.
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// OpenSQLite opens (creating if needed) the database at path. Call Init
// before use.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+path+sqlitePragmas)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

// Close releases database resources.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init creates the schema.
func (s *SQLite) Init(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("nil directory")
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS local_users (
			user_id    TEXT PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			last_name  TEXT NOT NULL DEFAULT '',
			title      TEXT NOT NULL DEFAULT '',
			flags      INTEGER NOT NULL DEFAULT 0,
			created    INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS foreign_servers (
			user_id     TEXT NOT NULL,
			server_type TEXT NOT NULL,
			url         TEXT NOT NULL,
			PRIMARY KEY (user_id, server_type)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init directory: %w", err)
		}
	}
	return nil
}

// AddLocalUser upserts a local account and forgets any foreign record.
func (s *SQLite) AddLocalUser(ctx context.Context, account *models.UserAccount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := account.UserID.String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO local_users(user_id, first_name, last_name, title, flags, created)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			title      = excluded.title,
			flags      = excluded.flags,
			created    = excluded.created;
	`, id, account.FirstName, account.LastName, account.Title, account.Flags, account.Created.Unix()); err != nil {
		return fmt.Errorf("add local user: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM foreign_servers WHERE user_id = ?;`, id); err != nil {
		return fmt.Errorf("add local user: %w", err)
	}
	return tx.Commit()
}

// AddForeignUser upserts advertised server URLs for a foreign user.
func (s *SQLite) AddForeignUser(ctx context.Context, userID uuid.UUID, serverURLs map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := userID.String()
	if _, err := tx.ExecContext(ctx, `DELETE FROM local_users WHERE user_id = ?;`, id); err != nil {
		return fmt.Errorf("add foreign user: %w", err)
	}
	for serverType, url := range serverURLs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO foreign_servers(user_id, server_type, url) VALUES (?, ?, ?)
			ON CONFLICT(user_id, server_type) DO UPDATE SET url = excluded.url;
		`, id, serverType, url); err != nil {
			return fmt.Errorf("add foreign user: %w", err)
		}
	}
	return tx.Commit()
}

// IsLocalUser reports whether userID has a local account. Query failures are
// logged and treated as "not local".
func (s *SQLite) IsLocalUser(ctx context.Context, userID uuid.UUID) bool {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM local_users WHERE user_id = ?;`, userID.String()).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Warn().Err(err).Str("user", userID.String()).Msg("Directory lookup failed")
	}
	return err == nil
}

// UserServerURL returns the advertised URL, "" when unknown.
func (s *SQLite) UserServerURL(ctx context.Context, userID uuid.UUID, serverType string) string {
	var url string
	err := s.db.QueryRowContext(ctx,
		`SELECT url FROM foreign_servers WHERE user_id = ? AND server_type = ?;`,
		userID.String(), serverType).Scan(&url)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Str("user", userID.String()).Str("server", serverType).Msg("Directory lookup failed")
		}
		return ""
	}
	return url
}

// Account returns the local account for userID.
func (s *SQLite) Account(ctx context.Context, userID uuid.UUID) (*models.UserAccount, error) {
	a := &models.UserAccount{UserID: userID}
	var created int64
	err := s.db.QueryRowContext(ctx, `
		SELECT first_name, last_name, title, flags, created
		FROM local_users WHERE user_id = ?;
	`, userID.String()).Scan(&a.FirstName, &a.LastName, &a.Title, &a.Flags, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("account", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	a.Created = time.Unix(created, 0).UTC()
	return a, nil
}
