package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const selectMember = `SELECT id, username, nickname, password, api_key, profile_img_url, created_at, modified_at
		FROM member`

// PostgresStore persists members in a PostgreSQL "member" table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresStore returns a store backed by db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// OpenPostgres opens and pings a database handle for the lib/pq driver.
func OpenPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// FindByAPIKey implements Store.
func (s *PostgresStore) FindByAPIKey(ctx context.Context, apiKey string) (*Member, error) {
	return s.queryOne(ctx, selectMember+`
		WHERE api_key = $1`, apiKey)
}

// FindByUsername implements Store.
func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*Member, error) {
	return s.queryOne(ctx, selectMember+`
		WHERE username = $1`, username)
}

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, m *Member) error {
	now := s.now()

	err := s.db.QueryRowContext(ctx, `INSERT INTO member (username, nickname, password, api_key, profile_img_url, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`,
		m.Username, m.Nickname, m.Password, m.APIKey, m.ProfileImageURL, now,
	).Scan(&m.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	m.CreatedAt = now
	m.ModifiedAt = now
	return nil
}

// Update implements Store.
func (s *PostgresStore) Update(ctx context.Context, m *Member) error {
	now := s.now()

	res, err := s.db.ExecContext(ctx, `UPDATE member
		SET nickname = $1, profile_img_url = $2, modified_at = $3
		WHERE id = $4`,
		m.Nickname, m.ProfileImageURL, now, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	m.ModifiedAt = now
	return nil
}

func (s *PostgresStore) queryOne(ctx context.Context, query string, arg any) (*Member, error) {
	var m Member
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&m.ID, &m.Username, &m.Nickname, &m.Password, &m.APIKey,
		&m.ProfileImageURL, &m.CreatedAt, &m.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query member: %w", err)
	}
	return &m, nil
}
