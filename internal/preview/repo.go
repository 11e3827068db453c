package preview

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"genhub/pkg/models"
)

// Session is an anonymous scratch tree. It lives in a single row as
// JSON blobs and disappears after the expiry window.
type Session struct {
	Token     string              `json:"session_token"`
	Persons   []models.Person     `json:"persons"`
	Links     []models.FamilyLink `json:"links"`
	CreatedAt time.Time           `json:"created_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, token string, ttl time.Duration) (*Session, error) {
	now := time.Now().UTC()
	s := &Session{
		Token:     token,
		Persons:   []models.Person{},
		Links:     []models.FamilyLink{},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := r.write(ctx, s, true); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repo) Get(ctx context.Context, token string) (*Session, error) {
	var (
		s           Session
		personsJSON string
		linksJSON   string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT token, persons_json, links_json, created_at, expires_at
		FROM preview_sessions
		WHERE token = ?
	`, token).Scan(&s.Token, &personsJSON, &linksJSON, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preview session: %w", err)
	}

	if err := json.Unmarshal([]byte(personsJSON), &s.Persons); err != nil {
		return nil, fmt.Errorf("decode preview persons: %w", err)
	}
	if err := json.Unmarshal([]byte(linksJSON), &s.Links); err != nil {
		return nil, fmt.Errorf("decode preview links: %w", err)
	}
	if s.Persons == nil {
		s.Persons = []models.Person{}
	}
	if s.Links == nil {
		s.Links = []models.FamilyLink{}
	}
	return &s, nil
}

func (r *Repo) Save(ctx context.Context, s *Session) error {
	return r.write(ctx, s, false)
}

func (r *Repo) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM preview_sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete preview session: %w", err)
	}
	return nil
}

func (r *Repo) write(ctx context.Context, s *Session, insert bool) error {
	personsJSON, err := json.Marshal(s.Persons)
	if err != nil {
		return fmt.Errorf("encode preview persons: %w", err)
	}
	linksJSON, err := json.Marshal(s.Links)
	if err != nil {
		return fmt.Errorf("encode preview links: %w", err)
	}

	if insert {
		_, err = r.DB.ExecContext(ctx, `
			INSERT INTO preview_sessions (token, persons_json, links_json, created_at, expires_at)
			VALUES (?, ?, ?, ?, ?)
		`, s.Token, string(personsJSON), string(linksJSON), s.CreatedAt, s.ExpiresAt)
	} else {
		_, err = r.DB.ExecContext(ctx, `
			UPDATE preview_sessions SET persons_json = ?, links_json = ?
			WHERE token = ?
		`, string(personsJSON), string(linksJSON), s.Token)
	}
	if err != nil {
		return fmt.Errorf("write preview session: %w", err)
	}
	return nil
}
