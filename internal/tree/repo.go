package tree

import (
	"context"
	"database/sql"
	"fmt"

	"genhub/pkg/models"
)

// Repo reads and writes whole trees. It is also the store the merge
// planner executes against.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const personColumns = `id, user_id, first_name, last_name, gender,
	COALESCE(birth_date, ''), COALESCE(birth_place, ''),
	COALESCE(death_date, ''), COALESCE(death_place, ''),
	COALESCE(photo, ''), COALESCE(notes, ''), COALESCE(region, ''),
	COALESCE(merged_from, ''), created_at`

func (r *Repo) PersonsByOwner(ctx context.Context, ownerID string) ([]models.Person, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+personColumns+`
		FROM persons
		WHERE user_id = ?
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var out []models.Person
	for rows.Next() {
		p, err := ScanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) LinksByOwner(ctx context.Context, ownerID string) ([]models.FamilyLink, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, person_id_1, person_id_2, link_type, created_at
		FROM family_links
		WHERE user_id = ?
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var out []models.FamilyLink
	for rows.Next() {
		var l models.FamilyLink
		if err := rows.Scan(&l.ID, &l.UserID, &l.PersonID1, &l.PersonID2, &l.LinkType, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) InsertPerson(ctx context.Context, p models.Person) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO persons (id, user_id, first_name, last_name, gender,
			birth_date, birth_place, death_date, death_place, photo, notes, region, merged_from)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.FirstName, p.LastName, p.Gender,
		nullable(p.BirthDate), nullable(p.BirthPlace), nullable(p.DeathDate), nullable(p.DeathPlace),
		nullable(p.Photo), nullable(p.Notes), nullable(p.Region), nullable(p.MergedFrom))
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *Repo) InsertLink(ctx context.Context, l models.FamilyLink) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO family_links (id, user_id, person_id_1, person_id_2, link_type)
		VALUES (?, ?, ?, ?, ?)
	`, l.ID, l.UserID, l.PersonID1, l.PersonID2, l.LinkType)
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

// DeleteAllForOwner removes every person and link in an owner's tree.
// Used by GDPR account erasure.
func (r *Repo) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tree: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM family_links WHERE user_id = ?`, ownerID); err != nil {
		return fmt.Errorf("delete links: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM persons WHERE user_id = ?`, ownerID); err != nil {
		return fmt.Errorf("delete persons: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM tree_shares WHERE owner_id = ? OR grantee_id = ?`, ownerID, ownerID); err != nil {
		return fmt.Errorf("delete shares: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tree: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanPerson reads one person row selected with personColumns order.
func ScanPerson(row rowScanner) (models.Person, error) {
	var p models.Person
	if err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Gender,
		&p.BirthDate, &p.BirthPlace, &p.DeathDate, &p.DeathPlace,
		&p.Photo, &p.Notes, &p.Region, &p.MergedFrom, &p.CreatedAt); err != nil {
		return models.Person{}, fmt.Errorf("scan person: %w", err)
	}
	return p, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
