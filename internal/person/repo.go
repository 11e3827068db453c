package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"genhub/internal/tree"
	"genhub/pkg/models"
)

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

func (r *Repo) Insert(ctx context.Context, p models.Person) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO persons (id, user_id, first_name, last_name, gender,
			birth_date, birth_place, death_date, death_place, photo, notes, region, merged_from)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.FirstName, p.LastName, p.Gender,
		null(p.BirthDate), null(p.BirthPlace), null(p.DeathDate), null(p.DeathPlace),
		null(p.Photo), null(p.Notes), null(p.Region), null(p.MergedFrom))
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, ownerID, id string) (*models.Person, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+personColumns+`
		FROM persons
		WHERE id = ? AND user_id = ?
	`, id, ownerID)

	p, err := tree.ScanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context, ownerID string) ([]models.Person, error) {
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
		p, err := tree.ScanPerson(rows)
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

func (r *Repo) Update(ctx context.Context, p models.Person) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE persons
		SET first_name = ?, last_name = ?, gender = ?,
			birth_date = ?, birth_place = ?, death_date = ?, death_place = ?,
			photo = ?, notes = ?, region = ?
		WHERE id = ? AND user_id = ?
	`, p.FirstName, p.LastName, p.Gender,
		null(p.BirthDate), null(p.BirthPlace), null(p.DeathDate), null(p.DeathPlace),
		null(p.Photo), null(p.Notes), null(p.Region),
		p.ID, p.UserID)
	if err != nil {
		return false, fmt.Errorf("update person: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes a person and every link touching it, in one
// transaction, so the tree never holds links to a deleted person.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete person: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM persons WHERE id = ? AND user_id = ?
	`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		_ = tx.Rollback()
		return false, nil
	}

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM family_links
		WHERE user_id = ? AND (person_id_1 = ? OR person_id_2 = ?)
	`, ownerID, id, id); err != nil {
		return false, fmt.Errorf("delete person links: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete person: %w", err)
	}
	return true, nil
}

func null(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
